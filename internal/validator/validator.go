package validator

// Validator collects named validation failures.
type Validator struct {
	Errors map[string]string
}

// New creates an empty validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if no errors have been recorded.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records an error message for a key, keeping the first message
// recorded per key.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check records an error message for a key when ok is false.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}
