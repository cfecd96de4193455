package nexus

import (
	"fmt"
	"os"
	"reflect"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigError wraps configuration loading failures with a stable code.
type ConfigError struct {
	Code    string
	Message string
	Cause   error
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

const (
	ErrCodeInvalidType  = "CONFIG_INVALID_TYPE"
	ErrCodeFileNotFound = "CONFIG_FILE_NOT_FOUND"
	ErrCodeValidation   = "CONFIG_VALIDATION_FAILED"
	ErrCodeEnvironment  = "CONFIG_ENV_READ_FAILED"
	ErrCodeMerge        = "CONFIG_MERGE_FAILED"
)

// Loader reads configuration from environment variables, optionally merged
// with a file, and validates the result.
type Loader struct {
	fileName        string
	onlyEnvironment bool
	validate        *validator.Validate
}

// LoaderOption is a functional option for configuring the loader
type LoaderOption func(*Loader)

// WithFileName sets a specific configuration file name
func WithFileName(fileName string) LoaderOption {
	return func(l *Loader) {
		l.fileName = fileName
	}
}

// WithOnlyEnvironment configures the loader to only read from environment
func WithOnlyEnvironment() LoaderOption {
	return func(l *Loader) {
		l.onlyEnvironment = true
		l.fileName = ""
	}
}

// NewLoader creates a new configuration loader with options
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fileName: ".env",
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load populates cfg from the configured sources. Environment variables take
// precedence over file values.
func (l *Loader) Load(cfg interface{}) error {
	if reflect.ValueOf(cfg).Kind() != reflect.Ptr {
		return &ConfigError{
			Code:    ErrCodeInvalidType,
			Message: fmt.Sprintf("configuration must be a pointer to struct, got %T", cfg),
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return &ConfigError{
			Code:    ErrCodeEnvironment,
			Message: "failed to read environment variables",
			Cause:   err,
		}
	}

	if !l.onlyEnvironment && l.fileExists() {
		if err := l.mergeFile(cfg); err != nil {
			return err
		}
	}

	if err := l.validate.Struct(cfg); err != nil {
		return &ConfigError{
			Code:    ErrCodeValidation,
			Message: "configuration validation failed",
			Cause:   err,
		}
	}

	return nil
}

func (l *Loader) mergeFile(cfg interface{}) error {
	fileCfg := reflect.New(reflect.ValueOf(cfg).Elem().Type()).Interface()

	if err := cleanenv.ReadConfig(l.fileName, fileCfg); err != nil {
		return &ConfigError{
			Code:    ErrCodeFileNotFound,
			Message: fmt.Sprintf("failed to read configuration file: %s", l.fileName),
			Cause:   err,
		}
	}

	if err := mergo.MergeWithOverwrite(cfg, fileCfg); err != nil {
		return &ConfigError{
			Code:    ErrCodeMerge,
			Message: "failed to merge configuration sources",
			Cause:   err,
		}
	}

	return nil
}

func (l *Loader) fileExists() bool {
	if l.fileName == "" {
		return false
	}
	_, err := os.Stat(l.fileName)
	return err == nil
}
