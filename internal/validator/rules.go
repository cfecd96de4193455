package validator

import (
	"strings"
	"unicode/utf8"
)

// NotBlank returns true if a string is not empty or contains only whitespace.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MinRunes returns true if a string is greater than or equal to a minimum number of n
func MinRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

// MaxRunes returns true if a string is less than or equal to a maximum number of n
func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// NoDuplicates returns true if all the values in a slice are unique.
func NoDuplicates[T comparable](values []T) bool {
	uniqueValues := make(map[T]bool)

	for _, value := range values {
		uniqueValues[value] = true
	}

	return len(values) == len(uniqueValues)
}
