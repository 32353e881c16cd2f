// Package foundation holds small generic helpers shared by configuration code.
package foundation

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Validator checks one aspect of a value.
type Validator[T any] func(T) ValidationResult

// ValidationResult collects field failures. The zero value is valid.
type ValidationResult struct {
	Errors []FieldError
}

// Valid reports whether no field failed.
func (vr ValidationResult) Valid() bool { return len(vr.Errors) == 0 }

// FieldError is a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (fe FieldError) Error() string {
	if fe.Field != "" {
		return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return fe.Message
}

// Invalid creates a failed result.
func Invalid(field, code, message string) ValidationResult {
	return ValidationResult{Errors: []FieldError{{Field: field, Code: code, Message: message}}}
}

// Combine merges two results, keeping the order of failures.
func (vr ValidationResult) Combine(other ValidationResult) ValidationResult {
	if other.Valid() {
		return vr
	}
	out := make([]FieldError, 0, len(vr.Errors)+len(other.Errors))
	out = append(out, vr.Errors...)
	out = append(out, other.Errors...)
	return ValidationResult{Errors: out}
}

// ToError converts an invalid result into a config error listing every
// failure. The first failing field is recorded under the "field" key.
func (vr ValidationResult) ToError() error {
	if vr.Valid() {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, fe := range vr.Errors {
		messages = append(messages, fe.Error())
	}
	return errors.ConfigError(strings.Join(messages, "; ")).
		WithContext("field", vr.Errors[0].Field).
		WithContext("failures", len(vr.Errors)).
		Build()
}

// ValidatorChain runs validators in order and reports all failures.
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add appends a validator to the chain.
func (vc *ValidatorChain[T]) Add(v Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, v)
	return vc
}

func (vc *ValidatorChain[T]) Validate(value T) ValidationResult {
	var result ValidationResult
	for _, v := range vc.validators {
		result = result.Combine(v(value))
	}
	return result
}

// Check adapts a predicate on T into a Validator that fails with message.
func Check[T any](field, code, message string, ok func(T) bool) Validator[T] {
	return func(value T) ValidationResult {
		if ok(value) {
			return ValidationResult{}
		}
		return Invalid(field, code, message)
	}
}

// OneOf validates that the value selected by get is in allowed.
func OneOf[T any, V comparable](field string, get func(T) V, allowed ...V) Validator[T] {
	set := make(map[V]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(value T) ValidationResult {
		if _, ok := set[get(value)]; ok {
			return ValidationResult{}
		}
		return Invalid(field, "one_of", fmt.Sprintf("must be one of %v", allowed))
	}
}
