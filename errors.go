package lattice

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeRegistrationAlreadyExists
	ErrCodeRegistrationNotFound
	ErrCodeAmbiguousRegistration
	ErrCodeCircularDependency
	ErrCodeActivation
	ErrCodeInvalidRegistration
	ErrCodeInvalidOperation
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:                   "UNKNOWN",
	ErrCodeRegistrationAlreadyExists: "REGISTRATION_ALREADY_EXISTS",
	ErrCodeRegistrationNotFound:      "REGISTRATION_NOT_FOUND",
	ErrCodeAmbiguousRegistration:     "AMBIGUOUS_REGISTRATION",
	ErrCodeCircularDependency:        "CIRCULAR_DEPENDENCY",
	ErrCodeActivation:                "ACTIVATION_FAILED",
	ErrCodeInvalidRegistration:       "INVALID_REGISTRATION",
	ErrCodeInvalidOperation:          "INVALID_OPERATION",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Sentinels for errors.Is. Matching compares codes only, through any amount
// of wrapping.
var (
	ErrRegistrationAlreadyExists = &Error{Code: ErrCodeRegistrationAlreadyExists}
	ErrRegistrationNotFound      = &Error{Code: ErrCodeRegistrationNotFound}
	ErrAmbiguousRegistration     = &Error{Code: ErrCodeAmbiguousRegistration}
	ErrCircularDependency        = &Error{Code: ErrCodeCircularDependency}
	ErrActivation                = &Error{Code: ErrCodeActivation}
	ErrInvalidRegistration       = &Error{Code: ErrCodeInvalidRegistration}
	ErrInvalidOperation          = &Error{Code: ErrCodeInvalidOperation}
)

type Error struct {
	Code    ErrorCode
	Message string
	Service string
	Name    string
	Cause   error
	Stack   []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Service != "" {
		b.WriteString(fmt.Sprintf(" service=%q", e.Service))
	}
	if e.Name != "" {
		b.WriteString(fmt.Sprintf(" name=%q", e.Name))
	}
	if e.Service != "" || e.Name != "" {
		b.WriteString(":")
	}

	if e.Message != "" {
		b.WriteString(" ")
		b.WriteString(e.Message)
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithService(service string) *Error {
	e.Service = service
	return e
}

func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

func (e *Error) WithStack(stack []string) *Error {
	e.Stack = stack
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errRegistrationAlreadyExists(key Key) *Error {
	return newError(
		ErrCodeRegistrationAlreadyExists,
		fmt.Sprintf("registration for contract %s and name %q already exists", typeName(key.Contract), key.Name),
		nil,
	).WithService(typeName(key.Contract)).WithName(key.Name)
}

func errRegistrationNotFound(contract, name string) *Error {
	msg := "no registration for contract " + contract
	if name != "" {
		msg += fmt.Sprintf(" with name %q", name)
	}
	return newError(ErrCodeRegistrationNotFound, msg, nil).WithService(contract).WithName(name)
}

func errAmbiguousRegistration(contract string) *Error {
	return newError(
		ErrCodeAmbiguousRegistration,
		"several registrations match contract "+contract+"; resolve it by name",
		nil,
	).WithService(contract)
}

func errCircularDependency(chain []string) *Error {
	return newError(
		ErrCodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		nil,
	).WithStack(chain)
}

func errActivation(service, message string, cause error) *Error {
	return newError(ErrCodeActivation, message, cause).WithService(service)
}

func errInvalidRegistration(service, message string) *Error {
	return newError(ErrCodeInvalidRegistration, message, nil).WithService(service)
}

func errInvalidOperation(message string) *Error {
	return newError(ErrCodeInvalidOperation, message, nil)
}

func IsRegistrationAlreadyExists(err error) bool {
	return errors.Is(err, ErrRegistrationAlreadyExists)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrRegistrationNotFound)
}

func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguousRegistration)
}

func IsCircularDependency(err error) bool {
	return errors.Is(err, ErrCircularDependency)
}

func IsActivation(err error) bool {
	return errors.Is(err, ErrActivation)
}

func IsInvalidRegistration(err error) bool {
	return errors.Is(err, ErrInvalidRegistration)
}

func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}
