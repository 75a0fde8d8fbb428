package httperr

import (
	"errors"
	"fmt"
)

// ===============================
// Kinds
// ===============================

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "not_found"
)

// BusinessError is an expected outcome of a business rule. Callers fix the
// input (validation), retry with fresh data (conflict) or give up.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// ErrBusiness keeps the short form used for plain rule violations.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func Validation(code, format string, args ...any) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func ValidationField(code, field, message string) error {
	return BusinessError{
		Kind:    KindValidation,
		Code:    code,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

func Conflict(code, format string, args ...any) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Permission(code, format string, args ...any) error {
	return BusinessError{Kind: KindPermission, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(code, format string, args ...any) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf reports the business kind of err, false for infrastructure errors.
func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
