// Package apperr carries the structured error taxonomy shared by every
// component. Business-rule violations are ordinary return values here,
// never panics: the application layer renders them as user feedback.
package apperr

import "fmt"

type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// CodeOf extracts the taxonomy code from any error chain, CodeUnknown
// when the error did not originate here.
func CodeOf(err error) Code {
	var ae *AppError
	for err != nil {
		if a, ok := err.(*AppError); ok {
			ae = a
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if ae == nil {
		return CodeUnknown
	}
	return ae.Code
}

// Constructors
func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func NotAuthorized(msg string) error {
	return New(CodeNotAuthorized, msg)
}

func AlreadyExists(msg string) error {
	return New(CodeAlreadyExists, msg)
}

func NameUnavailable(msg string) error {
	return New(CodeNameUnavailable, msg)
}

func Banned(msg string) error {
	return New(CodeBanned, msg)
}

func NotSubscribed(msg string) error {
	return New(CodeNotSubscribed, msg)
}

func Transient(msg string, cause error) error {
	return Wrap(CodeTransient, msg, cause)
}

func InvalidResponse(msg string) error {
	return New(CodeInvalidResponse, msg)
}

func InvalidArg(msg string) error {
	return New(CodeInvalidArgument, msg)
}

func Internal(msg string) error {
	return New(CodeInternal, msg)
}
