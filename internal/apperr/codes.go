package apperr

type Code string

const (
	CodeUnknown         Code = "UNKNOWN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeNotAuthorized   Code = "NOT_AUTHORIZED"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeNameUnavailable Code = "NAME_UNAVAILABLE"
	CodeBanned          Code = "BANNED"
	CodeNotSubscribed   Code = "NOT_SUBSCRIBED"
	CodeTransient       Code = "TRANSIENT"
	CodeInvalidResponse Code = "INVALID_RESPONSE"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInternal        Code = "INTERNAL"
)
