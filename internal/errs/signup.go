package errs

// SignupCode is the value of the `error` query parameter on a failed
// subscribe redirect.
type SignupCode string

const (
	// CodeRecaptchaFailed: the challenge provider rejected the token or
	// could not be reached.
	CodeRecaptchaFailed SignupCode = "recaptcha-failed"

	// CodeInvalidEmail: the normalized address has no "@".
	CodeInvalidEmail SignupCode = "invalid-email"

	// CodeUnknown: a registration call (welcome message or list upsert) failed.
	CodeUnknown SignupCode = "unknown"
)

// SignupError is the single failure outcome of a subscribe submission.
//
// Code is user-visible. The wrapped cause is for logs only.
type SignupError struct {
	Code  SignupCode
	cause error
}

func (e *SignupError) Error() string {
	if e.cause == nil {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.cause.Error()
}

func (e *SignupError) Unwrap() error {
	return e.cause
}

// Is matches another *SignupError with the same Code, so
// errors.Is(err, errs.ErrInvalidEmail) works on wrapped outcomes.
func (e *SignupError) Is(target error) bool {
	t, ok := target.(*SignupError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrRecaptchaFailed = &SignupError{Code: CodeRecaptchaFailed}
	ErrInvalidEmail    = &SignupError{Code: CodeInvalidEmail}
	ErrUnknown         = &SignupError{Code: CodeUnknown}
)

// NewRecaptchaFailedError wraps cause, which may be nil when the provider
// answered but reported failure.
func NewRecaptchaFailedError(cause error) *SignupError {
	return &SignupError{Code: CodeRecaptchaFailed, cause: cause}
}

func NewInvalidEmailError() *SignupError {
	return &SignupError{Code: CodeInvalidEmail}
}

func NewUnknownError(cause error) *SignupError {
	return &SignupError{Code: CodeUnknown, cause: cause}
}
