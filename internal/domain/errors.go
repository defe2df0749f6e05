package domain

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrAnswerNotFound = errors.New("answer not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrGenerator      = errors.New("answer generator failure")
	ErrUpstreamLLM    = errors.New("upstream LLM failure")
	ErrInvalidLLMJSON = errors.New("LLM returned invalid JSON after retry")
)

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is reports ErrValidation so callers can match any validation failure.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
