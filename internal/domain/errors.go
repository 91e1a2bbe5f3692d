package domain

import (
	"errors"
	"fmt"
)

// ErrValidation agrupa los errores locales que nunca llegan a la red.
var ErrValidation = errors.New("validation error")

var (
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrCodeTooLong      = fmt.Errorf("%w: code longer than 6 characters", ErrValidation)
	ErrChallengeExpired = fmt.Errorf("%w: verification code expired", ErrValidation)
	ErrPromptClosed     = fmt.Errorf("%w: verification prompt is not open", ErrValidation)
)
