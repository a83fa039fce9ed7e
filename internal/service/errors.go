package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus отклоняет статус вне набора {1,2,3,4}
	ErrInvalidStatus = errors.New("invalid draft status")

	// ErrAgreementsRequired блокирует отправку без подтверждения соглашений
	ErrAgreementsRequired = errors.New("agreements incomplete")

	// ErrSubmitInFlight защищает от двойной отправки одной сессии
	ErrSubmitInFlight = errors.New("submission already in flight")
)

// ValidationError names the first draft field that failed the pre-submit check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// IsValidation reports whether err is a local validation failure that never
// reached the network layer.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrAgreementsRequired) ||
		errors.Is(err, ErrInvalidStatus)
}
