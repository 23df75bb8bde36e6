package billing

import "errors"

var (
	ErrInvalidEmail            = errors.New("invalid email")
	ErrInvalidIBAN             = errors.New("invalid iban")
	ErrMissingField            = errors.New("missing required field")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrMissingSignatureDate    = errors.New("missing mandate signature date")
	ErrInvalidMandateReference = errors.New("missing mandate reference")
)
