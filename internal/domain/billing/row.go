package billing

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency    = "EUR"
	DefaultInterval    = "1 year"
	DefaultDescription = "Yearly membership"
)

var rowValidator = validator.New()

type rowFields struct {
	Email            string `validate:"required,email"`
	GivenName        string `validate:"required"`
	FamilyName       string `validate:"required"`
	IBAN             string `validate:"required,iban"`
	MandateReference string `validate:"required"`
}

// ImportRow is one validated record from the export file. Immutable once
// constructed; a row that fails validation never reaches the payment API.
type ImportRow struct {
	Email             string
	GivenName         string
	FamilyName        string
	IBAN              string
	MandateReference  string
	CustomerReference string
	SignatureDate     time.Time
	Amount            decimal.Decimal
	Currency          string
	Interval          string
	Description       string
}

func NewImportRow(email, givenName, familyName, iban, mandateReference string, signatureDate time.Time, amount decimal.Decimal) (ImportRow, error) {
	fields := rowFields{
		Email:            email,
		GivenName:        givenName,
		FamilyName:       familyName,
		IBAN:             iban,
		MandateReference: mandateReference,
	}
	if err := rowValidator.Struct(fields); err != nil {
		return ImportRow{}, classifyFieldError(err)
	}

	if signatureDate.IsZero() {
		return ImportRow{}, ErrMissingSignatureDate
	}
	if !amount.IsPositive() {
		return ImportRow{}, ErrInvalidAmount
	}

	return ImportRow{
		Email:            email,
		GivenName:        givenName,
		FamilyName:       familyName,
		IBAN:             iban,
		MandateReference: mandateReference,
		SignatureDate:    DateOnly(signatureDate),
		Amount:           amount,
		Currency:         DefaultCurrency,
		Interval:         DefaultInterval,
		Description:      DefaultDescription,
	}, nil
}

// WithCurrency returns a copy of the row with the currency overridden.
// Blank values keep the EUR default.
func (r ImportRow) WithCurrency(currency string) ImportRow {
	if c := strings.TrimSpace(currency); c != "" {
		r.Currency = strings.ToUpper(c)
	}
	return r
}

// WithInterval returns a copy of the row with the billing interval
// overridden. Blank values keep the "1 year" default.
func (r ImportRow) WithInterval(interval string) ImportRow {
	if i := strings.TrimSpace(interval); i != "" {
		r.Interval = i
	}
	return r
}

// WithDescription returns a copy of the row with the subscription
// description overridden.
func (r ImportRow) WithDescription(description string) ImportRow {
	if d := strings.TrimSpace(description); d != "" {
		r.Description = d
	}
	return r
}

// WithCustomerReference returns a copy of the row carrying the upstream
// customer reference, forwarded as provider metadata.
func (r ImportRow) WithCustomerReference(reference string) ImportRow {
	r.CustomerReference = strings.TrimSpace(reference)
	return r
}

// FullName joins the given and family name the way the mandate payload
// expects the account holder to appear.
func (r ImportRow) FullName() string {
	if r.GivenName == "" {
		return r.FamilyName
	}
	if r.FamilyName == "" {
		return r.GivenName
	}
	return r.GivenName + " " + r.FamilyName
}

// AmountValue renders the amount with exactly two decimal places, the
// canonical form used both in the subscription payload and in its
// idempotency key.
func (r ImportRow) AmountValue() string {
	return r.Amount.StringFixed(2)
}

func classifyFieldError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	first := fieldErrs[0]
	switch first.Field() {
	case "Email":
		return ErrInvalidEmail
	case "IBAN":
		return ErrInvalidIBAN
	case "MandateReference":
		return ErrInvalidMandateReference
	default:
		return ErrMissingField
	}
}
