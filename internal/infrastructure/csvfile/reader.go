package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/mohammadpnp/mollie-import/internal/domain/billing"
)

// Logical column names the importer needs. The export may use either these
// or the Dutch headers of the membership system it came from.
const (
	colEmail             = "email"
	colGivenName         = "given_name"
	colFamilyName        = "family_name"
	colIBAN              = "iban"
	colMandateReference  = "mandate_reference"
	colSignatureDate     = "mandate_signature_date"
	colAmount            = "amount"
	colCurrency          = "currency"
	colInterval          = "interval"
	colDescription       = "description"
	colCustomerReference = "customer_reference"
)

var requiredColumns = []string{
	colEmail, colGivenName, colFamilyName, colIBAN,
	colMandateReference, colSignatureDate, colAmount,
}

// headerAliases maps lowercased export headers to logical column names.
var headerAliases = map[string]string{
	"email":               colEmail,
	"e-mail":              colEmail,
	"given_name":          colGivenName,
	"voor naam":           colGivenName,
	"voornaam":            colGivenName,
	"family_name":         colFamilyName,
	"naam":                colFamilyName,
	"achternaam":          colFamilyName,
	"iban":                colIBAN,
	"mandate_reference":   colMandateReference,
	"machtigingsid":       colMandateReference,
	"mandate_signature_date": colSignatureDate,
	"datum ondertekening": colSignatureDate,
	"amount":              colAmount,
	"bedrag":              colAmount,
	"currency":            colCurrency,
	"valuta":              colCurrency,
	"interval":            colInterval,
	"description":         colDescription,
	"omschrijving":        colDescription,
	"customer_reference":  colCustomerReference,
	"lidnummer":           colCustomerReference,
}

var dateLayouts = []string{"2006-01-02", "02-01-2006"}

// Reader parses an export CSV into validated row records. Rows that fail
// validation are returned as pre-failed records, never dropped, so the
// results file stays positionally aligned with the input.
type Reader struct {
	source *LocalSource
}

func NewReader(source *LocalSource) *Reader {
	return &Reader{source: source}
}

func (r *Reader) Read(ctx context.Context, sourcePath string) ([]domain.RowRecord, error) {
	file, err := r.source.Open(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads the full CSV stream. The delimiter is sniffed from the header
// line: Dutch exports use semicolons, plain exports commas.
func Parse(input io.Reader) ([]domain.RowRecord, error) {
	buffered := bufio.NewReader(input)
	delimiter, err := sniffDelimiter(buffered)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(buffered)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var records []domain.RowRecord
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			records = append(records, domain.RowRecord{
				Line: line,
				Err:  fmt.Sprintf("malformed csv record: %v", err),
			})
			continue
		}

		records = append(records, buildRecord(line, columns, fields))
	}

	return records, nil
}

func sniffDelimiter(buffered *bufio.Reader) (rune, error) {
	headerLine, err := buffered.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if idx := strings.IndexByte(string(headerLine), '\n'); idx >= 0 {
		headerLine = headerLine[:idx]
	}
	if strings.Count(string(headerLine), ";") > strings.Count(string(headerLine), ",") {
		return ';', nil
	}
	return ',', nil
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if logical, ok := headerAliases[normalized]; ok {
			if _, taken := columns[logical]; !taken {
				columns[logical] = i
			}
		}
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func buildRecord(line int, columns map[string]int, fields []string) domain.RowRecord {
	value := func(column string) string {
		idx, ok := columns[column]
		if !ok || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	email := value(colEmail)

	signatureDate, err := parseDate(value(colSignatureDate))
	if err != nil {
		return domain.RowRecord{Line: line, Email: email, Err: err.Error()}
	}

	amount, err := parseAmount(value(colAmount))
	if err != nil {
		return domain.RowRecord{Line: line, Email: email, Err: err.Error()}
	}

	row, err := domain.NewImportRow(
		email,
		value(colGivenName),
		value(colFamilyName),
		value(colIBAN),
		value(colMandateReference),
		signatureDate,
		amount,
	)
	if err != nil {
		return domain.RowRecord{Line: line, Email: email, Err: err.Error()}
	}

	row = row.
		WithCurrency(value(colCurrency)).
		WithInterval(value(colInterval)).
		WithDescription(value(colDescription)).
		WithCustomerReference(value(colCustomerReference))

	return domain.RowRecord{Line: line, Email: email, Row: &row}
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing mandate signature date")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable mandate signature date %q", raw)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, fmt.Errorf("missing amount")
	}
	normalized := strings.ReplaceAll(raw, ",", ".")
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q", raw)
	}
	return amount, nil
}
