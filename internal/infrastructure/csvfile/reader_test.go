package csvfile_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mohammadpnp/mollie-import/internal/infrastructure/csvfile"
)

const englishExport = `email,given_name,family_name,iban,mandate_reference,mandate_signature_date,amount,currency
a@example.com,A,B,NL91ABNA0417164300,ref1,2021-01-06,12.50,EUR
`

const dutchExport = "Email;Voor naam;Naam;IBAN;MachtigingsID;Datum Ondertekening;Bedrag\n" +
	"a@example.com;A;B;NL91ABNA0417164300;ref1;01-01-2024;12,50\n"

func TestParseEnglishHeaders(t *testing.T) {
	t.Parallel()

	records, err := csvfile.Parse(strings.NewReader(englishExport))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.Err != "" {
		t.Fatalf("expected valid record, got error %q", record.Err)
	}
	if record.Row.Email != "a@example.com" {
		t.Fatalf("unexpected email: %s", record.Row.Email)
	}
	if record.Row.AmountValue() != "12.50" {
		t.Fatalf("unexpected amount: %s", record.Row.AmountValue())
	}
	if record.Row.SignatureDate.Format("2006-01-02") != "2021-01-06" {
		t.Fatalf("unexpected signature date: %s", record.Row.SignatureDate)
	}
}

func TestParseDutchHeadersSemicolonDelimited(t *testing.T) {
	t.Parallel()

	records, err := csvfile.Parse(strings.NewReader(dutchExport))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.Err != "" {
		t.Fatalf("expected valid record, got error %q", record.Err)
	}
	if record.Row.GivenName != "A" || record.Row.FamilyName != "B" {
		t.Fatalf("unexpected names: %s %s", record.Row.GivenName, record.Row.FamilyName)
	}
	if record.Row.MandateReference != "ref1" {
		t.Fatalf("unexpected mandate reference: %s", record.Row.MandateReference)
	}
	// Dutch date layout and decimal comma.
	if record.Row.SignatureDate.Format("2006-01-02") != "2024-01-01" {
		t.Fatalf("unexpected signature date: %s", record.Row.SignatureDate)
	}
	if record.Row.AmountValue() != "12.50" {
		t.Fatalf("unexpected amount: %s", record.Row.AmountValue())
	}
}

func TestParseInvalidRowsBecomePreFailed(t *testing.T) {
	t.Parallel()

	input := `email,given_name,family_name,iban,mandate_reference,mandate_signature_date,amount
bad-iban@example.com,A,B,NL00WRONG0000000000,ref1,2021-01-06,12.50
bad-date@example.com,A,B,NL91ABNA0417164300,ref2,someday,12.50
bad-amount@example.com,A,B,NL91ABNA0417164300,ref3,2021-01-06,abc
good@example.com,A,B,NL91ABNA0417164300,ref4,2021-01-06,12.50
`

	records, err := csvfile.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	for i, wantFailed := range []bool{true, true, true, false} {
		if failed := records[i].Err != ""; failed != wantFailed {
			t.Fatalf("record %d: expected failed=%v, got %q", i, wantFailed, records[i].Err)
		}
	}
	if records[0].Email != "bad-iban@example.com" {
		t.Fatalf("expected email kept on pre-failed record, got %q", records[0].Email)
	}
	if records[1].Line != 3 {
		t.Fatalf("expected line 3 for the second record, got %d", records[1].Line)
	}
}

func TestParseMissingRequiredColumn(t *testing.T) {
	t.Parallel()

	input := "email,given_name,family_name,iban,amount\n"
	_, err := csvfile.Parse(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "mandate_reference") {
		t.Fatalf("expected missing column named, got %v", err)
	}
}

func TestReaderResolvesAgainstBaseDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "export.csv"), []byte(englishExport), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}

	reader := csvfile.NewReader(csvfile.NewLocalSource(dir))
	records, err := reader.Read(context.Background(), "export.csv")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestReaderMissingFile(t *testing.T) {
	t.Parallel()

	reader := csvfile.NewReader(csvfile.NewLocalSource(t.TempDir()))
	_, err := reader.Read(context.Background(), "missing.csv")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
