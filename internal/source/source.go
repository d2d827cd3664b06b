package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pwalczak/mailbox-token-grabber/internal/logger"
)

// Account is one row of the account source.
type Account struct {
	// Identifier is the account correlation key (used as the OAuth state).
	// Empty when the row carried no usable identifier column.
	Identifier string
	// Attributes holds every column of the row, untouched apart from trimming.
	// Downstream browser-session logic may consume them; this package does not.
	Attributes map[string]string
}

// identifierColumns are probed in order to resolve the account identifier.
//
//nolint:gochecknoglobals // Immutable lookup order used as a constant.
var identifierColumns = []string{"email", "Email", "login"}

// ErrNoColumns indicates a source whose rows have no usable columns.
var ErrNoColumns = errors.New("account source has no columns")

// Options controls how the account source is parsed.
type Options struct {
	// Delimiter is the field separator.
	Delimiter rune
	// Headers forces column names. When empty, the first row is the header row.
	Headers []string
}

// ReadAccounts reads every account record from the file at path.
// An unreadable file is an error; individual rows are never dropped, so the
// caller can account for rows lacking an identifier.
func ReadAccounts(ctx context.Context, path string, opts Options) ([]Account, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open account source: %w", err)
	}

	defer file.Close() //nolint:errcheck // Read-only handle, close error is not actionable.

	accounts, err := parseAccounts(file, opts)
	if err != nil {
		return nil, err
	}

	logger.Infof(ctx, "Read %d account record(s) from %s", len(accounts), path)

	return accounts, nil
}

// parseAccounts consumes the delimited content of r.
func parseAccounts(r io.Reader, opts Options) ([]Account, error) {
	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	// Rows may carry a varying number of fields; extra fields are dropped,
	// missing ones stay empty.
	reader.FieldsPerRecord = -1

	headers := trimAll(opts.Headers)
	accounts := make([]Account, 0)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse account source: %w", err)
		}

		if len(headers) == 0 {
			headers = trimAll(row)
			if len(headers) == 0 {
				return nil, ErrNoColumns
			}

			continue
		}

		accounts = append(accounts, rowToAccount(headers, row))
	}

	return accounts, nil
}

// rowToAccount maps one row onto the known headers and resolves the identifier.
func rowToAccount(headers, row []string) Account {
	attributes := make(map[string]string, len(headers))

	for i, header := range headers {
		if header == "" {
			continue
		}

		var value string
		if i < len(row) {
			value = strings.TrimSpace(row[i])
		}

		attributes[header] = value
	}

	return Account{
		Identifier: resolveIdentifier(attributes),
		Attributes: attributes,
	}
}

// resolveIdentifier returns the first non-empty identifier column value.
func resolveIdentifier(attributes map[string]string) string {
	for _, column := range identifierColumns {
		if value := attributes[column]; value != "" {
			return value
		}
	}

	return ""
}

// trimAll trims whitespace from every element, dropping a fully empty result.
func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	trimmed := make([]string, len(values))
	nonEmpty := false

	for i, v := range values {
		trimmed[i] = strings.TrimSpace(v)
		if trimmed[i] != "" {
			nonEmpty = true
		}
	}

	if !nonEmpty {
		return nil
	}

	return trimmed
}
