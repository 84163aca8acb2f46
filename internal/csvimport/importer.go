package csvimport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"financas/internal/core"
)

// Outcome tells apart the three ways an import can finish without error.
type Outcome string

const (
	// OutcomeEmpty means the file had no non-blank line at all.
	OutcomeEmpty Outcome = "empty"
	// OutcomeNoValidRows means nothing was stored: a header without data
	// rows, or data rows that were all rejected.
	OutcomeNoValidRows Outcome = "no_valid_rows"
	OutcomeImported    Outcome = "imported"
)

// Creator stores one transaction and returns its identifier.
type Creator interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (string, error)
}

type Result struct {
	Imported int
	Rejected int
	Outcome  Outcome
	// IDs of the stored transactions, in file order.
	IDs []string
}

// ImportError reports a store failure that aborted an import. Rows stored
// before the failure stay stored.
type ImportError struct {
	Imported int
	Rejected int
	Line     int
	Err      error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import aborted at line %d after %d rows: %v", e.Line, e.Imported, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

type Importer struct {
	store  Creator
	parser Parser
}

func NewImporter(store Creator, parser Parser) *Importer {
	return &Importer{store: store, parser: parser}
}

// Import parses text and stores the valid rows one at a time in file order.
// The first store error aborts the import with an *ImportError. Importing the
// same file twice stores every row twice.
func (im *Importer) Import(ctx context.Context, ownerID, text string) (Result, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Result{}, core.ErrNoOwner
	}

	parsed := im.parser.Parse(text)
	for _, r := range parsed.Rejections {
		slog.DebugContext(ctx, "CSV row rejected", "line", r.Line, "reason", r.Reason)
	}

	res := Result{Rejected: parsed.Rejected()}
	lines := rowLines(parsed)
	for i, row := range parsed.Rows {
		row.OwnerID = ownerID
		id, err := im.store.CreateTransaction(ctx, row)
		if err != nil {
			return res, &ImportError{Imported: res.Imported, Rejected: res.Rejected, Line: lines[i], Err: err}
		}
		res.Imported++
		res.IDs = append(res.IDs, id)
	}

	switch {
	case parsed.Lines == 0:
		res.Outcome = OutcomeEmpty
	case res.Imported == 0:
		res.Outcome = OutcomeNoValidRows
	default:
		res.Outcome = OutcomeImported
	}
	return res, nil
}

// rowLines recovers the line number of each accepted row from the rejections.
func rowLines(p Parsed) []int {
	rejected := make(map[int]bool, len(p.Rejections))
	for _, r := range p.Rejections {
		rejected[r.Line] = true
	}
	lines := make([]int, 0, len(p.Rows))
	for line := 2; len(lines) < len(p.Rows); line++ {
		if !rejected[line] {
			lines = append(lines, line)
		}
	}
	return lines
}
