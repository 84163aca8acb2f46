// Package csvimport turns delimited bank or spreadsheet exports into
// transaction payloads.
//
// Parsing is tolerant: comma or semicolon separators, double-quote quoting,
// accented or English headers and Brazilian number and date formats are all
// accepted. Rows that cannot be read are counted and skipped, never fatal.
package csvimport

import (
	"errors"
	"strings"
	"unicode/utf8"

	"financas/internal/core"
)

var (
	ErrMissingDescription = errors.New("missing description")
	ErrBadAmount          = errors.New("unreadable amount")
	ErrBadDate            = errors.New("unreadable date")
)

// Rejection records a skipped data row. Line is 1-based over non-blank lines,
// the header being line 1.
type Rejection struct {
	Line   int
	Reason error
}

// Parsed is the outcome of reading a file, before anything is stored.
type Parsed struct {
	// Lines is the number of non-blank lines, header included.
	Lines      int
	Rows       []core.Transaction
	Rejections []Rejection
}

func (p Parsed) Rejected() int {
	return len(p.Rejections)
}

// Parser converts file text into transaction payloads. The zero value is ready to use.
type Parser struct {
	// Clean is applied to free text cells (description, category) before
	// they are checked. Nil leaves them untouched.
	Clean func(string) string
}

// Parse reads text into payloads without an owner. Fewer than two non-blank
// lines yields no rows and no rejections.
func (p Parser) Parse(text string) Parsed {
	lines := splitLines(text)
	out := Parsed{Lines: len(lines)}
	if len(lines) < 2 {
		return out
	}

	delim := detectDelimiter(lines[0])
	rawHeader := splitFields(lines[0], delim)
	header := make([]string, len(rawHeader))
	for i, h := range rawHeader {
		header[i] = Normalize(h)
	}
	amountCol := columnOf(header, fieldAmount)

	for i, line := range lines[1:] {
		cells := splitFields(line, delim)
		if delim == ',' && len(cells) > len(header) && amountCol >= 0 {
			cells = rejoinAmount(cells, amountCol, len(cells)-len(header))
		}

		row := make(map[string]string, len(header))
		for j, key := range header {
			if j >= len(cells) {
				break
			}
			if _, seen := row[key]; !seen {
				row[key] = cells[j]
			}
		}

		tx, err := p.buildRow(row)
		if err != nil {
			out.Rejections = append(out.Rejections, Rejection{Line: i + 2, Reason: err})
			continue
		}
		out.Rows = append(out.Rows, tx)
	}
	return out
}

func (p Parser) buildRow(row map[string]string) (core.Transaction, error) {
	description := p.clean(lookup(row, fieldDescription))
	if description == "" {
		return core.Transaction{}, ErrMissingDescription
	}
	amount, ok := core.ParseAmount(lookup(row, fieldAmount))
	if !ok {
		return core.Transaction{}, ErrBadAmount
	}
	date, ok := core.ParseDate(lookup(row, fieldDate))
	if !ok {
		return core.Transaction{}, ErrBadDate
	}

	category := p.clean(lookup(row, fieldCategory))
	if category == "" {
		category = core.DefaultCategory()
	}
	typ := resolveType(lookup(row, fieldType), amount)

	return core.Transaction{
		Description:   truncate(description, core.MaxDescriptionLength),
		Category:      category,
		Amount:        core.SignForType(amount, typ),
		Date:          date,
		PaymentMethod: mapPayment(lookup(row, fieldPayment)),
		Type:          typ,
	}, nil
}

func (p Parser) clean(s string) string {
	if p.Clean != nil {
		s = p.Clean(s)
	}
	return strings.TrimSpace(s)
}

// columnOf returns the index of the highest priority alias present in header, or -1.
func columnOf(header []string, f field) int {
	for _, alias := range aliases[f] {
		for i, h := range header {
			if h == alias {
				return i
			}
		}
	}
	return -1
}

// rejoinAmount repairs a comma separated row whose unquoted amount was split
// on its decimal comma ("-245,80" read as "-245" and "80") by folding the
// surplus cells back into the amount column.
func rejoinAmount(cells []string, col, surplus int) []string {
	if col+surplus >= len(cells) {
		return cells
	}
	merged := strings.Join(cells[col:col+surplus+1], ",")
	out := make([]string, 0, len(cells)-surplus)
	out = append(out, cells[:col]...)
	out = append(out, merged)
	return append(out, cells[col+surplus+1:]...)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
