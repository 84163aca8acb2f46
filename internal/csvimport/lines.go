package csvimport

import "strings"

const bom = "\uFEFF"

// splitLines strips a leading byte order mark and returns the non-blank lines.
// Quoted fields spanning lines are not supported.
func splitLines(text string) []string {
	text = strings.TrimPrefix(text, bom)
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// detectDelimiter picks the separator that splits the header into strictly
// more fields. Ties go to comma.
func detectDelimiter(header string) rune {
	if len(splitFields(header, ';')) > len(splitFields(header, ',')) {
		return ';'
	}
	return ','
}

// splitFields splits a line on delim outside double quotes. Inside quotes a
// pair of double quotes stands for one literal quote. Fields are trimmed.
func splitFields(line string, delim rune) []string {
	var (
		fields   []string
		b        strings.Builder
		inQuotes bool
	)
	rs := []rune(line)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '"' && inQuotes && i+1 < len(rs) && rs[i+1] == '"':
			b.WriteRune('"')
			i++
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(b.String()))
}
