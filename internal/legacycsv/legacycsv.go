// Package legacycsv converts between the store's column/row representation
// and the semicolon-delimited text files produced by the legacy spreadsheet
// workflow. Those files are Latin-1, not UTF-8: every read and write goes
// through an explicit charmap step so accented labels survive bit-for-bit.
package legacycsv

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/jmvaldez/inventario-be/internal/models"
)

const (
	// Separator between fields. Semicolon, not comma: free-text cells in
	// the source data contain commas.
	fieldSep = ";"

	defaultWidth = 100
)

// Header lines for the two column-file shapes.
const (
	widthHeader = "Numero Columna;Descripcion;Ancho"
	longHeader  = "Número Columna;Descripción;Tipo de dato;longitud;obligatorio"
)

// DecodeColumns parses a column-definition file. Line 1 is a header and is
// discarded; each later non-blank line is one definition. The file shape is
// decided from the first data line: exactly three fields means the
// [sequence, label, width] variant, anything else the
// [sequence, label, kind, length, required] variant with optional trailing
// fields.
func DecodeColumns(data []byte) ([]models.Column, error) {
	text, err := decodeLatin1(data)
	if err != nil {
		return nil, err
	}
	lines := splitLines(text)
	if len(lines) < 1 {
		return nil, nil
	}

	var cols []models.Column
	widthShape := false
	shapeKnown := false
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, fieldSep)
		if !shapeKnown {
			widthShape = len(fields) == 3
			shapeKnown = true
		}
		col := models.Column{
			Sequence: atoi(field(fields, 0)),
			Label:    field(fields, 1),
		}
		if widthShape {
			col.Width = atoiDefault(field(fields, 2), defaultWidth)
		} else {
			col.Kind = field(fields, 2)
			col.Length = field(fields, 3)
			col.Required = field(fields, 4)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// EncodeColumns writes the column-definition file back out in whichever
// shape the definitions carry: any kind/length/required data selects the
// long variant, otherwise the width variant is emitted.
func EncodeColumns(cols []models.Column) ([]byte, error) {
	long := false
	for _, c := range cols {
		if c.Kind != "" || c.Length != "" || c.Required != "" {
			long = true
			break
		}
	}

	var lines []string
	if long {
		lines = append(lines, longHeader)
		for _, c := range cols {
			lines = append(lines, strings.Join([]string{
				strconv.Itoa(c.Sequence), c.Label, c.Kind, c.Length, c.Required,
			}, fieldSep))
		}
	} else {
		lines = append(lines, widthHeader)
		for _, c := range cols {
			width := c.Width
			if width <= 0 {
				width = defaultWidth
			}
			lines = append(lines, strings.Join([]string{
				strconv.Itoa(c.Sequence), c.Label, strconv.Itoa(width),
			}, fieldSep))
		}
	}
	return encodeLatin1(strings.Join(lines, "\n"))
}

// DecodeRows parses an inventory file. Line 1 carries column sequence
// numbers and is discarded (it is rebuilt from the column definitions on
// encode), line 2 carries the labels, and each later non-blank line is one
// row with positional fields. Fields under a blank label are dropped; short
// lines pad missing trailing fields with the empty string. Identifiers are
// assigned 1..n by position; the store reassigns them on import.
func DecodeRows(data []byte) ([]models.Row, error) {
	text, err := decodeLatin1(data)
	if err != nil {
		return nil, err
	}
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, nil
	}

	headers := strings.Split(lines[1], fieldSep)
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []models.Row
	for _, line := range lines[2:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, fieldSep)
		row := models.Row{
			ID:     int64(len(rows) + 1),
			Fields: make(map[string]string, len(headers)),
		}
		for i, label := range headers {
			if label == "" {
				continue
			}
			row.Fields[label] = field(values, i)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// EncodeRows writes the inventory file: the sequence line, the label line,
// then one line per row with values resolved per label (empty string when a
// row lacks the label). Lines are LF-joined and Latin-1 encoded.
func EncodeRows(cols []models.Column, rows []models.Row) ([]byte, error) {
	seq := make([]string, len(cols))
	labels := make([]string, len(cols))
	for i, c := range cols {
		seq[i] = strconv.Itoa(c.Sequence)
		labels[i] = c.Label
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, strings.Join(seq, fieldSep), strings.Join(labels, fieldSep))
	for _, row := range rows {
		values := make([]string, len(labels))
		for i, label := range labels {
			values[i] = ResolveValue(row.Fields, label)
		}
		lines = append(lines, strings.Join(values, fieldSep))
	}
	return encodeLatin1(strings.Join(lines, "\n"))
}

// decodeLatin1 maps legacy bytes to a UTF-8 string. Latin-1 decoding cannot
// fail: every byte is a defined code point.
func decodeLatin1(data []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode latin-1: %w", err)
	}
	return string(out), nil
}

// encodeLatin1 maps a UTF-8 string back to legacy bytes. Characters outside
// Latin-1 are an error rather than silently replaced, so corruption is
// caught at the boundary instead of landing in the interchange file.
func encodeLatin1(text string) ([]byte, error) {
	out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode latin-1: %w", err)
	}
	return out, nil
}

// splitLines splits on LF and strips a trailing CR from each line, matching
// the CR?LF convention of the source exports.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
