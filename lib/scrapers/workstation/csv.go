package workstation

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"jamberry-workstation/lib/textutil"

	"github.com/antzucaro/matchr"
	"github.com/shopspring/decimal"
)

// the portal has renamed export columns across releases ("ZIP" vs
// "Zip Code", trailing whitespace, casing). headers within a version
// are resolved exactly first, then by normalized text, then by
// Jaro-Winkler similarity above this threshold.
const headerSimilarityThreshold = 0.92

type csvHeader struct {
	names []string
	index map[string]int
}

func newCSVHeader(names []string) csvHeader {
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	return csvHeader{names: names, index: index}
}

func (h csvHeader) resolve(column string) (int, bool) {
	if i, ok := h.index[column]; ok {
		return i, true
	}

	want := textutil.NormalizeName(column)
	for i, name := range h.names {
		if textutil.NormalizeName(name) == want {
			return i, true
		}
	}

	best, bestScore := -1, headerSimilarityThreshold
	for i, name := range h.names {
		score := matchr.JaroWinkler(want, textutil.NormalizeName(name), false)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		slog.Debug(
			"fuzzy-matched csv header",
			"wanted", column,
			"found", h.names[best],
			"score", bestScore,
		)
		return best, true
	}
	return 0, false
}

// csvRow is a mapping-based accessor over one export row. Lookups
// return optional values; callers never assume a column is present.
type csvRow struct {
	header csvHeader
	fields []string
}

func (r csvRow) opt(column string) (string, bool) {
	i, ok := r.header.resolve(column)
	if !ok || i >= len(r.fields) {
		return "", false
	}
	return strings.Trim(r.fields[i], " \t\n\r"), true
}

// optText is opt for free-form text fields: a missing optional column
// defaults to "" so records round-trip through CSV cleanly.
func (r csvRow) optText(column string) string {
	v, _ := r.opt(column)
	return v
}

func (r csvRow) req(column string) (string, error) {
	v, ok := r.opt(column)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: missing required field %q", ErrMalformedRow, column)
	}
	return v, nil
}

func (r csvRow) optInt(column string) (int, error) {
	v, ok := r.opt(column)
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("%w: field %q: non-integer %q", ErrMalformedRow, column, v)
	}
	return n, nil
}

// optMoney runs a money-like column through the currency normalizer.
// An absent or empty cell is zero; a present but unrecognizable cell
// is an error, never a silent zero.
func (r csvRow) optMoney(column string) (decimal.Decimal, error) {
	v, ok := r.opt(column)
	if !ok || v == "" {
		return decimal.Zero, nil
	}
	return parseMoney(column, v)
}

func (r csvRow) optDate(column string) (time.Time, error) {
	v, _ := r.opt(column)
	return parseDate(v)
}

// iterCSV decodes a UTF-8 CSV export with a header row and invokes
// yield once per data row.
func iterCSV(data []byte, yield func(index int, row csvRow) bool) error {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedRow, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: export has no header row", ErrMalformedRow)
	}

	header := newCSVHeader(records[0])
	for i, fields := range records[1:] {
		if !yield(i, csvRow{header: header, fields: fields}) {
			return nil
		}
	}
	return nil
}
