// Package table renders filtered columns as a delimited table and reads
// such tables back for batch checking.
//
// Layout:
//
//	Column,Match1,Match2,...,Match15
//	1,1,0,2,...
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/okian/toto/internal/domain/model"
)

const (
	indexHeader = "Column"
	matchPrefix = "Match"
	fieldCount  = model.SlateSize + 1
)

// Header returns the header row.
func Header() []string {
	h := make([]string, 0, fieldCount)
	h = append(h, indexHeader)
	for i := 1; i <= model.SlateSize; i++ {
		h = append(h, matchPrefix+strconv.Itoa(i))
	}
	return h
}

// Filename returns the download name for a table exported on day.
func Filename(day time.Time) string {
	return "zlg-columns-" + day.Format("2006-01-02") + ".csv"
}

// Write renders combos with 1-based row numbers in set order.
func Write(w io.Writer, combos []model.Combination) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	row := make([]string, fieldCount)
	for i, c := range combos {
		row[0] = strconv.Itoa(i + 1)
		for j, s := range c {
			row[j+1] = s.String()
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrWrite, i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Format is Write into a string.
func Format(combos []model.Combination) string {
	var b bytes.Buffer
	_ = Write(&b, combos) // bytes.Buffer writes do not fail
	return b.String()
}

// WriteLines renders one space separated column per line, the plain form
// used for pasting into a coupon form.
func WriteLines(w io.Writer, combos []model.Combination) error {
	for _, c := range combos {
		if _, err := io.WriteString(w, c.String()+"\n"); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	return nil
}

// Row is one usable data row of an imported table.
type Row struct {
	Position    int // 1-based among usable rows
	Line        int // 1-based line in the source
	Column      int // value of the Column field, 0 if not numeric
	Combination model.Combination
}

// Stats describes an import.
type Stats struct {
	Rows    int `json:"rows"`    // usable rows
	Dropped int `json:"dropped"` // malformed rows skipped
}

// Read parses a table. The header must contain a Column field and at least
// sixteen fields. Data rows need exactly sixteen fields and fifteen valid
// symbols; anything else is skipped. A table with no usable row is invalid.
func Read(r io.Reader) ([]Row, Stats, error) {
	var st Stats
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, st, fmt.Errorf("%w: empty table", ErrInvalidTable)
	}
	if err != nil {
		return nil, st, fmt.Errorf("%w: header: %w", ErrInvalidTable, err)
	}
	if !validHeader(header) {
		return nil, st, fmt.Errorf("%w: header must be %s,%s1..%s%d", ErrInvalidTable, indexHeader, matchPrefix, matchPrefix, model.SlateSize)
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				st.Dropped++
				continue
			}
			return nil, st, fmt.Errorf("%w: %w", ErrInvalidTable, err)
		}
		if len(rec) != fieldCount {
			st.Dropped++
			continue
		}
		c, err := model.CombinationFromFields(rec[1:])
		if err != nil {
			st.Dropped++
			continue
		}
		line, _ := cr.FieldPos(0)
		col, _ := strconv.Atoi(strings.TrimSpace(rec[0]))
		rows = append(rows, Row{Position: len(rows) + 1, Line: line, Column: col, Combination: c})
	}
	st.Rows = len(rows)
	if len(rows) == 0 {
		return nil, st, fmt.Errorf("%w: no usable rows", ErrInvalidTable)
	}
	return rows, st, nil
}

// Combinations extracts the columns of rows in order.
func Combinations(rows []Row) []model.Combination {
	out := make([]model.Combination, len(rows))
	for i, r := range rows {
		out[i] = r.Combination
	}
	return out
}

func validHeader(h []string) bool {
	if len(h) < fieldCount {
		return false
	}
	for _, f := range h {
		// A UTF-8 BOM sneaks in when the file was saved by a spreadsheet.
		if strings.TrimPrefix(strings.TrimSpace(f), "\ufeff") == indexHeader {
			return true
		}
	}
	return false
}
