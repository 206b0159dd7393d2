package prediction

import (
	"fmt"
	"html/template"
)

// Row is one rendered result line. Both cells hold escaped markup.
type Row struct {
	Index template.HTML
	Value template.HTML
}

// Table is the result table body. The zero value is an empty table.
type Table struct {
	rows []Row
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns a copy of the current rows in display order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// removeFirst drops the leading row.
func (t *Table) removeFirst() {
	t.rows[0] = Row{}
	t.rows = t.rows[1:]
}

// Replace removes every existing row, one at a time, then appends one row per
// score in index order. On an escaping error the table is left unchanged.
func (t *Table) Replace(result Result) error {
	next := make([]Row, 0, len(result))
	for i, v := range result {
		row, err := NewRow(i, v)
		if err != nil {
			return err
		}
		next = append(next, row)
	}

	for t.Len() > 0 {
		t.removeFirst()
	}
	t.rows = append(t.rows, next...)
	return nil
}

// NewRow escapes an index/value pair into a Row.
func NewRow(index int, value float64) (Row, error) {
	idx, err := EscapeHTML(index)
	if err != nil {
		return Row{}, fmt.Errorf("escape index %d: %w", index, err)
	}
	val, err := EscapeHTML(value)
	if err != nil {
		return Row{}, fmt.Errorf("escape value at %d: %w", index, err)
	}
	// Escaped once here; the template must not escape again.
	return Row{Index: template.HTML(idx), Value: template.HTML(val)}, nil
}
