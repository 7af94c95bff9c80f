package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Columns that lead a table when present, in this order.
var leadingColumns = []string{"id", "name", "title", "status", "filename", "color", "category"}

// WriteText renders v for humans. A {"data": ...} envelope is unwrapped; lists of objects
// become a table, objects become sorted key/value lines, scalars print as-is.
func WriteText(w io.Writer, v any) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	if m, ok := x.(map[string]any); ok {
		if d, ok := m["data"]; ok {
			x = d
		}
	}

	var out string
	switch t := x.(type) {
	case []any:
		out = renderTable(t)
	case map[string]any:
		out = renderObject(t)
	default:
		out = cell(t)
	}
	if out == "" {
		return nil
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func renderTable(rows []any) string {
	if len(rows) == 0 {
		return "(none)"
	}
	var objs []map[string]any
	for _, r := range rows {
		m, ok := r.(map[string]any)
		if !ok {
			// Scalar list: one value per line.
			lines := make([]string, 0, len(rows))
			for _, r := range rows {
				lines = append(lines, cell(r))
			}
			return strings.Join(lines, "\n")
		}
		objs = append(objs, m)
	}

	cols := columns(objs)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().PaddingRight(2)
			if row == table.HeaderRow {
				return st.Bold(true)
			}
			return st
		}).
		Headers(upper(cols)...)
	for _, m := range objs {
		r := make([]string, len(cols))
		for i, c := range cols {
			r[i] = cell(m[c])
		}
		t.Row(r...)
	}
	return t.Render()
}

func renderObject(m map[string]any) string {
	keys := make([]string, 0, len(m))
	width := 0
	for k := range m {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, k, cell(m[k])))
	}
	return strings.Join(lines, "\n")
}

// columns returns leading columns first, then remaining keys sorted.
func columns(objs []map[string]any) []string {
	seen := map[string]bool{}
	for _, m := range objs {
		for k := range m {
			seen[k] = true
		}
	}
	var out []string
	for _, c := range leadingColumns {
		if seen[c] {
			out = append(out, c)
			delete(seen, c)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func upper(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToUpper(s)
	}
	return out
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if float64(int64(t)) == t {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		// Lists of named objects (e.g. an image's tags) collapse to their names.
		names := make([]string, 0, len(t))
		for _, it := range t {
			if m, ok := it.(map[string]any); ok {
				if n, ok := m["name"].(string); ok {
					names = append(names, n)
					continue
				}
			}
			names = append(names, cell(it))
		}
		return strings.Join(names, ", ")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
