package extractor

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Layout tolerances in PDF points.
const (
	// rowTolerance is the largest baseline difference within one row.
	rowTolerance = 2.0
	// cellGap is the smallest horizontal gap between two table cells.
	cellGap = 7.5
	// minWordGap is the smallest gap that splits two glyphs into words
	// when the font size is unknown.
	minWordGap = 1.0
)

// A grid needs this many rows and columns to count as a table.
const (
	minGridRows    = 2
	minGridColumns = 3
)

// Word is a run of glyphs on one baseline. X is the left edge, W the width.
type Word struct {
	X, Y, W float64
	S       string
}

func (w Word) end() float64 { return w.X + w.W }

// mergeGlyphs joins the per-glyph text runs of Page.Content into words.
// A whitespace glyph or a horizontal gap ends a word.
func mergeGlyphs(glyphs []pdf.Text) []Word {
	byRow := make(map[int][]pdf.Text)
	for _, g := range glyphs {
		y := int(math.Round(g.Y))
		byRow[y] = append(byRow[y], g)
	}

	var words []Word
	for _, row := range byRow {
		sort.SliceStable(row, func(a, b int) bool { return row[a].X < row[b].X })

		var cur *Word
		flush := func() {
			if cur != nil && strings.TrimSpace(cur.S) != "" {
				words = append(words, *cur)
			}
			cur = nil
		}
		for _, g := range row {
			if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
				flush()
				continue
			}
			gap := math.Max(minWordGap, g.FontSize*0.2)
			if cur != nil && g.X-cur.end() > gap {
				flush()
			}
			if cur == nil {
				cur = &Word{X: g.X, Y: g.Y, W: g.W, S: g.S}
				continue
			}
			cur.S += g.S
			cur.W = g.X + g.W - cur.X
		}
		flush()
	}
	return words
}

// groupRows clusters words into rows, top to bottom, each sorted left to
// right.
func groupRows(words []Word) [][]Word {
	sorted := append([]Word(nil), words...)
	// PDF Y goes bottom-to-top
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Y > sorted[b].Y })

	var rows [][]Word
	var baseline float64
	for _, w := range sorted {
		if len(rows) == 0 || baseline-w.Y > rowTolerance {
			rows = append(rows, nil)
			baseline = w.Y
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], w)
	}
	for _, row := range rows {
		sort.SliceStable(row, func(a, b int) bool { return row[a].X < row[b].X })
	}
	return rows
}

type cell struct {
	start, end float64
	text       string
}

func (c cell) center() float64 { return (c.start + c.end) / 2 }

// splitCells splits a row wherever the gap between two words exceeds
// cellGap.
func splitCells(row []Word) []cell {
	var cells []cell
	for _, w := range row {
		if n := len(cells); n > 0 && w.X-cells[n-1].end <= cellGap {
			cells[n-1].text += " " + w.S
			cells[n-1].end = math.Max(cells[n-1].end, w.end())
			continue
		}
		cells = append(cells, cell{start: w.X, end: w.end(), text: w.S})
	}
	return cells
}

// rowLines renders rows as text lines, with two spaces between cells.
func rowLines(rows [][]Word) []string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var parts []string
		for _, c := range splitCells(row) {
			parts = append(parts, c.text)
		}
		if line := strings.TrimSpace(strings.Join(parts, "  ")); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// BuildGrid reconstructs a table grid from positioned words. The row with
// the most cells defines the column anchors; every other cell goes to the
// anchor nearest its center. Rows with fewer than two filled cells (titles,
// footers) are dropped. It returns nil when the result has fewer than
// minGridRows rows or minGridColumns columns.
func BuildGrid(words []Word) [][]string {
	rows := groupRows(words)
	cellRows := make([][]cell, len(rows))
	widest := -1
	for i, row := range rows {
		cellRows[i] = splitCells(row)
		if widest < 0 || len(cellRows[i]) > len(cellRows[widest]) {
			widest = i
		}
	}
	if widest < 0 || len(cellRows[widest]) < minGridColumns {
		return nil
	}

	anchors := make([]float64, len(cellRows[widest]))
	for i, c := range cellRows[widest] {
		anchors[i] = c.center()
	}

	var grid [][]string
	for _, cells := range cellRows {
		if len(cells) < 2 {
			continue
		}
		out := make([]string, len(anchors))
		for _, c := range cells {
			col := nearestAnchor(anchors, c.center())
			if out[col] != "" {
				out[col] += " "
			}
			out[col] += c.text
		}
		grid = append(grid, out)
	}
	if len(grid) < minGridRows {
		return nil
	}
	return grid
}

func nearestAnchor(anchors []float64, x float64) int {
	best := 0
	for i, a := range anchors {
		if math.Abs(a-x) < math.Abs(anchors[best]-x) {
			best = i
		}
	}
	return best
}
