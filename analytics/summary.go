package analytics

import (
	"math"
	"sort"
)

// Count is one labelled tally.
type Count struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// CountBy tallies items by key. Labels named in order come first, zero
// counts included; any other label follows in lexicographic order.
func CountBy[T any](items []T, key func(T) string, order []string) []Count {
	tally := make(map[string]int)
	for _, it := range items {
		tally[key(it)]++
	}

	counts := make([]Count, 0, len(tally)+len(order))
	seen := make(map[string]bool, len(order))
	for _, label := range order {
		seen[label] = true
		counts = append(counts, Count{Label: label, Count: tally[label]})
	}
	var rest []string
	for label := range tally {
		if !seen[label] {
			rest = append(rest, label)
		}
	}
	sort.Strings(rest)
	for _, label := range rest {
		counts = append(counts, Count{Label: label, Count: tally[label]})
	}

	for i := range counts {
		counts[i].Percent = Percent(counts[i].Count, len(items))
	}
	return counts
}

// Percent is part as a share of whole, 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Mean returns 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Mode returns the most frequent label; ties go to the lexicographically
// smallest. It returns "" for no labels.
func Mode(labels []string) string {
	tally := make(map[string]int)
	for _, l := range labels {
		tally[l]++
	}
	best, bestCount := "", 0
	for l, n := range tally {
		if n > bestCount || (n == bestCount && l < best) {
			best, bestCount = l, n
		}
	}
	return best
}

// Distinct counts unique labels.
func Distinct(labels []string) int {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return len(set)
}

// Bin is one histogram bucket covering [Lower, Upper); the last bin is
// closed on both ends.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram splits the range of values into equal-width bins. A constant
// input spreads one unit either side of the value.
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return []Bin{}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)

	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

// Crosstab is a two-way table of counts. Cells[i][j] counts items whose
// row key is Rows[i] and column key is Columns[j].
type Crosstab struct {
	Rows    []string `json:"rows"`
	Columns []string `json:"columns"`
	Cells   [][]int  `json:"cells"`
}

// CrosstabBy builds a crosstab over items. Axis labels are ordered as in
// CountBy but only labels that occur are kept.
func CrosstabBy[T any](items []T, rowKey, colKey func(T) string, rowOrder, colOrder []string) Crosstab {
	rows := presentLabels(items, rowKey, rowOrder)
	cols := presentLabels(items, colKey, colOrder)
	rowIdx := indexOf(rows)
	colIdx := indexOf(cols)

	cells := make([][]int, len(rows))
	for i := range cells {
		cells[i] = make([]int, len(cols))
	}
	for _, it := range items {
		cells[rowIdx[rowKey(it)]][colIdx[colKey(it)]]++
	}
	return Crosstab{Rows: rows, Columns: cols, Cells: cells}
}

// Get returns the count at (row, col), 0 when either label is absent.
func (c Crosstab) Get(row, col string) int {
	for i, r := range c.Rows {
		if r != row {
			continue
		}
		for j, cl := range c.Columns {
			if cl == col {
				return c.Cells[i][j]
			}
		}
	}
	return 0
}

func presentLabels[T any](items []T, key func(T) string, order []string) []string {
	counts := CountBy(items, key, order)
	labels := make([]string, 0, len(counts))
	for _, c := range counts {
		if c.Count > 0 {
			labels = append(labels, c.Label)
		}
	}
	return labels
}

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}

// Labels converts typed string enums to their labels.
func Labels[S ~string](values []S) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
