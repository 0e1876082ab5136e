package analytics

import (
	"sort"
	"strings"

	"mcc-sewer-dashboard/models"
)

// highConnectivity is the degree above which a manhole counts as highly
// connected.
const highConnectivity = 3

// ParsePair splits a serialised "<start>-<end>" pair. It rejects values
// without exactly one separator or with an empty side.
func ParsePair(pair string) (start, end string, ok bool) {
	if strings.Count(pair, models.PairSeparator) != 1 {
		return "", "", false
	}
	start, end, _ = strings.Cut(pair, models.PairSeparator)
	if start == "" || end == "" {
		return "", "", false
	}
	return start, end, true
}

// Degrees counts incident pipes per manhole over the undirected endpoint
// multigraph. Parallel pipes count separately and a self-loop counts twice.
// Malformed pairs are skipped.
func Degrees(pairs []string) map[string]int {
	degrees := make(map[string]int)
	for _, pair := range pairs {
		start, end, ok := ParsePair(pair)
		if !ok {
			continue
		}
		degrees[start]++
		degrees[end]++
	}
	return degrees
}

// ManholeConnectivity is one row of the aggregate, joined to manhole
// attributes. Condition and Ward are empty when the identifier is not in
// the manhole table.
type ManholeConnectivity struct {
	ManholeID       string           `json:"manhole_id"`
	ConnectionCount int              `json:"connection_count"`
	Condition       models.Condition `json:"condition,omitempty"`
	Ward            string           `json:"ward,omitempty"`
	Critical        bool             `json:"high_connectivity_critical"`
}

// IsHighConnectivityCritical flags manholes with more than three incident
// pipes that are in Poor or Broken condition.
func IsHighConnectivityCritical(degree int, c models.Condition) bool {
	return degree > highConnectivity && c.IsCritical()
}

// ConnectivityReport summarises the aggregate for display.
type ConnectivityReport struct {
	Rows              []ManholeConnectivity `json:"rows"`
	TopConnected      []ManholeConnectivity `json:"top_connected"`
	Average           float64               `json:"average"`
	Max               int                   `json:"max"`
	Min               int                   `json:"min"`
	HighlyConnected   int                   `json:"highly_connected"`
	CriticalConnected []ManholeConnectivity `json:"critical_connected"`
}

const topConnectedLimit = 10

// Connectivity aggregates degrees from pipe pairs and joins them with
// manholes. Rows are ordered by degree descending, then identifier.
func Connectivity(pairs []string, manholes []models.Manhole) ConnectivityReport {
	byID := make(map[string]models.Manhole, len(manholes))
	for _, m := range manholes {
		byID[m.ID] = m
	}

	degrees := Degrees(pairs)
	rows := make([]ManholeConnectivity, 0, len(degrees))
	for id, degree := range degrees {
		row := ManholeConnectivity{ManholeID: id, ConnectionCount: degree}
		if m, ok := byID[id]; ok {
			row.Condition = m.Condition
			row.Ward = m.Ward
		}
		row.Critical = IsHighConnectivityCritical(degree, row.Condition)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ConnectionCount != rows[j].ConnectionCount {
			return rows[i].ConnectionCount > rows[j].ConnectionCount
		}
		return rows[i].ManholeID < rows[j].ManholeID
	})

	report := ConnectivityReport{
		Rows:              rows,
		TopConnected:      rows[:min(len(rows), topConnectedLimit)],
		CriticalConnected: []ManholeConnectivity{},
	}
	if len(rows) == 0 {
		return report
	}

	total := 0
	report.Max = rows[0].ConnectionCount
	report.Min = rows[len(rows)-1].ConnectionCount
	for _, r := range rows {
		total += r.ConnectionCount
		if r.ConnectionCount > highConnectivity {
			report.HighlyConnected++
		}
		if r.Critical {
			report.CriticalConnected = append(report.CriticalConnected, r)
		}
	}
	report.Average = float64(total) / float64(len(rows))
	return report
}

// PipePairs serialises the endpoint pair of every pipe.
func PipePairs(pipes []models.Pipe) []string {
	pairs := make([]string, len(pipes))
	for i, p := range pipes {
		pairs[i] = p.ConnectedPair()
	}
	return pairs
}
