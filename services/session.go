package services

import (
	"sort"
	"strings"

	"mcc-sewer-dashboard/models"
)

// Session is one request's view of the data: the shared dataset narrowed by
// the global zone/ward filter. Its tables are private copies.
type Session struct {
	dataset  *models.Dataset
	filter   models.GlobalFilter
	manholes []models.Manhole
	pipes    []models.Pipe
}

// NewSession applies the global filter. Manholes must match both zone and
// ward; a pipe is kept when at least one endpoint survives.
func NewSession(ds *models.Dataset, filter models.GlobalFilter) *Session {
	filter.Zone = normalizeSelection(filter.Zone)
	filter.Ward = normalizeSelection(filter.Ward)
	s := &Session{dataset: ds, filter: filter}

	kept := make(map[string]bool, len(ds.Manholes))
	s.manholes = make([]models.Manhole, 0, len(ds.Manholes))
	for _, m := range ds.Manholes {
		if filter.Zone != "" && m.Zone != filter.Zone {
			continue
		}
		if filter.Ward != "" && m.Ward != filter.Ward {
			continue
		}
		kept[m.ID] = true
		s.manholes = append(s.manholes, m)
	}

	unfiltered := filter.Zone == "" && filter.Ward == ""
	s.pipes = make([]models.Pipe, 0, len(ds.Pipes))
	for _, p := range ds.Pipes {
		if unfiltered || kept[p.StartManhole] || kept[p.EndManhole] {
			s.pipes = append(s.pipes, p)
		}
	}
	return s
}

// normalizeSelection maps the "All ..." choices to no filter.
func normalizeSelection(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "all", "all zones", "all wards":
		return ""
	}
	return v
}

func (s *Session) Manholes() []models.Manhole  { return s.manholes }
func (s *Session) Pipes() []models.Pipe        { return s.pipes }
func (s *Session) Filter() models.GlobalFilter { return s.filter }
func (s *Session) Dataset() *models.Dataset    { return s.dataset }

// criticalCount counts Poor and Broken manholes.
func criticalCount(manholes []models.Manhole) int {
	n := 0
	for _, m := range manholes {
		if m.Condition.IsCritical() {
			n++
		}
	}
	return n
}

// healthPercent is the non-critical share of manholes, 0 for none.
func healthPercent(manholes []models.Manhole) float64 {
	if len(manholes) == 0 {
		return 0
	}
	return float64(len(manholes)-criticalCount(manholes)) / float64(len(manholes)) * 100
}

// distinctSorted lists the unique values of key in lexicographic order.
func distinctSorted(manholes []models.Manhole, key func(models.Manhole) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, m := range manholes {
		if k := key(m); !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
