package services

import (
	"mcc-sewer-dashboard/analytics"
	"mcc-sewer-dashboard/geo"
	"mcc-sewer-dashboard/models"
)

const (
	connectionBins   = 20
	criticalPreview  = 10
	mapPreviewPoints = 50
)

// ManholeRow is the tabular projection of a manhole shown in lists.
type ManholeRow struct {
	ID          string           `json:"manhole_id"`
	Road        string           `json:"road"`
	Ward        string           `json:"ward"`
	Condition   models.Condition `json:"condition"`
	Material    models.Material  `json:"material"`
	Connections int              `json:"no_of_connections"`
}

func manholeRow(m models.Manhole) ManholeRow {
	return ManholeRow{
		ID:          m.ID,
		Road:        m.Road,
		Ward:        m.Ward,
		Condition:   m.Condition,
		Material:    m.Material,
		Connections: m.Connections,
	}
}

// PreviewPoint is a marker of the summary map preview.
type PreviewPoint struct {
	ID        string  `json:"manhole_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Color     string  `json:"color"`
}

// SummaryView is the executive overview.
type SummaryView struct {
	TotalManholes       int               `json:"total_manholes"`
	TotalPipes          int               `json:"total_pipes"`
	AverageConnections  float64           `json:"average_connections"`
	CriticalCount       int               `json:"critical_count"`
	CriticalPercent     float64           `json:"critical_percent"`
	HealthPercent       float64           `json:"health_percent"`
	Conditions          []analytics.Count `json:"conditions"`
	Materials           []analytics.Count `json:"materials"`
	CoverTypes          []analytics.Count `json:"cover_types"`
	ConnectionHistogram []analytics.Bin   `json:"connection_histogram"`
	CriticalManholes    []ManholeRow      `json:"critical_manholes"`
	MapCenter           models.Location   `json:"map_center"`
	MapPreview          []PreviewPoint    `json:"map_preview"`
}

func BuildSummary(s *Session) SummaryView {
	manholes := s.Manholes()
	critical := criticalCount(manholes)

	connections := make([]float64, len(manholes))
	locations := make([]models.Location, len(manholes))
	for i, m := range manholes {
		connections[i] = float64(m.Connections)
		locations[i] = m.Location()
	}

	v := SummaryView{
		TotalManholes:       len(manholes),
		TotalPipes:          len(s.Pipes()),
		AverageConnections:  analytics.Mean(connections),
		CriticalCount:       critical,
		CriticalPercent:     analytics.Percent(critical, len(manholes)),
		HealthPercent:       healthPercent(manholes),
		Conditions:          analytics.CountBy(manholes, conditionOf, analytics.Labels(models.Conditions)),
		Materials:           analytics.CountBy(manholes, materialOf, nil),
		CoverTypes:          analytics.CountBy(manholes, coverOf, nil),
		ConnectionHistogram: analytics.Histogram(connections, connectionBins),
		CriticalManholes:    []ManholeRow{},
		MapCenter:           geo.Center(locations, geo.Origin),
		MapPreview:          make([]PreviewPoint, 0, min(len(manholes), mapPreviewPoints)),
	}

	for _, m := range manholes {
		if len(v.CriticalManholes) == criticalPreview {
			break
		}
		if m.Condition.IsCritical() {
			v.CriticalManholes = append(v.CriticalManholes, manholeRow(m))
		}
	}
	for _, m := range manholes[:min(len(manholes), mapPreviewPoints)] {
		v.MapPreview = append(v.MapPreview, PreviewPoint{
			ID:        m.ID,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
			Color:     previewColor(m.Condition),
		})
	}
	return v
}

func previewColor(c models.Condition) string {
	switch {
	case c == models.ConditionGood:
		return "green"
	case c.IsCritical():
		return "red"
	default:
		return "blue"
	}
}

func conditionOf(m models.Manhole) string { return string(m.Condition) }
func materialOf(m models.Manhole) string  { return string(m.Material) }
func coverOf(m models.Manhole) string     { return string(m.CoverType) }
func wardOf(m models.Manhole) string      { return m.Ward }
