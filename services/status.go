package services

import (
	"time"

	"mcc-sewer-dashboard/models"
)

// StatusView is the system status panel.
type StatusView struct {
	Filter        models.GlobalFilter `json:"filter"`
	Manholes      int                 `json:"manholes"`
	Pipes         int                 `json:"pipes"`
	HealthPercent float64             `json:"health_percent"`
	ManholeSource models.DataSource   `json:"manhole_source"`
	PipeSource    models.DataSource   `json:"pipe_source"`
	SourcePipes   int                 `json:"source_pipe_rows"`
	Warnings      []string            `json:"warnings"`
	Seed          uint64              `json:"seed"`
	LoadedAt      time.Time           `json:"loaded_at"`
	Zones         []string            `json:"zones"`
	Wards         []string            `json:"wards"`
}

func BuildStatus(s *Session) StatusView {
	ds := s.Dataset()
	warnings := ds.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return StatusView{
		Filter:        s.Filter(),
		Manholes:      len(s.Manholes()),
		Pipes:         len(s.Pipes()),
		HealthPercent: healthPercent(s.Manholes()),
		ManholeSource: ds.ManholeSource,
		PipeSource:    ds.PipeSource,
		SourcePipes:   len(ds.SourcePipes),
		Warnings:      warnings,
		Seed:          ds.Seed,
		LoadedAt:      ds.LoadedAt,
		Zones:         distinctSorted(ds.Manholes, func(m models.Manhole) string { return m.Zone }),
		Wards:         distinctSorted(ds.Manholes, wardOf),
	}
}
