package services

import (
	"sort"

	"mcc-sewer-dashboard/analytics"
	"mcc-sewer-dashboard/generators"
	"mcc-sewer-dashboard/models"
)

const lengthBins = 30

// LengthStats aggregates pipe length per group, rounded to one decimal.
type LengthStats struct {
	Label string  `json:"label"`
	Total float64 `json:"total_length"`
	Mean  float64 `json:"average_length"`
	Count int     `json:"count"`
}

// PipeRow is an inventory line of the pipe view.
type PipeRow struct {
	ID               string           `json:"pipe_id"`
	Material         models.Material  `json:"material"`
	Diameter         models.Diameter  `json:"diameter"`
	Length           float64          `json:"length"`
	Layer            models.Layer     `json:"layer"`
	Condition        models.Condition `json:"condition"`
	ConnectedPair    string           `json:"connected_manholes"`
	MaintenanceState string           `json:"maintenance_status,omitempty"`
}

// PipeView is the pipe network and connectivity analysis.
type PipeView struct {
	TotalPipes         int                          `json:"total_pipes"`
	TotalLength        float64                      `json:"total_length"`
	DistinctMaterials  int                          `json:"distinct_materials"`
	DistinctDiameters  int                          `json:"distinct_diameters"`
	Filter             models.PipeFilter            `json:"filter"`
	FilteredCount      int                          `json:"filtered_count"`
	FilteredPercent    float64                      `json:"filtered_percent"`
	FilteredLength     float64                      `json:"filtered_length"`
	AverageLength      float64                      `json:"average_length"`
	MaxLength          float64                      `json:"max_length"`
	MaterialLengths    []LengthStats                `json:"material_lengths"`
	DiameterLengths    []LengthStats                `json:"diameter_lengths"`
	LengthHistogram    []analytics.Bin              `json:"length_histogram"`
	MaterialByDiameter analytics.Crosstab           `json:"material_by_diameter"`
	Connectivity       analytics.ConnectivityReport `json:"connectivity"`
	Inventory          []PipeRow                    `json:"inventory"`
}

// FilterPipes applies the pipe view's own filters.
func FilterPipes(pipes []models.Pipe, f models.PipeFilter) []models.Pipe {
	materials := newSelection(f.Materials)
	diameters := newSelection(f.Diameters)
	layers := newSelection(f.Layers)

	out := make([]models.Pipe, 0, len(pipes))
	for _, p := range pipes {
		if materials.accepts(string(p.Material)) && diameters.accepts(string(p.Diameter)) && layers.accepts(string(p.Layer)) {
			out = append(out, p)
		}
	}
	return out
}

func BuildPipes(s *Session, f models.PipeFilter) PipeView {
	all := s.Pipes()
	filtered := FilterPipes(all, f)

	var total float64
	materials := make([]string, len(all))
	diameters := make([]string, len(all))
	for i, p := range all {
		total += p.Length
		materials[i] = string(p.Material)
		diameters[i] = string(p.Diameter)
	}

	lengths := make([]float64, len(filtered))
	var filteredLength, maxLength float64
	inventory := make([]PipeRow, len(filtered))
	for i, p := range filtered {
		lengths[i] = p.Length
		filteredLength += p.Length
		maxLength = max(maxLength, p.Length)
		inventory[i] = PipeRow{
			ID:               p.ID,
			Material:         p.Material,
			Diameter:         p.Diameter,
			Length:           p.Length,
			Layer:            p.Layer,
			Condition:        p.Condition,
			ConnectedPair:    p.ConnectedPair(),
			MaintenanceState: p.MaintenanceStatus,
		}
	}
	sort.SliceStable(inventory, func(i, j int) bool {
		if inventory[i].Length != inventory[j].Length {
			return inventory[i].Length > inventory[j].Length
		}
		return inventory[i].ID < inventory[j].ID
	})

	return PipeView{
		TotalPipes:        len(all),
		TotalLength:       total,
		DistinctMaterials: analytics.Distinct(materials),
		DistinctDiameters: analytics.Distinct(diameters),
		Filter:            f,
		FilteredCount:     len(filtered),
		FilteredPercent:   analytics.Percent(len(filtered), len(all)),
		FilteredLength:    filteredLength,
		AverageLength:     analytics.Mean(lengths),
		MaxLength:         maxLength,
		MaterialLengths:   lengthStats(filtered, func(p models.Pipe) string { return string(p.Material) }),
		DiameterLengths:   lengthStats(filtered, func(p models.Pipe) string { return string(p.Diameter) }),
		LengthHistogram:   analytics.Histogram(lengths, lengthBins),
		MaterialByDiameter: analytics.CrosstabBy(filtered,
			func(p models.Pipe) string { return string(p.Material) },
			func(p models.Pipe) string { return string(p.Diameter) },
			nil, analytics.Labels(models.Diameters)),
		Connectivity: analytics.Connectivity(analytics.PipePairs(filtered), s.Manholes()),
		Inventory:    inventory,
	}
}

// lengthStats groups pipes by key, ordered by total length descending.
func lengthStats(pipes []models.Pipe, key func(models.Pipe) string) []LengthStats {
	groups := make(map[string][]float64)
	for _, p := range pipes {
		groups[key(p)] = append(groups[key(p)], p.Length)
	}
	out := make([]LengthStats, 0, len(groups))
	for label, lengths := range groups {
		var sum float64
		for _, l := range lengths {
			sum += l
		}
		out = append(out, LengthStats{
			Label: label,
			Total: generators.Round(sum, 1),
			Mean:  generators.Round(sum/float64(len(lengths)), 1),
			Count: len(lengths),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Label < out[j].Label
	})
	return out
}
