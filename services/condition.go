package services

import (
	"sort"

	"mcc-sewer-dashboard/analytics"
	"mcc-sewer-dashboard/models"
)

// RiskRow is an inventory line of the condition view.
type RiskRow struct {
	ID          string              `json:"manhole_id"`
	Road        string              `json:"road"`
	Ward        string              `json:"ward"`
	Zone        string              `json:"zone"`
	Condition   models.Condition    `json:"condition"`
	Material    models.Material     `json:"material"`
	CoverType   models.CoverType    `json:"cover_type"`
	Connections int                 `json:"no_of_connections"`
	RiskScore   float64             `json:"risk_score"`
	Risk        models.RiskCategory `json:"risk_category"`
}

// ConditionView is the condition & risk analysis.
type ConditionView struct {
	Filter              models.ConditionFilter `json:"filter"`
	FilteredCount       int                    `json:"filtered_count"`
	FilteredPercent     float64                `json:"filtered_percent"`
	CriticalCount       int                    `json:"critical_count"`
	CriticalPercent     float64                `json:"critical_percent"`
	AverageConnections  float64                `json:"average_connections"`
	DistinctMaterials   int                    `json:"distinct_materials"`
	Conditions          []analytics.Count      `json:"conditions"`
	ConditionByMaterial analytics.Crosstab     `json:"condition_by_material"`
	WardByCondition     analytics.Crosstab     `json:"ward_by_condition"`
	RiskDistribution    []analytics.Count      `json:"risk_distribution"`
	Inventory           []RiskRow              `json:"inventory"`
}

// FilterManholes applies the condition view's own filters.
func FilterManholes(manholes []models.Manhole, f models.ConditionFilter) []models.Manhole {
	conditions := newSelection(f.Conditions)
	materials := newSelection(f.Materials)
	wards := newSelection(f.Wards)

	out := make([]models.Manhole, 0, len(manholes))
	for _, m := range manholes {
		if !conditions.accepts(string(m.Condition)) || !materials.accepts(string(m.Material)) || !wards.accepts(m.Ward) {
			continue
		}
		if f.MinConnections != nil && m.Connections < *f.MinConnections {
			continue
		}
		if f.MaxConnections != nil && m.Connections > *f.MaxConnections {
			continue
		}
		out = append(out, m)
	}
	return out
}

func BuildCondition(s *Session, f models.ConditionFilter) ConditionView {
	filtered := FilterManholes(s.Manholes(), f)
	critical := criticalCount(filtered)

	connections := make([]float64, len(filtered))
	materials := make([]string, len(filtered))
	inventory := make([]RiskRow, len(filtered))
	for i, m := range filtered {
		connections[i] = float64(m.Connections)
		materials[i] = string(m.Material)
		risk := analytics.Assess(m)
		inventory[i] = RiskRow{
			ID:          m.ID,
			Road:        m.Road,
			Ward:        m.Ward,
			Zone:        m.Zone,
			Condition:   m.Condition,
			Material:    m.Material,
			CoverType:   m.CoverType,
			Connections: m.Connections,
			RiskScore:   risk.Score,
			Risk:        risk.Category,
		}
	}
	sort.SliceStable(inventory, func(i, j int) bool {
		si, sj := inventory[i].Condition.Severity(), inventory[j].Condition.Severity()
		if si != sj {
			return si > sj
		}
		return inventory[i].ID < inventory[j].ID
	})

	return ConditionView{
		Filter:              f,
		FilteredCount:       len(filtered),
		FilteredPercent:     analytics.Percent(len(filtered), len(s.Manholes())),
		CriticalCount:       critical,
		CriticalPercent:     analytics.Percent(critical, len(filtered)),
		AverageConnections:  analytics.Mean(connections),
		DistinctMaterials:   analytics.Distinct(materials),
		Conditions:          analytics.CountBy(filtered, conditionOf, analytics.Labels(models.Conditions)),
		ConditionByMaterial: analytics.CrosstabBy(filtered, conditionOf, materialOf, analytics.Labels(models.Conditions), nil),
		WardByCondition:     analytics.CrosstabBy(filtered, wardOf, conditionOf, nil, analytics.Labels(models.Conditions)),
		RiskDistribution:    analytics.CountBy(inventory, riskOf, analytics.Labels(models.RiskCategories)),
		Inventory:           inventory,
	}
}

func riskOf(r RiskRow) string { return string(r.Risk) }
