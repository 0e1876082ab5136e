package services

import (
	"sort"

	"mcc-sewer-dashboard/analytics"
	"mcc-sewer-dashboard/models"
)

// MaterialPerformance compares condition outcomes per material.
type MaterialPerformance struct {
	Material           models.Material `json:"material"`
	Total              int             `json:"total"`
	GoodPercent        float64         `json:"good_percent"`
	CriticalPercent    float64         `json:"poor_broken_percent"`
	AverageConnections float64         `json:"average_connections"`
}

// MaterialView is the material & cover analysis.
type MaterialView struct {
	DistinctMaterials   int                   `json:"distinct_materials"`
	DistinctCovers      int                   `json:"distinct_covers"`
	MostCommonMaterial  string                `json:"most_common_material"`
	MostCommonCover     string                `json:"most_common_cover"`
	Materials           []analytics.Count     `json:"materials"`
	MaterialByCondition analytics.Crosstab    `json:"material_by_condition"`
	CoverTypes          []analytics.Count     `json:"cover_types"`
	CoverByMaterial     analytics.Crosstab    `json:"cover_by_material"`
	Performance         []MaterialPerformance `json:"performance"`
}

func BuildMaterials(s *Session) MaterialView {
	manholes := s.Manholes()
	materials := make([]string, len(manholes))
	covers := make([]string, len(manholes))
	for i, m := range manholes {
		materials[i] = string(m.Material)
		covers[i] = string(m.CoverType)
	}

	return MaterialView{
		DistinctMaterials:   analytics.Distinct(materials),
		DistinctCovers:      analytics.Distinct(covers),
		MostCommonMaterial:  analytics.Mode(materials),
		MostCommonCover:     analytics.Mode(covers),
		Materials:           analytics.CountBy(manholes, materialOf, nil),
		MaterialByCondition: analytics.CrosstabBy(manholes, materialOf, conditionOf, nil, analytics.Labels(models.Conditions)),
		CoverTypes:          analytics.CountBy(manholes, coverOf, nil),
		CoverByMaterial:     analytics.CrosstabBy(manholes, coverOf, materialOf, nil, nil),
		Performance:         materialPerformance(manholes),
	}
}

func materialPerformance(manholes []models.Manhole) []MaterialPerformance {
	groups := make(map[models.Material][]models.Manhole)
	for _, m := range manholes {
		groups[m.Material] = append(groups[m.Material], m)
	}

	out := make([]MaterialPerformance, 0, len(groups))
	for material, group := range groups {
		good := 0
		connections := make([]float64, len(group))
		for i, m := range group {
			if m.Condition == models.ConditionGood {
				good++
			}
			connections[i] = float64(m.Connections)
		}
		out = append(out, MaterialPerformance{
			Material:           material,
			Total:              len(group),
			GoodPercent:        analytics.Percent(good, len(group)),
			CriticalPercent:    analytics.Percent(criticalCount(group), len(group)),
			AverageConnections: analytics.Mean(connections),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GoodPercent != out[j].GoodPercent {
			return out[i].GoodPercent > out[j].GoodPercent
		}
		return out[i].Material < out[j].Material
	})
	return out
}
