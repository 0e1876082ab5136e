package analytics

import (
	"math"

	"mcc-sewer-dashboard/models"
)

const (
	connectionDivisor  = 5.0
	maxConnectionScore = 3.0
	defaultCondition   = 2.0
)

// ConditionScore maps a grade to its risk weight; unrecognised grades
// weigh like Fair.
func ConditionScore(c models.Condition) float64 {
	switch c {
	case models.ConditionGood:
		return 1
	case models.ConditionFair:
		return 2
	case models.ConditionPoor:
		return 3
	case models.ConditionBroken:
		return 4
	default:
		return defaultCondition
	}
}

// RiskScore combines condition with connectivity. The connection term is
// clamped to [0, 3].
func RiskScore(c models.Condition, connections int) float64 {
	conn := math.Min(float64(connections)/connectionDivisor, maxConnectionScore)
	if conn < 0 {
		conn = 0
	}
	return ConditionScore(c) + conn
}

// RiskBucket places score in Low (0,2], Medium (2,4], High (4,6] or
// Critical (6,8]. Scores outside (0,8] have no bucket.
func RiskBucket(score float64) models.RiskCategory {
	switch {
	case math.IsNaN(score) || score <= 0 || score > 8:
		return models.RiskNone
	case score <= 2:
		return models.RiskLow
	case score <= 4:
		return models.RiskMedium
	case score <= 6:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

// Risk is the derived severity of one manhole.
type Risk struct {
	Score    float64             `json:"risk_score"`
	Category models.RiskCategory `json:"risk_category"`
}

// Assess scores a manhole.
func Assess(m models.Manhole) Risk {
	score := RiskScore(m.Condition, m.Connections)
	return Risk{Score: score, Category: RiskBucket(score)}
}
