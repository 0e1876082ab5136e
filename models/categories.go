package models

import "strings"

// Condition is the ordered inspection grade of an asset.
type Condition string

const (
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionPoor    Condition = "Poor"
	ConditionBroken  Condition = "Broken"
	ConditionUnknown Condition = "Unknown"
)

// Conditions lists the known grades from best to worst.
var Conditions = []Condition{ConditionGood, ConditionFair, ConditionPoor, ConditionBroken}

// Severity orders conditions; Unknown sorts below Good.
func (c Condition) Severity() int {
	switch c {
	case ConditionGood:
		return 1
	case ConditionFair:
		return 2
	case ConditionPoor:
		return 3
	case ConditionBroken:
		return 4
	default:
		return 0
	}
}

// IsCritical reports whether the asset needs priority maintenance.
func (c Condition) IsCritical() bool {
	return c == ConditionPoor || c == ConditionBroken
}

// ParseCondition maps free text to a known grade, case-insensitively.
// Empty input resolves to Unknown; unrecognised text is kept trimmed.
func ParseCondition(s string) Condition {
	s = strings.TrimSpace(s)
	if s == "" {
		return ConditionUnknown
	}
	for _, c := range Conditions {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return Condition(s)
}

// Material is the construction material of a manhole or pipe.
type Material string

const (
	MaterialConcrete Material = "Concrete"
	MaterialPVC      Material = "PVC"
	MaterialBrick    Material = "Brick"
	MaterialSteel    Material = "Steel"
	MaterialCastIron Material = "Cast Iron"
	MaterialClay     Material = "Clay"
	MaterialHDPE     Material = "HDPE"
	MaterialUnknown  Material = "Unknown"
)

// CoverType is the manhole lid shape.
type CoverType string

const (
	CoverCircular    CoverType = "Circular"
	CoverRectangular CoverType = "Rectangular"
	CoverSquare      CoverType = "Square"
	CoverOval        CoverType = "Oval"
	CoverUnknown     CoverType = "Unknown"
)

// Diameter is the nominal pipe bore.
type Diameter string

const (
	Diameter150 Diameter = "150mm"
	Diameter225 Diameter = "225mm"
	Diameter300 Diameter = "300mm"
	Diameter450 Diameter = "450mm"
	Diameter600 Diameter = "600mm"
)

// Diameters is the fixed set of bores a generated pipe can take.
var Diameters = []Diameter{Diameter150, Diameter225, Diameter300, Diameter450, Diameter600}

// Layer is the drawing layer a pipe was digitised on.
type Layer string

const (
	Layer1 Layer = "Layer 1"
	Layer2 Layer = "Layer 2"
	Layer3 Layer = "Layer 3"
)

// RiskCategory buckets a risk score.
type RiskCategory string

const (
	RiskLow      RiskCategory = "Low"
	RiskMedium   RiskCategory = "Medium"
	RiskHigh     RiskCategory = "High"
	RiskCritical RiskCategory = "Critical"
	// RiskNone marks a score outside every bucket.
	RiskNone RiskCategory = ""
)

// RiskCategories lists buckets in ascending severity.
var RiskCategories = []RiskCategory{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// Fallbacks applied when a source table has no value or no column.
const (
	DefaultRoad = "Road Data"
	DefaultWard = "Ward 1"
	DefaultZone = "Zone 1"
	unknownText = "Unknown"
)

// ResolveDefaults fills every empty categorical field of m. It is the
// single place where load-time defaults are decided.
func ResolveDefaults(m *Manhole) {
	m.ID = strings.TrimSpace(m.ID)
	if m.Condition == "" {
		m.Condition = ConditionUnknown
	}
	if strings.TrimSpace(string(m.Material)) == "" {
		m.Material = MaterialUnknown
	}
	if strings.TrimSpace(string(m.CoverType)) == "" {
		m.CoverType = CoverUnknown
	}
	if strings.TrimSpace(m.Road) == "" {
		m.Road = DefaultRoad
	}
	if strings.TrimSpace(m.Ward) == "" {
		m.Ward = DefaultWard
	}
	if strings.TrimSpace(m.Zone) == "" {
		m.Zone = DefaultZone
	}
	if m.Connections < 0 {
		m.Connections = 0
	}
}

// TextOrUnknown trims s and substitutes the literal "Unknown" when empty.
func TextOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return unknownText
	}
	return s
}
