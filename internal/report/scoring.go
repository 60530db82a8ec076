package report

import "math"

// Composite weights per evaluation type. They must sum to 1.0.
const (
	WeightSelf      = 0.10
	WeightHetero    = 0.40
	WeightCo        = 0.30
	WeightAuthority = 0.20
)

// FormType evaluation instrument whose answers feed one of the four averages
type FormType string

const (
	FormSelf   FormType = "autoevaluacion"
	FormHetero FormType = "heteroevaluacion"
	FormCo     FormType = "coevaluacion"
)

// ScaleFactor maps the 0–5 ordinal answer scale onto 0–100
const ScaleFactor = 20.0

// ScoreSet raw averages for one teacher in one period, each on a 0–100 scale.
// A nil field means no completed evaluation of that type exists.
type ScoreSet struct {
	Self      *float64 `json:"self"`
	Hetero    *float64 `json:"hetero"`
	Co        *float64 `json:"co"`
	Authority *float64 `json:"authority"`
}

// Empty reports whether every average is absent
func (s ScoreSet) Empty() bool {
	return s.Self == nil && s.Hetero == nil && s.Co == nil && s.Authority == nil
}

// Normalize turns an optional average into a usable number: absent, NaN and ±Inf become 0.
// Out-of-range values pass through unchanged.
func Normalize(x *float64) float64 {
	if x == nil {
		return 0
	}
	return NormalizeValue(*x)
}

// NormalizeValue is Normalize for a present value
func NormalizeValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Composite weighted score from already normalized components
func Composite(self, hetero, co, authority float64) float64 {
	return WeightSelf*self + WeightHetero*hetero + WeightCo*co + WeightAuthority*authority
}

// Weighted normalizes every component of s and combines them.
// Pure and total: it never fails and never returns NaN.
func Weighted(s ScoreSet) (self, hetero, co, authority, composite float64) {
	self = Normalize(s.Self)
	hetero = Normalize(s.Hetero)
	co = Normalize(s.Co)
	authority = Normalize(s.Authority)
	composite = Composite(self, hetero, co, authority)
	return
}

// Round2 rounds half away from zero to two decimals, for presentation only
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
