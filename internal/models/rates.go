// internal/models/rates.go
package models

// TeamMember is one role in the delivery team composition.
type TeamMember struct {
	Role  string  `json:"role"`
	Rate  float64 `json:"rate"`  // hourly rate
	Share float64 `json:"share"` // fraction of total hours, 0..1
}

// Baselines are the development hours per complexity classification.
type Baselines struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// GlobalRateConfig is the shared pricing document every calculation
// reads. A single copy lives in the settings store under a fixed key.
type GlobalRateConfig struct {
	TeamComposition []TeamMember       `json:"team_composition"`
	InfraCosts      map[string]float64 `json:"infra_costs"`
	Baselines       Baselines          `json:"baselines"`
}

// HoursFor returns the development hours baseline for a classification.
func (b Baselines) HoursFor(classification string) float64 {
	switch classification {
	case ClassificationHigh:
		return b.High
	case ClassificationMedium:
		return b.Medium
	default:
		return b.Low
	}
}
