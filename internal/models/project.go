// internal/models/project.go
package models

import "time"

// Complexity classifications for an automation candidate.
const (
	ClassificationLow    = "LOW"
	ClassificationMedium = "MEDIUM"
	ClassificationHigh   = "HIGH"
)

// Cognitive levels describing how much reasoning the automation performs.
const (
	CognitiveLevelRule           = "rule"
	CognitiveLevelInterpretation = "interpretation"
	CognitiveLevelCreation       = "creation"
)

// Input variability describing how often document layouts change.
const (
	InputVariabilityNever        = "never"
	InputVariabilityOccasionally = "occasionally"
	InputVariabilityAlways       = "always"
)

// ComplexityInput holds the technical characteristics scored to classify
// a process.
type ComplexityInput struct {
	NumApplications int    `json:"num_applications"`
	DataType        string `json:"data_type"`
	Environment     string `json:"environment"`
	NumSteps        int    `json:"num_steps"`
}

// ComplexityResult is the scored classification and its development
// hours baseline.
type ComplexityResult struct {
	TotalPoints    int     `json:"total_points"`
	Classification string  `json:"classification"`
	Hours          float64 `json:"hours"`
}

// FinancialInputs describe the current manual process.
type FinancialInputs struct {
	Volume    float64 `json:"volume"`     // transactions per month
	AHT       float64 `json:"aht"`        // average handling time, minutes
	FTECost   float64 `json:"fte_cost"`   // monthly cost of one FTE
	ErrorRate float64 `json:"error_rate"` // percent
}

// StrategicAdjustments hold the optional cost drivers layered on top of
// the base operational model.
type StrategicAdjustments struct {
	Needs24h         bool    `json:"needs_24h"`
	ErrorCost        float64 `json:"error_cost"`
	TurnoverRate     float64 `json:"turnover_rate"` // percent
	CognitiveLevel   string  `json:"cognitive_level"`
	InputVariability string  `json:"input_variability"`
}

// MaintenanceInputs parameterize the annual run cost of the automation.
type MaintenanceInputs struct {
	FTEMonthlyCost  float64 `json:"fte_monthly_cost"`
	CapacityDivisor float64 `json:"capacity_divisor"`
}

// AsIsBreakdown itemizes the annual cost of the manual process.
type AsIsBreakdown struct {
	Operational float64 `json:"operational"`
	Risk        float64 `json:"risk"`
	Turnover    float64 `json:"turnover"`
}

// ToBeBreakdown itemizes the annual cost of the automated process.
// License is the automation platform license; Infrastructure covers the
// remaining run costs (virtual machines, databases).
type ToBeBreakdown struct {
	License        float64 `json:"license"`
	Infrastructure float64 `json:"infrastructure"`
	Maintenance    float64 `json:"maintenance"`
	GenAITokens    float64 `json:"genai_tokens"`
	IDPProcessing  float64 `json:"idp_processing"`
}

// CostBreakdown pairs both sides of the comparison.
type CostBreakdown struct {
	AsIs AsIsBreakdown `json:"as_is"`
	ToBe ToBeBreakdown `json:"to_be"`
}

// FinancialResult is the computed ROI snapshot. PaybackMonths is nil
// when monthly savings are not positive.
type FinancialResult struct {
	DevelopmentCost float64       `json:"development_cost"`
	AsIsCostAnnual  float64       `json:"as_is_cost_annual"`
	AsIsCostMonthly float64       `json:"as_is_cost_monthly"`
	ToBeCostAnnual  float64       `json:"to_be_cost_annual"`
	ROIYear1        float64       `json:"roi_year_1"`
	AnnualSavings   float64       `json:"annual_savings"`
	MonthlySavings  float64       `json:"monthly_savings"`
	PaybackMonths   *float64      `json:"payback_months"`
	CostBreakdown   CostBreakdown `json:"cost_breakdown"`
}

// Project is the stored document for one automation candidate. The
// results snapshot is computed at creation and never recomputed on
// update.
type Project struct {
	ID               string               `json:"id"`
	ProjectName      string               `json:"project_name"`
	OwnerUID         string               `json:"owner_uid"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	InputsAsIs       FinancialInputs      `json:"inputs_as_is"`
	ComplexityInput  ComplexityInput      `json:"complexity_input"`
	StrategicInput   StrategicAdjustments `json:"strategic_input"`
	MaintenanceInput MaintenanceInputs    `json:"maintenance_input"`
	ComplexityScore  ComplexityResult     `json:"complexity_score"`
	Results          FinancialResult      `json:"results"`
}
