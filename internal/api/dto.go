// internal/api/dto.go
package api

import (
	"time"

	"roi-navigator/internal/common/auth"
	"roi-navigator/internal/models"
)

// ==========================
// 1. Project Requests
// ==========================

type financialInputsDTO struct {
	Volume    float64 `json:"volume"`
	AHT       float64 `json:"aht"`
	FTECost   float64 `json:"fteCost"`
	ErrorRate float64 `json:"errorRate"`
}

type complexityInputDTO struct {
	NumApplications int    `json:"numApplications"`
	DataType        string `json:"dataType"`
	Environment     string `json:"environment"`
	NumSteps        int    `json:"numSteps"`
}

type strategicDTO struct {
	Needs24h         bool    `json:"needs24h"`
	ErrorCost        float64 `json:"errorCost"`
	TurnoverRate     float64 `json:"turnoverRate"`
	CognitiveLevel   string  `json:"cognitiveLevel"`
	InputVariability string  `json:"inputVariability"`
}

type maintenanceDTO struct {
	FTEMonthlyCost  float64 `json:"fteMonthlyCost"`
	CapacityDivisor float64 `json:"capacityDivisor"`
}

// projectRequest is the grouped camelCase body for create and preview.
// strategic and maintenance are optional.
type projectRequest struct {
	ProjectName string              `json:"projectName"`
	OwnerUID    string              `json:"ownerUid"`
	Inputs      financialInputsDTO  `json:"inputs"`
	Complexity  complexityInputDTO  `json:"complexity"`
	Strategic   *strategicDTO       `json:"strategic"`
	Maintenance *maintenanceDTO     `json:"maintenance"`
}

func (r *projectRequest) financialInputs() models.FinancialInputs {
	return models.FinancialInputs{
		Volume:    r.Inputs.Volume,
		AHT:       r.Inputs.AHT,
		FTECost:   r.Inputs.FTECost,
		ErrorRate: r.Inputs.ErrorRate,
	}
}

func (r *projectRequest) complexityInput() models.ComplexityInput {
	return models.ComplexityInput{
		NumApplications: r.Complexity.NumApplications,
		DataType:        r.Complexity.DataType,
		Environment:     r.Complexity.Environment,
		NumSteps:        r.Complexity.NumSteps,
	}
}

func (r *projectRequest) strategicInput() models.StrategicAdjustments {
	if r.Strategic == nil {
		return models.StrategicAdjustments{}
	}
	return models.StrategicAdjustments{
		Needs24h:         r.Strategic.Needs24h,
		ErrorCost:        r.Strategic.ErrorCost,
		TurnoverRate:     r.Strategic.TurnoverRate,
		CognitiveLevel:   r.Strategic.CognitiveLevel,
		InputVariability: r.Strategic.InputVariability,
	}
}

func (r *projectRequest) maintenanceInput() models.MaintenanceInputs {
	if r.Maintenance == nil {
		return models.MaintenanceInputs{}
	}
	return models.MaintenanceInputs{
		FTEMonthlyCost:  r.Maintenance.FTEMonthlyCost,
		CapacityDivisor: r.Maintenance.CapacityDivisor,
	}
}

// Patch variants carry only the fields the caller wants to change.

type financialInputsPatch struct {
	Volume    *float64 `json:"volume"`
	AHT       *float64 `json:"aht"`
	FTECost   *float64 `json:"fteCost"`
	ErrorRate *float64 `json:"errorRate"`
}

type complexityInputPatch struct {
	NumApplications *int    `json:"numApplications"`
	DataType        *string `json:"dataType"`
	Environment     *string `json:"environment"`
	NumSteps        *int    `json:"numSteps"`
}

type strategicPatch struct {
	Needs24h         *bool    `json:"needs24h"`
	ErrorCost        *float64 `json:"errorCost"`
	TurnoverRate     *float64 `json:"turnoverRate"`
	CognitiveLevel   *string  `json:"cognitiveLevel"`
	InputVariability *string  `json:"inputVariability"`
}

type maintenancePatch struct {
	FTEMonthlyCost  *float64 `json:"fteMonthlyCost"`
	CapacityDivisor *float64 `json:"capacityDivisor"`
}

type updateProjectRequest struct {
	ProjectName *string               `json:"projectName"`
	Inputs      *financialInputsPatch `json:"inputs"`
	Complexity  *complexityInputPatch `json:"complexity"`
	Strategic   *strategicPatch       `json:"strategic"`
	Maintenance *maintenancePatch     `json:"maintenance"`
}

// toPatch converts the set fields into a storage-model merge patch.
func (r *updateProjectRequest) toPatch() map[string]interface{} {
	patch := make(map[string]interface{})

	if r.ProjectName != nil {
		patch["project_name"] = *r.ProjectName
	}

	if r.Inputs != nil {
		inputs := make(map[string]interface{})
		setFloat(inputs, "volume", r.Inputs.Volume)
		setFloat(inputs, "aht", r.Inputs.AHT)
		setFloat(inputs, "fte_cost", r.Inputs.FTECost)
		setFloat(inputs, "error_rate", r.Inputs.ErrorRate)
		if len(inputs) > 0 {
			patch["inputs_as_is"] = inputs
		}
	}

	if r.Complexity != nil {
		complexity := make(map[string]interface{})
		if r.Complexity.NumApplications != nil {
			complexity["num_applications"] = *r.Complexity.NumApplications
		}
		if r.Complexity.DataType != nil {
			complexity["data_type"] = *r.Complexity.DataType
		}
		if r.Complexity.Environment != nil {
			complexity["environment"] = *r.Complexity.Environment
		}
		if r.Complexity.NumSteps != nil {
			complexity["num_steps"] = *r.Complexity.NumSteps
		}
		if len(complexity) > 0 {
			patch["complexity_input"] = complexity
		}
	}

	if r.Strategic != nil {
		strategic := make(map[string]interface{})
		if r.Strategic.Needs24h != nil {
			strategic["needs_24h"] = *r.Strategic.Needs24h
		}
		setFloat(strategic, "error_cost", r.Strategic.ErrorCost)
		setFloat(strategic, "turnover_rate", r.Strategic.TurnoverRate)
		if r.Strategic.CognitiveLevel != nil {
			strategic["cognitive_level"] = *r.Strategic.CognitiveLevel
		}
		if r.Strategic.InputVariability != nil {
			strategic["input_variability"] = *r.Strategic.InputVariability
		}
		if len(strategic) > 0 {
			patch["strategic_input"] = strategic
		}
	}

	if r.Maintenance != nil {
		maintenance := make(map[string]interface{})
		setFloat(maintenance, "fte_monthly_cost", r.Maintenance.FTEMonthlyCost)
		setFloat(maintenance, "capacity_divisor", r.Maintenance.CapacityDivisor)
		if len(maintenance) > 0 {
			patch["maintenance_input"] = maintenance
		}
	}

	return patch
}

func setFloat(dst map[string]interface{}, key string, value *float64) {
	if value != nil {
		dst[key] = *value
	}
}

// ==========================
// 2. Project Responses
// ==========================

type complexityResultResponse struct {
	TotalPoints    int     `json:"totalPoints"`
	Classification string  `json:"classification"`
	Hours          float64 `json:"hours"`
}

type asIsBreakdownResponse struct {
	Operational float64 `json:"operational"`
	Risk        float64 `json:"risk"`
	Turnover    float64 `json:"turnover"`
}

type toBeBreakdownResponse struct {
	License        float64 `json:"license"`
	Infrastructure float64 `json:"infrastructure"`
	Maintenance    float64 `json:"maintenance"`
	GenAITokens    float64 `json:"genaiTokens"`
	IDPProcessing  float64 `json:"idpProcessing"`
}

type costBreakdownResponse struct {
	AsIs asIsBreakdownResponse `json:"asIs"`
	ToBe toBeBreakdownResponse `json:"toBe"`
}

type resultsResponse struct {
	DevelopmentCost float64               `json:"developmentCost"`
	AsIsCostAnnual  float64               `json:"asIsCostAnnual"`
	AsIsCostMonthly float64               `json:"asIsCostMonthly"`
	ToBeCostAnnual  float64               `json:"toBeCostAnnual"`
	ROIYear1        float64               `json:"roiYear1"`
	AnnualSavings   float64               `json:"annualSavings"`
	MonthlySavings  float64               `json:"monthlySavings"`
	PaybackMonths   *float64              `json:"paybackMonths"`
	CostBreakdown   costBreakdownResponse `json:"costBreakdown"`
}

type projectResponse struct {
	ID               string                   `json:"id"`
	ProjectName      string                   `json:"projectName"`
	OwnerUID         string                   `json:"ownerUid"`
	CreatedAt        string                   `json:"createdAt"`
	UpdatedAt        string                   `json:"updatedAt"`
	Inputs           financialInputsDTO       `json:"inputs"`
	Complexity       complexityInputDTO       `json:"complexity"`
	Strategic        strategicDTO             `json:"strategic"`
	Maintenance      maintenanceDTO           `json:"maintenance"`
	ComplexityResult complexityResultResponse `json:"complexityResult"`
	Results          resultsResponse          `json:"results"`
}

// previewResponse is the compute-only result, nothing persisted.
type previewResponse struct {
	ComplexityResult complexityResultResponse `json:"complexityResult"`
	Results          resultsResponse          `json:"results"`
}

func toComplexityResultResponse(c models.ComplexityResult) complexityResultResponse {
	return complexityResultResponse{
		TotalPoints:    c.TotalPoints,
		Classification: c.Classification,
		Hours:          c.Hours,
	}
}

func toResultsResponse(r models.FinancialResult) resultsResponse {
	return resultsResponse{
		DevelopmentCost: r.DevelopmentCost,
		AsIsCostAnnual:  r.AsIsCostAnnual,
		AsIsCostMonthly: r.AsIsCostMonthly,
		ToBeCostAnnual:  r.ToBeCostAnnual,
		ROIYear1:        r.ROIYear1,
		AnnualSavings:   r.AnnualSavings,
		MonthlySavings:  r.MonthlySavings,
		PaybackMonths:   r.PaybackMonths,
		CostBreakdown: costBreakdownResponse{
			AsIs: asIsBreakdownResponse{
				Operational: r.CostBreakdown.AsIs.Operational,
				Risk:        r.CostBreakdown.AsIs.Risk,
				Turnover:    r.CostBreakdown.AsIs.Turnover,
			},
			ToBe: toBeBreakdownResponse{
				License:        r.CostBreakdown.ToBe.License,
				Infrastructure: r.CostBreakdown.ToBe.Infrastructure,
				Maintenance:    r.CostBreakdown.ToBe.Maintenance,
				GenAITokens:    r.CostBreakdown.ToBe.GenAITokens,
				IDPProcessing:  r.CostBreakdown.ToBe.IDPProcessing,
			},
		},
	}
}

func toProjectResponse(p *models.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		ProjectName: p.ProjectName,
		OwnerUID:    p.OwnerUID,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
		Inputs: financialInputsDTO{
			Volume:    p.InputsAsIs.Volume,
			AHT:       p.InputsAsIs.AHT,
			FTECost:   p.InputsAsIs.FTECost,
			ErrorRate: p.InputsAsIs.ErrorRate,
		},
		Complexity: complexityInputDTO{
			NumApplications: p.ComplexityInput.NumApplications,
			DataType:        p.ComplexityInput.DataType,
			Environment:     p.ComplexityInput.Environment,
			NumSteps:        p.ComplexityInput.NumSteps,
		},
		Strategic: strategicDTO{
			Needs24h:         p.StrategicInput.Needs24h,
			ErrorCost:        p.StrategicInput.ErrorCost,
			TurnoverRate:     p.StrategicInput.TurnoverRate,
			CognitiveLevel:   p.StrategicInput.CognitiveLevel,
			InputVariability: p.StrategicInput.InputVariability,
		},
		Maintenance: maintenanceDTO{
			FTEMonthlyCost:  p.MaintenanceInput.FTEMonthlyCost,
			CapacityDivisor: p.MaintenanceInput.CapacityDivisor,
		},
		ComplexityResult: toComplexityResultResponse(p.ComplexityScore),
		Results:          toResultsResponse(p.Results),
	}
}

func toProjectListResponse(projects []*models.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out
}

// ==========================
// 3. Settings
// ==========================

type teamMemberDTO struct {
	Role  string  `json:"role"`
	Rate  float64 `json:"rate"`
	Share float64 `json:"share"`
}

type baselinesDTO struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

type rateConfigDTO struct {
	TeamComposition []teamMemberDTO    `json:"teamComposition"`
	InfraCosts      map[string]float64 `json:"infraCosts"`
	Baselines       baselinesDTO       `json:"baselines"`
}

func toRateConfigDTO(cfg *models.GlobalRateConfig) rateConfigDTO {
	team := make([]teamMemberDTO, 0, len(cfg.TeamComposition))
	for _, m := range cfg.TeamComposition {
		team = append(team, teamMemberDTO{Role: m.Role, Rate: m.Rate, Share: m.Share})
	}

	return rateConfigDTO{
		TeamComposition: team,
		InfraCosts:      cfg.InfraCosts,
		Baselines:       baselinesDTO(cfg.Baselines),
	}
}

func (d rateConfigDTO) toModel() *models.GlobalRateConfig {
	team := make([]models.TeamMember, 0, len(d.TeamComposition))
	for _, m := range d.TeamComposition {
		team = append(team, models.TeamMember{Role: m.Role, Rate: m.Rate, Share: m.Share})
	}

	return &models.GlobalRateConfig{
		TeamComposition: team,
		InfraCosts:      d.InfraCosts,
		Baselines:       models.Baselines(d.Baselines),
	}
}

// ==========================
// 4. Users
// ==========================

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Enabled   bool   `json:"enabled"`
	Blocked   bool   `json:"blocked"`
	Role      string `json:"role"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Enabled:   u.Enabled,
		Blocked:   u.Blocked(),
		Role:      u.Role(),
	}
}
