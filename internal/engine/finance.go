// internal/engine/finance.go
package engine

import (
	"math"
	"sort"

	"roi-navigator/internal/common/errors"
	"roi-navigator/internal/models"
)

// Financial model constants.
const (
	monthlyFTEMinutes   = 9600.0 // working minutes per FTE per month
	turnoverCostFactor  = 0.2    // replacement cost as fraction of annual salary
	genAITokenCostPerTx = 0.05
	idpFlatAnnualCost   = 5000.0
	fallbackMaintRatio  = 0.15
	serviceMultiplier24 = 3.0
)

// licenseCostKey is the rate-document entry reported as the platform
// license component of the cost breakdown.
const licenseCostKey = "rpa_license_annual"

// ComputeROI runs the full financial model for one project. The rate
// document must yield a positive development cost; a zero cost is a
// configuration error, not a division by zero.
func ComputeROI(
	in models.FinancialInputs,
	strategic models.StrategicAdjustments,
	maintenance models.MaintenanceInputs,
	score models.ComplexityResult,
	rates *models.GlobalRateConfig,
) (*models.FinancialResult, error) {
	// AS-IS side. The 24h multiplier applies to the operational base
	// only; risk and turnover are staffed-hours independent.
	operational := (in.Volume * in.AHT * 12) * (in.FTECost / monthlyFTEMinutes) * (1 + in.ErrorRate/100)
	if strategic.Needs24h {
		operational *= serviceMultiplier24
	}

	var risk float64
	if strategic.ErrorCost > 0 {
		risk = (in.Volume * 12) * (in.ErrorRate / 100) * strategic.ErrorCost
	}

	var turnover float64
	if strategic.TurnoverRate > 0 {
		fteCount := (in.Volume * in.AHT) / monthlyFTEMinutes
		turnover = (in.FTECost * 12 * turnoverCostFactor) * (strategic.TurnoverRate / 100) * fteCount
	}

	asIsTotal := operational + risk + turnover

	// Development cost from the blended hourly rate.
	blendedRate := BlendedRate(rates.TeamComposition)
	devCost := score.Hours * blendedRate
	if devCost <= 0 {
		return nil, errors.NewInvalidRateConfigError(
			"development cost resolved to zero; check baselines and team composition",
		)
	}

	// TO-BE side. Costs are summed in key order so repeated runs over
	// the same document produce bit-identical totals. The platform
	// license is reported separately from the remaining infra costs.
	names := make([]string, 0, len(rates.InfraCosts))
	for name := range rates.InfraCosts {
		names = append(names, name)
	}
	sort.Strings(names)

	var license, infra float64
	for _, name := range names {
		if name == licenseCostKey {
			license += rates.InfraCosts[name]
		} else {
			infra += rates.InfraCosts[name]
		}
	}

	var genAI float64
	if strategic.CognitiveLevel == models.CognitiveLevelCreation {
		genAI = in.Volume * 12 * genAITokenCostPerTx
	}

	var idp float64
	if strategic.InputVariability == models.InputVariabilityAlways {
		idp = idpFlatAnnualCost
	}

	var maint float64
	if maintenance.FTEMonthlyCost > 0 && maintenance.CapacityDivisor > 0 {
		maint = (maintenance.FTEMonthlyCost / maintenance.CapacityDivisor) * 12
	} else {
		maint = devCost * fallbackMaintRatio
	}

	toBeTotal := license + infra + maint + genAI + idp

	// ROI.
	savings := asIsTotal - toBeTotal
	roiYear1 := ((savings - devCost) / devCost) * 100
	monthly := savings / 12

	var payback *float64
	if monthly > 0 {
		v := round1(devCost / monthly)
		payback = &v
	}

	return &models.FinancialResult{
		DevelopmentCost: round2(devCost),
		AsIsCostAnnual:  round2(asIsTotal),
		AsIsCostMonthly: round2(asIsTotal / 12),
		ToBeCostAnnual:  round2(toBeTotal),
		ROIYear1:        round2(roiYear1),
		AnnualSavings:   round2(savings),
		MonthlySavings:  round2(monthly),
		PaybackMonths:   payback,
		CostBreakdown: models.CostBreakdown{
			AsIs: models.AsIsBreakdown{
				Operational: round2(operational),
				Risk:        round2(risk),
				Turnover:    round2(turnover),
			},
			ToBe: models.ToBeBreakdown{
				License:        round2(license),
				Infrastructure: round2(infra),
				Maintenance:    round2(maint),
				GenAITokens:    round2(genAI),
				IDPProcessing:  round2(idp),
			},
		},
	}, nil
}

// BlendedRate computes the share-weighted hourly rate of the delivery
// team. An empty composition falls back to the default hourly rate.
func BlendedRate(team []models.TeamMember) float64 {
	if len(team) == 0 {
		return defaultHourlyRate
	}

	var rate float64
	for _, member := range team {
		rate += member.Rate * member.Share
	}
	return rate
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
