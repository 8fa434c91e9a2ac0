// internal/engine/complexity.go

// Package engine implements the complexity scorer and the financial
// ROI model. It is the single source for both, so the persisted and
// preview calculation paths cannot drift apart.
package engine

import "roi-navigator/internal/models"

// ==========================
// 1. Complexity Scoring
// ==========================

// ScoreComplexity converts the technical characteristics of a process
// into a point total and classification. Unset fields fall back to the
// least complex option.
func ScoreComplexity(in models.ComplexityInput) (int, string) {
	points := 0

	switch {
	case in.NumApplications <= 2:
		points += 1
	case in.NumApplications <= 4:
		points += 2
	default:
		points += 3
	}

	switch in.DataType {
	case "text":
		points += 2
	case "ocr":
		points += 5
	default: // "structured" and anything unrecognized
		points += 1
	}

	switch in.Environment {
	case "sap":
		points += 2
	case "citrix":
		points += 4
	default: // "web" and anything unrecognized
		points += 1
	}

	switch {
	case in.NumSteps < 20:
		points += 1
	case in.NumSteps <= 50:
		points += 3
	default:
		points += 5
	}

	return points, classify(points)
}

// classify maps a point total to a classification band.
func classify(points int) string {
	switch {
	case points >= 12:
		return models.ClassificationHigh
	case points >= 7:
		return models.ClassificationMedium
	default:
		return models.ClassificationLow
	}
}

// Classify scores the input and resolves the development hours baseline
// for the resulting band.
func Classify(in models.ComplexityInput, baselines models.Baselines) models.ComplexityResult {
	points, classification := ScoreComplexity(in)
	return models.ComplexityResult{
		TotalPoints:    points,
		Classification: classification,
		Hours:          baselines.HoursFor(classification),
	}
}
