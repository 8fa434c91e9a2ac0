// internal/api/settings.go
package api

import (
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"roi-navigator/internal/common/errors"
)

func (s *Server) handleGetSettings(ctx *fasthttp.RequestCtx) {
	cfg, err := s.rates.Current(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Settings fetch failed", nil)
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, fasthttp.StatusOK, toRateConfigDTO(cfg))
}

// handlePutSettings replaces the global rate document and invalidates
// the cache so the next calculation sees the new rates immediately.
func (s *Server) handlePutSettings(ctx *fasthttp.RequestCtx) {
	var dto rateConfigDTO
	if err := json.Unmarshal(ctx.PostBody(), &dto); err != nil {
		respondErrorMessage(ctx, fasthttp.StatusBadRequest, "Malformed request body")
		return
	}

	if err := validateRateConfig(dto); err != nil {
		respondError(ctx, err)
		return
	}

	cfg := dto.toModel()

	if err := s.settings.PutGlobalRates(ctx, cfg); err != nil {
		s.logger.WithError(err).Error("Settings update failed", nil)
		respondError(ctx, err)
		return
	}

	if err := s.rates.Invalidate(ctx); err != nil {
		s.logger.WithError(err).Warn("Rate cache invalidation failed after settings update", nil)
	}

	respondSuccess(ctx, fasthttp.StatusOK, toRateConfigDTO(cfg))
}

func validateRateConfig(dto rateConfigDTO) error {
	if dto.Baselines.Low <= 0 || dto.Baselines.Medium <= 0 || dto.Baselines.High <= 0 {
		return errors.NewValidationError("all baseline hours must be positive")
	}

	for _, member := range dto.TeamComposition {
		if member.Rate < 0 {
			return errors.NewValidationError("team member rates must not be negative")
		}
		if member.Share < 0 || member.Share > 1 {
			return errors.NewValidationError("team member shares must be between 0 and 1")
		}
	}

	for name, cost := range dto.InfraCosts {
		if cost < 0 {
			return errors.NewValidationError("infrastructure cost " + name + " must not be negative")
		}
	}

	return nil
}
