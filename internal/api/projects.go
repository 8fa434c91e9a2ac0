// internal/api/projects.go
package api

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"roi-navigator/internal/common/metrics"
	"roi-navigator/internal/engine"
	"roi-navigator/internal/models"
)

const anonymousOwner = "anonymous"

// handleCreateProject scores, calculates and persists a new project.
// The results snapshot written here is final; later updates never
// recompute it.
func (s *Server) handleCreateProject(ctx *fasthttp.RequestCtx) {
	body := ctx.PostBody()

	if err := validateProjectBody(createProjectSchema, body); err != nil {
		respondError(ctx, err)
		return
	}

	var req projectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondErrorMessage(ctx, fasthttp.StatusBadRequest, "Malformed request body")
		return
	}

	if req.OwnerUID == "" {
		req.OwnerUID = anonymousOwner
	}

	rates, err := s.rates.Current(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Rate fetch failed during project creation", nil)
		respondError(ctx, err)
		return
	}

	score := engine.Classify(req.complexityInput(), rates.Baselines)

	results, err := engine.ComputeROI(req.financialInputs(), req.strategicInput(), req.maintenanceInput(), score, rates)
	if err != nil {
		s.logger.WithError(err).Error("ROI calculation failed", nil)
		respondError(ctx, err)
		return
	}
	metrics.ROICalculationsTotal.WithLabelValues("create").Inc()

	project := &models.Project{
		ProjectName:      req.ProjectName,
		OwnerUID:         req.OwnerUID,
		InputsAsIs:       req.financialInputs(),
		ComplexityInput:  req.complexityInput(),
		StrategicInput:   req.strategicInput(),
		MaintenanceInput: req.maintenanceInput(),
		ComplexityScore:  score,
		Results:          *results,
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		s.logger.WithError(err).Error("Project create failed", nil)
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, fasthttp.StatusCreated, toProjectResponse(created))
}

// handlePreviewProject runs the same scoring and calculation as create
// without persisting anything.
func (s *Server) handlePreviewProject(ctx *fasthttp.RequestCtx) {
	body := ctx.PostBody()

	if err := validateProjectBody(previewProjectSchema, body); err != nil {
		respondError(ctx, err)
		return
	}

	var req projectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondErrorMessage(ctx, fasthttp.StatusBadRequest, "Malformed request body")
		return
	}

	rates, err := s.rates.Current(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Rate fetch failed during preview", nil)
		respondError(ctx, err)
		return
	}

	score := engine.Classify(req.complexityInput(), rates.Baselines)

	results, err := engine.ComputeROI(req.financialInputs(), req.strategicInput(), req.maintenanceInput(), score, rates)
	if err != nil {
		respondError(ctx, err)
		return
	}
	metrics.ROICalculationsTotal.WithLabelValues("preview").Inc()

	respondSuccess(ctx, fasthttp.StatusOK, previewResponse{
		ComplexityResult: toComplexityResultResponse(score),
		Results:          toResultsResponse(*results),
	})
}

// handleListProjects lists projects newest first. ownerUid is required;
// the literal "all" lists every owner's projects.
func (s *Server) handleListProjects(ctx *fasthttp.RequestCtx) {
	ownerUID := string(ctx.QueryArgs().Peek("ownerUid"))
	if ownerUID == "" {
		respondErrorMessage(ctx, fasthttp.StatusBadRequest, "ownerUid query parameter is required")
		return
	}

	limit := 0
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondErrorMessage(ctx, fasthttp.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	projects, err := s.projects.List(ctx, ownerUID, limit)
	if err != nil {
		s.logger.WithError(err).Error("Project list failed", nil)
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, fasthttp.StatusOK, toProjectListResponse(projects))
}

func (s *Server) handleGetProject(ctx *fasthttp.RequestCtx, id string) {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, fasthttp.StatusOK, toProjectResponse(project))
}

func (s *Server) handleUpdateProject(ctx *fasthttp.RequestCtx, id string) {
	var req updateProjectRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondErrorMessage(ctx, fasthttp.StatusBadRequest, "Malformed request body")
		return
	}

	patch := req.toPatch()
	if len(patch) == 0 {
		respondErrorMessage(ctx, fasthttp.StatusBadRequest, "No updatable fields in request")
		return
	}

	updated, err := s.projects.Update(ctx, id, patch)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, fasthttp.StatusOK, toProjectResponse(updated))
}

func (s *Server) handleDeleteProject(ctx *fasthttp.RequestCtx, id string) {
	if err := s.projects.Delete(ctx, id); err != nil {
		respondError(ctx, err)
		return
	}

	respondSuccess(ctx, fasthttp.StatusOK, map[string]string{"id": id})
}
