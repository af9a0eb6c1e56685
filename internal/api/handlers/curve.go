package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/RMahshie/lissajous/internal/curve"
	"github.com/RMahshie/lissajous/internal/plotting"
	"github.com/RMahshie/lissajous/internal/presets"
	"github.com/RMahshie/lissajous/internal/render"
	"github.com/RMahshie/lissajous/internal/repository"
	"github.com/RMahshie/lissajous/internal/storage"
	"github.com/RMahshie/lissajous/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CurveHandler handles curve-related HTTP requests
type CurveHandler struct {
	repo        repository.CurveRepository
	s3Service   storage.S3Service
	plottingSvc plotting.PlottingService
	presets     *presets.Catalog
	curveCfg    curve.Config
}

// NewCurveHandler creates a new curve handler. curveCfg must already be valid.
func NewCurveHandler(repo repository.CurveRepository, s3Service storage.S3Service, plottingSvc plotting.PlottingService, catalog *presets.Catalog, curveCfg curve.Config) *CurveHandler {
	return &CurveHandler{
		repo:        repo,
		s3Service:   s3Service,
		plottingSvc: plottingSvc,
		presets:     catalog,
		curveCfg:    curveCfg,
	}
}

// ListPresets returns the available presets
func (h *CurveHandler) ListPresets(ctx context.Context, _ *struct{}) (*models.ListPresetsResponse, error) {
	resp := &models.ListPresetsResponse{}
	resp.Body.Presets = h.presets.List()
	return resp, nil
}

// CreateCurve creates a curve session from a preset and/or explicit parameters
func (h *CurveHandler) CreateCurve(ctx context.Context, req *models.CreateCurveRequest) (*models.CreateCurveResponse, error) {
	log.Info().Str("sessionID", req.Body.SessionID).Str("preset", req.Body.Preset).Msg("Creating new curve")

	params := curve.DefaultParameters()
	if req.Body.Preset != "" {
		preset, ok := h.presets.Get(req.Body.Preset)
		if !ok {
			return nil, huma.Error400BadRequest("Unknown preset: " + req.Body.Preset)
		}
		params = preset.Parameters
	}
	if req.Body.Parameters != nil {
		params = *req.Body.Parameters
	}

	m, err := curve.NewModelWith(h.curveCfg, params)
	if err != nil {
		return nil, parameterError(err)
	}

	now := time.Now()
	c := &models.Curve{
		ID:         uuid.New().String(),
		SessionID:  req.Body.SessionID,
		Name:       req.Body.Name,
		Parameters: m.Parameters(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.repo.Create(ctx, c); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create curve", err)
	}
	log.Info().Str("curveID", c.ID).Msg("Curve created successfully")

	resp := &models.CreateCurveResponse{}
	resp.Body.Curve = models.NewCurveBody(c)
	resp.Body.Samples = models.NewSamplesBody(c.ID, m)
	return resp, nil
}

// GetCurve returns a curve with its formula labels
func (h *CurveHandler) GetCurve(ctx context.Context, req *models.GetCurveRequest) (*models.GetCurveResponse, error) {
	_, c, err := h.loadCurve(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &models.GetCurveResponse{Body: models.NewCurveBody(c)}, nil
}

// UpdateParameters replaces the five parameters and returns the recomputed samples
func (h *CurveHandler) UpdateParameters(ctx context.Context, req *models.UpdateParametersRequest) (*models.UpdateParametersResponse, error) {
	curveID, c, err := h.loadCurve(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	m, err := curve.NewModelWith(h.curveCfg, c.Parameters)
	if err != nil {
		return nil, huma.Error500InternalServerError("Stored parameters are invalid", err)
	}
	if err := m.Apply(curve.ParametersChanged(req.Body)); err != nil {
		return nil, parameterError(err)
	}

	if err := h.repo.UpdateParameters(ctx, curveID, m.Parameters()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, huma.Error404NotFound("Curve not found", err)
		}
		return nil, huma.Error500InternalServerError("Failed to update parameters", err)
	}
	c.Parameters = m.Parameters()
	c.UpdatedAt = time.Now()

	log.Info().Str("curveID", c.ID).Interface("parameters", c.Parameters).Msg("Curve parameters updated")

	resp := &models.UpdateParametersResponse{}
	resp.Body.Curve = models.NewCurveBody(c)
	resp.Body.Samples = models.NewSamplesBody(c.ID, m)
	return resp, nil
}

// GetSamples returns the current sample sequence of a curve
func (h *CurveHandler) GetSamples(ctx context.Context, req *models.GetCurveRequest) (*models.GetSamplesResponse, error) {
	_, c, err := h.loadCurve(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	m, err := curve.NewModelWith(h.curveCfg, c.Parameters)
	if err != nil {
		return nil, huma.Error500InternalServerError("Stored parameters are invalid", err)
	}
	return &models.GetSamplesResponse{Body: models.NewSamplesBody(c.ID, m)}, nil
}

// GetPlot streams the plot image of a curve
func (h *CurveHandler) GetPlot(ctx context.Context, req *models.GetPlotRequest) (*models.GetPlotResponse, error) {
	curveID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid curve ID", err)
	}
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		return nil, huma.Error400BadRequest("Unsupported format", err)
	}

	data, err := h.plottingSvc.PlotBytes(ctx, curveID, format)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, huma.Error404NotFound("Curve not found", err)
		}
		return nil, huma.Error500InternalServerError("Failed to render plot", err)
	}

	return &models.GetPlotResponse{
		ContentType: format.ContentType(),
		Body:        data,
	}, nil
}

// CreateRender renders a curve to object storage and returns a download URL
func (h *CurveHandler) CreateRender(ctx context.Context, req *models.CreateRenderRequest) (*models.CreateRenderResponse, error) {
	curveID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid curve ID", err)
	}
	format, err := render.ParseFormat(req.Body.Format)
	if err != nil {
		return nil, huma.Error400BadRequest("Unsupported format", err)
	}

	log.Info().Str("curveID", curveID.String()).Str("format", string(format)).Msg("Render request received")
	rd, err := h.plottingSvc.RenderCurve(ctx, curveID, format)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, huma.Error404NotFound("Curve not found", err)
		}
		return nil, huma.Error500InternalServerError("Failed to render curve", err)
	}

	url, err := h.s3Service.GenerateDownloadURL(ctx, rd.S3Key)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate download URL", err)
	}

	resp := &models.CreateRenderResponse{}
	resp.Body.Render = *rd
	resp.Body.DownloadURL = url
	return resp, nil
}

// ListRenders returns the stored renders of a curve
func (h *CurveHandler) ListRenders(ctx context.Context, req *models.GetCurveRequest) (*models.ListRendersResponse, error) {
	curveID, _, err := h.loadCurve(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	renders, err := h.repo.ListRenders(ctx, curveID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list renders", err)
	}

	resp := &models.ListRendersResponse{}
	resp.Body.Renders = renders
	if resp.Body.Renders == nil {
		resp.Body.Renders = []*models.Render{}
	}
	return resp, nil
}

// DeleteCurve removes a curve and its stored images
func (h *CurveHandler) DeleteCurve(ctx context.Context, req *models.GetCurveRequest) (*models.DeleteCurveResponse, error) {
	curveID, _, err := h.loadCurve(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	renders, err := h.repo.ListRenders(ctx, curveID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list renders", err)
	}

	if err := h.repo.Delete(ctx, curveID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, huma.Error404NotFound("Curve not found", err)
		}
		return nil, huma.Error500InternalServerError("Failed to delete curve", err)
	}

	// Best effort once the rows are gone
	for _, rd := range renders {
		if err := h.s3Service.DeleteFile(ctx, rd.S3Key); err != nil {
			log.Warn().Err(err).Str("key", rd.S3Key).Msg("Failed to delete render image")
		}
	}

	resp := &models.DeleteCurveResponse{}
	resp.Body.Message = "Curve deleted"
	return resp, nil
}

// ListSessionCurves returns the curves of a client session
func (h *CurveHandler) ListSessionCurves(ctx context.Context, req *models.ListSessionCurvesRequest) (*models.ListSessionCurvesResponse, error) {
	curves, err := h.repo.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list curves", err)
	}

	resp := &models.ListSessionCurvesResponse{}
	resp.Body.Curves = make([]models.CurveBody, 0, len(curves))
	for _, c := range curves {
		resp.Body.Curves = append(resp.Body.Curves, models.NewCurveBody(c))
	}
	return resp, nil
}

// loadCurve parses the ID and fetches the curve, mapping failures to API errors
func (h *CurveHandler) loadCurve(ctx context.Context, id string) (uuid.UUID, *models.Curve, error) {
	curveID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, nil, huma.Error400BadRequest("Invalid curve ID", err)
	}

	c, err := h.repo.GetByID(ctx, curveID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, nil, huma.Error404NotFound("Curve not found", err)
		}
		return uuid.Nil, nil, huma.Error500InternalServerError("Failed to load curve", err)
	}
	return curveID, c, nil
}

// parameterError maps model validation failures to 422
func parameterError(err error) error {
	if errors.Is(err, curve.ErrInvalidParameter) {
		return huma.Error422UnprocessableEntity(err.Error(), err)
	}
	return huma.Error500InternalServerError("Failed to apply parameters", err)
}
