package plotting

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/RMahshie/lissajous/internal/curve"
	"github.com/RMahshie/lissajous/internal/render"
	"github.com/RMahshie/lissajous/internal/repository"
	"github.com/RMahshie/lissajous/internal/storage"
	"github.com/RMahshie/lissajous/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PlottingService draws stored curves and publishes the images
type PlottingService interface {
	// PlotBytes renders the current curve in memory
	PlotBytes(ctx context.Context, curveID uuid.UUID, format render.Format) ([]byte, error)
	// RenderCurve renders the curve, uploads the image and records the render
	RenderCurve(ctx context.Context, curveID uuid.UUID, format render.Format) (*models.Render, error)
}

type plottingService struct {
	s3         storage.S3Service
	repository repository.CurveRepository
	curveCfg   curve.Config
	renderOpts render.Options
}

// NewPlottingService creates a plotting service. curveCfg must already be valid.
func NewPlottingService(s3Service storage.S3Service, repo repository.CurveRepository, curveCfg curve.Config, renderOpts render.Options) PlottingService {
	return &plottingService{
		s3:         s3Service,
		repository: repo,
		curveCfg:   curveCfg,
		renderOpts: renderOpts,
	}
}

func (s *plottingService) PlotBytes(ctx context.Context, curveID uuid.UUID, format render.Format) ([]byte, error) {
	c, err := s.repository.GetByID(ctx, curveID)
	if err != nil {
		return nil, err
	}

	// Each call owns its own model; nothing is shared between requests
	m, err := curve.NewModelWith(s.curveCfg, c.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to build curve model: %w", err)
	}

	opts := s.renderOpts
	opts.Format = format

	var buf bytes.Buffer
	if err := render.Render(&buf, m.Parameters(), m.CurrentSamples(), opts); err != nil {
		return nil, fmt.Errorf("failed to render curve: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *plottingService) RenderCurve(ctx context.Context, curveID uuid.UUID, format render.Format) (*models.Render, error) {
	data, err := s.PlotBytes(ctx, curveID, format)
	if err != nil {
		return nil, err
	}

	renderID := uuid.New()
	key := fmt.Sprintf("renders/%s/%s%s", curveID, renderID, format.Extension())

	log.Info().Str("curveID", curveID.String()).Str("key", key).Int("bytes", len(data)).Msg("Uploading rendered plot")
	if err := s.s3.UploadFile(ctx, key, format.ContentType(), data); err != nil {
		return nil, err
	}

	rd := &models.Render{
		ID:        renderID.String(),
		CurveID:   curveID.String(),
		Format:    string(format),
		S3Key:     key,
		CreatedAt: time.Now(),
	}
	if err := s.repository.CreateRender(ctx, rd); err != nil {
		// Keep storage consistent with the database
		if delErr := s.s3.DeleteFile(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to remove orphaned render")
		}
		return nil, err
	}

	log.Info().Str("curveID", curveID.String()).Str("renderID", rd.ID).Msg("Render stored")
	return rd, nil
}
