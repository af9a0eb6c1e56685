package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/lissajous/internal/curve"
	"github.com/RMahshie/lissajous/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// CurveRepository defines the interface for curve data operations
type CurveRepository interface {
	Create(ctx context.Context, c *models.Curve) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Curve, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.Curve, error)
	UpdateParameters(ctx context.Context, id uuid.UUID, params curve.Parameters) error
	Delete(ctx context.Context, id uuid.UUID) error
	CreateRender(ctx context.Context, r *models.Render) error
	ListRenders(ctx context.Context, curveID uuid.UUID) ([]*models.Render, error)
}
