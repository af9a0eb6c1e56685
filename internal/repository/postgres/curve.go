package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RMahshie/lissajous/internal/curve"
	"github.com/RMahshie/lissajous/internal/repository"
	"github.com/RMahshie/lissajous/pkg/models"
	"github.com/google/uuid"
)

// PostgresCurveRepository implements CurveRepository for PostgreSQL
type PostgresCurveRepository struct {
	db *sql.DB
}

// NewPostgresCurveRepository creates a new PostgreSQL curve repository
func NewPostgresCurveRepository(db *sql.DB) repository.CurveRepository {
	return &PostgresCurveRepository{db: db}
}

const curveColumns = `id, session_id, name, amplitude_a, amplitude_b, angular_freq_a, angular_freq_b, phase_offset, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCurve(row rowScanner) (*models.Curve, error) {
	var c models.Curve
	err := row.Scan(
		&c.ID,
		&c.SessionID,
		&c.Name,
		&c.Parameters.AmplitudeA,
		&c.Parameters.AmplitudeB,
		&c.Parameters.AngularFreqA,
		&c.Parameters.AngularFreqB,
		&c.Parameters.PhaseOffset,
		&c.CreatedAt,
		&c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new curve record. An empty ID is filled with a fresh UUID.
func (r *PostgresCurveRepository) Create(ctx context.Context, c *models.Curve) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	query := `
		INSERT INTO curves (` + curveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.SessionID,
		c.Name,
		c.Parameters.AmplitudeA,
		c.Parameters.AmplitudeB,
		c.Parameters.AngularFreqA,
		c.Parameters.AngularFreqB,
		c.Parameters.PhaseOffset,
		c.CreatedAt,
		c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert curve: %w", err)
	}
	return nil
}

// GetByID retrieves a curve by ID
func (r *PostgresCurveRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Curve, error) {
	query := `SELECT ` + curveColumns + ` FROM curves WHERE id = $1`

	c, err := scanCurve(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get curve: %w", err)
	}
	return c, nil
}

// GetBySessionID retrieves the curves of a session, newest first
func (r *PostgresCurveRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Curve, error) {
	query := `
		SELECT ` + curveColumns + `
		FROM curves
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list curves: %w", err)
	}
	defer rows.Close()

	var curves []*models.Curve
	for rows.Next() {
		c, err := scanCurve(rows)
		if err != nil {
			return nil, err
		}
		curves = append(curves, c)
	}
	return curves, rows.Err()
}

// UpdateParameters replaces all five parameters of a curve
func (r *PostgresCurveRepository) UpdateParameters(ctx context.Context, id uuid.UUID, p curve.Parameters) error {
	query := `
		UPDATE curves
		SET amplitude_a = $1, amplitude_b = $2, angular_freq_a = $3, angular_freq_b = $4,
		    phase_offset = $5, updated_at = NOW()
		WHERE id = $6`

	res, err := r.db.ExecContext(ctx, query,
		p.AmplitudeA, p.AmplitudeB, p.AngularFreqA, p.AngularFreqB, p.PhaseOffset, id)
	if err != nil {
		return fmt.Errorf("failed to update curve parameters: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes a curve and, through the foreign key, its renders
func (r *PostgresCurveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM curves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete curve: %w", err)
	}
	return expectOneRow(res)
}

// CreateRender records an uploaded render
func (r *PostgresCurveRepository) CreateRender(ctx context.Context, rd *models.Render) error {
	query := `
		INSERT INTO curve_renders (id, curve_id, format, s3_key, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, rd.ID, rd.CurveID, rd.Format, rd.S3Key, rd.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert render: %w", err)
	}
	return nil
}

// ListRenders retrieves the renders of a curve, newest first
func (r *PostgresCurveRepository) ListRenders(ctx context.Context, curveID uuid.UUID) ([]*models.Render, error) {
	query := `
		SELECT id, curve_id, format, s3_key, created_at
		FROM curve_renders
		WHERE curve_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, curveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list renders: %w", err)
	}
	defer rows.Close()

	var renders []*models.Render
	for rows.Next() {
		var rd models.Render
		if err := rows.Scan(&rd.ID, &rd.CurveID, &rd.Format, &rd.S3Key, &rd.CreatedAt); err != nil {
			return nil, err
		}
		renders = append(renders, &rd)
	}
	return renders, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
