package handlers

import (
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/RMahshie/lissajous/internal/curve"
	"github.com/RMahshie/lissajous/internal/presets"
	"github.com/RMahshie/lissajous/internal/render"
	"github.com/RMahshie/lissajous/internal/repository"
	"github.com/RMahshie/lissajous/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCurveRepository implements repository.CurveRepository for testing
type MockCurveRepository struct {
	mock.Mock
}

func (m *MockCurveRepository) Create(ctx context.Context, c *models.Curve) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCurveRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Curve, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Curve)
	return c, args.Error(1)
}

func (m *MockCurveRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Curve, error) {
	args := m.Called(ctx, sessionID)
	curves, _ := args.Get(0).([]*models.Curve)
	return curves, args.Error(1)
}

func (m *MockCurveRepository) UpdateParameters(ctx context.Context, id uuid.UUID, p curve.Parameters) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockCurveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCurveRepository) CreateRender(ctx context.Context, r *models.Render) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockCurveRepository) ListRenders(ctx context.Context, curveID uuid.UUID) ([]*models.Render, error) {
	args := m.Called(ctx, curveID)
	renders, _ := args.Get(0).([]*models.Render)
	return renders, args.Error(1)
}

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockS3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockS3Service) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockPlottingService implements plotting.PlottingService for testing
type MockPlottingService struct {
	mock.Mock
}

func (m *MockPlottingService) PlotBytes(ctx context.Context, curveID uuid.UUID, format render.Format) ([]byte, error) {
	args := m.Called(ctx, curveID, format)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockPlottingService) RenderCurve(ctx context.Context, curveID uuid.UUID, format render.Format) (*models.Render, error) {
	args := m.Called(ctx, curveID, format)
	rd, _ := args.Get(0).(*models.Render)
	return rd, args.Error(1)
}

type mocks struct {
	repo *MockCurveRepository
	s3   *MockS3Service
	plot *MockPlottingService
}

func (m mocks) assertExpectations(t *testing.T) {
	m.repo.AssertExpectations(t)
	m.s3.AssertExpectations(t)
	m.plot.AssertExpectations(t)
}

// NewTestHandler returns a handler wired to fresh mocks
func NewTestHandler() (*CurveHandler, *MockCurveRepository, *MockS3Service, *MockPlottingService) {
	repo := &MockCurveRepository{}
	s3 := &MockS3Service{}
	plot := &MockPlottingService{}
	return NewCurveHandler(repo, s3, plot, presets.Default(), curve.DefaultConfig()), repo, s3, plot
}

func newTestHandler() (*CurveHandler, mocks) {
	h, repo, s3, plot := NewTestHandler()
	return h, mocks{repo: repo, s3: s3, plot: plot}
}

func stored(id uuid.UUID, p curve.Parameters) *models.Curve {
	return &models.Curve{
		ID:         id.String(),
		SessionID:  "test-session-123",
		Parameters: p,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

func TestCreateCurve(t *testing.T) {
	diagonal := curve.Parameters{AmplitudeA: 1, AmplitudeB: 1, AngularFreqA: 1, AngularFreqB: 1}
	tests := []struct {
		name       string
		preset     string
		params     *curve.Parameters
		mockSetup  func(mocks)
		wantCode   int
		wantParams curve.Parameters
	}{
		{
			name: "defaults",
			mockSetup: func(m mocks) {
				m.repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Curve")).Return(nil)
			},
			wantParams: curve.DefaultParameters(),
		},
		{
			name:   "preset",
			preset: "diagonal",
			mockSetup: func(m mocks) {
				m.repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Curve")).Return(nil)
			},
			wantParams: diagonal,
		},
		{
			name:   "explicit parameters are clamped",
			preset: "diagonal",
			params: &curve.Parameters{AmplitudeA: 20, AmplitudeB: -1, AngularFreqA: 2, AngularFreqB: 3, PhaseOffset: 0},
			mockSetup: func(m mocks) {
				m.repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Curve")).Return(nil)
			},
			wantParams: curve.Parameters{AmplitudeA: 10, AmplitudeB: 0, AngularFreqA: 2, AngularFreqB: 3},
		},
		{
			name:      "unknown preset",
			preset:    "spiral",
			mockSetup: func(m mocks) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "non-finite parameter",
			params:    &curve.Parameters{AmplitudeA: math.NaN()},
			mockSetup: func(m mocks) {},
			wantCode:  http.StatusUnprocessableEntity,
		},
		{
			name: "repository failure",
			mockSetup: func(m mocks) {
				m.repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler()
			tt.mockSetup(m)

			req := &models.CreateCurveRequest{}
			req.Body.SessionID = "test-session-123"
			req.Body.Preset = tt.preset
			req.Body.Parameters = tt.params

			resp, err := h.CreateCurve(context.Background(), req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, statusOf(t, err))
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, resp.Body.Curve.ID)
				assert.Equal(t, tt.wantParams, resp.Body.Curve.Parameters)
				assert.Len(t, resp.Body.Samples.Samples, curve.DefaultSampleCount)
				assert.Equal(t, resp.Body.Curve.ID, resp.Body.Samples.CurveID)
			}

			m.assertExpectations(t)
		})
	}
}

func TestUpdateParameters(t *testing.T) {
	id := uuid.New()

	t.Run("recomputes samples", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)
		want := curve.Parameters{AmplitudeA: 1, AmplitudeB: 1, AngularFreqA: 1, AngularFreqB: 1}
		m.repo.On("UpdateParameters", mock.Anything, id, want).Return(nil)

		resp, err := h.UpdateParameters(context.Background(), &models.UpdateParametersRequest{ID: id.String(), Body: want})
		require.NoError(t, err)

		assert.Equal(t, want, resp.Body.Curve.Parameters)
		assert.Equal(t, "x = 1.00·sin(1.00·t + 0.00)", resp.Body.Curve.XLabel)
		require.Len(t, resp.Body.Samples.Samples, curve.DefaultSampleCount)
		for _, p := range resp.Body.Samples.Samples {
			assert.InDelta(t, p.X, p.Y, 1e-9)
		}
		m.assertExpectations(t)
	})

	t.Run("clamps out of range", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)
		m.repo.On("UpdateParameters", mock.Anything, id, curve.Parameters{AmplitudeA: 10, AmplitudeB: 5, AngularFreqA: -10, AngularFreqB: 5, PhaseOffset: 10}).Return(nil)

		_, err := h.UpdateParameters(context.Background(), &models.UpdateParametersRequest{
			ID:   id.String(),
			Body: curve.Parameters{AmplitudeA: 11, AmplitudeB: 5, AngularFreqA: -99, AngularFreqB: 5, PhaseOffset: 40},
		})
		require.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("rejects non-finite", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)

		_, err := h.UpdateParameters(context.Background(), &models.UpdateParametersRequest{
			ID:   id.String(),
			Body: curve.Parameters{AmplitudeA: math.Inf(1), AmplitudeB: 5, AngularFreqA: 5, AngularFreqB: 5, PhaseOffset: 5},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
		m.repo.AssertNotCalled(t, "UpdateParameters", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid id", func(t *testing.T) {
		h, _ := newTestHandler()
		_, err := h.UpdateParameters(context.Background(), &models.UpdateParametersRequest{ID: "not-a-uuid"})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("not found", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

		_, err := h.UpdateParameters(context.Background(), &models.UpdateParametersRequest{ID: id.String()})
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}

func TestGetSamples(t *testing.T) {
	id := uuid.New()
	h, m := newTestHandler()
	m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)

	first, err := h.GetSamples(context.Background(), &models.GetCurveRequest{ID: id.String()})
	require.NoError(t, err)
	second, err := h.GetSamples(context.Background(), &models.GetCurveRequest{ID: id.String()})
	require.NoError(t, err)

	assert.Equal(t, first.Body.Samples, second.Body.Samples)
	assert.Equal(t, curve.DefaultTMin, first.Body.TMin)
	assert.Equal(t, curve.DefaultTMax, first.Body.TMax)

	mid := first.Body.Samples[len(first.Body.Samples)/2]
	ti := curve.TimeGrid(curve.DefaultConfig())[len(first.Body.Samples)/2]
	assert.InDelta(t, 5*math.Sin(5*ti+5), mid.X, 1e-9)
	assert.InDelta(t, 5*math.Sin(5*ti), mid.Y, 1e-9)
}

func TestGetPlot(t *testing.T) {
	id := uuid.New()

	t.Run("png", func(t *testing.T) {
		h, m := newTestHandler()
		m.plot.On("PlotBytes", mock.Anything, id, render.FormatPNG).Return([]byte("\x89PNG"), nil)

		resp, err := h.GetPlot(context.Background(), &models.GetPlotRequest{ID: id.String(), Format: "png"})
		require.NoError(t, err)
		assert.Equal(t, "image/png", resp.ContentType)
		assert.Equal(t, []byte("\x89PNG"), resp.Body)
		m.assertExpectations(t)
	})

	t.Run("unsupported format", func(t *testing.T) {
		h, _ := newTestHandler()
		_, err := h.GetPlot(context.Background(), &models.GetPlotRequest{ID: id.String(), Format: "gif"})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("not found", func(t *testing.T) {
		h, m := newTestHandler()
		m.plot.On("PlotBytes", mock.Anything, id, render.FormatSVG).Return(nil, repository.ErrNotFound)

		_, err := h.GetPlot(context.Background(), &models.GetPlotRequest{ID: id.String(), Format: "svg"})
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}

func TestCreateRender(t *testing.T) {
	id := uuid.New()
	rd := &models.Render{ID: uuid.New().String(), CurveID: id.String(), Format: "png", S3Key: "renders/x.png"}

	t.Run("success", func(t *testing.T) {
		h, m := newTestHandler()
		m.plot.On("RenderCurve", mock.Anything, id, render.FormatPNG).Return(rd, nil)
		m.s3.On("GenerateDownloadURL", mock.Anything, "renders/x.png").Return("https://example.com/x.png", nil)

		req := &models.CreateRenderRequest{ID: id.String()}
		req.Body.Format = "png"
		resp, err := h.CreateRender(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/x.png", resp.Body.DownloadURL)
		assert.Equal(t, *rd, resp.Body.Render)
		m.assertExpectations(t)
	})

	t.Run("render failure", func(t *testing.T) {
		h, m := newTestHandler()
		m.plot.On("RenderCurve", mock.Anything, id, render.FormatSVG).Return(nil, assert.AnError)

		req := &models.CreateRenderRequest{ID: id.String()}
		req.Body.Format = "svg"
		_, err := h.CreateRender(context.Background(), req)
		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestGetCurve(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name       string
		id         string
		setup      func(m mocks)
		wantStatus int
	}{
		{
			name: "success",
			id:   id.String(),
			setup: func(m mocks) {
				m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)
			},
		},
		{
			name:       "invalid id",
			id:         "not-a-uuid",
			setup:      func(m mocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "not found",
			id:   id.String(),
			setup: func(m mocks) {
				m.repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "repository failure",
			id:   id.String(),
			setup: func(m mocks) {
				m.repo.On("GetByID", mock.Anything, id).Return(nil, assert.AnError)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler()
			tt.setup(m)

			resp, err := h.GetCurve(context.Background(), &models.GetCurveRequest{ID: tt.id})
			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id.String(), resp.Body.ID)
			assert.Equal(t, "x = 5.00·sin(5.00·t + 5.00)", resp.Body.XLabel)
			assert.Equal(t, "y = 5.00·sin(5.00·t)", resp.Body.YLabel)
			m.assertExpectations(t)
		})
	}
}

func TestListRenders(t *testing.T) {
	id := uuid.New()

	t.Run("returns renders", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)
		m.repo.On("ListRenders", mock.Anything, id).Return([]*models.Render{
			{ID: "r2", CurveID: id.String(), Format: "svg", S3Key: "renders/r2.svg"},
			{ID: "r1", CurveID: id.String(), Format: "png", S3Key: "renders/r1.png"},
		}, nil)

		resp, err := h.ListRenders(context.Background(), &models.GetCurveRequest{ID: id.String()})
		require.NoError(t, err)
		require.Len(t, resp.Body.Renders, 2)
		assert.Equal(t, "r2", resp.Body.Renders[0].ID)
		m.assertExpectations(t)
	})

	t.Run("none stored yields empty list", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)
		m.repo.On("ListRenders", mock.Anything, id).Return(nil, nil)

		resp, err := h.ListRenders(context.Background(), &models.GetCurveRequest{ID: id.String()})
		require.NoError(t, err)
		assert.NotNil(t, resp.Body.Renders)
		assert.Empty(t, resp.Body.Renders)
	})

	t.Run("not found", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

		_, err := h.ListRenders(context.Background(), &models.GetCurveRequest{ID: id.String()})
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
		m.repo.AssertNotCalled(t, "ListRenders", mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)
		m.repo.On("ListRenders", mock.Anything, id).Return(nil, assert.AnError)

		_, err := h.ListRenders(context.Background(), &models.GetCurveRequest{ID: id.String()})
		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestDeleteCurve(t *testing.T) {
	id := uuid.New()
	renders := []*models.Render{{S3Key: "a.png"}, {S3Key: "b.svg"}}

	t.Run("deletes row then images", func(t *testing.T) {
		h, m := newTestHandler()
		var deleted bool
		m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)
		m.repo.On("ListRenders", mock.Anything, id).Return(renders, nil)
		m.repo.On("Delete", mock.Anything, id).Run(func(mock.Arguments) { deleted = true }).Return(nil)
		m.s3.On("DeleteFile", mock.Anything, "a.png").Run(func(mock.Arguments) {
			assert.True(t, deleted, "image removed before its row")
		}).Return(nil)
		m.s3.On("DeleteFile", mock.Anything, "b.svg").Return(assert.AnError)

		resp, err := h.DeleteCurve(context.Background(), &models.GetCurveRequest{ID: id.String()})
		require.NoError(t, err)
		assert.Equal(t, "Curve deleted", resp.Body.Message)
		m.assertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

		_, err := h.DeleteCurve(context.Background(), &models.GetCurveRequest{ID: id.String()})
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
		m.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("row vanished before delete", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)
		m.repo.On("ListRenders", mock.Anything, id).Return(renders, nil)
		m.repo.On("Delete", mock.Anything, id).Return(repository.ErrNotFound)

		_, err := h.DeleteCurve(context.Background(), &models.GetCurveRequest{ID: id.String()})
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
		m.s3.AssertNotCalled(t, "DeleteFile", mock.Anything, mock.Anything)
	})

	t.Run("repository failure keeps images", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)
		m.repo.On("ListRenders", mock.Anything, id).Return(renders, nil)
		m.repo.On("Delete", mock.Anything, id).Return(assert.AnError)

		_, err := h.DeleteCurve(context.Background(), &models.GetCurveRequest{ID: id.String()})
		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
		m.s3.AssertNotCalled(t, "DeleteFile", mock.Anything, mock.Anything)
	})

	t.Run("listing renders fails", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetByID", mock.Anything, id).Return(stored(id, curve.DefaultParameters()), nil)
		m.repo.On("ListRenders", mock.Anything, id).Return(nil, assert.AnError)

		_, err := h.DeleteCurve(context.Background(), &models.GetCurveRequest{ID: id.String()})
		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
		m.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestListSessionCurves(t *testing.T) {
	t.Run("returns curves in order", func(t *testing.T) {
		h, m := newTestHandler()
		a, b := uuid.New(), uuid.New()
		m.repo.On("GetBySessionID", mock.Anything, "test-session-123").Return([]*models.Curve{
			stored(a, curve.DefaultParameters()),
			stored(b, curve.Parameters{AmplitudeA: 1}),
		}, nil)

		resp, err := h.ListSessionCurves(context.Background(), &models.ListSessionCurvesRequest{SessionID: "test-session-123"})
		require.NoError(t, err)
		require.Len(t, resp.Body.Curves, 2)
		assert.Equal(t, a.String(), resp.Body.Curves[0].ID)
		assert.Equal(t, "y = 5.00·sin(5.00·t)", resp.Body.Curves[0].YLabel)
	})

	t.Run("unknown session yields empty list", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetBySessionID", mock.Anything, "other-session-1").Return(nil, nil)

		resp, err := h.ListSessionCurves(context.Background(), &models.ListSessionCurvesRequest{SessionID: "other-session-1"})
		require.NoError(t, err)
		assert.NotNil(t, resp.Body.Curves)
		assert.Empty(t, resp.Body.Curves)
	})

	t.Run("repository failure", func(t *testing.T) {
		h, m := newTestHandler()
		m.repo.On("GetBySessionID", mock.Anything, "test-session-123").Return(nil, assert.AnError)

		_, err := h.ListSessionCurves(context.Background(), &models.ListSessionCurvesRequest{SessionID: "test-session-123"})
		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestListPresets(t *testing.T) {
	h, _ := newTestHandler()
	resp, err := h.ListPresets(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, resp.Body.Presets, 5)
}
