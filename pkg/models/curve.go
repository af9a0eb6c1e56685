package models

import (
	"time"

	"github.com/RMahshie/lissajous/internal/curve"
	"github.com/RMahshie/lissajous/internal/presets"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// Curve represents a stored curve session (for internal use)
type Curve struct {
	ID         string           `json:"id"`
	SessionID  string           `json:"session_id"`
	Name       string           `json:"name"`
	Parameters curve.Parameters `json:"parameters"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Render represents a plot image uploaded to object storage
type Render struct {
	ID        string    `json:"id" doc:"Render unique identifier"`
	CurveID   string    `json:"curve_id" doc:"Rendered curve"`
	Format    string    `json:"format" enum:"png,svg" doc:"Image format"`
	S3Key     string    `json:"s3_key" doc:"Object key of the image"`
	CreatedAt time.Time `json:"created_at" doc:"When the render was created"`
}

// CurveBody is the public view of a curve with its formula labels
type CurveBody struct {
	ID         string           `json:"id" doc:"Curve unique identifier"`
	SessionID  string           `json:"session_id" doc:"Client session identifier"`
	Name       string           `json:"name" doc:"Curve name"`
	Parameters curve.Parameters `json:"parameters" doc:"Current (clamped) parameters"`
	XLabel     string           `json:"x_label" example:"x = 5.00·sin(5.00·t + 5.00)" doc:"Formula of the x axis"`
	YLabel     string           `json:"y_label" example:"y = 5.00·sin(5.00·t)" doc:"Formula of the y axis"`
	CreatedAt  time.Time        `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt  time.Time        `json:"updated_at" doc:"Last parameter change"`
}

// SamplesBody carries a sample sequence and its grid
type SamplesBody struct {
	CurveID     string        `json:"curve_id" doc:"Curve identifier"`
	SampleCount int           `json:"sample_count" doc:"Number of samples"`
	TMin        float64       `json:"t_min" doc:"Start of the parameter domain"`
	TMax        float64       `json:"t_max" doc:"End of the parameter domain"`
	Samples     curve.Samples `json:"samples" doc:"Ordered (x, y) pairs in increasing t"`
}

// CreateCurveRequest represents a request to create a curve session
type CreateCurveRequest struct {
	Body struct {
		SessionID  string            `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
		Name       string            `json:"name,omitempty" maxLength:"100" doc:"Curve name"`
		Preset     string            `json:"preset,omitempty" doc:"Preset to start from (see /api/presets)"`
		Parameters *curve.Parameters `json:"parameters,omitempty" doc:"Initial parameters; override the preset"`
	}
}

// CreateCurveResponse represents the response from creating a curve
type CreateCurveResponse struct {
	Body struct {
		Curve   CurveBody   `json:"curve" doc:"Created curve"`
		Samples SamplesBody `json:"samples" doc:"Initial sample sequence"`
	}
}

// GetCurveRequest represents a request addressed to a single curve
type GetCurveRequest struct {
	ID string `path:"id" doc:"Curve ID"`
}

// GetCurveResponse represents a single curve
type GetCurveResponse struct {
	Body CurveBody
}

// UpdateParametersRequest replaces all five parameters of a curve
type UpdateParametersRequest struct {
	ID   string `path:"id" doc:"Curve ID"`
	Body curve.Parameters
}

// UpdateParametersResponse returns the stored parameters and the recomputed samples
type UpdateParametersResponse struct {
	Body struct {
		Curve   CurveBody   `json:"curve" doc:"Updated curve"`
		Samples SamplesBody `json:"samples" doc:"Recomputed sample sequence"`
	}
}

// GetSamplesResponse represents the current samples of a curve
type GetSamplesResponse struct {
	Body SamplesBody
}

// GetPlotRequest represents a request for a plot image
type GetPlotRequest struct {
	ID     string `path:"id" doc:"Curve ID"`
	Format string `query:"format" enum:"png,svg" default:"svg" doc:"Image format"`
}

// GetPlotResponse streams an image
type GetPlotResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// CreateRenderRequest represents a request to render and store a plot
type CreateRenderRequest struct {
	ID   string `path:"id" doc:"Curve ID"`
	Body struct {
		Format string `json:"format,omitempty" enum:"png,svg" default:"png" doc:"Image format"`
	}
}

// CreateRenderResponse represents a stored render
type CreateRenderResponse struct {
	Body struct {
		Render      Render `json:"render" doc:"Stored render"`
		DownloadURL string `json:"download_url" doc:"Pre-signed URL for the image"`
	}
}

// ListRendersResponse lists the renders of a curve
type ListRendersResponse struct {
	Body struct {
		Renders []*Render `json:"renders" doc:"Renders, newest first"`
	}
}

// DeleteCurveResponse confirms a deletion
type DeleteCurveResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// ListSessionCurvesRequest lists curves of a client session
type ListSessionCurvesRequest struct {
	SessionID string `path:"session_id" doc:"Client session identifier"`
}

// ListSessionCurvesResponse contains the curves of a session
type ListSessionCurvesResponse struct {
	Body struct {
		Curves []CurveBody `json:"curves" doc:"Curves, newest first"`
	}
}

// ListPresetsResponse contains the available presets
type ListPresetsResponse struct {
	Body struct {
		Presets []presets.Preset `json:"presets" doc:"Available presets sorted by name"`
	}
}

// NewCurveBody builds the public view of a curve
func NewCurveBody(c *Curve) CurveBody {
	x, y := curve.Labels(c.Parameters)
	return CurveBody{
		ID:         c.ID,
		SessionID:  c.SessionID,
		Name:       c.Name,
		Parameters: c.Parameters,
		XLabel:     x,
		YLabel:     y,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// NewSamplesBody builds the samples view of a model
func NewSamplesBody(curveID string, m *curve.Model) SamplesBody {
	cfg := m.Config()
	return SamplesBody{
		CurveID:     curveID,
		SampleCount: cfg.SampleCount,
		TMin:        cfg.TMin,
		TMax:        cfg.TMax,
		Samples:     m.CurrentSamples(),
	}
}
