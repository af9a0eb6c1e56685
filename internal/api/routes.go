package api

import (
	"net/http"

	"github.com/RMahshie/lissajous/internal/api/handlers"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, curveHandler *handlers.CurveHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "listPresets",
		Method:      http.MethodGet,
		Path:        "/api/presets",
		Summary:     "List presets",
		Description: "Returns the named parameter sets a curve can start from",
		Tags:        []string{"Presets"},
	}, curveHandler.ListPresets)

	huma.Register(api, huma.Operation{
		OperationID:   "createCurve",
		Method:        http.MethodPost,
		Path:          "/api/curves",
		Summary:       "Create a curve",
		Description:   "Creates a curve session from a preset or explicit parameters and returns its samples",
		Tags:          []string{"Curves"},
		DefaultStatus: http.StatusCreated,
	}, curveHandler.CreateCurve)

	huma.Register(api, huma.Operation{
		OperationID: "getCurve",
		Method:      http.MethodGet,
		Path:        "/api/curves/{id}",
		Summary:     "Get a curve",
		Description: "Returns the current parameters and formula labels of a curve",
		Tags:        []string{"Curves"},
	}, curveHandler.GetCurve)

	huma.Register(api, huma.Operation{
		OperationID: "deleteCurve",
		Method:      http.MethodDelete,
		Path:        "/api/curves/{id}",
		Summary:     "Delete a curve",
		Description: "Deletes a curve and its stored renders",
		Tags:        []string{"Curves"},
	}, curveHandler.DeleteCurve)

	huma.Register(api, huma.Operation{
		OperationID: "updateParameters",
		Method:      http.MethodPut,
		Path:        "/api/curves/{id}/parameters",
		Summary:     "Set curve parameters",
		Description: "Replaces all five parameters, clamping them to the configured ranges, and returns the recomputed samples",
		Tags:        []string{"Curves"},
	}, curveHandler.UpdateParameters)

	huma.Register(api, huma.Operation{
		OperationID: "getSamples",
		Method:      http.MethodGet,
		Path:        "/api/curves/{id}/samples",
		Summary:     "Get curve samples",
		Description: "Returns the ordered (x, y) sample sequence of a curve",
		Tags:        []string{"Curves"},
	}, curveHandler.GetSamples)

	huma.Register(api, huma.Operation{
		OperationID: "getPlot",
		Method:      http.MethodGet,
		Path:        "/api/curves/{id}/plot",
		Summary:     "Get plot image",
		Description: "Renders the curve as a PNG or SVG image",
		Tags:        []string{"Plots"},
	}, curveHandler.GetPlot)

	huma.Register(api, huma.Operation{
		OperationID:   "createRender",
		Method:        http.MethodPost,
		Path:          "/api/curves/{id}/renders",
		Summary:       "Render and store a plot",
		Description:   "Renders the curve, uploads the image and returns a download URL",
		Tags:          []string{"Plots"},
		DefaultStatus: http.StatusCreated,
	}, curveHandler.CreateRender)

	huma.Register(api, huma.Operation{
		OperationID: "listRenders",
		Method:      http.MethodGet,
		Path:        "/api/curves/{id}/renders",
		Summary:     "List stored renders",
		Description: "Returns the renders of a curve, newest first",
		Tags:        []string{"Plots"},
	}, curveHandler.ListRenders)

	huma.Register(api, huma.Operation{
		OperationID: "listSessionCurves",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{session_id}/curves",
		Summary:     "List session curves",
		Description: "Returns the curves created by a client session",
		Tags:        []string{"Curves"},
	}, curveHandler.ListSessionCurves)
}
