package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/af-corp/mathforge/internal/apperr"
	"github.com/af-corp/mathforge/internal/audit"
	"github.com/af-corp/mathforge/internal/config"
	"github.com/af-corp/mathforge/internal/formula"
	"github.com/af-corp/mathforge/internal/guard"
	"github.com/af-corp/mathforge/internal/httputil"
	"github.com/af-corp/mathforge/internal/quiz"
	"github.com/af-corp/mathforge/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Guard decides whether a request may be computed. *guard.Evaluator
// implements it.
type Guard interface {
	Check(ctx context.Context, in guard.Input) error
}

// Handler holds dependencies for the MathForge HTTP handlers.
type Handler struct {
	version string
	history audit.Log
	quizzes *quiz.Generator
	guard   Guard
	metrics *telemetry.Metrics
	cfg     func() *config.Config
	now     func() time.Time
}

func NewHandler(version string, history audit.Log, quizzes *quiz.Generator, g Guard, metrics *telemetry.Metrics, cfg func() *config.Config) *Handler {
	return &Handler{
		version: version,
		history: history,
		quizzes: quizzes,
		guard:   g,
		metrics: metrics,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Home handles GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"name":        "MathForge API",
		"version":     h.version,
		"description": "A comprehensive mathematical REST API",
		"endpoints": map[string]any{
			"arithmetic": "/api/arithmetic",
			"algebra": map[string]string{
				"linear":    "/api/algebra/linear",
				"quadratic": "/api/algebra/quadratic",
			},
			"geometry": map[string]string{
				"circle":    "/api/geometry/circle",
				"rectangle": "/api/geometry/rectangle",
				"triangle":  "/api/geometry/triangle",
				"cube":      "/api/geometry/cube",
				"sphere":    "/api/geometry/sphere",
			},
			"statistics": "/api/statistics",
			"quiz":       "/api/quiz",
			"history":    "/api/history",
		},
	})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": h.version,
	})
}

type arithmeticResponse struct {
	Operation formula.Operation `json:"operation"`
	Operands  operandsView      `json:"operands"`
	Result    any               `json:"result"`
	Timestamp time.Time         `json:"timestamp"`
}

type operandsView struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Arithmetic handles POST /api/arithmetic
func (h *Handler) Arithmetic(w http.ResponseWriter, r *http.Request) {
	var req arithmeticRequest
	body, err := h.decode(w, r, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	op, err := formula.ParseOperation(*req.Operation)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.check(r, guard.Input{Operands: []float64{approx(req.a), approx(req.b)}}); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := formula.Compute(op, req.a, req.b)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := arithmeticResponse{
		Operation: op,
		Operands:  operandsView{A: req.a.String(), B: req.b.String()},
		Timestamp: h.now(),
	}
	switch v := result.(type) {
	case formula.Exact:
		resp.Result = v.String()
	case formula.Approx:
		resp.Result = float64(v)
	}
	h.respond(w, r, body, resp)
}

type linearResponse struct {
	Equation  string             `json:"equation"`
	Solution  map[string]float64 `json:"solution"`
	Steps     []string           `json:"steps,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// Linear handles POST /api/algebra/linear
func (h *Handler) Linear(w http.ResponseWriter, r *http.Request) {
	var req linearRequest
	body, err := h.decode(w, r, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.check(r, guard.Input{Operands: []float64{req.a, req.b}}); err != nil {
		h.fail(w, r, err)
		return
	}

	sol, err := formula.SolveLinear(req.a, req.b)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := linearResponse{
		Equation:  sol.Equation,
		Solution:  map[string]float64{"x": sol.X},
		Timestamp: h.now(),
	}
	if req.Steps {
		resp.Steps = sol.Steps
	}
	h.respond(w, r, body, resp)
}

type quadraticSolutions struct {
	Type      formula.RootKind `json:"type"`
	X         *float64         `json:"x,omitempty"`
	X1        any              `json:"x1,omitempty"`
	X2        any              `json:"x2,omitempty"`
	Real      *float64         `json:"real,omitempty"`
	Imaginary *float64         `json:"imaginary,omitempty"`
}

type quadraticResponse struct {
	Equation     string             `json:"equation"`
	Discriminant float64            `json:"discriminant"`
	Solutions    quadraticSolutions `json:"solutions"`
	Steps        []string           `json:"steps,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}

// Quadratic handles POST /api/algebra/quadratic
func (h *Handler) Quadratic(w http.ResponseWriter, r *http.Request) {
	var req quadraticRequest
	body, err := h.decode(w, r, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.check(r, guard.Input{Operands: []float64{req.a, req.b, req.c}}); err != nil {
		h.fail(w, r, err)
		return
	}

	sol, err := formula.SolveQuadratic(req.a, req.b, req.c)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	s := quadraticSolutions{Type: sol.Kind}
	switch sol.Kind {
	case formula.TwoReal:
		s.X1, s.X2 = sol.Roots[0], sol.Roots[1]
	case formula.OneReal:
		s.X = &sol.Roots[0]
	case formula.Complex:
		s.X1 = formula.ComplexString(sol.Real, sol.Imaginary)
		s.X2 = formula.ComplexString(sol.Real, -sol.Imaginary)
		s.Real, s.Imaginary = &sol.Real, &sol.Imaginary
	}

	resp := quadraticResponse{
		Equation:     sol.Equation,
		Discriminant: sol.Discriminant,
		Solutions:    s,
		Timestamp:    h.now(),
	}
	if req.Steps {
		resp.Steps = sol.Steps
	}
	h.respond(w, r, body, resp)
}

// Geometry handles POST /api/geometry/{shape}
func (h *Handler) Geometry(w http.ResponseWriter, r *http.Request) {
	req := geometryRequest{shape: formula.Shape(chi.URLParam(r, "shape"))}
	if req.fields() == nil {
		httputil.WriteNotFoundError(w, requestID(r), fmt.Sprintf("Unknown shape %q", req.shape))
		return
	}

	body, err := h.decode(w, r, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	dims := make([]float64, 0, len(req.dims))
	for _, v := range req.dims {
		dims = append(dims, v)
	}
	if err := h.check(r, guard.Input{Operands: dims}); err != nil {
		h.fail(w, r, err)
		return
	}

	now := h.now()
	var resp any
	switch req.shape {
	case formula.ShapeCircle:
		m, err := formula.Circle(req.dims["radius"])
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp = struct {
			formula.CircleMetrics
			Timestamp time.Time `json:"timestamp"`
		}{m, now}
	case formula.ShapeRectangle:
		m, err := formula.Rectangle(req.dims["length"], req.dims["width"])
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp = struct {
			formula.RectangleMetrics
			Timestamp time.Time `json:"timestamp"`
		}{m, now}
	case formula.ShapeTriangle:
		m, err := formula.Triangle(req.dims["base"], req.dims["height"], req.optional("side_a"), req.optional("side_b"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp = struct {
			formula.TriangleMetrics
			Timestamp time.Time `json:"timestamp"`
		}{m, now}
	case formula.ShapeCube:
		m, err := formula.Cube(req.dims["side"])
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp = struct {
			formula.CubeMetrics
			Timestamp time.Time `json:"timestamp"`
		}{m, now}
	case formula.ShapeSphere:
		m, err := formula.Sphere(req.dims["radius"])
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp = struct {
			formula.SphereMetrics
			Timestamp time.Time `json:"timestamp"`
		}{m, now}
	}
	h.respond(w, r, body, resp)
}

type statisticsResponse struct {
	formula.Summary
	Timestamp time.Time `json:"timestamp"`
}

// Statistics handles POST /api/statistics
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	var req statisticsRequest
	body, err := h.decode(w, r, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.check(r, guard.Input{DatasetSize: len(req.values), Operands: req.values}); err != nil {
		h.fail(w, r, err)
		return
	}

	summary, err := formula.Summarize(req.values)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, body, statisticsResponse{Summary: summary, Timestamp: h.now()})
}

// Quiz handles GET /api/quiz
func (h *Handler) Quiz(w http.ResponseWriter, r *http.Request) {
	family := quiz.Family(r.URL.Query().Get("type"))
	if family == "" {
		family = h.quizzes.RandomFamily()
	}

	q, _, err := h.quizzes.Generate(family)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordQuizGenerated(string(family))
	}
	httputil.WriteJSON(w, http.StatusOK, q)
}

// QuizValidate handles POST /api/quiz/validate
func (h *Handler) QuizValidate(w http.ResponseWriter, r *http.Request) {
	var req quizValidateRequest
	if _, err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	v, err := quiz.Check(*req.AnswerID, req.answer)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordQuizChecked(string(v.Family), v.Correct)
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

type historyResponse struct {
	TotalQueries int           `json:"total_queries"`
	History      []audit.Entry `json:"history"`
}

// History handles GET /api/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := h.cfg().Audit.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.fail(w, r, apperr.Validation(ErrInvalidParam.Code,
				fmt.Sprintf("Query parameter 'limit' must be a positive integer, got %q", raw)))
			return
		}
		limit = n
	}
	limit = min(limit, h.history.Capacity())

	httputil.WriteJSON(w, http.StatusOK, historyResponse{
		TotalQueries: h.history.Len(),
		History:      h.history.Recent(limit),
	})
}

// ClearHistory handles DELETE /api/history/clear
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	n := h.history.Clear()
	if h.metrics != nil {
		h.metrics.SetAuditEntries(0)
	}
	slog.Info("history cleared", "request_id", requestID(r), "cleared", n)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   fmt.Sprintf("Cleared %d queries from history", n),
		"cleared":   n,
		"timestamp": h.now(),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst validator) (json.RawMessage, error) {
	return decodeBody(w, r, h.cfg().Server.MaxBodyBytes, dst)
}

func (h *Handler) check(r *http.Request, in guard.Input) error {
	if h.guard == nil {
		return nil
	}
	in.Endpoint = r.URL.Path
	return h.guard.Check(r.Context(), in)
}

// respond writes a successful computation and records it in the history.
// The payload is encoded before anything is recorded or written, so an
// unencodable result becomes a 500 and never reaches the history.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, body json.RawMessage, out any) {
	payload, err := json.Marshal(out)
	if err != nil {
		h.fail(w, r, apperr.Internal(err, "failed to encode response"))
		return
	}
	h.history.Append(audit.Entry{
		ID:        uuid.NewString(),
		Timestamp: h.now(),
		Endpoint:  r.URL.Path,
		Input:     body,
		Output:    json.RawMessage(payload),
	})
	if h.metrics != nil {
		h.metrics.SetAuditEntries(h.history.Len())
	}
	httputil.WriteJSON(w, http.StatusOK, json.RawMessage(payload))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	reqID := requestID(r)
	kind, code := apperr.KindInternal, "internal_error"
	var ae *apperr.Error
	if errors.As(err, &ae) {
		kind, code = ae.Kind, ae.Code
	}

	if kind == apperr.KindInternal {
		slog.Error("request failed", "request_id", reqID, "path", r.URL.Path, "error", err)
	} else {
		slog.Warn("request rejected", "request_id", reqID, "path", r.URL.Path, "type", kind, "code", code)
	}
	if h.metrics != nil {
		h.metrics.RecordError(routePattern(r), code)
	}
	httputil.WriteAppError(w, reqID, err)
}

// approx converts an operand to float64 for policy checks.
func approx(o formula.Operand) float64 {
	switch v := o.(type) {
	case formula.Exact:
		if v.R == nil {
			return 0
		}
		f, _ := v.R.Float64()
		return f
	case formula.Approx:
		return float64(v)
	}
	return 0
}
