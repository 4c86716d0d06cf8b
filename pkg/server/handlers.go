package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/matzehuels/plotcraft/pkg/cache"
	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/express"
	"github.com/matzehuels/plotcraft/pkg/figure"
	"github.com/matzehuels/plotcraft/pkg/pipeline"
	"github.com/matzehuels/plotcraft/pkg/render"
	"github.com/matzehuels/plotcraft/pkg/render/page"
	"github.com/matzehuels/plotcraft/pkg/schema"
)

var requestValidate = validator.New(validator.WithRequiredStructEnabled())

// ChartInfo describes a chart constructor.
type ChartInfo struct {
	Name        string `json:"name"`
	TraceType   string `json:"trace_type"`
	Replacement string `json:"replacement,omitempty"`
}

// ValidatorInfo describes one catalogue attribute.
type ValidatorInfo struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Parent      string `json:"parent,omitempty"`
	Kind        string `json:"kind"`
	EditType    string `json:"edit_type"`
	Role        string `json:"role,omitempty"`
	Description string `json:"description"`
}

func validatorInfo(v *schema.Validator) ValidatorInfo {
	return ValidatorInfo{
		Path:        v.Path(),
		Name:        v.Name,
		Parent:      v.ParentPath,
		Kind:        string(v.Rule.Kind()),
		EditType:    v.EditType,
		Role:        v.Role,
		Description: v.Describe(),
	}
}

// ValidateRequest is the body of POST /api/validate.
type ValidateRequest struct {
	Path  string `json:"path" validate:"required"`
	Value any    `json:"value"`
}

// ValidateResponse answers POST /api/validate.
type ValidateResponse struct {
	Valid     bool              `json:"valid"`
	Value     any               `json:"value,omitempty"`
	Violation *errors.Violation `json:"violation,omitempty"`
}

// FigureResponse answers POST /api/figures.
type FigureResponse struct {
	ID      string         `json:"id"`
	Figure  *figure.Figure `json:"figure"`
	Hash    string         `json:"hash"`
	Cached  bool           `json:"cached"`
	Notices []string       `json:"notices,omitempty"`
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleCharts(w http.ResponseWriter, _ *http.Request) {
	charts := express.Charts()
	out := make([]ChartInfo, len(charts))
	for i, c := range charts {
		out[i] = ChartInfo{Name: c.Name, TraceType: c.TraceType, Replacement: c.Replacement}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSchemaList(w http.ResponseWriter, r *http.Request) {
	vs := s.registry.Under(r.URL.Query().Get("parent"))
	out := make([]ValidatorInfo, len(vs))
	for i, v := range vs {
		out[i] = validatorInfo(v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSchemaGet(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")
	v, ok := s.registry.LookupPath(path)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeUnknownAttribute, "no validator for attribute %q", path))
		return
	}
	writeJSON(w, http.StatusOK, validatorInfo(v))
}

func (s *Server) handleSchemaGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	detailed, _ := strconv.ParseBool(q.Get("detailed"))

	data, err := s.runner.SchemaGraph(r.Context(), q.Get("root"), format, detailed)
	if err != nil {
		writeError(w, err)
		return
	}
	if format == render.FormatDOT {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	_, _ = w.Write(data)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	value, err := s.registry.Validate(req.Path, req.Value)
	var violation *errors.Violation
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Value: value})
	case stderrors.As(err, &violation):
		writeJSON(w, http.StatusOK, ValidateResponse{Violation: violation})
	default:
		writeError(w, err)
	}
}

// handleFigureCreate builds a figure from a spec with inline columns and
// stores it under a new ID. Data file paths are refused: the server never
// reads its own filesystem on behalf of a client.
func (s *Server) handleFigureCreate(w http.ResponseWriter, r *http.Request) {
	var spec pipeline.Spec
	if err := s.decode(w, r, &spec); err != nil {
		writeError(w, err)
		return
	}
	if spec.Data != "" {
		writeError(w, errors.New(errors.ErrCodeInvalidSpec, "data paths are not accepted; send columns inline"))
		return
	}
	if err := spec.Validate(); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Spec:    &spec,
		Strict:  s.cfg.Strict,
		Formats: []string{render.FormatJSON},
	})
	if err != nil {
		writeError(w, err)
		return
	}

	id := uuid.NewString()
	if err := s.runner.Cache.Set(r.Context(), figureKey(id), res.Artifacts[render.FormatJSON], cache.FigureTTL); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store figure"))
		return
	}

	resp := FigureResponse{
		ID:     id,
		Figure: res.Figure,
		Hash:   res.FigureHash,
		Cached: res.CacheInfo.FigureHit,
	}
	for _, n := range res.Notices {
		resp.Notices = append(resp.Notices, n.String())
	}
	w.Header().Set("Location", "/api/figures/"+id)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleFigureJSON(w http.ResponseWriter, r *http.Request) {
	data, err := s.storedFigure(r)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleFigurePage(w http.ResponseWriter, r *http.Request) {
	data, err := s.storedFigure(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var fig figure.Figure
	if err := json.Unmarshal(data, &fig); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "decode stored figure"))
		return
	}
	body, err := page.Render(&fig, page.Options{PlotlyURL: s.cfg.PlotlyURL})
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func (s *Server) storedFigure(r *http.Request) ([]byte, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid figure id %q", id)
	}
	data, hit, err := s.runner.Cache.Get(r.Context(), figureKey(id))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load figure")
	}
	if !hit {
		return nil, errors.New(errors.ErrCodeNotFound, "figure %s not found", id)
	}
	return data, nil
}

func figureKey(id string) string { return "figures:" + id }

// decode reads a size-limited JSON body into dst, rejecting unknown fields,
// and runs struct validation.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	if err := requestValidate.Struct(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as a JSON body with a status derived from its code.
// Constraint violations include the individual violations.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)

	var vs errors.Violations
	if stderrors.As(err, &vs) {
		writeJSON(w, status, struct {
			errorBody
			Violations errors.Violations `json:"violations"`
		}{errorBody{code, errors.UserMessage(err)}, vs})
		return
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidSpec,
		errors.ErrCodeConflictingArguments, errors.ErrCodeColumnNotFound:
		return http.StatusBadRequest
	case errors.ErrCodeConstraintViolation:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeUnknownAttribute, errors.ErrCodeUnknownChart,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
