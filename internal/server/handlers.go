package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/waterfall/pkg/buildinfo"
	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/dataset"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/observability"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// chartRequest is the body of every POST route.
type chartRequest struct {
	Label   string           `json:"label"`
	X       string           `json:"x"`
	Y       string           `json:"y"`
	Data    []dataset.Record `json:"data"`
	Options pipeline.Options `json:"options"`
}

type stepsResponse struct {
	Steps []waterfall.Step `json:"steps"`
	Hash  string           `json:"hash"`
	Cache bool             `json:"cached"`
}

type layoutResponse struct {
	Steps  []waterfall.Step `json:"steps"`
	Layout layout.Layout    `json:"layout"`
	Cache  bool             `json:"cached"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
	Stats *observability.StatsSnapshot `json:"stats,omitempty"`
}

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Info: buildinfo.Get()}
	if s.stats != nil {
		snap := s.stats.Snapshot()
		resp.Stats = &snap
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSteps(w http.ResponseWriter, r *http.Request) {
	ds, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	steps, hit, err := s.runner.ComputeStepsWithCacheInfo(r.Context(), ds, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hash, _ := cache.HashJSON(steps)
	writeJSON(w, http.StatusOK, stepsResponse{Steps: steps, Hash: hash, Cache: hit})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ds, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	steps, stepsHit, err := s.runner.ComputeStepsWithCacheInfo(ctx, ds, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, layoutHit, err := s.runner.ComputeLayoutWithCacheInfo(ctx, steps, ds.Label, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Steps: steps, Layout: l, Cache: stepsHit && layoutHit})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	ds, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), ds, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data := res.Artifacts[format]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decode reads a chartRequest over the server defaults.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, pipeline.Options, error) {
	req := chartRequest{Options: s.baseOptions()}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return nil, pipeline.Options{}, errBodyTooLarge(tooLarge.Limit)
		case stderrors.Is(err, io.EOF):
			return nil, pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		default:
			return nil, pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
		}
	}
	if err := req.Options.ValidateAndSetDefaults(); err != nil {
		return nil, pipeline.Options{}, err
	}

	ds := &dataset.Dataset{Label: req.Label, X: req.X, Y: req.Y, Data: req.Data}
	return ds, req.Options, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	status := errors.HTTPStatus(err)
	var tooLarge *bodyTooLargeError
	if stderrors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}

	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: msg},
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// bodyTooLargeError maps to 413 rather than the generic 400.
type bodyTooLargeError struct {
	err *errors.Error
}

func (e *bodyTooLargeError) Error() string { return e.err.Error() }
func (e *bodyTooLargeError) Unwrap() error { return e.err }

func errBodyTooLarge(limit int64) error {
	return &bodyTooLargeError{errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", limit)}
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

// writeJSON encodes v before touching the response, so an encoding failure
// still yields a JSON 500 rather than a truncated body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorBody{
			Error: errorDetail{Code: errors.ErrCodeInternal, Message: "response is not serializable: " + err.Error()},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
