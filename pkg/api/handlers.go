package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/poatree/pkg/buildinfo"
	"github.com/matzehuels/poatree/pkg/errors"
	"github.com/matzehuels/poatree/pkg/pipeline"
	"github.com/matzehuels/poatree/pkg/pograph"
	"github.com/matzehuels/poatree/pkg/report"
)

// Response headers set by /v1/infer.
const (
	HeaderRunID = "X-Run-ID"
	HeaderCache = "X-Cache"
)

var contentTypes = map[string]string{
	report.FormatText:   "text/plain; charset=utf-8",
	report.FormatJSON:   "application/json",
	report.FormatYAML:   "application/yaml",
	report.FormatNewick: "text/x-nh; charset=utf-8",
	report.FormatDOT:    "text/vnd.graphviz; charset=utf-8",
	report.FormatSVG:    "image/svg+xml",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleInfer(w http.ResponseWriter, r *http.Request) {
	opts, format, err := inferOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeErrorBody(w, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput,
				"graph exceeds "+strconv.FormatInt(s.maxBodyBytes, 10)+" bytes")
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	g, err := pograph.Load(bytes.NewReader(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Infer(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set(HeaderRunID, res.Report.RunID)
	if res.CacheHit {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// inferOptions reads pipeline options from the query string.
func inferOptions(r *http.Request) (pipeline.Options, string, error) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = report.FormatJSON
	}
	if err := report.ValidateFormat(format); err != nil {
		return pipeline.Options{}, "", err
	}

	opts := pipeline.Options{Formats: []string{format}}
	var err error
	if opts.MinSupport, err = intParam(q.Get("min_support")); err != nil {
		return opts, "", err
	}
	if opts.MaxPartitions, err = intParam(q.Get("max_partitions")); err != nil {
		return opts, "", err
	}
	if opts.KeepTrivial, err = boolParam(q.Get("keep_trivial")); err != nil {
		return opts, "", err
	}
	if opts.Refresh, err = boolParam(q.Get("refresh")); err != nil {
		return opts, "", err
	}
	return opts, format, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid integer %q", v)
	}
	return n, nil
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code      errors.Code `json:"code"`
		Message   string      `json:"message"`
		RequestID string      `json:"request_id,omitempty"`
	} `json:"error"`
}

// statusFor maps error codes to HTTP status codes.
// errorCode classifies err, treating an abandoned or expired request
// context separately from server faults.
func errorCode(err error) errors.Code {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.ErrCodeTimeout
	case stderrors.Is(err, context.Canceled):
		return errors.ErrCodeCanceled
	}
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidName, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errorCode(err)
	status := statusFor(code)
	switch {
	case code == errors.ErrCodeCanceled || code == errors.ErrCodeTimeout:
		s.logger.Warn("request aborted", "id", middleware.GetReqID(r.Context()), "err", err)
	case status >= 500:
		s.logger.Error("request failed", "id", middleware.GetReqID(r.Context()), "err", err)
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = errors.UserMessage(err)
	body.Error.RequestID = middleware.GetReqID(r.Context())
	writeJSON(w, status, body)
}

func writeErrorBody(w http.ResponseWriter, status int, code errors.Code, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
