package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/blocksets/pkg/archive"
	"github.com/matzehuels/blocksets/pkg/errors"
	"github.com/matzehuels/blocksets/pkg/instance"
	"github.com/matzehuels/blocksets/pkg/pipeline"
	"github.com/matzehuels/blocksets/pkg/render"
	"github.com/matzehuels/blocksets/pkg/split"
)

// Request is the body of the run and graph endpoints.
type Request struct {
	Instance json.RawMessage        `json:"instance"`
	Options  pipeline.Options       `json:"options"`
	Graph    *pipeline.GraphOptions `json:"graph,omitempty"`
}

// PartResponse describes one output part.
type PartResponse struct {
	Entities     []int           `json:"entities"`
	Statements   int             `json:"statements"`
	Depth        int             `json:"depth,omitempty"`
	Unsplittable bool            `json:"unsplittable,omitempty"`
	Instance     json.RawMessage `json:"instance"`
}

// Response is the body returned by the run endpoints.
type Response struct {
	RunID        string         `json:"run_id,omitempty"`
	Mode         string         `json:"mode"`
	InstanceHash string         `json:"instance_hash"`
	Cached       bool           `json:"cached"`
	Parts        []PartResponse `json:"parts"`
	Deleted      []int          `json:"deleted"`
	Cost         float64        `json:"cost,omitempty"`
	Degenerate   bool           `json:"degenerate,omitempty"`
	Stats        *split.Stats   `json:"stats,omitempty"`
	Rounds       int            `json:"rounds,omitempty"`
	Duplicates   int            `json:"total_duplicates,omitempty"`
	Truncated    bool           `json:"truncated,omitempty"`
	DurationMS   int64          `json:"duration_ms"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) handleRun(mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, inst, err := decodeRequest(r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		req.Options.Mode = mode

		res, err := s.runner.Execute(r.Context(), inst, req.Options)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp, err := newResponse(res)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	req, inst, err := decodeRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	gopts := pipeline.GraphOptions{}
	if req.Graph != nil {
		gopts = *req.Graph
	}
	if gopts.Format != "" {
		if err := render.ValidateFormat(gopts.Format); err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidOptions, err, "invalid graph format"))
			return
		}
	}

	var res *pipeline.Result
	if req.Options.Mode != "" {
		if res, err = s.runner.Execute(r.Context(), inst, req.Options); err != nil {
			s.writeError(w, err)
			return
		}
	} else if err := inst.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	data, err := pipeline.RenderGraph(inst, res, gopts)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render graph"))
		return
	}
	w.Header().Set("Content-Type", graphContentType(gopts.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	runs, err := s.runner.Runs(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []*archive.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !archive.ValidID(id) {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid run id %q", id))
		return
	}
	run, err := s.runner.Run(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func decodeRequest(r *http.Request) (*Request, *instance.Instance, error) {
	var req Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	if len(req.Instance) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "instance is required")
	}
	inst, err := instance.Read(bytes.NewReader(req.Instance))
	if err != nil {
		return nil, nil, err
	}
	return &req, inst, nil
}

func newResponse(res *pipeline.Result) (*Response, error) {
	resp := &Response{
		RunID:        res.RunID,
		Mode:         res.Mode,
		InstanceHash: res.InstanceHash,
		Cached:       res.CacheInfo.Hit,
		DurationMS:   res.Stats.Duration.Milliseconds(),
	}

	for i, p := range res.Parts {
		doc, err := instance.Marshal(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode part %d", i)
		}
		part := PartResponse{
			Entities:   p.EntityIDs(),
			Statements: p.NumStatements(),
			Instance:   doc,
		}
		if res.Decompose != nil {
			part.Depth = res.Decompose.Parts[i].Depth
			part.Unsplittable = res.Decompose.Parts[i].Unsplittable
		}
		resp.Parts = append(resp.Parts, part)
	}

	switch {
	case res.Split != nil:
		st := res.Split.Stats()
		resp.Deleted = res.Split.Deleted
		resp.Cost = res.Split.Cost
		resp.Degenerate = res.Split.Degenerate
		resp.Stats = &st
	case res.Decompose != nil:
		resp.Deleted = res.Decompose.Deleted
		resp.Rounds = len(res.Decompose.Rounds)
		resp.Duplicates = res.Decompose.TotalDuplicates
		resp.Truncated = res.Decompose.Truncated
	}
	if resp.Deleted == nil {
		resp.Deleted = []int{}
	}
	return resp, nil
}

func graphContentType(format string) string {
	switch format {
	case render.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "image/svg+xml"
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	err = classify(err)
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}

	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
