package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/minios-linux/jsonlate/jsondoc"
	"github.com/minios-linux/jsonlate/langmeta"
	"github.com/minios-linux/jsonlate/session"
	"github.com/minios-linux/jsonlate/translate"
)

// ---------------------------------------------------------------------------
// Stateless endpoints
// ---------------------------------------------------------------------------

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"languages": langmeta.Supported()})
}

type detectRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"language": translate.DetectLanguage(req.Text)})
}

type documentRequest struct {
	JSON    string   `json:"json"`
	Paths   []string `json:"paths,omitempty"`
	All     bool     `json:"all,omitempty"`
	Target  string   `json:"target,omitempty"`
	Compact bool     `json:"compact,omitempty"`
}

type fieldsResponse struct {
	Fields []jsondoc.Field      `json:"fields"`
	Marker *jsondoc.ParseError `json:"marker,omitempty"`
}

// handleFields never fails on bad JSON: the parse error comes back as a
// marker next to an empty field list.
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp := fieldsResponse{Fields: []jsondoc.Field{}}
	doc, err := jsondoc.ParseString(req.JSON)
	if err != nil {
		errors.As(err, &resp.Marker)
	} else {
		resp.Fields = jsondoc.ExtractFields(doc)
	}
	writeJSON(w, http.StatusOK, resp)
}

type progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

type translateResponse struct {
	Result   string   `json:"result"`
	Progress progress `json:"progress"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	doc, err := jsondoc.ParseString(req.JSON)
	if err != nil {
		parseError(w, err)
		return
	}

	target := req.Target
	if target == "" {
		target = s.target
	}
	if !langmeta.IsSupported(target) {
		jsonError(w, fmt.Sprintf("unsupported target language %q", target), http.StatusBadRequest)
		return
	}

	selected := selectFields(jsondoc.ExtractFields(doc), req.Paths, req.All)
	if len(selected) == 0 {
		jsonError(w, session.ErrNoSelection.Error(), http.StatusUnprocessableEntity)
		return
	}

	var prog progress
	overrides, err := translate.TranslateFields(r.Context(), s.translator, selected, target, func(done, total int) {
		prog = progress{Done: done, Total: total}
	})
	if err != nil {
		jsonError(w, "translation aborted: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	out, err := jsondoc.MarshalIndent(jsondoc.Reconstruct(doc, overrides))
	if err != nil {
		jsonError(w, "encoding result: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("translated document", "fields", len(selected), "target", target)
	writeJSON(w, http.StatusOK, translateResponse{Result: string(out), Progress: prog})
}

// selectFields keeps the fields named by paths, in field order. Unknown
// paths are ignored.
func selectFields(fields []jsondoc.Field, paths []string, all bool) []jsondoc.Field {
	if all {
		return fields
	}
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}
	var out []jsondoc.Field
	for _, f := range fields {
		if want[f.Path] {
			out = append(out, f)
		}
	}
	return out
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := jsondoc.Format([]byte(req.JSON), req.Compact)
	if err != nil {
		parseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": string(out)})
}

// ---------------------------------------------------------------------------
// Workspace endpoints
// ---------------------------------------------------------------------------

func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.workspace.Snapshot())
}

func (s *Server) handleWorkspaceReset(w http.ResponseWriter, r *http.Request) {
	s.workspace.Reset()
	writeJSON(w, http.StatusOK, s.workspace.Snapshot())
}

type sourceRequest struct {
	Source string `json:"source"`
	// Now skips the reparse delay.
	Now bool `json:"now,omitempty"`
}

func (s *Server) handleWorkspaceSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Now {
		s.workspace.SetSourceNow(req.Source)
		writeJSON(w, http.StatusOK, s.workspace.Snapshot())
		return
	}
	s.workspace.SetSource(req.Source)
	writeJSON(w, http.StatusAccepted, s.workspace.Snapshot())
}

type formatRequest struct {
	Compact bool `json:"compact"`
}

func (s *Server) handleWorkspaceFormatSource(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.workspace.FormatSource(req.Compact); err != nil {
		parseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.workspace.Snapshot())
}

type selectionRequest struct {
	Paths  []string `json:"paths,omitempty"`
	Toggle string   `json:"toggle,omitempty"`
	All    bool     `json:"all,omitempty"`
	Clear  bool     `json:"clear,omitempty"`
}

// handleWorkspaceSelection applies, in order: clear, all, paths (which
// replace the selection) and toggle.
func (s *Server) handleWorkspaceSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ws := s.workspace
	if req.Clear {
		ws.ClearSelection()
	}
	if req.All {
		ws.SelectAll()
	}
	if req.Paths != nil {
		ws.ClearSelection()
		ws.Select(req.Paths...)
	}
	if req.Toggle != "" {
		ws.Toggle(req.Toggle)
	}
	writeJSON(w, http.StatusOK, map[string]any{"selected": nonNil(ws.Selected())})
}

type targetRequest struct {
	Language string `json:"language"`
}

func (s *Server) handleWorkspaceTarget(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.workspace.SetTargetLanguage(req.Language); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"language": s.workspace.TargetLanguage()})
}

func (s *Server) handleWorkspaceTranslate(w http.ResponseWriter, r *http.Request) {
	var prog progress
	out, err := s.workspace.TranslateSelected(r.Context(), func(done, total int) {
		prog = progress{Done: done, Total: total}
	})
	switch {
	case errors.Is(err, session.ErrNoSelection):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrFieldMissing),
		errors.Is(err, session.ErrSourceChanged):
		jsonError(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		jsonError(w, "translation aborted: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("translated workspace", "fields", prog.Total, "target", s.workspace.TargetLanguage())
	writeJSON(w, http.StatusOK, translateResponse{Result: string(out), Progress: prog})
}

type resultResponse struct {
	Result string              `json:"result"`
	Marker *jsondoc.ParseError `json:"marker,omitempty"`
}

func (s *Server) handleWorkspaceResult(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, resultResponse{
		Result: s.workspace.Result(),
		Marker: s.workspace.ResultMarker(),
	})
}

type setResultRequest struct {
	Result string `json:"result"`
}

func (s *Server) handleWorkspaceSetResult(w http.ResponseWriter, r *http.Request) {
	var req setResultRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := s.workspace.SetResultText(req.Result)
	if errors.Is(err, session.ErrNoResult) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	// Invalid edits are stored; the marker tells the editor where.
	writeJSON(w, http.StatusOK, resultResponse{
		Result: s.workspace.Result(),
		Marker: s.workspace.ResultMarker(),
	})
}

func (s *Server) handleWorkspaceFormatResult(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := s.workspace.FormatResult(req.Compact)
	if errors.Is(err, session.ErrNoResult) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		parseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Result: string(out)})
}

func (s *Server) handleWorkspaceExample(w http.ResponseWriter, r *http.Request) {
	s.workspace.LoadExample()
	writeJSON(w, http.StatusOK, s.workspace.Snapshot())
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// decodeBody reads a JSON request body into v. An empty body leaves v
// zero. On failure the error response has been written.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// parseError reports invalid document text with its position.
func parseError(w http.ResponseWriter, err error) {
	var perr *jsondoc.ParseError
	if errors.As(err, &perr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": perr.Error(), "marker": perr})
		return
	}
	msg := err.Error()
	if errors.Is(err, jsondoc.ErrEmpty) {
		msg = "document is empty"
	}
	jsonError(w, strings.TrimSpace(msg), http.StatusBadRequest)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
