package svc

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dekarrin/glint"
	"github.com/dekarrin/glint/internal/svc/dao"
	"github.com/dekarrin/glint/internal/svc/result"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		result.BadRequest("malformed JSON body", "%s", err.Error()).WriteResponse(w)
		return
	}

	if body.Username != s.cfg.Operator.Username || !CheckPassword(s.cfg.Operator.PasswordHash, body.Password) {
		result.Unauthorized("Incorrect username or password").WriteResponse(w)
		return
	}

	tok, err := generateToken(s.cfg.TokenSecret, body.Username)
	if err != nil {
		result.InternalServerError("%s", err.Error()).WriteResponse(w)
		return
	}

	result.Created(loginResponse{Token: tok}).WriteResponse(w)
}

type createScriptRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

type scriptResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

func scriptToResponse(s dao.Script) scriptResponse {
	return scriptResponse{ID: s.ID.String(), Name: s.Name, Source: s.Source}
}

func (s *Server) handleCreateScript(w http.ResponseWriter, req *http.Request) {
	var body createScriptRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		result.BadRequest("malformed JSON body", "%s", err.Error()).WriteResponse(w)
		return
	}

	script, err := s.store.CreateScript(req.Context(), body.Name, body.Source)
	if err != nil {
		var pe *glint.ParseError
		if errors.As(err, &pe) {
			result.Unprocessable(pe.FullMessage(), "parse error: %s", err.Error()).WriteResponse(w)
			return
		}
		result.InternalServerError("%s", err.Error()).WriteResponse(w)
		return
	}

	result.Created(scriptToResponse(script)).WriteResponse(w)
}

func (s *Server) handleGetScript(w http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		result.BadRequest("id is not a valid identifier").WriteResponse(w)
		return
	}

	script, err := s.store.GetScript(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			result.NotFound().WriteResponse(w)
			return
		}
		result.InternalServerError("%s", err.Error()).WriteResponse(w)
		return
	}

	result.OK(scriptToResponse(script)).WriteResponse(w)
}

type runResponse struct {
	ID       string `json:"id"`
	ScriptID string `json:"script_id"`
	Output   string `json:"output"`
	Result   string `json:"result"`
	Error    string `json:"error,omitempty"`
}

func runToResponse(r dao.Run) runResponse {
	return runResponse{
		ID:       r.ID.String(),
		ScriptID: r.ScriptID.String(),
		Output:   r.Output,
		Result:   r.Result,
		Error:    r.Error,
	}
}

func (s *Server) handleRunScript(w http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		result.BadRequest("id is not a valid identifier").WriteResponse(w)
		return
	}

	run, err := s.store.RunScript(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			result.NotFound().WriteResponse(w)
			return
		}
		result.InternalServerError("%s", err.Error()).WriteResponse(w)
		return
	}

	result.OK(runToResponse(run)).WriteResponse(w)
}

func (s *Server) handleListRuns(w http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		result.BadRequest("id is not a valid identifier").WriteResponse(w)
		return
	}

	runs, err := s.store.ListRuns(req.Context(), id)
	if err != nil {
		result.InternalServerError("%s", err.Error()).WriteResponse(w)
		return
	}

	out := make([]runResponse, len(runs))
	for i, r := range runs {
		out[i] = runToResponse(r)
	}

	result.OK(out).WriteResponse(w)
}
