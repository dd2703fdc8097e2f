// Package result carries HTTP responses for the glint script service,
// grounded on server/result/result.go's status/body/header envelope.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func OK(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusOK, respObj, fmtMsg("OK", internalMsg))
}

func Created(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusCreated, respObj, fmtMsg("created", internalMsg))
}

func NoContent(internalMsg ...interface{}) Result {
	return Response(http.StatusNoContent, nil, fmtMsg("no content", internalMsg))
}

func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusBadRequest, userMsg, fmtMsg("bad request", internalMsg))
}

func Unprocessable(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusUnprocessableEntity, userMsg, fmtMsg("unprocessable", internalMsg))
}

func NotFound(internalMsg ...interface{}) Result {
	return Err(http.StatusNotFound, "The requested resource was not found", fmtMsg("not found", internalMsg))
}

func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	return Err(http.StatusUnauthorized, userMsg, fmtMsg("unauthorized", internalMsg)).
		WithHeader("WWW-Authenticate", `Bearer realm="glint script service"`)
}

func InternalServerError(internalMsg ...interface{}) Result {
	return Err(http.StatusInternalServerError, "An internal server error occurred", fmtMsg("internal server error", internalMsg))
}

func fmtMsg(def string, args []interface{}) string {
	if len(args) == 0 {
		return def
	}
	format, ok := args[0].(string)
	if !ok {
		return def
	}
	return fmt.Sprintf(format, args[1:]...)
}

// Response builds a successful JSON result. If status is
// http.StatusNoContent, respObj is ignored.
func Response(status int, respObj interface{}, internalMsg string) Result {
	return Result{Status: status, InternalMsg: internalMsg, resp: respObj}
}

// Err builds an error JSON result carrying userMsg in its body.
func Err(status int, userMsg, internalMsg string) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		InternalMsg: internalMsg,
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

type Result struct {
	Status      int
	IsErr       bool
	InternalMsg string

	resp interface{}
	hdrs [][2]string
}

func (r Result) WithHeader(name, val string) Result {
	out := r
	out.hdrs = append(append([][2]string{}, r.hdrs...), [2]string{name, val})
	return out
}

// WriteResponse marshals and writes r to w. It panics on marshal failure,
// matching the teacher's "this should never happen for our own response
// types" assumption.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}

	w.WriteHeader(r.Status)

	if r.Status == http.StatusNoContent {
		return
	}

	if err := json.NewEncoder(w).Encode(r.resp); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}
}
