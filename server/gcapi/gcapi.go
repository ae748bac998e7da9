// Package gcapi provides the HTTP handlers gcodesrv exposes for managing
// editing sessions and logging in.
package gcapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/gcodec/server/gcauth"
	"github.com/dekarrin/gcodec/server/gcdao"
	"github.com/dekarrin/gcodec/server/gcmiddle"
	"github.com/dekarrin/gcodec/server/gcresult"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PathPrefix is the prefix all gcapi routes are mounted under.
const PathPrefix = "/api/v1"

// API holds the dependencies every handler needs and exposes one HTTP*
// method per route for a router to assign as a handler.
type API struct {
	Sessions gcdao.SessionRepository
	Auth     gcauth.Service

	// UnauthDelay is added before responding to an HTTP-401/403/500, to
	// deprioritize misbehaving or guessing clients.
	UnauthDelay time.Duration
}

// EndpointFunc is the signature every gcapi handler implementation has;
// Endpoint adapts one into an http.HandlerFunc.
type EndpointFunc func(req *http.Request) gcresult.Result

// Endpoint wraps ep with panic recovery, logging, and the unauth delay,
// and writes whatever Result it returns.
func Endpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if panicErr := recover(); panicErr != nil {
				r := gcresult.InternalServerError("panic in handler: %v", panicErr)
				logResult(req, r)
				r.WriteResponse(w)
			}
		}()

		r := ep(req)

		if r.Status == 0 {
			logResult(req, gcresult.InternalServerError("endpoint result was never populated"))
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		if err := r.PrepareMarshaledResponse(); err != nil {
			newResp := gcresult.InternalServerError("could not marshal JSON response: %s", err.Error())
			logResult(req, newResp)
			newResp.WriteResponse(w)
			return
		}

		logResult(req, r)

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w)
	}
}

func logResult(req *http.Request, r gcresult.Result) {
	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]

	level := "INFO "
	if r.IsErr {
		level = "ERROR"
	}

	fmt.Printf("%s [%s] %s %s %s: HTTP-%d %s\n", level, gcmiddle.RequestIDFromContext(req.Context()), remoteIP, req.Method, req.URL.Path, r.Status, r.InternalMsg)
}

// requireSessionID extracts and parses the "id" URL param. It panics if
// missing or malformed so Endpoint's recovery converts it into an HTTP-500;
// callers are expected to only reach this after chi has matched a route that
// declares {id}.
func requireSessionID(r *http.Request) uuid.UUID {
	id, err := getURLParam(r, "id", uuid.Parse)
	if err != nil {
		panic(err.Error())
	}
	return id
}

func getURLParam[E any](r *http.Request, key string, parse func(string) (E, error)) (val E, err error) {
	valStr := chi.URLParam(r, key)
	if valStr == "" {
		return val, fmt.Errorf("parameter %q does not exist", key)
	}
	val, err = parse(valStr)
	if err != nil {
		return val, fmt.Errorf("parameter %q is malformed: %w", key, err)
	}
	return val, nil
}

// parseJSON decodes a JSON request body into v, restoring req.Body so later
// reads (logging, retries) still see the raw bytes.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	if !strings.EqualFold(contentType, "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return fmt.Errorf("malformed JSON in request: %w", err)
	}
	return nil
}
