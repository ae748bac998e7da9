// Package gcmiddle contains HTTP middleware for gcodesrv: bearer-auth
// context population and panic containment.
package gcmiddle

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/gcodec/server/gcauth"
	"github.com/dekarrin/gcodec/server/gcdao"
	"github.com/dekarrin/gcodec/server/gcresult"
	"github.com/google/uuid"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware wraps a handler to produce a new handler that adds some
// additional behavior before or after calling the wrapped one.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in a request's context populated by RequireAuth or
// OptionalAuth.
type AuthKey int

const (
	AuthLoggedIn AuthKey = iota
	AuthOperator
)

// AuthHandler extracts a bearer token, validates it against a gcauth.Service,
// and stores the resulting operator (or its absence) in the request context
// before calling the next handler.
type AuthHandler struct {
	auth          gcauth.Service
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var op gcdao.Operator

	tok, err := getBearerToken(req)
	if err != nil {
		if ah.required {
			r := gcresult.Unauthorized("", err.Error())
			time.Sleep(ah.unauthedDelay)
			logResult(req, r)
			r.WriteResponse(w)
			return
		}
	} else {
		lookup, err := ah.auth.Validate(req.Context(), tok)
		if err != nil {
			if ah.required {
				r := gcresult.Unauthorized("", err.Error())
				time.Sleep(ah.unauthedDelay)
				logResult(req, r)
				r.WriteResponse(w)
				return
			}
		} else {
			op = lookup
			loggedIn = true
		}
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthOperator, op)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth rejects any request without a valid bearer token with
// HTTP-401 before it reaches next.
func RequireAuth(auth gcauth.Service, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{auth: auth, unauthedDelay: unauthDelay, required: true, next: next}
	}
}

// OptionalAuth populates AuthOperator/AuthLoggedIn when a valid token is
// present but lets the request through either way.
func OptionalAuth(auth gcauth.Service, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{auth: auth, unauthedDelay: unauthDelay, required: false, next: next}
	}
}

// OperatorFromContext retrieves the operator an AuthHandler stored in ctx.
// ok is false if no token was validated for the request.
func OperatorFromContext(ctx context.Context) (op gcdao.Operator, ok bool) {
	loggedIn, _ := ctx.Value(AuthLoggedIn).(bool)
	if !loggedIn {
		return gcdao.Operator{}, false
	}
	op, ok = ctx.Value(AuthOperator).(gcdao.Operator)
	return op, ok
}

// DontPanic recovers from a panic in next, logs it, and responds with
// HTTP-500 instead of letting the connection die uncleanly.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, req *http.Request) {
			defer panicTo500(w, req)
			next.ServeHTTP(w, req)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := gcresult.InternalServerError("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()))
		logResult(req, r)
		r.WriteResponse(w)
	}
}

// RequestID stamps each request's logged lines with a short random ID,
// making it possible to correlate the multiple log lines one request can
// produce (auth failure, handler error, panic) in a busy server's output.
func RequestID(next http.Handler) http.Handler {
	return mwFunc(func(w http.ResponseWriter, req *http.Request) {
		id, err := uuid.NewRandom()
		reqID := "unknown"
		if err == nil {
			reqID = id.String()[:8]
		}
		ctx := context.WithValue(req.Context(), requestIDKey, reqID)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

type requestIDKeyType int

const requestIDKey requestIDKeyType = 0

// RequestIDFromContext returns the short ID RequestID assigned to req, or
// "unknown" if the middleware was not applied.
func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(requestIDKey).(string)
	if !ok {
		return "unknown"
	}
	return id
}

func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(parts[0]))
	tok := strings.TrimSpace(parts[1])
	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return tok, nil
}

// logResult writes one log line per completed request, in the style of
// gcodesrv's handler-level logging, so auth failures and panics surface the
// same way regular handler responses do.
func logResult(req *http.Request, r gcresult.Result) {
	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]

	level := "INFO "
	if r.IsErr {
		level = "ERROR"
	}

	log.Printf("%s [%s] %s %s %s: HTTP-%d %s", level, RequestIDFromContext(req.Context()), remoteIP, req.Method, req.URL.Path, r.Status, r.InternalMsg)
}
