package gcapi

import (
	"errors"
	"net/http"

	"github.com/dekarrin/gcodec/server/gcauth"
	"github.com/dekarrin/gcodec/server/gcresult"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token a client should send as
// "Authorization: Bearer <token>" on subsequent requests.
type LoginResponse struct {
	Token string `json:"token"`
}

// HTTPLogin returns a handler for POST /auth/login.
func (api API) HTTPLogin() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epLogin)
}

func (api API) epLogin(req *http.Request) gcresult.Result {
	var body LoginRequest
	if err := parseJSON(req, &body); err != nil {
		return gcresult.BadRequest(err.Error(), err.Error())
	}

	if body.Username == "" {
		return gcresult.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if body.Password == "" {
		return gcresult.BadRequest("password: property is empty or missing from request", "empty password")
	}

	tok, err := api.Auth.Login(req.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, gcauth.ErrBadCredentials) {
			return gcresult.Unauthorized(gcauth.ErrBadCredentials.Error(), "operator '%s': %s", body.Username, err.Error())
		}
		return gcresult.InternalServerError(err.Error())
	}

	return gcresult.Created(LoginResponse{Token: tok}, "operator '%s' logged in", body.Username)
}
