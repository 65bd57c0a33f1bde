package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	h "dayboard/internal/delivery/http/helpers"
	"dayboard/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// tokenExpiry is how long a minted calendar token stays valid.
const tokenExpiry = 24 * time.Hour

// TokenRequest is the request body for POST /auth/token. The email becomes
// the stable user key that namespaces all calendar state.
type TokenRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (t TokenRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(t.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// TokenResponse is the response body for POST /auth/token
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// TokenController mints bearer tokens for a user key. It stands in for the
// external identity provider: no passwords, no sessions, just a signed
// statement of which calendar namespace the caller owns.
type TokenController struct {
	Logger *slog.Logger
	Issuer domain.TokenIssuer
}

func NewTokenController(logger *slog.Logger, issuer domain.TokenIssuer) *TokenController {
	return &TokenController{
		Logger: logger,
		Issuer: issuer,
	}
}

// Mint godoc
// @Summary Mint a calendar token
// @Description Issues a bearer token whose subject is the given email. The token scopes all calendar requests to that user's event index.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body TokenRequest true "User email"
// @Success 200 {object} helpers.APIResponse "data contains the token"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/token [post]
func (c *TokenController) Mint(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	token, err := c.Issuer.Issue(email, tokenExpiry)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, TokenResponse{Token: token, TokenType: "Bearer"})
}
