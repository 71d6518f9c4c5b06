package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sehoon/invoice-pipeline/internal/auth"
	"github.com/sehoon/invoice-pipeline/internal/logger"
	"github.com/sehoon/invoice-pipeline/internal/storage"
)

// loginRequest is the JSON body for POST /api/v1/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the JSON response containing the access token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// LoginHandler handles POST /api/v1/login. It authenticates a user by
// email and password, taken from HTTP basic credentials or a JSON body,
// and returns a signed JWT.
func LoginHandler(users storage.UserQuerier, jwtService *auth.JWTService, tokenExpiry time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if email, password, ok := r.BasicAuth(); ok {
			req.Email, req.Password = email, password
		} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Email == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := storage.Authenticate(r.Context(), users, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidCredentials) {
				respondError(w, http.StatusUnauthorized, "invalid email or password")
				return
			}
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Msg("login lookup failed")
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		token, err := jwtService.Generate(user.Email, user.Admin)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Msg("token generation failed")
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		respondJSON(w, http.StatusOK, tokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int(tokenExpiry.Seconds()),
		})
	}
}
