package auth

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nikolaslacerda/book-store-manager/internal/platform/httpx"
)

// JWTRequest is the credential pair submitted for authentication.
type JWTRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// JWTResponse carries the issued bearer token.
type JWTResponse struct {
	JWTToken string `json:"jwtToken"`
}

// Handler wires the HTTP endpoint for authentication.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers the authenticate route. Mounted under the users
// route group, yielding POST /api/v1/users/authenticate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/authenticate", h.Authenticate)
}

// Authenticate handles POST /api/v1/users/authenticate.
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req JWTRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, "malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}

	token, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, JWTResponse{JWTToken: token})
}
