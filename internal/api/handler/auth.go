package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sunalert/sunalert/internal/api/models"
	"github.com/sunalert/sunalert/internal/api/response"
	"github.com/sunalert/sunalert/internal/auth"
)

// AuthHandler handles device token exchange.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// DeviceAuth handles POST /v1/auth/device - exchange the deployment device
// key for a bearer token.
func (h *AuthHandler) DeviceAuth(w http.ResponseWriter, r *http.Request) {
	var input models.DeviceAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if input.DeviceID == "" {
		response.BadRequest(w, r, "deviceId is required", []models.FieldError{
			{Field: "deviceId", Message: "is required"},
		})
		return
	}

	token, expiresAt, err := h.authService.Exchange(input.DeviceID, input.DeviceKey)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidDeviceKey) {
			response.Unauthorized(w, r, "invalid device key")
			return
		}
		response.InternalError(w, r, "token issuance failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.DeviceAuthResponse{
		AccessToken: token,
		ExpiresAt:   models.Timestamp(expiresAt),
	})
}
