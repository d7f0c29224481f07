package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"lifeband-data/internal/repository"
	"lifeband-data/internal/service"
)

// AuthHandler registration and sign-in (public routes).
type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		badRequest(w, err)
		return
	}
	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "Register", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(resp))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.SignInRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		badRequest(w, err)
		return
	}
	resp, err := h.auth.SignIn(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "Login", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// AdminHandler profile of the signed-in admin.
type AdminHandler struct {
	admins service.AdminService
	logger *zap.Logger
}

func NewAdminHandler(admins service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admins: admins, logger: logger}
}

func (h *AdminHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	a, err := h.admins.GetProfile(r.Context(), adminID(r))
	if err != nil {
		writeError(w, h.logger, "GetAdminProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(a))
}

func (h *AdminHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch repository.Patch
	if err := readBodyJSON(r, maxBodyBytes, &patch); err != nil {
		badRequest(w, err)
		return
	}
	a, err := h.admins.UpdateProfile(r.Context(), adminID(r), patch)
	if err != nil {
		writeError(w, h.logger, "UpdateAdminProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(a))
}
