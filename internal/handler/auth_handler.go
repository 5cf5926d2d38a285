package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/automarketer/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, email, password, organization string) (*model.Identity, error)
	Verify(ctx context.Context, email, password string) (*model.Identity, error)
}

// AuthHandler はアカウント登録とログインのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

type signupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
}

type loginResponse struct {
	Message string           `json:"message"`
	User    identityResponse `json:"user"`
}

// Signup はアカウントを登録する。
// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.service.Register(r.Context(), req.Email, req.Password, req.Organization); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, messageResponse{Message: "Signup successful"})
}

// Login は認証情報を検証し、アカウント情報を返す。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	identity, err := h.service.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, loginResponse{
		Message: "Login successful",
		User: identityResponse{
			ID:           identity.ID,
			Email:        identity.Email,
			Organization: identity.Organization,
		},
	})
}
