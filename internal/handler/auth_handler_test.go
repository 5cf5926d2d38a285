package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/automarketer/internal/model"
)

func TestAuthHandler_Signup_Success(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, email, password, organization string) (*model.Identity, error) {
			if email != "owner@example.com" || password != "secret" || organization != "Acme" {
				t.Errorf("Register(%q, %q, %q)", email, password, organization)
			}
			return &model.Identity{ID: 1, Email: email, Organization: organization}, nil
		},
	}
	h := NewAuthHandler(svc)

	body := `{"email":"owner@example.com","password":"secret","organization":"Acme"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Signup(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var resp messageResponse
	decodeBody(t, w, &resp)
	if resp.Message != "Signup successful" {
		t.Errorf("message = %q, want %q", resp.Message, "Signup successful")
	}
}

func TestAuthHandler_Signup_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"メールアドレス重複", `{"email":"a@example.com","password":"p"}`, model.NewEmailAlreadyExistsError(), http.StatusBadRequest, "Email already exists"},
		{"必須項目なし", `{"email":""}`, model.NewValidationError("Email and password required"), http.StatusBadRequest, "Email and password required"},
		{"内部エラー", `{"email":"a@example.com","password":"p"}`, errors.New("db down"), http.StatusInternalServerError, "Internal server error"},
		{"不正なJSON", `{invalid`, nil, http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{
				registerFn: func(ctx context.Context, email, password, organization string) (*model.Identity, error) {
					return nil, tt.err
				},
			}
			h := NewAuthHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			h.Signup(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			errResp := parseAPIErrorResponse(t, w)
			if errResp["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", errResp["error"], tt.wantError)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &mockAuthService{
		verifyFn: func(ctx context.Context, email, password string) (*model.Identity, error) {
			return &model.Identity{ID: 7, Email: email, Organization: "Acme"}, nil
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"owner@example.com","password":"secret"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp loginResponse
	decodeBody(t, w, &resp)
	if resp.Message != "Login successful" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.User.ID != 7 || resp.User.Email != "owner@example.com" || resp.User.Organization != "Acme" {
		t.Errorf("user = %+v", resp.User)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"owner@example.com","password":"wrong"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want %q", errResp["code"], model.ErrCodeInvalidCredentials)
	}
}
