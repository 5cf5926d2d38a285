package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/automarketer/internal/distribution"
	"github.com/hitoshi/automarketer/internal/draft"
	"github.com/hitoshi/automarketer/internal/model"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	registerFn func(ctx context.Context, email, password, organization string) (*model.Identity, error)
	verifyFn   func(ctx context.Context, email, password string) (*model.Identity, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password, organization string) (*model.Identity, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, email, password, organization)
	}
	return &model.Identity{ID: 1, Email: email, Organization: organization}, nil
}

func (m *mockAuthService) Verify(ctx context.Context, email, password string) (*model.Identity, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, email, password)
	}
	return nil, model.NewInvalidCredentialsError()
}

// mockProductService はProductServiceInterfaceのモック実装。
type mockProductService struct {
	listFn   func(ctx context.Context, email string) ([]*model.Product, error)
	createFn func(ctx context.Context, name, description, offers, email string) (*model.Product, error)
	deleteFn func(ctx context.Context, productID int64, email string) error
}

func (m *mockProductService) List(ctx context.Context, email string) ([]*model.Product, error) {
	if m.listFn != nil {
		return m.listFn(ctx, email)
	}
	return []*model.Product{}, nil
}

func (m *mockProductService) Create(ctx context.Context, name, description, offers, email string) (*model.Product, error) {
	if m.createFn != nil {
		return m.createFn(ctx, name, description, offers, email)
	}
	return &model.Product{ID: 1, Name: name}, nil
}

func (m *mockProductService) Delete(ctx context.Context, productID int64, email string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, productID, email)
	}
	return nil
}

// mockDraftService はDraftServiceInterfaceのモック実装。
type mockDraftService struct {
	generateFn func(ctx context.Context, in draft.GenerateInput) (*draft.Generated, error)
	listFn     func(ctx context.Context, email string) ([]*model.DraftWithProduct, error)
}

func (m *mockDraftService) Generate(ctx context.Context, in draft.GenerateInput) (*draft.Generated, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, in)
	}
	return &draft.Generated{Content: "content", Platform: in.Platform}, nil
}

func (m *mockDraftService) List(ctx context.Context, email string) ([]*model.DraftWithProduct, error) {
	if m.listFn != nil {
		return m.listFn(ctx, email)
	}
	return []*model.DraftWithProduct{}, nil
}

// mockSocialPoster はSocialPosterのモック実装。
type mockSocialPoster struct {
	postFn func(ctx context.Context, post distribution.SocialPost) (*distribution.Response, error)
}

func (m *mockSocialPoster) Post(ctx context.Context, post distribution.SocialPost) (*distribution.Response, error) {
	if m.postFn != nil {
		return m.postFn(ctx, post)
	}
	return &distribution.Response{StatusCode: 200, Body: json.RawMessage(`{}`)}, nil
}

// mockEmailSender はEmailSenderのモック実装。
type mockEmailSender struct {
	sendFn func(ctx context.Context, recipient, content string) (*distribution.Response, error)
}

func (m *mockEmailSender) Send(ctx context.Context, recipient, content string) (*distribution.Response, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, recipient, content)
	}
	return &distribution.Response{StatusCode: 201, Body: json.RawMessage(`{}`)}, nil
}

// mockBlogPublisher はBlogPublisherのモック実装。
type mockBlogPublisher struct {
	publishFn func(ctx context.Context, title, content string) (*distribution.Response, error)
}

func (m *mockBlogPublisher) Publish(ctx context.Context, title, content string) (*distribution.Response, error) {
	if m.publishFn != nil {
		return m.publishFn(ctx, title, content)
	}
	return &distribution.Response{StatusCode: 200, Body: json.RawMessage(`{}`)}, nil
}

// --- テストヘルパー ---

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// parseAPIErrorResponse はレスポンスボディから統一エラーフォーマットをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

// decodeBody はレスポンスボディをvにデコードするヘルパー。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v\nraw: %s", err, w.Body.String())
	}
}
