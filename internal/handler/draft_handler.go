package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/automarketer/internal/draft"
	"github.com/hitoshi/automarketer/internal/model"
)

// DraftServiceInterface は生成・ドラフトハンドラーが必要とするサービスインターフェース。
type DraftServiceInterface interface {
	Generate(ctx context.Context, in draft.GenerateInput) (*draft.Generated, error)
	List(ctx context.Context, email string) ([]*model.DraftWithProduct, error)
}

// DraftHandler は文面生成とドラフト一覧のHTTPハンドラー。
type DraftHandler struct {
	service DraftServiceInterface
}

// NewDraftHandler はDraftHandlerを生成する。
func NewDraftHandler(service DraftServiceInterface) *DraftHandler {
	return &DraftHandler{service: service}
}

type generateRequest struct {
	ProductID flexibleID `json:"product_id"`
	Platform  string     `json:"platform"`
	UserEmail string     `json:"user_email"`
}

type generateResponse struct {
	Content     string `json:"content"`
	Platform    string `json:"platform"`
	ProductName string `json:"product_name"`
}

type draftResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Content     string `json:"content"`
	GeneratedAt string `json:"generated_at"`
	ProductName string `json:"product_name"`
}

// Generate は商品とチャネルに応じた文面を生成し、ドラフトとして保存する。
// 生成プロバイダーが失敗しても定型文面で200を返す。
// POST /generate
func (h *DraftHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	generated, err := h.service.Generate(r.Context(), draft.GenerateInput{
		ProductID: int64(req.ProductID),
		Platform:  req.Platform,
		UserEmail: req.UserEmail,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, generateResponse{
		Content:     generated.Content,
		Platform:    generated.Platform,
		ProductName: generated.ProductName,
	})
}

// ListDrafts はユーザーのドラフト一覧を新しい順に返す。未登録のユーザーには空配列を返す。
// GET /drafts?user_email=
func (h *DraftHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.service.List(r.Context(), r.URL.Query().Get("user_email"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]draftResponse, 0, len(drafts))
	for _, d := range drafts {
		resp = append(resp, draftResponse{
			ID:          d.ID,
			Type:        d.Channel,
			Content:     d.Content,
			GeneratedAt: d.GeneratedAt,
			ProductName: d.ProductName,
		})
	}
	writeJSON(w, r, http.StatusOK, resp)
}
