package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/hitoshi/automarketer/internal/model"
)

// ProductServiceInterface は商品ハンドラーが必要とするサービスインターフェース。
type ProductServiceInterface interface {
	List(ctx context.Context, email string) ([]*model.Product, error)
	Create(ctx context.Context, name, description, offers, email string) (*model.Product, error)
	Delete(ctx context.Context, productID int64, email string) error
}

// ProductHandler は商品管理のHTTPハンドラー。
type ProductHandler struct {
	service ProductServiceInterface
}

// NewProductHandler はProductHandlerを生成する。
func NewProductHandler(service ProductServiceInterface) *ProductHandler {
	return &ProductHandler{service: service}
}

type createProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Offers      string `json:"offers"`
	UserEmail   string `json:"user_email"`
}

type deleteProductRequest struct {
	UserEmail string `json:"user_email"`
}

type productResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Offers      string `json:"offers"`
	UserID      int64  `json:"user_id"`
}

type createProductResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// ListProducts はユーザーの商品一覧を返す。未登録のユーザーには空配列を返す。
// GET /products?user_email=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), r.URL.Query().Get("user_email"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// CreateProduct は商品を登録する。
// POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.service.Create(r.Context(), req.Name, req.Description, req.Offers, req.UserEmail)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, createProductResponse{
		ID:      product.ID,
		Message: "Product added successfully",
	})
}

// DeleteProduct は商品と関連するドラフトを削除する。
// user_emailはボディで受け取り、ボディがない場合はクエリパラメータを参照する。
// DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || productID <= 0 {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewProductNotFoundError())
		return
	}

	var req deleteProductRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	if req.UserEmail == "" {
		req.UserEmail = r.URL.Query().Get("user_email")
	}

	if err := h.service.Delete(r.Context(), productID, req.UserEmail); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

func toProductResponse(p *model.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Offers:      p.Offers,
		UserID:      p.UserID,
	}
}
