package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/automarketer/internal/distribution"
	"github.com/hitoshi/automarketer/internal/model"
)

// SocialPoster はSNS投稿に必要なインターフェース。
type SocialPoster interface {
	Post(ctx context.Context, post distribution.SocialPost) (*distribution.Response, error)
}

// EmailSender はメール送信に必要なインターフェース。
type EmailSender interface {
	Send(ctx context.Context, recipient, content string) (*distribution.Response, error)
}

// BlogPublisher はブログ投稿に必要なインターフェース。
type BlogPublisher interface {
	Publish(ctx context.Context, title, content string) (*distribution.Response, error)
}

// DistributionHandler は生成文面を外部の配信APIへ転送するHTTPハンドラー。
// 外部APIの応答ステータスとボディを呼び出し元へ中継する。
type DistributionHandler struct {
	social SocialPoster
	email  EmailSender
	blog   BlogPublisher
}

// NewDistributionHandler はDistributionHandlerを生成する。
func NewDistributionHandler(social SocialPoster, email EmailSender, blog BlogPublisher) *DistributionHandler {
	return &DistributionHandler{
		social: social,
		email:  email,
		blog:   blog,
	}
}

type postSocialRequest struct {
	Content     string `json:"content"`
	Platform    string `json:"platform"`
	ProductName string `json:"product_name"`
}

type instagramRequest struct {
	Content            string `json:"content"`
	ProductDescription string `json:"product_description"`
}

type sendEmailRequest struct {
	Content   string `json:"content"`
	Recipient string `json:"recipient"`
}

type postBlogRequest struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

type relayResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type relayErrorResponse struct {
	Error json.RawMessage `json:"error"`
}

// PostSocial は文面をSNSへ投稿する。
// POST /post_social
func (h *DistributionHandler) PostSocial(w http.ResponseWriter, r *http.Request) {
	var req postSocialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" || req.Platform == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Missing content or platform"))
		return
	}

	resp, err := h.social.Post(r.Context(), distribution.SocialPost{
		Content:    req.Content,
		Platform:   req.Platform,
		ImageQuery: req.ProductName,
	})
	if err != nil {
		writeUpstreamError(w, r, "social", err)
		return
	}

	writeWrappedRelay(w, r, resp, "Posted successfully!")
}

// GenerateAndPostInstagram は商品説明から画像を選び、文面とともにInstagramへ投稿する。
// POST /generate_and_post_instagram
func (h *DistributionHandler) GenerateAndPostInstagram(w http.ResponseWriter, r *http.Request) {
	var req instagramRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Missing content"))
		return
	}

	resp, err := h.social.Post(r.Context(), distribution.SocialPost{
		Content:    req.Content,
		Platform:   string(model.ChannelInstagram),
		ImageQuery: req.ProductDescription,
	})
	if err != nil {
		writeUpstreamError(w, r, "social", err)
		return
	}

	writeWrappedRelay(w, r, resp, "Posted to Instagram with image!")
}

// SendEmail は文面をHTMLメールとして送信する。
// POST /send_email
func (h *DistributionHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" || req.Recipient == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Missing content or recipient"))
		return
	}

	resp, err := h.email.Send(r.Context(), req.Recipient, req.Content)
	if err != nil {
		writeUpstreamError(w, r, "email", err)
		return
	}

	writeRawRelay(w, r, resp)
}

// PostBlog は文面をブログ記事として投稿する。
// POST /post_blog
func (h *DistributionHandler) PostBlog(w http.ResponseWriter, r *http.Request) {
	var req postBlogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Missing content"))
		return
	}

	resp, err := h.blog.Publish(r.Context(), req.Title, req.Content)
	if err != nil {
		writeUpstreamError(w, r, "blog", err)
		return
	}

	writeRawRelay(w, r, resp)
}

// writeWrappedRelay は外部APIが200を返した場合はメッセージ付きで、
// それ以外の場合はボディをerrorに入れて同じステータスで返す。
func writeWrappedRelay(w http.ResponseWriter, r *http.Request, resp *distribution.Response, message string) {
	if resp.StatusCode == http.StatusOK {
		writeJSON(w, r, http.StatusOK, relayResponse{Message: message, Data: resp.Body})
		return
	}
	writeJSON(w, r, resp.StatusCode, relayErrorResponse{Error: resp.Body})
}

// writeRawRelay は外部APIのステータスとボディをそのまま返す。
func writeRawRelay(w http.ResponseWriter, r *http.Request, resp *distribution.Response) {
	writeJSON(w, r, resp.StatusCode, resp.Body)
}

// writeUpstreamError は外部API呼び出し自体の失敗を500として返す。
func writeUpstreamError(w http.ResponseWriter, r *http.Request, target string, err error) {
	slog.ErrorContext(r.Context(), "distribution failed",
		slog.String("target", target),
		slog.String("error", err.Error()),
	)
	writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewUpstreamError(err.Error()))
}
