// Package draft は商品の確認から文面生成、ドラフト保存までのワークフローと、
// 保存済みドラフトの一覧取得を提供する。
package draft

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/automarketer/internal/generation"
	"github.com/hitoshi/automarketer/internal/metrics"
	"github.com/hitoshi/automarketer/internal/model"
	"github.com/hitoshi/automarketer/internal/prompt"
	"github.com/hitoshi/automarketer/internal/repository"
)

// GenerateInput は文面生成リクエストの入力。
type GenerateInput struct {
	ProductID int64
	Platform  string
	UserEmail string
}

// Generated は文面生成の結果。
type Generated struct {
	Content     string
	Platform    string
	ProductName string
	// Fallback は生成プロバイダーが失敗し、定型文面に置き換えたかどうか。
	Fallback bool
	// DraftID は保存したドラフトのID。保存に失敗した場合は0。
	DraftID int64
}

// Service は文面生成ワークフローを提供する。
type Service struct {
	identRepo   repository.IdentityRepository
	productRepo repository.ProductRepository
	draftRepo   repository.DraftRepository
	provider    generation.Provider
	metrics     metrics.MetricsCollector
	now         func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	identRepo repository.IdentityRepository,
	productRepo repository.ProductRepository,
	draftRepo repository.DraftRepository,
	provider generation.Provider,
	collector metrics.MetricsCollector,
) *Service {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &Service{
		identRepo:   identRepo,
		productRepo: productRepo,
		draftRepo:   draftRepo,
		provider:    provider,
		metrics:     collector,
		now:         time.Now,
	}
}

// Generate は商品とチャネルから文面を生成し、ドラフトとして保存する。
//
// 処理順序:
//  1. メールアドレスからアカウントを解決（未登録ならUSER_NOT_FOUND）
//  2. 商品をアカウントの所有範囲で解決（存在しない・他人の商品ならPRODUCT_NOT_FOUND）
//  3. プロンプトを組み立て、生成プロバイダーを呼び出す（失敗時は定型文面に置き換える）
//  4. ドラフトを保存する（失敗してもログに残して生成結果は返す）
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*Generated, error) {
	if in.ProductID == 0 || in.Platform == "" || in.UserEmail == "" {
		return nil, model.NewValidationError("Missing required fields")
	}

	identity, err := s.identRepo.FindByEmail(ctx, in.UserEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return nil, model.NewUserNotFoundError()
	}

	product, err := s.productRepo.FindOwned(ctx, in.ProductID, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if product == nil {
		return nil, model.NewProductNotFoundError()
	}

	req := prompt.Build(product, in.Platform)

	start := time.Now()
	result := s.provider.Generate(ctx, req.Prompt)
	s.metrics.RecordGenerationLatency(time.Since(start))
	s.metrics.RecordGeneration(in.Platform, result.Failed())

	if result.Failed() {
		slog.WarnContext(ctx, "generation failed, using fallback content",
			slog.Int64("product_id", product.ID),
			slog.String("platform", in.Platform),
			slog.String("error", result.Err.Error()),
		)
	}
	content := result.TextOr(prompt.Fallback(in.Platform, product.Name, req.Hashtags))

	out := &Generated{
		Content:     content,
		Platform:    in.Platform,
		ProductName: product.Name,
		Fallback:    result.Failed(),
	}

	d := &model.Draft{
		Channel:     in.Platform,
		Content:     content,
		ProductID:   product.ID,
		UserID:      identity.ID,
		GeneratedAt: s.now().UTC().Format(model.DraftTimeLayout),
	}
	if err := s.draftRepo.Create(ctx, d); err != nil {
		s.metrics.RecordDraftPersistFailure()
		slog.ErrorContext(ctx, "failed to persist draft",
			slog.Int64("product_id", product.ID),
			slog.Int64("user_id", identity.ID),
			slog.String("error", err.Error()),
		)
		return out, nil
	}

	out.DraftID = d.ID
	return out, nil
}

// List はユーザーのドラフトを商品名付きで新しい順に返す。
// 未登録のメールアドレスの場合はエラーではなく空のスライスを返す。
func (s *Service) List(ctx context.Context, email string) ([]*model.DraftWithProduct, error) {
	if email == "" {
		return nil, model.NewValidationError("user_email required")
	}

	identity, err := s.identRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return []*model.DraftWithProduct{}, nil
	}

	drafts, err := s.draftRepo.ListByUser(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}
