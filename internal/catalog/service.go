// Package catalog はユーザーごとの商品登録・一覧・削除を提供する。
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/automarketer/internal/model"
	"github.com/hitoshi/automarketer/internal/repository"
)

// Service は商品カタログに関するビジネスロジックを提供する。
type Service struct {
	identRepo   repository.IdentityRepository
	productRepo repository.ProductRepository
}

// NewService はServiceを生成する。
func NewService(identRepo repository.IdentityRepository, productRepo repository.ProductRepository) *Service {
	return &Service{
		identRepo:   identRepo,
		productRepo: productRepo,
	}
}

// List はユーザーが所有する商品一覧を返す。
// 未登録のメールアドレスの場合はエラーではなく空のスライスを返す。
func (s *Service) List(ctx context.Context, email string) ([]*model.Product, error) {
	if email == "" {
		return nil, model.NewValidationError("user_email required")
	}

	identity, err := s.identRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return []*model.Product{}, nil
	}

	products, err := s.productRepo.ListByUser(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Create は商品を登録する。
// 商品名またはメールアドレスが空の場合はバリデーションエラー、
// 未登録のメールアドレスの場合はUSER_NOT_FOUNDを返す。
func (s *Service) Create(ctx context.Context, name, description, offers, email string) (*model.Product, error) {
	if name == "" || email == "" {
		return nil, model.NewValidationError("Name and user_email required")
	}

	identity, err := s.identRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return nil, model.NewUserNotFoundError()
	}

	product := &model.Product{
		Name:        name,
		Description: description,
		Offers:      offers,
		UserID:      identity.ID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	slog.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.Int64("user_id", identity.ID),
	)
	return product, nil
}

// Delete は商品とそのドラフトを削除する。
// 商品が存在しない、所有者が異なる、またはメールアドレスが未登録の場合は
// いずれもPRODUCT_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, productID int64, email string) error {
	if email == "" {
		return model.NewValidationError("user_email required")
	}

	identity, err := s.identRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return model.NewProductNotFoundError()
	}

	deleted, err := s.productRepo.DeleteOwnedWithDrafts(ctx, productID, identity.ID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.NewProductNotFoundError()
	}

	slog.InfoContext(ctx, "product deleted",
		slog.Int64("product_id", productID),
		slog.Int64("user_id", identity.ID),
	)
	return nil
}
