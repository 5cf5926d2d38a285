// Package auth はメールアドレスとパスワードによるアカウント登録と認証を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/automarketer/internal/model"
	"github.com/hitoshi/automarketer/internal/repository"
)

// Service はアカウント登録と認証に関するビジネスロジックを提供する。
type Service struct {
	identRepo repository.IdentityRepository
	hasher    PasswordHasher
}

// NewService はServiceを生成する。
func NewService(identRepo repository.IdentityRepository, hasher PasswordHasher) *Service {
	return &Service{
		identRepo: identRepo,
		hasher:    hasher,
	}
}

// Register はアカウントを登録する。
// メールアドレスまたはパスワードが空の場合はバリデーションエラー、
// 登録済みのメールアドレスの場合はEMAIL_ALREADY_EXISTSを返す。
func (s *Service) Register(ctx context.Context, email, password, organization string) (*model.Identity, error) {
	if email == "" || password == "" {
		return nil, model.NewValidationError("Email and password required")
	}

	existing, err := s.identRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailAlreadyExistsError()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &model.Identity{
		Email:        email,
		PasswordHash: hash,
		Organization: organization,
	}

	// 事前確認と挿入の間に同じメールアドレスが登録された場合も一意制約で検出する
	if err := s.identRepo.Create(ctx, identity); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailAlreadyExistsError()
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	slog.InfoContext(ctx, "identity registered", slog.Int64("user_id", identity.ID))
	return identity, nil
}

// Verify はメールアドレスとパスワードを検証し、一致したアカウントを返す。
// 未登録のメールアドレスとパスワード誤りはどちらもINVALID_CREDENTIALSとして扱う。
func (s *Service) Verify(ctx context.Context, email, password string) (*model.Identity, error) {
	if email == "" || password == "" {
		return nil, model.NewInvalidCredentialsError()
	}

	identity, err := s.identRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return nil, model.NewInvalidCredentialsError()
	}

	ok, err := s.hasher.Verify(password, identity.PasswordHash)
	if err != nil {
		// 旧形式のハッシュなど照合できないものは認証失敗として扱う
		slog.WarnContext(ctx, "stored password hash could not be verified",
			slog.Int64("user_id", identity.ID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewInvalidCredentialsError()
	}
	if !ok {
		return nil, model.NewInvalidCredentialsError()
	}

	return identity, nil
}
