package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/automarketer/internal/database"
	"github.com/hitoshi/automarketer/internal/model"
)

// SQLIdentityRepo はSQLite/PostgreSQLを使用したアカウントリポジトリ。
type SQLIdentityRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLIdentityRepo はSQLIdentityRepoを生成する。
func NewSQLIdentityRepo(db *sql.DB, dialect database.Dialect) *SQLIdentityRepo {
	return &SQLIdentityRepo{db: db, dialect: dialect}
}

// FindByEmail はメールアドレスでアカウントを検索する。見つからない場合はnilを返す。
func (r *SQLIdentityRepo) FindByEmail(ctx context.Context, email string) (*model.Identity, error) {
	identity := &model.Identity{}
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT id, email, password_hash, COALESCE(organization, '')
		 FROM users
		 WHERE email = ?`),
		email,
	).Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &identity.Organization)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find identity by email: %w", err)
	}

	return identity, nil
}

// Create はアカウントを作成する。
func (r *SQLIdentityRepo) Create(ctx context.Context, identity *model.Identity) error {
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`INSERT INTO users (email, password_hash, organization)
		 VALUES (?, ?, ?)
		 RETURNING id`),
		identity.Email, identity.PasswordHash, identity.Organization,
	).Scan(&identity.ID)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert identity: %w", err)
	}
	return nil
}

// compile-time interface check
var _ IdentityRepository = (*SQLIdentityRepo)(nil)
