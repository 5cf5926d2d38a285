package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/automarketer/internal/database"
	"github.com/hitoshi/automarketer/internal/model"
)

// SQLDraftRepo はSQLite/PostgreSQLを使用したドラフトリポジトリ。
type SQLDraftRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLDraftRepo はSQLDraftRepoを生成する。
func NewSQLDraftRepo(db *sql.DB, dialect database.Dialect) *SQLDraftRepo {
	return &SQLDraftRepo{db: db, dialect: dialect}
}

// Create はドラフトを作成する。GeneratedAtは呼び出し側で設定する。
func (r *SQLDraftRepo) Create(ctx context.Context, draft *model.Draft) error {
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`INSERT INTO drafts (type, content, product_id, user_id, generated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`),
		draft.Channel, draft.Content, draft.ProductID, draft.UserID, draft.GeneratedAt,
	).Scan(&draft.ID)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

// ListByUser はユーザーのドラフトを商品名付きでID降順に取得する。
func (r *SQLDraftRepo) ListByUser(ctx context.Context, userID int64) ([]*model.DraftWithProduct, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(
		`SELECT d.id, COALESCE(d.type, ''), COALESCE(d.content, ''), COALESCE(d.generated_at, ''), p.name
		 FROM drafts d
		 JOIN products p ON d.product_id = p.id
		 WHERE d.user_id = ?
		 ORDER BY d.id DESC`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	drafts := []*model.DraftWithProduct{}
	for rows.Next() {
		d := &model.DraftWithProduct{}
		if err := rows.Scan(&d.ID, &d.Channel, &d.Content, &d.GeneratedAt, &d.ProductName); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drafts: %w", err)
	}

	return drafts, nil
}

// compile-time interface check
var _ DraftRepository = (*SQLDraftRepo)(nil)
