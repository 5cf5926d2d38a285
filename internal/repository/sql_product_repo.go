package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/automarketer/internal/database"
	"github.com/hitoshi/automarketer/internal/model"
)

// SQLProductRepo はSQLite/PostgreSQLを使用した商品リポジトリ。
type SQLProductRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLProductRepo はSQLProductRepoを生成する。
func NewSQLProductRepo(db *sql.DB, dialect database.Dialect) *SQLProductRepo {
	return &SQLProductRepo{db: db, dialect: dialect}
}

// ListByUser はユーザーが所有する商品をID昇順で取得する。
func (r *SQLProductRepo) ListByUser(ctx context.Context, userID int64) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(
		`SELECT id, name, COALESCE(description, ''), COALESCE(offers, ''), user_id
		 FROM products
		 WHERE user_id = ?
		 ORDER BY id`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		p := &model.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Offers, &p.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// Create は商品を作成する。
func (r *SQLProductRepo) Create(ctx context.Context, product *model.Product) error {
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`INSERT INTO products (name, description, offers, user_id)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`),
		product.Name, product.Description, product.Offers, product.UserID,
	).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// FindOwned は指定ユーザーが所有する商品を取得する。見つからない場合はnilを返す。
func (r *SQLProductRepo) FindOwned(ctx context.Context, id, userID int64) (*model.Product, error) {
	p := &model.Product{}
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT id, name, COALESCE(description, ''), COALESCE(offers, ''), user_id
		 FROM products
		 WHERE id = ? AND user_id = ?`),
		id, userID,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Offers, &p.UserID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return p, nil
}

// DeleteOwnedWithDrafts は商品とそのドラフトを同一トランザクションで削除する。
// 所有確認、ドラフト削除、商品削除の順に実行し、途中で失敗した場合はすべてロールバックする。
func (r *SQLProductRepo) DeleteOwnedWithDrafts(ctx context.Context, id, userID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var found int64
	err = tx.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT id FROM products WHERE id = ? AND user_id = ?`),
		id, userID,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check product ownership: %w", err)
	}

	if _, err := tx.ExecContext(ctx, r.dialect.Rebind(
		`DELETE FROM drafts WHERE product_id = ?`), id,
	); err != nil {
		return false, fmt.Errorf("failed to delete drafts: %w", err)
	}

	if _, err := tx.ExecContext(ctx, r.dialect.Rebind(
		`DELETE FROM products WHERE id = ?`), id,
	); err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

// compile-time interface check
var _ ProductRepository = (*SQLProductRepo)(nil)
