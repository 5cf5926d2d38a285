package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/hitoshi/automarketer/internal/database"
	"github.com/hitoshi/automarketer/internal/model"
)

// newTestDB はマイグレーション済みのSQLiteデータベースを一時ディレクトリに作成する。
func newTestDB(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()

	dbURL := "sqlite://" + filepath.Join(t.TempDir(), "repo_test.db")
	if err := database.RunMigrations(dbURL); err != nil {
		t.Fatalf("マイグレーション実行に失敗: %v", err)
	}

	db, dialect, err := database.Open(dbURL)
	if err != nil {
		t.Fatalf("データベースへの接続に失敗: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db, dialect
}

// seedIdentity はテスト用のアカウントを作成する。
func seedIdentity(t *testing.T, repo *SQLIdentityRepo, email string) *model.Identity {
	t.Helper()
	identity := &model.Identity{Email: email, PasswordHash: "hash", Organization: "Org"}
	if err := repo.Create(context.Background(), identity); err != nil {
		t.Fatalf("アカウント作成に失敗: %v", err)
	}
	return identity
}

// seedProduct はテスト用の商品を作成する。
func seedProduct(t *testing.T, repo *SQLProductRepo, userID int64, name string) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, Description: "Handmade", Offers: "10% off", UserID: userID}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("商品作成に失敗: %v", err)
	}
	return product
}

// seedDraft はテスト用のドラフトを作成する。
func seedDraft(t *testing.T, repo *SQLDraftRepo, productID, userID int64, channel string) *model.Draft {
	t.Helper()
	draft := &model.Draft{
		Channel:     channel,
		Content:     "content for " + channel,
		ProductID:   productID,
		UserID:      userID,
		GeneratedAt: "2026-01-02T03:04:05Z",
	}
	if err := repo.Create(context.Background(), draft); err != nil {
		t.Fatalf("ドラフト作成に失敗: %v", err)
	}
	return draft
}
