// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/automarketer/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
var ErrDuplicateEmail = errors.New("email already exists")

// IdentityRepository はユーザーアカウントの永続化インターフェース。
type IdentityRepository interface {
	// FindByEmail はメールアドレスでアカウントを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Identity, error)

	// Create はアカウントを作成し、採番されたIDをidentity.IDに設定する。
	// メールアドレスが登録済みの場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, identity *model.Identity) error
}

// ProductRepository は商品データの永続化インターフェース。
type ProductRepository interface {
	// ListByUser はユーザーが所有する商品を取得する。
	ListByUser(ctx context.Context, userID int64) ([]*model.Product, error)

	// Create は商品を作成し、採番されたIDをproduct.IDに設定する。
	Create(ctx context.Context, product *model.Product) error

	// FindOwned は指定ユーザーが所有する商品を取得する。
	// 存在しない場合、または所有者が異なる場合はnilを返す。
	FindOwned(ctx context.Context, id, userID int64) (*model.Product, error)

	// DeleteOwnedWithDrafts は商品とそのドラフトを同一トランザクションで削除する。
	// 対象の商品が存在しない、または所有者が異なる場合はfalseを返し、何も削除しない。
	DeleteOwnedWithDrafts(ctx context.Context, id, userID int64) (bool, error)
}

// DraftRepository は生成ドラフトの永続化インターフェース。
type DraftRepository interface {
	// Create はドラフトを作成し、採番されたIDをdraft.IDに設定する。
	Create(ctx context.Context, draft *model.Draft) error

	// ListByUser はユーザーのドラフトを商品名付きでID降順に取得する。
	ListByUser(ctx context.Context, userID int64) ([]*model.DraftWithProduct, error)
}
