// Package model はドメインモデルを定義する。
package model

// Identity は登録済みのユーザーアカウントを表す。
// 登録時に作成され、以後は更新も削除もされない。
type Identity struct {
	ID           int64
	Email        string
	PasswordHash string
	Organization string
}
