// Package model はドメインモデルを定義する。
package model

// Product はユーザーが登録した販売商品を表す。
// 所有者（UserID）以外からは参照も削除もできない。
type Product struct {
	ID          int64
	Name        string
	Description string
	Offers      string
	UserID      int64
}
