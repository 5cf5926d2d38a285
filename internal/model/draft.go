// Package model はドメインモデルを定義する。
package model

import "strings"

// Draft は生成されたマーケティング文面の1件を表す。
// 生成ワークフローの副作用としてのみ作成され、商品削除時に連鎖削除される。
type Draft struct {
	ID          int64
	Channel     string
	Content     string
	ProductID   int64
	UserID      int64
	GeneratedAt string // DraftTimeLayout形式のUTC時刻
}

// DraftTimeLayout はドラフトの生成時刻の書式。
// 小数秒を9桁固定にしており、UTCで記録した文字列は辞書順と時刻順が一致する。
const DraftTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DraftWithProduct はドラフトと商品名を結合したモデル。
// productsテーブルとJOINして取得される。
type DraftWithProduct struct {
	ID          int64
	Channel     string
	Content     string
	GeneratedAt string
	ProductName string
}

// Channel は生成文面の配信先フォーマットを表す。
type Channel string

const (
	// ChannelInstagram はInstagramのキャプション。
	ChannelInstagram Channel = "instagram"
	// ChannelLinkedIn はLinkedInの投稿。
	ChannelLinkedIn Channel = "linkedin"
	// ChannelEmail はプロモーションメール。
	ChannelEmail Channel = "email"
	// ChannelBlog はブログ記事。
	ChannelBlog Channel = "blog"
)

// ParseChannel は入力文字列を大文字小文字を区別せずにChannelへ変換する。
// 未知のチャネルの場合はokにfalseを返す。
func ParseChannel(s string) (Channel, bool) {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case ChannelInstagram, ChannelLinkedIn, ChannelEmail, ChannelBlog:
		return c, true
	default:
		return c, false
	}
}
