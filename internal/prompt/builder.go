// Package prompt は商品とチャネルから生成指示文とハッシュタグを組み立てる。
// すべての関数は副作用を持たず、同じ入力に対して常に同じ結果を返す。
package prompt

import (
	"fmt"
	"strings"

	"github.com/hitoshi/automarketer/internal/model"
)

// maxHashtags はハッシュタグの最大数。
const maxHashtags = 8

// baseHashtags はすべての商品に付与する汎用タグ。
var baseHashtags = []string{
	"smallbusiness", "handmade", "supportlocal", "shoplocal",
	"msme", "madeinindia", "artisan", "entrepreneur",
}

// keywordHashtags は商品名に含まれるキーワードに応じて付与するタグ。
// 先頭から評価し、最初に一致したキーワードのタグのみを使用する。
var keywordHashtags = []struct {
	keyword string
	tags    []string
}{
	{"wallet", []string{"leatherwallet", "mensfashion", "everydaycarry"}},
	{"laptop", []string{"gaminglaptop", "tech", "productivity"}},
}

// Request は生成プロバイダーに渡す指示文と、フォールバック文面で使うハッシュタグを保持する。
type Request struct {
	Prompt   string
	Hashtags string
}

// Hashtags は商品名からハッシュタグのキーワード一覧を返す（"#"は含まない）。
// キーワード一致のタグを汎用タグより前に置き、先頭8件に切り詰める。
func Hashtags(productName string) []string {
	name := strings.ToLower(productName)

	tags := make([]string, 0, maxHashtags+3)
	for _, kw := range keywordHashtags {
		if strings.Contains(name, kw.keyword) {
			tags = append(tags, kw.tags...)
			break
		}
	}
	tags = append(tags, baseHashtags...)

	if len(tags) > maxHashtags {
		tags = tags[:maxHashtags]
	}
	return tags
}

// FormatHashtags はキーワード一覧を "#tag1 #tag2 ..." 形式に整形する。
func FormatHashtags(tags []string) string {
	formatted := make([]string, len(tags))
	for i, tag := range tags {
		formatted[i] = "#" + tag
	}
	return strings.Join(formatted, " ")
}

// Build は商品と配信先チャネルから生成リクエストを組み立てる。
// チャネルは大文字小文字を区別せず、未知のチャネルでは汎用の指示文を使用する。
func Build(product *model.Product, channel string) Request {
	hashtags := FormatHashtags(Hashtags(product.Name))

	name := product.Name
	desc := product.Description
	offers := product.Offers

	var text string
	switch c, _ := model.ParseChannel(channel); c {
	case model.ChannelInstagram:
		text = fmt.Sprintf("Write an engaging Instagram caption for '%s'. %s. Offer: %s. Short, fun, 5-8 emojis, call to action. Hashtags: %s", name, desc, offers, hashtags)
	case model.ChannelLinkedIn:
		text = fmt.Sprintf("Write a professional LinkedIn post for '%s'. %s. Highlight offer: %s. End with CTA.", name, desc, offers)
	case model.ChannelEmail:
		text = fmt.Sprintf("Write a promotional email subject + body for '%s'. %s. Offer: %s. Urgent and persuasive.", name, desc, offers)
	case model.ChannelBlog:
		text = fmt.Sprintf("Write a 150-200 word blog post introducing '%s' from an MSME. %s. Offer: %s. Storytelling style.", name, desc, offers)
	default:
		text = "Write marketing content."
	}

	return Request{Prompt: text, Hashtags: hashtags}
}

// Fallback は生成プロバイダーの呼び出しに失敗した場合の定型文面を返す。
// channelは利用者が指定した文字列をそのまま埋め込む。
func Fallback(channel, productName, hashtags string) string {
	return fmt.Sprintf("Sample %s content for %s. %s", channel, productName, hashtags)
}
