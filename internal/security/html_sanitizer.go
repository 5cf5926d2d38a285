package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer はメール本文やブログ記事として送信するHTML断片を無害化する。
type HTMLSanitizer interface {
	// Sanitize は許可リスト外のタグと属性を除去したHTMLを返す。
	Sanitize(rawHTML string) string
}

// OutboundHTMLSanitizer はbluemondayによるHTMLSanitizer実装。
// 生成文面に含まれ得る簡単な書式（強調、リスト、見出し、リンク）のみを通過させる。
type OutboundHTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewOutboundHTMLSanitizer はOutboundHTMLSanitizerを生成する。
//   - 許可タグ: p, br, strong, em, b, i, u, ul, ol, li, blockquote, h2, h3, a
//   - aタグ: hrefはhttps/mailtoの絶対URLのみ、rel="nofollow noreferrer"を付与
//   - script, style, iframe, img, on*属性はすべて除去
func NewOutboundHTMLSanitizer() *OutboundHTMLSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "strong", "em", "b", "i", "u",
		"ul", "ol", "li", "blockquote", "h2", "h3",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("https", "mailto")
	p.AllowRelativeURLs(false)
	p.RequireNoFollowOnLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &OutboundHTMLSanitizer{policy: p}
}

// Sanitize はHTML断片を無害化する。同じ入力に対して常に同じ結果を返す。
func (s *OutboundHTMLSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}

// compile-time interface check
var _ HTMLSanitizer = (*OutboundHTMLSanitizer)(nil)
