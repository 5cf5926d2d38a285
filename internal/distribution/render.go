package distribution

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hitoshi/automarketer/internal/security"
)

// ContentHTML は生成文面を送信用のHTML断片に変換する。
// 許可リスト外のタグを除去したうえで、改行を<br>に置き換える。
func ContentHTML(sanitizer security.HTMLSanitizer, content string) string {
	clean := sanitizer.Sanitize(content)
	clean = strings.ReplaceAll(clean, "\r\n", "\n")
	return strings.ReplaceAll(clean, "\n", "<br>")
}

// EmailHTML はメール本文のHTML文書を組み立てる。
// bodyFragmentはContentHTMLで無害化済みの断片を渡す。
func EmailHTML(senderName, bodyFragment string) (string, error) {
	content := element(atom.Div, "font-size: 16px; white-space: pre-wrap;")
	nodes, err := html.ParseFragment(strings.NewReader(bodyFragment), content)
	if err != nil {
		return "", fmt.Errorf("failed to parse email body: %w", err)
	}
	for _, n := range nodes {
		content.AppendChild(n)
	}

	title := element(atom.H1, "color: #2c3e50; text-align: center;")
	title.AppendChild(text("Exclusive Offer from " + senderName))

	brand := element(atom.Strong, "")
	brand.AppendChild(text(senderName))
	footerText := element(atom.P, "color: #7f8c8d; font-size: 14px;")
	footerText.AppendChild(text("Sent via "))
	footerText.AppendChild(brand)
	footerText.AppendChild(text(" — Your AI Marketing Agent"))
	footer := element(atom.Div, "text-align: center; margin-top: 40px;")
	footer.AppendChild(footerText)

	card := element(atom.Div, "background: #f8f9fa; padding: 30px; border-radius: 12px; box-shadow: 0 4px 12px rgba(0,0,0,0.1);")
	card.AppendChild(title)
	card.AppendChild(element(atom.Hr, "border: 1px solid #eee; margin: 30px 0;"))
	card.AppendChild(content)
	card.AppendChild(footer)

	body := element(atom.Body, "font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;")
	body.AppendChild(card)

	root := element(atom.Html, "")
	root.AppendChild(body)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("failed to render email html: %w", err)
	}
	return buf.String(), nil
}

func element(a atom.Atom, style string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if style != "" {
		n.Attr = []html.Attribute{{Key: "style", Val: style}}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
