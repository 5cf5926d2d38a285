// Package security は外部APIへの送信を安全に行うための機能を提供する。
package security

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// blockedNetworks は送信先として許可しないネットワーク範囲。
var blockedNetworks []net.IPNet

func init() {
	for _, cidr := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"169.254.0.0/16", // クラウドメタデータ (169.254.169.254) を含む
		"0.0.0.0/8",
		"::1/128",
		"fe80::/10",
		"fc00::/7",
	} {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR in blockedNetworks: %s: %v", cidr, err))
		}
		blockedNetworks = append(blockedNetworks, *network)
	}
}

// OutboundGuard は配信APIへの送信に使うHTTPクライアントと、送信先URLの検証を提供する。
// 無効化した場合は通常のHTTPクライアントを返し、URL検証も行わない（ローカル検証環境向け）。
type OutboundGuard struct {
	enabled bool
}

// NewOutboundGuard はOutboundGuardを生成する。
func NewOutboundGuard(enabled bool) *OutboundGuard {
	return &OutboundGuard{enabled: enabled}
}

// Enabled はガードが有効かどうかを返す。
func (g *OutboundGuard) Enabled() bool {
	return g.enabled
}

// Client は配信API呼び出し用のHTTPクライアントを生成する。
// 有効時はsafeurlにより、DNS解決後のIPアドレスがプライベート・ループバック・
// リンクローカルの場合に接続を拒否し、httpsの443番ポートのみ許可する。
func (g *OutboundGuard) Client(timeout time.Duration) *http.Client {
	if !g.enabled {
		return &http.Client{Timeout: timeout}
	}

	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("https").
		SetAllowedPorts(443).
		Build()

	return safeurl.Client(config).Client
}

// ValidateEndpoint は設定された送信先URLを起動時に検証する。
// DNS解決を伴わない静的な検証のみ行い、解決後のIPアドレスはClientの接続時に検証される。
func (g *OutboundGuard) ValidateEndpoint(rawURL string) error {
	if !g.enabled {
		return nil
	}
	if rawURL == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("disallowed scheme: %q (https only)", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("empty host in URL: %s", rawURL)
	}

	if ip := net.ParseIP(host); ip != nil {
		for _, network := range blockedNetworks {
			if network.Contains(ip) {
				return fmt.Errorf("blocked IP address: %s", ip.String())
			}
		}
		return nil
	}

	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("blocked host: %s", host)
	}

	return nil
}
