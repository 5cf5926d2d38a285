// Package distribution は生成文面を外部の配信API（SNS投稿、メール送信、ブログ投稿）へ転送する。
// 各クライアントは外部APIの応答ステータスとJSONボディをそのまま呼び出し元へ返し、
// 成否の解釈はハンドラーに委ねる。
package distribution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxResponseSize は外部APIの応答ボディとして読み込む最大サイズ。
const maxResponseSize = 1 << 20

// ErrNotConfigured は配信先のAPIキーなどが設定されていない場合のエラー。
var ErrNotConfigured = errors.New("distribution target is not configured")

// Response は外部APIの応答を表す。BodyはJSONとして妥当であることが保証される。
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// postJSON はpayloadをJSONとしてPOSTし、応答ステータスとJSONボディを返す。
// 応答がJSONでない場合はエラーを返す。
func postJSON(ctx context.Context, httpClient *http.Client, endpoint string, headers map[string]string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("invalid JSON response with status %d", resp.StatusCode)
	}

	return &Response{StatusCode: resp.StatusCode, Body: json.RawMessage(raw)}, nil
}
