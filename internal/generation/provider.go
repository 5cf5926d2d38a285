// Package generation は外部のテキスト生成APIを呼び出すアダプタを提供する。
// 呼び出し結果は成功テキストとProviderErrorのどちらかを保持するResultとして返し、
// フォールバック文面への置き換えは呼び出し側のワークフローで行う。
package generation

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured はAPIキーが設定されていない場合のエラー。
var ErrNotConfigured = errors.New("generation provider is not configured")

// ProviderError は生成APIの呼び出し失敗を表す。
// ネットワークエラー、APIエラー、空の応答のいずれもこの型に集約する。
type ProviderError struct {
	Model string
	Err   error
}

// Error はerrorインターフェースを実装する。
func (e *ProviderError) Error() string {
	return fmt.Sprintf("generation with %s failed: %v", e.Model, e.Err)
}

// Unwrap は元のエラーを返す。
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Result は生成結果を表す。Errがnilの場合のみTextが有効。
type Result struct {
	Text string
	Err  *ProviderError
}

// Failed は生成に失敗したかどうかを返す。
func (r Result) Failed() bool {
	return r.Err != nil
}

// TextOr は成功時は生成テキストを、失敗時はfallbackを返す。
func (r Result) TextOr(fallback string) string {
	if r.Failed() {
		return fallback
	}
	return r.Text
}

// Provider はテキスト生成プロバイダーのインターフェース。
// 失敗はerrorではなくResult.Errとして返す。
type Provider interface {
	Generate(ctx context.Context, prompt string) Result
}
