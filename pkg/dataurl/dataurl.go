// Package dataurl は data URL 文字列と domain.ImagePayload を相互変換するコーデックです。
// キャンバスやアップロード層から渡される画像バイト列をオーケストレーション層へ
// 運ぶための境界であり、I/O を除けば純粋な変換のみを行います。
package dataurl

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/shouni/go-spin-kit/pkg/domain"
)

// ParseError は data URL の形式不正を表します。
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("data URLの解析に失敗しました: %s", e.Reason)
}

// headerRegex は "data:<mime>;base64" 形式のヘッダに一致します。
var headerRegex = regexp.MustCompile(`^data:([^;,]+);base64$`)

// Parse は data URL 文字列を ImagePayload に変換します。
// 最初のカンマでヘッダとペイロードを分離し、ヘッダのMIMEタイプを抽出します。
func Parse(dataURL string) (domain.ImagePayload, error) {
	header, encoded, found := strings.Cut(strings.TrimSpace(dataURL), ",")
	if !found {
		return domain.ImagePayload{}, &ParseError{Reason: "カンマ区切りが見つかりません"}
	}

	matches := headerRegex.FindStringSubmatch(header)
	if matches == nil {
		return domain.ImagePayload{}, &ParseError{Reason: fmt.Sprintf("ヘッダ形式が不正です: %q", header)}
	}
	if encoded == "" {
		return domain.ImagePayload{}, &ParseError{Reason: "ペイロードが空です"}
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return domain.ImagePayload{}, &ParseError{Reason: fmt.Sprintf("base64デコードに失敗しました: %v", err)}
	}

	return domain.ImagePayload{Data: data, MimeType: matches[1]}, nil
}

// Encode は ImagePayload を data URL 文字列に変換します。Parse の逆操作です。
func Encode(payload domain.ImagePayload) string {
	return fmt.Sprintf("data:%s;base64,%s", payload.MimeType, base64.StdEncoding.EncodeToString(payload.Data))
}

// FromReader は生バイト列を読み取り、MIMEタイプを判定して ImagePayload を作ります。
// アップロードファイルやローカルファイルの取り込み口です。
func FromReader(r io.Reader) (domain.ImagePayload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("画像データの読み込みに失敗しました: %w", err)
	}
	if len(data) == 0 {
		return domain.ImagePayload{}, fmt.Errorf("画像データが空です")
	}
	return domain.ImagePayload{Data: data, MimeType: http.DetectContentType(data)}, nil
}
