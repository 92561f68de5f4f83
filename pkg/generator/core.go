package generator

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shouni/go-spin-kit/pkg/domain"

	"github.com/shouni/gemini-image-kit/pkg/imgutil"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// SpinImageCore は、Gemini へ送るパーツの構築と応答の解析を担う基盤クラスです。
// FrameGenerator と MasterPromptAnalyzer の両方から共有されます。
type SpinImageCore struct{}

// NewSpinImageCore は SpinImageCore を初期化します。
func NewSpinImageCore() *SpinImageCore {
	return &SpinImageCore{}
}

// PayloadPart は ImagePayload をインライン画像パートに変換します。
// MIMEタイプが未設定の場合はバイト列から判定します。
// PNG以外はJPEG圧縮を試み、失敗時は元データをそのまま使います。
func (c *SpinImageCore) PayloadPart(payload domain.ImagePayload) *genai.Part {
	if payload.IsEmpty() {
		return nil
	}

	mimeType := payload.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(payload.Data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil
	}

	finalData := payload.Data
	// 透過背景モードの成果物を壊さないため、PNGは無圧縮で送るのだ
	if UseImageCompression && mimeType != "image/png" {
		if compressed, err := imgutil.CompressToJPEG(payload.Data, ImageCompressionQuality); err == nil {
			finalData = compressed
			mimeType = "image/jpeg"
		}
	}

	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: finalData}}
}

// ParseImage は応答の最初の候補から、最初のインライン画像パートを取り出します。
// 画像パートが1つもない場合は ErrNoImageData を返します。
func (c *SpinImageCore) ParseImage(resp *gemini.Response) (domain.ImagePayload, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return domain.ImagePayload{}, ErrNoImageData
	}
	candidate := resp.RawResponse.Candidates[0]
	if candidate.Content == nil {
		return domain.ImagePayload{}, ErrNoImageData
	}
	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return domain.ImagePayload{Data: part.InlineData.Data, MimeType: part.InlineData.MIMEType}, nil
		}
	}
	return domain.ImagePayload{}, ErrNoImageData
}

// ParseText は応答の最初の候補のテキストパートを連結し、前後の空白を除いて返します。
func (c *SpinImageCore) ParseText(resp *gemini.Response) (string, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return "", fmt.Errorf("応答に候補が含まれていません")
	}
	candidate := resp.RawResponse.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("応答にコンテンツが含まれていません")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String()), nil
}
