package generator

import (
	"context"

	"github.com/shouni/go-spin-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// GenerativeClient は go-gemini-client のうち本キットが利用する操作だけを切り出した窓口です。
type GenerativeClient interface {
	// GenerateWithParts は、テキストと画像のパーツ列を指定モデルに送信して応答を返します。
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// ImageCore は、リクエストパーツの構築と応答の解析を担当するインターフェースです。
type ImageCore interface {
	// PayloadPart は、ImagePayload を送信用の genai.Part に変換します。
	PayloadPart(payload domain.ImagePayload) *genai.Part
	// ParseImage は、応答から最初の画像パートを取り出します。
	ParseImage(resp *gemini.Response) (domain.ImagePayload, error)
	// ParseText は、応答のテキストパートを連結して返します。
	ParseText(resp *gemini.Response) (string, error)
}
