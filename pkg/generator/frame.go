package generator

import (
	"context"
	"fmt"

	"github.com/shouni/go-spin-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// FrameGenerator は、画像生成1回分のリクエスト/レスポンスサイクルを担当します。
// リトライはこの層では行いません（方針はオーケストレーター側の責務です）。
type FrameGenerator struct {
	core     ImageCore
	aiClient GenerativeClient
	model    string
}

// NewFrameGenerator は依存関係を注入して FrameGenerator を初期化します。
func NewFrameGenerator(core ImageCore, aiClient GenerativeClient, model string) (*FrameGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (ImageCore) is required")
	}
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (GenerativeClient) is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &FrameGenerator{
		core:     core,
		aiClient: aiClient,
		model:    model,
	}, nil
}

// Generate は1枚の画像を生成します。参照画像は 0〜2 枚です。
// 通信エラーはラップして返し、応答に画像がない場合は ErrNoImageData を返します。
func (g *FrameGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.ImagePayload, error) {
	if req.Prompt == "" {
		return domain.ImagePayload{}, fmt.Errorf("プロンプトが空です")
	}

	parts := make([]*genai.Part, 0, len(req.References)+1)
	parts = append(parts, &genai.Part{Text: req.Prompt})
	for _, ref := range req.References {
		if imgPart := g.core.PayloadPart(ref); imgPart != nil {
			parts = append(parts, imgPart)
		}
	}

	resp, err := g.aiClient.GenerateWithParts(ctx, g.model, parts, gemini.GenerateOptions{})
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("Gemini画像生成エラー: %w", err)
	}

	return g.core.ParseImage(resp)
}
