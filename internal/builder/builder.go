package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-spin-kit/internal/config"
	"github.com/shouni/go-spin-kit/pkg/generator"
	"github.com/shouni/go-spin-kit/pkg/runner"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// マスタープロンプトキャッシュの掃除間隔なのだ
const cacheCleanupInterval = 30 * time.Minute

// BuildFrameRunner は回転フレーム生成を担当する Runner を構築します。
// 分析用とフレーム生成用でモデルを使い分けるのだ。
func BuildFrameRunner(appCtx *AppContext) (*runner.FrameRunner, error) {
	core := generator.NewSpinImageCore()

	promptCache := gocache.New(config.DefaultMasterPromptTTL, cacheCleanupInterval)
	analyzer, err := generator.NewMasterPromptAnalyzer(
		core,
		appCtx.aiClient,
		appCtx.Options.AIModel,
		promptCache,
		config.DefaultMasterPromptTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("MasterPromptAnalyzerの初期化に失敗したのだ: %w", err)
	}

	frameGen, err := generator.NewFrameGenerator(core, appCtx.aiClient, appCtx.Options.ImageModel)
	if err != nil {
		return nil, fmt.Errorf("FrameGeneratorの初期化に失敗したのだ: %w", err)
	}

	return runner.NewFrameRunner(analyzer, frameGen, appCtx.Options.RateInterval)
}

// BuildSmoothRunner は補間フレーム生成を担当する Runner を構築します。
func BuildSmoothRunner(appCtx *AppContext) (*runner.SmoothRunner, error) {
	core := generator.NewSpinImageCore()

	frameGen, err := generator.NewFrameGenerator(core, appCtx.aiClient, appCtx.Options.ImageModel)
	if err != nil {
		return nil, fmt.Errorf("FrameGeneratorの初期化に失敗したのだ: %w", err)
	}

	return runner.NewSmoothRunner(frameGen, appCtx.Options.RateInterval)
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}
