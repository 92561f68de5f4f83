package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shouni/go-spin-kit/pkg/domain"
	"github.com/shouni/go-spin-kit/pkg/prompt"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// AnalysisError は、マスタープロンプト分析の失敗を表します。
// この段階の失敗は全フレームが依存するため、生成実行全体が中断されます。
type AnalysisError struct {
	Reason string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("マスタープロンプト分析に失敗しました: %v", e.Err)
	}
	return fmt.Sprintf("マスタープロンプト分析に失敗しました: %s", e.Reason)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// MasterPromptAnalyzer は、参照画像と生成条件から全フレーム共通の
// 「マスタープロンプト」を1回の分析呼び出しで作ります。
// フレームごとに独立したプロンプトを組むと被写体のドリフトが起きるため、
// 被写体・画風・背景の記述をここで凍結し、各フレームには角度の断片だけを注入します。
type MasterPromptAnalyzer struct {
	core       ImageCore
	aiClient   GenerativeClient
	model      string
	cache      PromptCacher
	expiration time.Duration
}

// NewMasterPromptAnalyzer は依存関係を注入して MasterPromptAnalyzer を初期化します。
// cache は nil を許容します（キャッシュなし動作）。
func NewMasterPromptAnalyzer(core ImageCore, aiClient GenerativeClient, model string, cache PromptCacher, cacheTTL time.Duration) (*MasterPromptAnalyzer, error) {
	if core == nil {
		return nil, fmt.Errorf("core (ImageCore) is required")
	}
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (GenerativeClient) is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &MasterPromptAnalyzer{
		core:       core,
		aiClient:   aiClient,
		model:      model,
		cache:      cache,
		expiration: cacheTTL,
	}, nil
}

// Analyze は参照画像とメタプロンプトをモデルに送り、マスタープロンプトを返します。
// 呼び出しの失敗、および空文字・空白のみの応答は AnalysisError です。
func (a *MasterPromptAnalyzer) Analyze(ctx context.Context, reference domain.ImagePayload, spec domain.SceneSpec) (string, error) {
	key := a.cacheKey(reference, spec)
	if a.cache != nil {
		if val, ok := a.cache.Get(key); ok {
			if master, ok := val.(string); ok {
				return master, nil
			}
		}
	}

	parts := []*genai.Part{{Text: prompt.MasterAnalysisPrompt(spec)}}
	if imgPart := a.core.PayloadPart(reference); imgPart != nil {
		parts = append(parts, imgPart)
	} else {
		return "", &AnalysisError{Reason: "参照画像を送信用パートに変換できません"}
	}

	resp, err := a.aiClient.GenerateWithParts(ctx, a.model, parts, gemini.GenerateOptions{})
	if err != nil {
		return "", &AnalysisError{Err: err}
	}

	master, err := a.core.ParseText(resp)
	if err != nil {
		return "", &AnalysisError{Err: err}
	}
	if master == "" {
		return "", &AnalysisError{Reason: "応答テキストが空です"}
	}

	if a.cache != nil {
		a.cache.Set(key, master, a.expiration)
	}
	return master, nil
}

// cacheKey は参照画像のハッシュと生成条件からキャッシュキーを作ります。
// マスタープロンプトはフレーム数に依存しないため、FrameCount はキーに含めません。
func (a *MasterPromptAnalyzer) cacheKey(reference domain.ImagePayload, spec domain.SceneSpec) string {
	sum := sha256.Sum256(reference.Data)
	return fmt.Sprintf("%s%s|%s|%s|%s|%s",
		cacheKeyMasterPrompt,
		hex.EncodeToString(sum[:]),
		spec.Subject, spec.Style, spec.Background, spec.CustomBackground,
	)
}
