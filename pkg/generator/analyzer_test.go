package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shouni/go-spin-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

var analyzerTestImage = domain.ImagePayload{
	Data:     []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0},
	MimeType: "image/png",
}

func analyzerTestSpec() domain.SceneSpec {
	return domain.SceneSpec{
		Subject:    "a red ceramic vase",
		Style:      domain.StyleCartoon,
		Background: domain.BackgroundTransparent,
		FrameCount: 8,
	}
}

func TestMasterPromptAnalyzer_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("画像とメタプロンプトを送ってテキストを受け取るのだ", func(t *testing.T) {
		var sentPrompt string
		ai := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				require.Len(t, parts, 2, "text + image parts expected")
				sentPrompt = parts[0].Text
				require.NotNil(t, parts[1].InlineData, "second part must be the reference image")
				return textResponse("  A cartoon red vase on a transparent background.  "), nil
			},
		}

		analyzer, err := NewMasterPromptAnalyzer(NewSpinImageCore(), ai, "test-model", nil, time.Hour)
		require.NoError(t, err)

		master, err := analyzer.Analyze(ctx, analyzerTestImage, analyzerTestSpec())
		require.NoError(t, err)
		assert.Equal(t, "A cartoon red vase on a transparent background.", master, "応答はトリムされて返るはず")
		assert.Contains(t, sentPrompt, "a red ceramic vase")
		assert.Contains(t, sentPrompt, "Cartoon")
		assert.Contains(t, sentPrompt, "Transparent")
	})

	t.Run("呼び出し失敗はAnalysisErrorになるのだ", func(t *testing.T) {
		transportErr := errors.New("deadline exceeded")
		ai := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return nil, transportErr
			},
		}

		analyzer, _ := NewMasterPromptAnalyzer(NewSpinImageCore(), ai, "test-model", nil, time.Hour)
		_, err := analyzer.Analyze(ctx, analyzerTestImage, analyzerTestSpec())

		var aerr *AnalysisError
		require.ErrorAs(t, err, &aerr)
		assert.ErrorIs(t, err, transportErr, "元エラーがUnwrapできるはず")
	})

	t.Run("空白のみの応答もAnalysisErrorになるのだ", func(t *testing.T) {
		ai := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return textResponse("   \n\t  "), nil
			},
		}

		analyzer, _ := NewMasterPromptAnalyzer(NewSpinImageCore(), ai, "test-model", nil, time.Hour)
		_, err := analyzer.Analyze(ctx, analyzerTestImage, analyzerTestSpec())

		var aerr *AnalysisError
		require.ErrorAs(t, err, &aerr)
		assert.True(t, strings.Contains(aerr.Error(), "マスタープロンプト分析に失敗しました"))
	})

	t.Run("同一入力の再分析はキャッシュで済むのだ", func(t *testing.T) {
		ai := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return textResponse("master prompt"), nil
			},
		}
		cache := newMockCache()

		analyzer, _ := NewMasterPromptAnalyzer(NewSpinImageCore(), ai, "test-model", cache, time.Hour)

		first, err := analyzer.Analyze(ctx, analyzerTestImage, analyzerTestSpec())
		require.NoError(t, err)
		second, err := analyzer.Analyze(ctx, analyzerTestImage, analyzerTestSpec())
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, ai.callCount, "2回目はキャッシュヒットで呼び出しなし")
	})

	t.Run("フレーム数だけが違う場合も同じキャッシュを使うのだ", func(t *testing.T) {
		ai := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return textResponse("master prompt"), nil
			},
		}
		cache := newMockCache()
		analyzer, _ := NewMasterPromptAnalyzer(NewSpinImageCore(), ai, "test-model", cache, time.Hour)

		spec := analyzerTestSpec()
		_, err := analyzer.Analyze(ctx, analyzerTestImage, spec)
		require.NoError(t, err)

		spec.FrameCount = 12
		_, err = analyzer.Analyze(ctx, analyzerTestImage, spec)
		require.NoError(t, err)
		assert.Equal(t, 1, ai.callCount, "マスタープロンプトはフレーム数に依存しない")
	})
}

func TestNewMasterPromptAnalyzer(t *testing.T) {
	t.Run("nilチェック: 依存関係が足りない場合はエラーを返すのだ", func(t *testing.T) {
		_, err := NewMasterPromptAnalyzer(nil, nil, "", nil, 0)
		assert.Error(t, err)
	})
}
