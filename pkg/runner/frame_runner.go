package runner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shouni/go-spin-kit/pkg/domain"
	"github.com/shouni/go-spin-kit/pkg/prompt"

	"golang.org/x/time/rate"
)

// MasterAnalyzer は、参照画像と生成条件からマスタープロンプトを作る窓口です。
type MasterAnalyzer interface {
	Analyze(ctx context.Context, reference domain.ImagePayload, spec domain.SceneSpec) (string, error)
}

// ImageGenerator は、画像生成1回分を実行する窓口です。
type ImageGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.ImagePayload, error)
}

// FrameGenerationError は、特定フレームの生成失敗を表します。
// どのフレーム・どの角度で失敗したかを診断用に保持します。
type FrameGenerationError struct {
	Index int
	Angle int
	Err   error
}

func (e *FrameGenerationError) Error() string {
	return fmt.Sprintf("フレーム %d（%d度）の生成に失敗しました: %v", e.Index+1, e.Angle, e.Err)
}

func (e *FrameGenerationError) Unwrap() error { return e.Err }

// TargetAngle はフレーム i（0始まり）の目標回転角を返します。
// フレーム0は0度の原画ではなく最初の回転位置です（0度はアップロード原画そのもので、
// 最初の参照画像としてのみ使われ、出力シーケンスには含まれません）。
// 丸めは math.Round（0.5は0から遠い方へ）で統一しています。
func TargetAngle(i, n int) int {
	return int(math.Round(float64((i+1)*360) / float64(n)))
}

// FrameRunner は回転フレーム生成の逐次制御ループです。
// 各フレームの参照画像に直前フレームの生成結果を連鎖させることで一貫性を保ちます。
// この連鎖が設計の核心であるため、フレーム生成の並列化は行いません。
type FrameRunner struct {
	analyzer  MasterAnalyzer
	generator ImageGenerator
	limiter   *rate.Limiter
}

// NewFrameRunner は依存関係を注入して FrameRunner を初期化します。
// interval が正の場合、その間隔でAPI呼び出しに流量制限をかけます。
func NewFrameRunner(analyzer MasterAnalyzer, generator ImageGenerator, interval time.Duration) (*FrameRunner, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	var limiter *rate.Limiter
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}

	return &FrameRunner{
		analyzer:  analyzer,
		generator: generator,
		limiter:   limiter,
	}, nil
}

// Run は N フレームの回転シーケンスを生成します。進行状況は onProgress に
// {current=0..N+1, total=N+1} で通知します（分析1ステップ + フレームN枚）。
// 分析もしくはいずれかのフレームが失敗した時点で中断し、部分的な成功は返しません。
func (r *FrameRunner) Run(ctx context.Context, reference domain.ImagePayload, spec domain.SceneSpec, onProgress domain.ProgressFunc) (domain.FrameSequence, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if reference.IsEmpty() {
		return nil, fmt.Errorf("参照画像が空です")
	}

	n := spec.FrameCount
	total := n + 1

	slog.Info("回転シーケンスの生成を開始するのだ", "frames", n, "style", spec.Style, "background", spec.Background)
	onProgress.Report(0, total, "被写体を分析しています...")

	master, err := r.analyzer.Analyze(ctx, reference, spec)
	if err != nil {
		slog.Error("マスタープロンプトの分析に失敗したのだ", "error", err)
		return nil, err
	}
	onProgress.Report(1, total, "マスタープロンプトを確定しました")

	frames := make(domain.FrameSequence, 0, n)
	prevAngle := 0
	prevImage := reference

	for i := 0; i < n; i++ {
		if err := r.wait(ctx); err != nil {
			return nil, err
		}

		target := TargetAngle(i, n)
		req := domain.GenerationRequest{
			Prompt:     prompt.FramePrompt(master, prevAngle, target),
			References: []domain.ImagePayload{prevImage},
		}

		img, err := r.generator.Generate(ctx, req)
		if err != nil {
			slog.Error("フレーム生成に失敗したのだ", "frame", i+1, "angle", target, "error", err)
			return nil, &FrameGenerationError{Index: i, Angle: target, Err: err}
		}

		frames = append(frames, domain.Frame{Angle: target, Image: img})
		prevAngle, prevImage = target, img
		onProgress.Report(i+2, total, fmt.Sprintf("フレーム %d/%d を生成しました（%d度）", i+1, n, target))
	}

	slog.Info("すべてのフレームが正常に生成されたのだ", "total", len(frames))
	return frames, nil
}

// wait は流量制限と協調キャンセルの両方の待機点です。
func (r *FrameRunner) wait(ctx context.Context) error {
	if r.limiter != nil {
		return r.limiter.Wait(ctx)
	}
	return ctx.Err()
}
