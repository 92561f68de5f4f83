package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-spin-kit/pkg/domain"
	"github.com/shouni/go-spin-kit/pkg/prompt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// SmoothRunner は完成済みシーケンスに対する補間パスです。
// 隣接ペア（末尾は先頭へ循環）ごとに中間フレームを1枚要求し、
// 成功分だけをペアの間に挿入します。出力長は M〜2M になります。
//
// フレーム生成と違い、失敗は致命的ではありません。ベースのシーケンスは
// 補間なしでも利用できるため、部分的な成功の方が全破棄より常に良いからです。
// 各ペアは確定済みのベース列だけを読むため、ワーカーは並列実行できます。
type SmoothRunner struct {
	generator ImageGenerator
	limiter   *rate.Limiter
}

// NewSmoothRunner は依存関係を注入して SmoothRunner を初期化します。
func NewSmoothRunner(generator ImageGenerator, interval time.Duration) (*SmoothRunner, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	var limiter *rate.Limiter
	if interval > 0 {
		// Burst 2 により、開始直後に2ペアまでは同時にリクエストを開始できるのだ
		limiter = rate.NewLimiter(rate.Every(interval), 2)
	}

	return &SmoothRunner{
		generator: generator,
		limiter:   limiter,
	}, nil
}

// Run は補間パスを実行し、補間後のシーケンスとスキップ数を返します。
// 進行状況はペアの処理開始前に {current=i, total=M}、完了時に {M, M} を通知します。
// エラーを返すのはキャンセル時のみで、個々の補間失敗はログに残してスキップします。
func (r *SmoothRunner) Run(ctx context.Context, frames domain.FrameSequence, onProgress domain.ProgressFunc) (domain.FrameSequence, int, error) {
	m := len(frames)
	if m == 0 {
		return domain.FrameSequence{}, 0, nil
	}

	slog.Info("補間パスを開始するのだ", "pairs", m)
	interpolated := make([]*domain.Frame, m)
	eg, egCtx := errgroup.WithContext(ctx)

	for i := range frames {
		onProgress.Report(i, m, fmt.Sprintf("ペア %d/%d の中間フレームを生成しています", i+1, m))

		first, second := frames[i], frames[(i+1)%m]
		eg.Go(func() error {
			if err := r.wait(egCtx); err != nil {
				return err
			}

			img, err := r.generator.Generate(egCtx, domain.GenerationRequest{
				Prompt:     prompt.InterpolationPrompt(),
				References: []domain.ImagePayload{first.Image, second.Image},
			})
			if err != nil {
				slog.Warn("中間フレームの生成に失敗したためスキップするのだ", "pair", i+1, "error", err)
				return nil
			}

			interpolated[i] = &domain.Frame{
				Angle:        midAngle(first.Angle, second.Angle),
				Image:        img,
				Interpolated: true,
			}
			return nil
		})
	}

	// ここでエラーになるのはキャンセル時のみ
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}

	out := make(domain.FrameSequence, 0, 2*m)
	skipped := 0
	for i := range frames {
		out = append(out, frames[i])
		if interpolated[i] != nil {
			out = append(out, *interpolated[i])
		} else {
			skipped++
		}
	}

	onProgress.Report(m, m, fmt.Sprintf("補間が完了しました（挿入 %d / スキップ %d）", m-skipped, skipped))
	slog.Info("補間パスが完了したのだ", "inserted", m-skipped, "skipped", skipped, "total", len(out))
	return out, skipped, nil
}

func (r *SmoothRunner) wait(ctx context.Context) error {
	if r.limiter != nil {
		return r.limiter.Wait(ctx)
	}
	return ctx.Err()
}

// midAngle は2つの回転角の中間角を返します。循環（末尾→先頭）も正しく扱います。
func midAngle(a, b int) int {
	delta := ((b-a)%360 + 360) % 360
	if delta == 0 {
		delta = 360
	}
	return (a + delta/2) % 360
}
