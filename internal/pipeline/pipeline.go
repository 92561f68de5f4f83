package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shouni/go-spin-kit/internal/builder"
	"github.com/shouni/go-spin-kit/internal/config"
	"github.com/shouni/go-spin-kit/pkg/asset"
	"github.com/shouni/go-spin-kit/pkg/dataurl"
	"github.com/shouni/go-spin-kit/pkg/domain"
	"github.com/shouni/go-spin-kit/pkg/runner"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// ExecuteSpin は、参照画像1枚から回転シーケンス全体を生成して保存するのだ。
// 分析 → フレーム連鎖生成 →（オプションで）補間 → 保存、の順で進むのだ。
func ExecuteSpin(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	spec := sceneSpecFromOptions(cfg.Options)
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("生成条件が不正なのだ: %w", err)
	}

	reference, err := loadReference(ctx, appCtx, cfg.Options.Input)
	if err != nil {
		return fmt.Errorf("参照画像 '%s' の読み込みに失敗したのだ: %w", cfg.Options.Input, err)
	}

	frameRunner, err := builder.BuildFrameRunner(appCtx)
	if err != nil {
		return fmt.Errorf("FrameRunnerの構築に失敗したのだ: %w", err)
	}

	slog.Info("スピン生成パイプラインを開始するのだ", "subject", spec.Subject, "frames", spec.FrameCount, "style", spec.Style)
	frames, err := frameRunner.Run(ctx, reference, spec, logProgress("generate"))
	if err != nil {
		return fmt.Errorf("回転シーケンスの生成に失敗したのだ: %w", err)
	}

	skipped := 0
	if cfg.Options.Smooth {
		frames, skipped, err = runSmoothStep(ctx, appCtx, frames)
		if err != nil {
			return err
		}
	}

	return saveSequence(ctx, appCtx, spec, frames, skipped)
}

// ExecuteSmooth は、保存済みシーケンスを読み込んで補間パスだけを実行するのだ。
// spin を --smooth なしで回したあと、あとから滑らかにしたくなったとき用なのだ。
func ExecuteSmooth(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	spec, frames, err := loadSequence(ctx, appCtx, cfg.Options.Input)
	if err != nil {
		return fmt.Errorf("シーケンス '%s' の読み込みに失敗したのだ: %w", cfg.Options.Input, err)
	}

	frames, skipped, err := runSmoothStep(ctx, appCtx, frames)
	if err != nil {
		return err
	}

	return saveSequence(ctx, appCtx, spec, frames, skipped)
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)
	aiClient, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient, reader, writer)
	return &appCtx, nil
}

// runSmoothStep は SmoothRunner を構築して補間パスを実行するのだ。
func runSmoothStep(ctx context.Context, appCtx *builder.AppContext, frames domain.FrameSequence) (domain.FrameSequence, int, error) {
	smoothRunner, err := builder.BuildSmoothRunner(appCtx)
	if err != nil {
		return nil, 0, fmt.Errorf("SmoothRunnerの構築に失敗したのだ: %w", err)
	}

	smoothed, skipped, err := smoothRunner.Run(ctx, frames, logProgress("smooth"))
	if err != nil {
		return nil, 0, fmt.Errorf("補間パスに失敗したのだ: %w", err)
	}
	if skipped > 0 {
		slog.Warn("一部の補間フレームをスキップしたのだ", "skipped", skipped)
	}
	return smoothed, skipped, nil
}

// sceneSpecFromOptions は CLI オプションを SceneSpec に写すのだ。
func sceneSpecFromOptions(opts config.GenerateOptions) domain.SceneSpec {
	return domain.SceneSpec{
		Subject:          opts.Subject,
		Style:            domain.StylePreset(strings.ToLower(opts.Style)),
		Background:       domain.BackgroundMode(strings.ToLower(opts.Background)),
		CustomBackground: opts.CustomBackground,
		FrameCount:       opts.FrameCount,
	}
}

// loadReference は --input の形式に応じて参照画像を取得するのだ。
// data URL / 標準入力 / http(s) URL / ローカル・GCS パスの4系統を受け付けるのだ。
func loadReference(ctx context.Context, appCtx *builder.AppContext, input string) (domain.ImagePayload, error) {
	switch {
	case input == "":
		return domain.ImagePayload{}, fmt.Errorf("参照画像の指定（--input）が必要なのだ")

	case strings.HasPrefix(input, "data:"):
		return dataurl.Parse(input)

	case input == "-":
		return readStdinPayload()

	case strings.HasPrefix(input, "http://"), strings.HasPrefix(input, "https://"):
		data, err := appCtx.HTTPClient().FetchBytes(ctx, input)
		if err != nil {
			return domain.ImagePayload{}, err
		}
		return dataurl.FromReader(bytes.NewReader(data))

	default:
		rc, err := appCtx.Reader.Open(ctx, input)
		if err != nil {
			return domain.ImagePayload{}, err
		}
		defer rc.Close()
		return dataurl.FromReader(rc)
	}
}

// readStdinPayload は標準入力から参照画像を読み込むのだ。
// 生のバイナリと data URL 文字列のどちらが流れてきても受け付けるのだ。
func readStdinPayload() (domain.ImagePayload, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("標準入力の読み込みに失敗したのだ: %w", err)
	}
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "data:") {
		return dataurl.Parse(trimmed)
	}
	return dataurl.FromReader(bytes.NewReader(data))
}

// saveSequence はフレーム画像を連番で書き出し、最後にマニフェストJSONを保存するのだ。
func saveSequence(ctx context.Context, appCtx *builder.AppContext, spec domain.SceneSpec, frames domain.FrameSequence, skipped int) error {
	basePath, err := asset.ResolveOutputPath(appCtx.Options.OutputDir, asset.DefaultFrameFileName)
	if err != nil {
		return fmt.Errorf("出力パスの解決に失敗したのだ: %w", err)
	}

	manifest := domain.Manifest{Spec: spec, Skipped: skipped}
	for i, frame := range frames {
		framePath, err := asset.GenerateIndexedPath(basePath, i+1)
		if err != nil {
			return fmt.Errorf("フレーム %d の出力パスの生成に失敗したのだ: %w", i+1, err)
		}
		if err := appCtx.Writer.Write(ctx, framePath, bytes.NewReader(frame.Image.Data), frame.Image.MimeType); err != nil {
			return fmt.Errorf("フレーム %d の保存に失敗したのだ: %w", i+1, err)
		}
		manifest.Frames = append(manifest.Frames, domain.ManifestEntry{
			File:         filepath.Base(framePath),
			Angle:        frame.Angle,
			MimeType:     frame.Image.MimeType,
			Interpolated: frame.Interpolated,
		})
	}

	manifestPath, err := asset.ResolveOutputPath(appCtx.Options.OutputDir, asset.DefaultManifestFileName)
	if err != nil {
		return fmt.Errorf("マニフェストパスの解決に失敗したのだ: %w", err)
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("マニフェストのエンコードに失敗したのだ: %w", err)
	}
	if err := appCtx.Writer.Write(ctx, manifestPath, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("マニフェストの保存に失敗したのだ: %w", err)
	}

	slog.Info("シーケンスを保存したのだ！", "dir", appCtx.Options.OutputDir, "frames", len(frames), "manifest", manifestPath)
	return nil
}

// loadSequence は保存済みシーケンスをマニフェスト経由で読み込むのだ。
// マニフェストがないローカルディレクトリは、ファイル名の連番から復元するのだ。
func loadSequence(ctx context.Context, appCtx *builder.AppContext, dir string) (domain.SceneSpec, domain.FrameSequence, error) {
	manifestPath, err := asset.ResolveOutputPath(dir, asset.DefaultManifestFileName)
	if err != nil {
		return domain.SceneSpec{}, nil, err
	}

	rc, err := appCtx.Reader.Open(ctx, manifestPath)
	if err != nil {
		slog.Warn("マニフェストが開けないためファイル名から復元を試みるのだ", "path", manifestPath, "error", err)
		frames, lerr := loadLocalFrames(ctx, appCtx, dir)
		return domain.SceneSpec{}, frames, lerr
	}
	defer rc.Close()

	var manifest domain.Manifest
	if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
		return domain.SceneSpec{}, nil, fmt.Errorf("マニフェストのデコードに失敗したのだ: %w", err)
	}

	frames := make(domain.FrameSequence, 0, len(manifest.Frames))
	for _, entry := range manifest.Frames {
		framePath, err := asset.ResolveOutputPath(dir, entry.File)
		if err != nil {
			return domain.SceneSpec{}, nil, err
		}
		payload, err := openPayload(ctx, appCtx, framePath)
		if err != nil {
			return domain.SceneSpec{}, nil, err
		}
		frames = append(frames, domain.Frame{
			Angle:        entry.Angle,
			Image:        payload,
			Interpolated: entry.Interpolated,
		})
	}
	return manifest.Spec, frames, nil
}

// loadLocalFrames はローカルディレクトリの frame_N.png を連番順に読み込むのだ。
// 角度情報は残っていないため、等間隔の回転として割り当て直すのだ。
func loadLocalFrames(ctx context.Context, appCtx *builder.AppContext, dir string) (domain.FrameSequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("フレームディレクトリが読めないのだ: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && asset.FrameFileRegex.MatchString(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("フレームファイルが見つからないのだ: %s", dir)
	}

	sort.Slice(names, func(i, j int) bool {
		a, _ := asset.FrameIndex(names[i])
		b, _ := asset.FrameIndex(names[j])
		return a < b
	})

	frames := make(domain.FrameSequence, 0, len(names))
	for i, name := range names {
		payload, err := openPayload(ctx, appCtx, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		frames = append(frames, domain.Frame{
			Angle: runner.TargetAngle(i, len(names)),
			Image: payload,
		})
	}
	return frames, nil
}

// openPayload は Reader 経由で1枚の画像を読み込み、MIMEを判定して返すのだ。
func openPayload(ctx context.Context, appCtx *builder.AppContext, path string) (domain.ImagePayload, error) {
	rc, err := appCtx.Reader.Open(ctx, path)
	if err != nil {
		return domain.ImagePayload{}, err
	}
	defer rc.Close()
	return dataurl.FromReader(rc)
}

// logProgress は進行イベントを構造化ログに流し込む ProgressFunc を返すのだ。
func logProgress(stage string) domain.ProgressFunc {
	return func(p domain.Progress) {
		slog.Info("進行状況なのだ", "stage", stage, "current", p.Current, "total", p.Total, "message", p.Message)
	}
}
