package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-spin-kit/internal/config"
	"github.com/shouni/go-spin-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// spinCmd は、参照画像1枚から360度回転シーケンスを生成するメインのサブコマンドなのだ。
var spinCmd = &cobra.Command{
	Use:   "spin",
	Short: "1枚の画像から360度回転シーケンスを生成するのだ。",
	Long: `参照画像を分析してマスタープロンプトを作り、カメラを一定角度ずつ回しながら
フレームを連鎖生成して、回転シーケンスとして保存するのだ。
--smooth を付けると、隣接フレームの間にAI補間フレームを挟んでより滑らかにするのだ。`,
	RunE: spinCommand,
}

// init は、spin コマンド固有のフラグを定義するのだ。
func init() {
	spinCmd.Flags().StringVarP(&opts.Subject, "subject", "s", "", "被写体の短い説明なのだ（必須）。")
	spinCmd.Flags().StringVar(&opts.Style, "style", "photoreal", "スタイルプリセット（photoreal / cartoon / anime / clay / sketch）なのだ。")
	spinCmd.Flags().StringVar(&opts.Background, "background", "original", "背景モード（original / transparent / custom）なのだ。")
	spinCmd.Flags().StringVar(&opts.CustomBackground, "custom-background", "", "background=custom のときの背景の説明なのだ。")
	spinCmd.Flags().IntVarP(&opts.FrameCount, "frames", "n", config.DefaultFrameCount, "生成するフレーム数（4〜12）なのだ。")
	spinCmd.Flags().BoolVar(&opts.Smooth, "smooth", false, "生成後に補間パスを実行するのだ。")
}

// spinCommand は、spin サブコマンドの実行ロジック本体なのだ。
func spinCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.Input == "" {
		return fmt.Errorf("参照画像（--input）を指定してほしいのだ")
	}
	if opts.Subject == "" {
		return fmt.Errorf("被写体の説明（--subject）を指定してほしいのだ")
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts
	cfg.GeminiModel = opts.AIModel
	cfg.GeminiImageModel = opts.ImageModel

	slog.Info("回転シーケンス生成モードを起動するのだ！",
		"input", cfg.Options.Input,
		"output_dir", cfg.Options.OutputDir,
		"frames", cfg.Options.FrameCount,
		"smooth", cfg.Options.Smooth)

	// 3. パイプライン実行
	return pipeline.ExecuteSpin(ctx, cfg)
}
