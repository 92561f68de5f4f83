package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-spin-kit/internal/config"
	"github.com/shouni/go-spin-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// smoothCmd は、保存済みの回転シーケンスに補間パスだけを後掛けするサブコマンドなのだ。
// spin を --smooth なしで回したあとの再処理に使うのだ。
var smoothCmd = &cobra.Command{
	Use:   "smooth",
	Short: "保存済みシーケンスにAI補間フレームを追加するのだ。",
	Long: `spin で保存したフレームディレクトリを読み込み、隣接フレームの間に
中間フレームを生成して挟み直すのだ。補間に失敗したペアはスキップして、
残りのフレームだけで保存するのだ。`,
	RunE: smoothCommand,
}

// smoothCommand は、smooth サブコマンドの実行ロジック本体なのだ。
func smoothCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// --input がなければ、spin のデフォルト出力先を読みに行くのだ
	if !cmd.Flags().Changed("input") && opts.Input == "" {
		opts.Input = config.DefaultOutputDir
	}
	if opts.Input == "" {
		return fmt.Errorf("フレームディレクトリ（--input）を指定してほしいのだ")
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts
	cfg.GeminiImageModel = opts.ImageModel

	slog.Info("補間モードを起動するのだ！",
		"input_dir", cfg.Options.Input,
		"output_dir", cfg.Options.OutputDir,
		"image_model", cfg.GeminiImageModel)

	// 3. パイプライン実行
	return pipeline.ExecuteSmooth(ctx, cfg)
}
