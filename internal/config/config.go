package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel           = "gemini-3-flash-preview"     // マスタープロンプト分析（テキスト）用
	DefaultImageModel      = "gemini-3-pro-image-preview" // フレーム生成・補間（画像）用
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultRateInterval    = 10 * time.Second
	DefaultFrameCount      = 8
	DefaultOutputDir       = "output/frames" // 生成フレームとマニフェストのデフォルト保存先なのだ
	DefaultMasterPromptTTL = 1 * time.Hour   // マスタープロンプトキャッシュの有効期限
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	Input     string // --input: 参照画像のパス/URL/data URL（'-'で標準入力）。smoothではフレームディレクトリ
	OutputDir string // --output-dir

	// シーン設定
	Subject          string // --subject
	Style            string // --style
	Background       string // --background
	CustomBackground string // --custom-background
	FrameCount       int    // --frames

	// AI挙動設定
	AIModel    string // --model: 分析用のGeminiモデル
	ImageModel string // --image-model: 画像生成用のGeminiモデル
	Smooth     bool   // --smooth: 生成後に補間パスを実行する

	// 実行制御
	RateInterval time.Duration // --rate-interval
	HTTPTimeout  time.Duration // --http-timeout
}
