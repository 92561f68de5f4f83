package builder

import (
	"github.com/shouni/go-spin-kit/internal/config"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options config.GenerateOptions  // Optionsは、コマンドラインから渡された実行時の設定です（入力、スタイル、フレーム数など）。
	Reader  remoteio.InputReader    // Readerは、参照画像や既存フレームの読み込みに使用する入力元です。
	Writer  remoteio.OutputWriter   // Writerは、生成フレームとマニフェストを保存するための出力先です。

	aiClient   gemini.GenerativeModel  // aiClient はGeminiの通信に使う共通クライアント
	httpClient httpkit.ClientInterface // httpClient はURL参照画像の取得に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.ClientInterface,
	aiClient gemini.GenerativeModel,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		aiClient:   aiClient,
		httpClient: httpClient,
		Reader:     reader,
		Writer:     writer,
	}
}

// HTTPClient は URL からの参照画像取得に使う共通クライアントを返します。
func (a *AppContext) HTTPClient() httpkit.ClientInterface {
	return a.httpClient
}
