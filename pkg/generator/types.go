package generator

import (
	"errors"
	"time"
)

const (
	// UseImageCompression は参照画像をJPEGに圧縮して送信するかどうかです。
	// PNGは透過情報を保持するため圧縮対象から除外します（payloadPart 参照）。
	UseImageCompression     = true
	ImageCompressionQuality = 75

	cacheKeyMasterPrompt = "master_prompt:"
)

// ErrNoImageData は、呼び出しは成功したが応答に画像パートが1つも
// 含まれていなかったことを表します。通信エラーとは区別して扱います。
var ErrNoImageData = errors.New("応答に画像データが含まれていません")

// PromptCacher は、マスタープロンプトをキャッシュするためのインターフェースです。
type PromptCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}
