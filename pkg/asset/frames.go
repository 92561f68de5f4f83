package asset

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultFrameFileName はフレーム画像の共通のベースファイル名です。
	DefaultFrameFileName = "frame.png"
	// DefaultManifestFileName はシーケンスの目録のデフォルトJSONファイル名です。
	DefaultManifestFileName = "spin_manifest.json"
)

// FrameFileRegex はフレーム画像 (frame_1.png 等) に一致します
var FrameFileRegex = createIndexedRegex(DefaultFrameFileName)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolveOutputPath(baseDir, fileName)
}

// ResolveBaseURL は、入力パス（URLまたはローカルパス）から
// 親ディレクトリのパスを解決し、末尾がセパレータで終わるように正規化します。
func ResolveBaseURL(rawPath string) string {
	return urlpath.ResolveBaseURL(rawPath)
}

// GenerateIndexedPath は、指定されたベースパスの拡張子の前に連番を挿入し、
// 新しいパス文字列を生成します。index は1以上の整数である必要があります。
// 例: "path/to/frame.png", 1 -> "path/to/frame_1.png"
func GenerateIndexedPath(basePath string, index int) (string, error) {
	return urlpath.GenerateIndexedPath(basePath, index)
}

// FrameIndex は、フレームファイル名から連番を取り出します。
// frame_3.png -> 3。一致しないファイル名はエラーです。
func FrameIndex(fileName string) (int, error) {
	matches := FrameFileRegex.FindStringSubmatch(filepath.Base(fileName))
	if matches == nil {
		return 0, fmt.Errorf("フレームファイル名の形式ではありません: %s", fileName)
	}
	return strconv.Atoi(matches[1])
}

// createIndexedRegex は、ファイル名に基づきインデックス付きファイル用の正規表現を生成します。
// 例: "frame.png" -> ^frame_(\d+)\.png$
func createIndexedRegex(fileName string) *regexp.Regexp {
	ext := filepath.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)

	pattern := fmt.Sprintf(`^%s_(\d+)%s$`, regexp.QuoteMeta(baseName), regexp.QuoteMeta(ext))
	return regexp.MustCompile(pattern)
}
