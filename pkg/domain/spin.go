package domain

import (
	"fmt"
	"strings"
)

// フレーム数の許容範囲です。下限を下回ると回転の錯覚が成立せず、
// 上限を超えるとAPIコストが実用範囲を超えるため、両端で制限します。
const (
	MinFrameCount = 4
	MaxFrameCount = 12
)

// StylePreset は生成画像の画風プリセットです。
type StylePreset string

const (
	StylePhotoreal StylePreset = "photoreal"
	StyleCartoon   StylePreset = "cartoon"
	StyleAnime     StylePreset = "anime"
	StyleClay      StylePreset = "clay"
	StyleSketch    StylePreset = "sketch"
)

// BackgroundMode は各フレームの背景の扱いを指定します。
type BackgroundMode string

const (
	BackgroundOriginal    BackgroundMode = "original"
	BackgroundTransparent BackgroundMode = "transparent"
	BackgroundCustom      BackgroundMode = "custom"
)

// ImagePayload は画像のバイナリとMIMEタイプの組です。生成後は不変として扱います。
type ImagePayload struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type"`
}

// IsEmpty はペイロードが実体を持たないかどうかを返します。
func (p ImagePayload) IsEmpty() bool {
	return len(p.Data) == 0
}

// GenerationRequest は画像生成1回分の要求です。呼び出しごとに作り直し、変更しません。
// References は 0〜2 枚（フレーム生成は直前フレーム1枚、補間はペア2枚）です。
type GenerationRequest struct {
	Prompt     string
	References []ImagePayload
}

// Frame は回転シーケンス中の1フレームです。
// Angle はアップロード原画（0度）から数えた回転角で、整数度に丸めて保持します。
type Frame struct {
	Angle        int          `json:"angle"`
	Image        ImagePayload `json:"-"`
	Interpolated bool         `json:"interpolated"`
}

// FrameSequence は回転角の昇順に並んだフレーム列です。
// 新規生成直後は指定フレーム数と同じ長さ、補間後は最大でその2倍になります。
type FrameSequence []Frame

// SceneSpec はユーザーが選択した生成条件です。1回の実行中は不変です。
type SceneSpec struct {
	Subject          string         `json:"subject"`
	Style            StylePreset    `json:"style"`
	Background       BackgroundMode `json:"background"`
	CustomBackground string         `json:"custom_background,omitempty"`
	FrameCount       int            `json:"frame_count"`
}

// Validate は SceneSpec が実行可能な内容かを検証します。
func (s SceneSpec) Validate() error {
	if strings.TrimSpace(s.Subject) == "" {
		return fmt.Errorf("被写体の説明（subject）が空です")
	}
	if s.FrameCount < MinFrameCount || s.FrameCount > MaxFrameCount {
		return fmt.Errorf("フレーム数は %d〜%d の範囲で指定してください: %d", MinFrameCount, MaxFrameCount, s.FrameCount)
	}
	if s.Background == BackgroundCustom && strings.TrimSpace(s.CustomBackground) == "" {
		return fmt.Errorf("背景モード custom には背景の説明（custom_background）が必須です")
	}
	return nil
}

// ManifestEntry は保存済みフレーム1枚分のメタデータです。
type ManifestEntry struct {
	File         string `json:"file"`
	Angle        int    `json:"angle"`
	MimeType     string `json:"mime_type"`
	Interpolated bool   `json:"interpolated"`
}

// Manifest は保存されたシーケンス全体の目録です。ビューアはこれを読んで順番に表示します。
type Manifest struct {
	Spec    SceneSpec       `json:"spec"`
	Skipped int             `json:"skipped_interpolations,omitempty"`
	Frames  []ManifestEntry `json:"frames"`
}
