// Package prompt は、回転フレーム生成に使う自然言語プロンプトを組み立てる純粋関数群です。
// 列挙型に対しては全域関数として振る舞い、未知の値は既定の文言にフォールバックします
// （入力はUI側で列挙に制約される前提のため、エラーにはしません）。
package prompt

import (
	"fmt"
	"strings"

	"github.com/shouni/go-spin-kit/pkg/domain"
)

// styleInstructions は画風プリセットとプロンプト断片の対応表です。
var styleInstructions = map[domain.StylePreset]string{
	domain.StylePhotoreal: "Photorealistic style: commercial product photography quality, natural materials, accurate reflections, high resolution.",
	domain.StyleCartoon:   "Cartoon style: bold clean outlines, flat vivid colors, simplified shapes, consistent character-sheet look.",
	domain.StyleAnime:     "Anime style: cel-shaded coloring, clean line art, vibrant colors, official art quality.",
	domain.StyleClay:      "Claymation style: hand-molded clay texture, soft studio lighting, visible sculpting detail, stop-motion look.",
	domain.StyleSketch:    "Pencil sketch style: monochrome graphite strokes, visible hatching, paper texture, concept-art look.",
}

// StyleInstruction は画風プリセットに対応する指示文を返します。
// 未知のプリセットは photoreal の文言にフォールバックします。
func StyleInstruction(style domain.StylePreset) string {
	if s, ok := styleInstructions[style]; ok {
		return s
	}
	return styleInstructions[domain.StylePhotoreal]
}

// BackgroundInstruction は背景モードに対応する指示文を返します。
// custom のときは customText をそのまま埋め込みます（整形は下流モデルの責務です）。
// 未知のモードは original の文言にフォールバックします。
func BackgroundInstruction(mode domain.BackgroundMode, customText string) string {
	switch mode {
	case domain.BackgroundTransparent:
		return "Transparent background: isolate the subject completely, no floor, no shadow catcher, pure alpha-style empty background."
	case domain.BackgroundCustom:
		return fmt.Sprintf("Custom background: place the subject in this exact setting and keep it identical in every frame: %s", customText)
	case domain.BackgroundOriginal:
		fallthrough
	default:
		return "Original background: keep the background of the reference image unchanged, do not rotate or alter it."
	}
}

// angleLabels は8方位の角度ラベルです。中間の角度は最寄りの方位に割り当てます。
var angleLabels = [8]string{"Front", "Front-Right", "Right", "Back-Right", "Back", "Back-Left", "Left", "Front-Left"}

// AngleLabel は回転角（度）を人間可読な方位ラベルに変換します。
func AngleLabel(angle int) string {
	normalized := ((angle % 360) + 360) % 360
	sector := ((normalized + 22) / 45) % 8
	return angleLabels[sector]
}

// FrameInstruction は1ステップ分の回転指示の断片を生成します。
// 直前フレームの角度から目標角度への差分を、カメラが被写体の周りを公転する
// イメージで命令形に言語化します。状態は持ちません。
func FrameInstruction(previousAngle, targetAngle int) string {
	delta := ((targetAngle-previousAngle)%360 + 360) % 360
	return fmt.Sprintf(
		"CAMERA ORBIT: the attached image shows the subject at %d degrees. Rotate the camera %d degrees further clockwise around the subject, to exactly %d degrees from the front view. Now showing the %s view. Keep the subject identity, colors, materials and lighting exactly the same.",
		previousAngle, delta, targetAngle, AngleLabel(targetAngle),
	)
}

// FramePrompt はマスタープロンプトと回転指示を結合した、1フレーム分の最終プロンプトです。
// マスタープロンプトは全フレームで不変のまま使い回し、角度の断片だけを差し替えます。
func FramePrompt(masterPrompt string, previousAngle, targetAngle int) string {
	var b strings.Builder
	b.WriteString("MASTER DESCRIPTION (must hold for every frame):\n")
	b.WriteString(masterPrompt)
	b.WriteString("\n\n")
	b.WriteString(FrameInstruction(previousAngle, targetAngle))
	b.WriteString("\n\nOUTPUT: Generate ONLY the image. No text.")
	return b.String()
}

// InterpolationPrompt は隣接フレーム2枚の中間フレームを要求するプロンプトです。
func InterpolationPrompt() string {
	return `You are given two images of the SAME subject, captured at two adjacent rotation angles of one continuous camera orbit.

TASK: Generate the single in-between frame, exactly halfway between the two rotation angles.

REQUIREMENTS:
- Same subject identity, colors, materials, lighting and background as both input images.
- The viewing angle must be the midpoint of the two inputs, nothing else changes.

OUTPUT: Generate ONLY the image. No text.`
}

// MasterAnalysisPrompt は参照画像から「マスタープロンプト」を作らせるためのメタプロンプトです。
// 埋め込みテンプレートに被写体ヒント・画風指示・背景指示の順で差し込みます。
func MasterAnalysisPrompt(spec domain.SceneSpec) string {
	return fmt.Sprintf(masterAnalysisTemplate,
		spec.Subject,
		StyleInstruction(spec.Style),
		BackgroundInstruction(spec.Background, spec.CustomBackground),
	)
}
