package asset

import "testing"

func TestFrameFileRegex(t *testing.T) {
	t.Run("連番つきフレームファイル名に一致するのだ", func(t *testing.T) {
		for _, name := range []string{"frame_1.png", "frame_42.png", "frame_007.png"} {
			if !FrameFileRegex.MatchString(name) {
				t.Errorf("%s should match", name)
			}
		}
	})

	t.Run("連番なしや別名には一致しないのだ", func(t *testing.T) {
		for _, name := range []string{"frame.png", "frame_.png", "frame_1.jpg", "panel_1.png", "frame_1.png.bak"} {
			if FrameFileRegex.MatchString(name) {
				t.Errorf("%s should not match", name)
			}
		}
	})
}

func TestFrameIndex(t *testing.T) {
	t.Run("ファイル名から連番を取り出すのだ", func(t *testing.T) {
		got, err := FrameIndex("output/frames/frame_12.png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 12 {
			t.Errorf("expected 12, got %d", got)
		}
	})

	t.Run("形式外のファイル名はエラーになるのだ", func(t *testing.T) {
		if _, err := FrameIndex("spin_manifest.json"); err == nil {
			t.Error("expected error")
		}
	})
}
