package dataurl

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-spin-kit/pkg/domain"
)

func TestParse(t *testing.T) {
	t.Run("正常なdata URLを解析できるのだ", func(t *testing.T) {
		payload, err := Parse("data:image/png;base64,aGVsbG8=")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payload.MimeType != "image/png" {
			t.Errorf("MIMEタイプが違うのだ: %s", payload.MimeType)
		}
		if string(payload.Data) != "hello" {
			t.Errorf("デコード結果が違うのだ: %q", payload.Data)
		}
	})

	t.Run("カンマがない入力はParseErrorになるのだ", func(t *testing.T) {
		_, err := Parse("data:image/png;base64")
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ParseError, got %v", err)
		}
	})

	t.Run("ヘッダ形式が不正な入力はParseErrorになるのだ", func(t *testing.T) {
		for _, in := range []string{
			"image/png;base64,aGVsbG8=",      // data: プレフィックスなし
			"data:image/png,aGVsbG8=",        // ;base64 なし
			"data:;base64,aGVsbG8=",          // MIMEタイプなし
			"data:image/png;charset=utf-8,x", // base64 以外のエンコーディング
		} {
			_, err := Parse(in)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("%q: expected ParseError, got %v", in, err)
			}
		}
	})

	t.Run("ペイロードが空の入力はParseErrorになるのだ", func(t *testing.T) {
		_, err := Parse("data:image/png;base64,")
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ParseError, got %v", err)
		}
	})

	t.Run("base64として不正なペイロードはParseErrorになるのだ", func(t *testing.T) {
		_, err := Parse("data:image/png;base64,???")
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ParseError, got %v", err)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("Encode→Parseでバイト列とMIMEタイプが保存されるのだ", func(t *testing.T) {
		original := domain.ImagePayload{
			Data:     []byte{0x89, 0x50, 0x4E, 0x47, 0x00, 0xFF, 0x7F},
			MimeType: "image/png",
		}

		restored, err := Parse(Encode(original))
		if err != nil {
			t.Fatalf("round trip failed: %v", err)
		}
		if !bytes.Equal(restored.Data, original.Data) {
			t.Errorf("バイト列が一致しないのだ: %v != %v", restored.Data, original.Data)
		}
		if restored.MimeType != original.MimeType {
			t.Errorf("MIMEタイプが一致しないのだ: %s != %s", restored.MimeType, original.MimeType)
		}
	})
}

func TestFromReader(t *testing.T) {
	t.Run("PNGヘッダからMIMEタイプを判定するのだ", func(t *testing.T) {
		pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
		payload, err := FromReader(bytes.NewReader(pngHeader))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payload.MimeType != "image/png" {
			t.Errorf("expected image/png, got %s", payload.MimeType)
		}
	})

	t.Run("空の入力はエラーになるのだ", func(t *testing.T) {
		if _, err := FromReader(strings.NewReader("")); err == nil {
			t.Error("expected error for empty input")
		}
	})
}
