package runner

import (
	"context"
	"sync"

	"github.com/shouni/go-spin-kit/pkg/domain"
)

// --- Mocks ---

type mockAnalyzer struct {
	master string
	err    error
	called int
}

func (m *mockAnalyzer) Analyze(ctx context.Context, reference domain.ImagePayload, spec domain.SceneSpec) (string, error) {
	m.called++
	if m.err != nil {
		return "", m.err
	}
	return m.master, nil
}

// recordedCall は生成呼び出し1回分の記録なのだ。補間パスは並列実行のため mutex で守る。
type recordedCall struct {
	Prompt     string
	References []domain.ImagePayload
}

type mockGenerator struct {
	mu    sync.Mutex
	calls []recordedCall
	// generateFunc が nil の場合は呼び出し連番入りのダミー画像を返す
	generateFunc func(call int, req domain.GenerationRequest) (domain.ImagePayload, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.ImagePayload, error) {
	m.mu.Lock()
	call := len(m.calls)
	m.calls = append(m.calls, recordedCall{Prompt: req.Prompt, References: req.References})
	m.mu.Unlock()

	if m.generateFunc != nil {
		return m.generateFunc(call, req)
	}
	return domain.ImagePayload{Data: []byte{byte(call)}, MimeType: "image/png"}, nil
}

func (m *mockGenerator) recorded() []recordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]recordedCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// progressRecorder は通知されたイベントを順番に溜めるのだ。
type progressRecorder struct {
	events []domain.Progress
}

func (r *progressRecorder) fn() domain.ProgressFunc {
	return func(p domain.Progress) {
		r.events = append(r.events, p)
	}
}
