package domain

// Progress はパイプラインの進行状況を表すイベントです。
// Current は1回の実行内で単調非減少、Total は実行開始時に確定して以後変わりません。
type Progress struct {
	Current int
	Total   int
	Message string
}

// ProgressFunc は進行状況の通知先コールバックです。nil を許容します。
type ProgressFunc func(Progress)

// Report は fn が nil でない場合のみイベントを通知します。
func (fn ProgressFunc) Report(current, total int, message string) {
	if fn == nil {
		return
	}
	fn(Progress{Current: current, Total: total, Message: message})
}
