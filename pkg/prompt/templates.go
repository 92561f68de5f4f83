package prompt

import _ "embed"

// masterAnalysisTemplate は分析呼び出しに使うメタプロンプトの原文なのだ。
// 差し込み順は 1:被写体ヒント 2:画風指示 3:背景指示 で固定なのだ。
//
//go:embed master_analysis.md
var masterAnalysisTemplate string
