package layout

import "github.com/ByLCY/stele/fontspec"

// BuildOptions 配置布局阶段所需的依赖与样式。
type BuildOptions struct {
	Measurer Measurer
	Box      Box
	Style    Style
	// LineHeight 省略时取字体描述自带的 /line-height，仍无则按 1 倍字号。
	LineHeight fontspec.LineHeight
	Debug      DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Metrics bool // 在调试 JSON 中输出 debug 度量影子字段
}

// Measurer 负责测量单个绘制单元在指定字体下的纵向占位
// （即该文本横排时的渲染宽度，单位 px）。
type Measurer interface {
	GlyphExtent(content string, font fontspec.Spec) (float64, error)
}
