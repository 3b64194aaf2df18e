package renderer

import (
	"fmt"

	"github.com/ByLCY/stele/layout"
)

// Renderer 将布局计划输出为最终文件，例如 PNG、SVG 或 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(plan *layout.Plan) ([]byte, error)
}

// Generate 一次性完成测量、布局与渲染，不保留任何可复用状态；
// 需要重复生成时再次调用即可。r 必须同时实现 layout.Measurer。
func Generate(text string, opts layout.BuildOptions, r Renderer) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	m, ok := r.(layout.Measurer)
	if !ok {
		return nil, fmt.Errorf("renderer 未实现测量接口")
	}
	opts.Measurer = m

	plan, err := layout.Build(text, opts)
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	out, err := r.Render(plan)
	if err != nil {
		return nil, fmt.Errorf("渲染失败: %w", err)
	}
	return out, nil
}
