package layout

import (
	"fmt"
	"math"
)

// Ellipsis 是截断时追加的省略标记，整体测量、整体绘制。
const Ellipsis = "..."

// Build 是布局入口：校验配置，测量每个字符与省略号，再调用 Compose
// 计算纵向排布。text 按 Unicode 码点逐个拆分，保持原始顺序。
func Build(text string, opts BuildOptions) (*Plan, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("缺少测量后端")
	}
	if opts.Box.Width <= 0 {
		return nil, fmt.Errorf("盒子宽度必须为正数，当前为 %g", opts.Box.Width)
	}
	if opts.Box.Height <= 0 {
		return nil, fmt.Errorf("盒子高度必须为正数，当前为 %g", opts.Box.Height)
	}
	font := opts.Style.Font
	if font.SizePx <= 0 {
		return nil, fmt.Errorf("字号必须为正数，当前为 %g", font.SizePx)
	}

	lh := opts.LineHeight
	if lh.IsZero() && font.LineHeight != nil {
		lh = *font.LineHeight
	}
	coeff := lh.Coefficient(font.SizePx)
	if coeff <= 0 {
		return nil, fmt.Errorf("行高系数必须为正数，当前为 %g", coeff)
	}

	glyphs := []rune(text)
	extents := make([]float64, len(glyphs))
	for i, g := range glyphs {
		ext, err := opts.Measurer.GlyphExtent(string(g), font)
		if err != nil {
			return nil, fmt.Errorf("测量字符 %q 失败: %w", string(g), err)
		}
		extents[i] = ext
	}
	ellipsisExtent, err := opts.Measurer.GlyphExtent(Ellipsis, font)
	if err != nil {
		return nil, fmt.Errorf("测量省略号失败: %w", err)
	}

	plan, err := Compose(glyphs, extents, ellipsisExtent, opts.Box, coeff)
	if err != nil {
		return nil, err
	}
	plan.Style = opts.Style
	if opts.Debug.Metrics {
		plan.Debug = &PlanDebug{
			Extents:        extents,
			EllipsisExtent: ellipsisExtent,
			Coefficient:    coeff,
			HeightTotal:    heightTotal(extents, coeff),
		}
	}
	return plan, nil
}

// Compose 是纯几何核心：不接触任何字体系统，只根据尺寸决定每个元素的
// 位置。glyphs 与 extents 必须一一对应；coeff 为行高与字号之比，作用于
// 字符之后的间距，字符自身的高度始终全额计入。
func Compose(glyphs []rune, extents []float64, ellipsisExtent float64, box Box, coeff float64) (*Plan, error) {
	if len(glyphs) != len(extents) {
		return nil, fmt.Errorf("字符数 %d 与尺寸数 %d 不一致", len(glyphs), len(extents))
	}
	total := heightTotal(extents, coeff)
	if total <= box.Height {
		return composeFull(glyphs, extents, total, box, coeff), nil
	}
	return composeTruncated(glyphs, extents, ellipsisExtent, box, coeff), nil
}

// heightTotal 计算完整内容的纵向总高：除最后一个字符外均按行高推进，
// 最后一个字符只计自身尺寸。空输入返回 0。
func heightTotal(extents []float64, coeff float64) float64 {
	total := 0.0
	for i, ext := range extents {
		if i == len(extents)-1 {
			total += ext
		} else {
			total += ext * coeff
		}
	}
	return total
}

func composeFull(glyphs []rune, extents []float64, total float64, box Box, coeff float64) *Plan {
	x := box.Width / 2
	y := (box.Height - total) / 2
	elements := make([]Element, 0, len(glyphs))
	for i, g := range glyphs {
		elements = append(elements, Element{Kind: ElementGlyph, Content: string(g), X: x, Y: y})
		y += extents[i] * coeff
	}
	return &Plan{Elements: elements, ContentHeight: total, Truncated: false, Box: box}
}

// composeTruncated 在内容放不下时截断：保留能连同省略号一起放下的前缀，
// 再按实际绘制高度重新垂直居中。
func composeTruncated(glyphs []rune, extents []float64, ellipsisExtent float64, box Box, coeff float64) *Plan {
	end, acc := truncationBoundary(extents, ellipsisExtent, box.Height, coeff)

	// 边界字符的行距已混入累计值，而省略号紧贴前一字符、不带行距，
	// 这里把多算的部分补回来。取整发生在补偿之前。
	space := 0.0
	if end > 0 && end < len(extents) {
		space = extents[end]*coeff - extents[end]
	}
	drawHeight := math.Ceil(acc+ellipsisExtent) - space

	x := box.Width / 2
	y := (box.Height - drawHeight) / 2
	elements := make([]Element, 0, end+1)
	for i := 0; i < end; i++ {
		elements = append(elements, Element{Kind: ElementGlyph, Content: string(glyphs[i]), X: x, Y: y})
		if i < end-1 {
			y += extents[i] * coeff
		}
	}
	if end > 0 {
		// 省略号位于最后一个保留字符的原始高度之后，不附加行距。
		y += extents[end-1]
	}
	elements = append(elements, Element{Kind: ElementEllipsis, Content: Ellipsis, X: x, Y: y})
	return &Plan{Elements: elements, ContentHeight: drawHeight, Truncated: true, Box: box}
}

// truncationBoundary 返回首个无法与省略号一同放入盒子的字符下标，以及
// 该下标之前按行高累计的高度。只在总高超出盒高时调用，此时必然存在
// 这样的下标。
func truncationBoundary(extents []float64, ellipsisExtent, boxHeight, coeff float64) (int, float64) {
	acc := 0.0
	for i, ext := range extents {
		if math.Ceil(acc+ext+ellipsisExtent) > boxHeight {
			return i, acc
		}
		acc += ext * coeff
	}
	return len(extents), acc
}
