package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/stele/fonts"
	"github.com/ByLCY/stele/fontspec"
	"github.com/ByLCY/stele/layout"
	"github.com/ByLCY/stele/renderer"
)

// Format 选择矢量输出格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// Renderer 基于 github.com/tdewolff/canvas 将布局计划输出为 PDF 或 SVG。
// 布局空间为 px；与 canvas 交互时坐标转 mm、字号转 pt。
type Renderer struct {
	format Format

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// NewRenderer 创建指定格式的矢量渲染器。
func NewRenderer(format Format) *Renderer {
	return &Renderer{format: format, fontFamilies: map[string]*canvas.FontFamily{}}
}

// GlyphExtent 实现 layout.Measurer。canvas 的文本宽度以 mm 返回，
// 这里换算回 px。
func (r *Renderer) GlyphExtent(content string, spec fontspec.Spec) (float64, error) {
	face, err := r.fontFace(spec, layout.Color{R: 30, G: 30, B: 30})
	if err != nil {
		return 0, err
	}
	return face.TextWidth(content) * layout.MmToPx, nil
}

// Render 实现 renderer.Renderer。
func (r *Renderer) Render(plan *layout.Plan) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("渲染计划为空")
	}
	widthMM := plan.Box.Width * layout.PxToMm
	heightMM := plan.Box.Height * layout.PxToMm
	if widthMM <= 0 || heightMM <= 0 {
		return nil, fmt.Errorf("画布尺寸 %gx%g 无效", plan.Box.Width, plan.Box.Height)
	}

	c := canvas.New(widthMM, heightMM)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	if bg := plan.Style.Background; bg != nil {
		ctx.SetFillColor(colorFromLayout(*bg))
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.DrawPath(0, 0, canvas.Rectangle(widthMM, heightMM))
	}

	face, err := r.fontFace(plan.Style.Font, plan.Style.Fill)
	if err != nil {
		return nil, err
	}
	metrics := face.Metrics()
	for _, el := range plan.Elements {
		textLine := canvas.NewTextLine(face, el.Content, canvas.Center)
		// 基线位置：元素顶边（px→mm）加上字体上升部（mm）
		baseline := el.Y*layout.PxToMm + metrics.Ascent
		ctx.DrawText(el.X*layout.PxToMm, baseline, textLine)
	}

	var buf bytes.Buffer
	switch r.format {
	case FormatSVG:
		writer := svg.New(&buf, widthMM, heightMM, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case FormatPDF, "":
		writer := pdf.New(&buf, widthMM, heightMM, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", r.format)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) fontFace(spec fontspec.Spec, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(spec)
	if err != nil {
		return nil, err
	}
	sizePt := spec.SizePx * layout.PxToPt
	return family.Face(sizePt, colorFromLayout(col), canvasFontStyle(spec), canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(spec fontspec.Spec) (*canvas.FontFamily, error) {
	key := fontCacheKey(spec)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}

	data, err := fonts.Resolve(spec.Families, spec.Weight, spec.Style)
	if err != nil {
		return nil, err
	}
	name := "stele"
	if len(spec.Families) > 0 {
		name = spec.Families[0]
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvasFontStyle(spec)); err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	r.fontFamilies[key] = family
	return family, nil
}

// canvasFontStyle 将数值字重与斜体样式映射到 canvas 的样式位。
func canvasFontStyle(spec fontspec.Spec) canvas.FontStyle {
	result := canvas.FontRegular
	switch {
	case spec.Weight >= 900:
		result = canvas.FontBlack
	case spec.Weight >= 800:
		result = canvas.FontExtraBold
	case spec.Weight >= 700:
		result = canvas.FontBold
	case spec.Weight >= 600:
		result = canvas.FontSemiBold
	case spec.Weight >= 500:
		result = canvas.FontMedium
	case spec.Weight > 0 && spec.Weight <= 300:
		result = canvas.FontLight
	}
	if spec.Style == fontspec.StyleItalic || spec.Style == fontspec.StyleOblique {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(spec fontspec.Spec) string {
	return fmt.Sprintf("%s|%d|%s", spec.Style, spec.Weight, strings.Join(spec.Families, ","))
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
