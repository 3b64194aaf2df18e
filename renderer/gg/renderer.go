package ggrenderer

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/ByLCY/stele/fonts"
	"github.com/ByLCY/stele/fontspec"
	"github.com/ByLCY/stele/layout"
	"github.com/ByLCY/stele/renderer"
)

// Renderer 基于 github.com/fogleman/gg 将布局计划光栅化为 PNG。
// 同一字体描述的 font.Face 会被缓存复用。
type Renderer struct {
	fontMu sync.Mutex
	faces  map[string]font.Face
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// NewRenderer 创建 PNG 渲染器。
func NewRenderer() *Renderer {
	return &Renderer{faces: map[string]font.Face{}}
}

// GlyphExtent 实现 layout.Measurer：返回 content 在 spec 字体下的
// 横排渲染宽度（px）。
func (r *Renderer) GlyphExtent(content string, spec fontspec.Spec) (float64, error) {
	face, err := r.fontFace(spec)
	if err != nil {
		return 0, err
	}
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	w, _ := dc.MeasureString(content)
	return w, nil
}

// Render 实现 renderer.Renderer，输出 PNG 字节。
func (r *Renderer) Render(plan *layout.Plan) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("渲染计划为空")
	}
	width := int(math.Ceil(plan.Box.Width))
	height := int(math.Ceil(plan.Box.Height))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("画布尺寸 %dx%d 无效", width, height)
	}

	dc := gg.NewContext(width, height)
	if bg := plan.Style.Background; bg != nil {
		dc.SetRGB255(bg.R, bg.G, bg.B)
		dc.Clear()
	}

	face, err := r.fontFace(plan.Style.Font)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)
	fill := plan.Style.Fill
	dc.SetRGB255(fill.R, fill.G, fill.B)

	// 元素 Y 为顶边，基线需下移一个字体上升部；X 为水平中线。
	ascent := float64(face.Metrics().Ascent) / 64
	for _, el := range plan.Elements {
		dc.DrawStringAnchored(el.Content, el.X, el.Y+ascent, 0.5, 0)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) fontFace(spec fontspec.Spec) (font.Face, error) {
	key := fontCacheKey(spec)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	data, err := fonts.Resolve(spec.Families, spec.Weight, spec.Style)
	if err != nil {
		return nil, err
	}
	face, err := fonts.Face(data, spec.SizePx)
	if err != nil {
		return nil, err
	}
	r.faces[key] = face
	return face, nil
}

func fontCacheKey(spec fontspec.Spec) string {
	return fmt.Sprintf("%s|%d|%g|%s", spec.Style, spec.Weight, spec.SizePx, strings.Join(spec.Families, ","))
}
