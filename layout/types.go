package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/stele/fontspec"
)

// 该文件定义竖排布局的输出结构，供布局计算、渲染与调试 JSON 共用。

// ElementKind 区分元素类别：普通字符或截断省略号。
type ElementKind string

const (
	ElementGlyph    ElementKind = "glyph"
	ElementEllipsis ElementKind = "ellipsis"
)

// Element 表示一个定位完毕、可直接绘制的元素。
// X 为水平锚点（盒子宽度中线），Y 为元素顶边，单位均为 px。
type Element struct {
	Kind    ElementKind `json:"kind"`
	Content string      `json:"content"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
}

// Box 描述目标绘制区域的尺寸（px）。
type Box struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Style 汇总渲染期所需的视觉属性。Background 为 nil 时背景透明。
type Style struct {
	Font       fontspec.Spec `json:"font"`
	Fill       Color         `json:"fill"`
	Background *Color        `json:"background,omitempty"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ParseColor 解析 #rgb、#rrggbb 或 #rrggbbaa 形式的颜色（透明度位忽略）。
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	var channels [3]string
	switch len(v) {
	case 3:
		for i := 0; i < 3; i++ {
			channels[i] = strings.Repeat(string(v[i]), 2)
		}
	case 6, 8:
		channels = [3]string{v[0:2], v[2:4], v[4:6]}
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var c Color
	for i, ch := range channels {
		n, err := strconv.ParseInt(ch, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
		}
		switch i {
		case 0:
			c.R = int(n)
		case 1:
			c.G = int(n)
		case 2:
			c.B = int(n)
		}
	}
	return c, nil
}

// Plan 保存一次竖排布局的完整输出。
type Plan struct {
	Elements      []Element  `json:"elements"`
	ContentHeight float64    `json:"contentHeight"`
	Truncated     bool       `json:"truncated"`
	Box           Box        `json:"box"`
	Style         Style      `json:"style"`
	Debug         *PlanDebug `json:"debug,omitempty"`
}

// PlanDebug 保存按需输出的布局度量，仅在调试开关打开时填充。
type PlanDebug struct {
	Extents        []float64 `json:"extents"`
	EllipsisExtent float64   `json:"ellipsisExtent"`
	Coefficient    float64   `json:"coefficient"`
	HeightTotal    float64   `json:"heightTotal"`
}
