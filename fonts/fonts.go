package fonts

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
)

// 内置字体注册表：以 Go 字体家族为基础，按 family/weight/style 解析出
// TTF 数据。家族名中的路径（.ttf/.otf 结尾）则从磁盘读取。

type variant struct {
	bold   bool
	italic bool
}

var builtin = map[string]map[variant][]byte{
	"go": {
		{false, false}: goregular.TTF,
		{true, false}:  gobold.TTF,
		{false, true}:  goitalic.TTF,
		{true, true}:   gobolditalic.TTF,
	},
	"go mono": {
		{false, false}: gomono.TTF,
		{true, false}:  gomonobold.TTF,
		{false, true}:  gomonoitalic.TTF,
		{true, true}:   gomonobolditalic.TTF,
	},
	"go medium": {
		{false, false}: gomedium.TTF,
		{false, true}:  gomediumitalic.TTF,
	},
	"go smallcaps": {
		{false, false}: gosmallcaps.TTF,
		{false, true}:  gosmallcapsitalic.TTF,
	},
}

// Resolve 依次尝试 families 中的每一项：路径直接读盘，家族名查注册表。
// 没有任何一项命中时退回 Go 常规体。字重 600 及以上视为粗体。
func Resolve(families []string, weight int, style string) ([]byte, error) {
	v := variant{
		bold:   weight >= 600,
		italic: style == "italic" || style == "oblique",
	}
	for _, fam := range families {
		name := strings.TrimSpace(fam)
		if name == "" {
			continue
		}
		if isFontPath(name) {
			return Load(name)
		}
		if set, ok := builtin[strings.ToLower(name)]; ok {
			return pick(set, v), nil
		}
	}
	return pick(builtin["go"], v), nil
}

// pick 在一个家族内取最接近的变体：缺粗体退常规字重，缺斜体退正体。
func pick(set map[variant][]byte, v variant) []byte {
	for _, candidate := range []variant{v, {v.bold, false}, {false, v.italic}, {false, false}} {
		if data, ok := set[candidate]; ok {
			return data
		}
	}
	return goregular.TTF
}

func isFontPath(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf")
}

// Load 从磁盘读取字体文件。
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}

// Face 将 TTF 数据转换为指定像素字号的 font.Face。
// 以 72 DPI 创建，使 point 字号与 px 字号一致。
func Face(data []byte, sizePx float64) (font.Face, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: sizePx, DPI: 72}), nil
}
