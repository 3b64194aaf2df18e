package fonts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// TestResolveVariants 验证字重与样式到内置变体的映射。
func TestResolveVariants(t *testing.T) {
	cases := []struct {
		name     string
		families []string
		weight   int
		style    string
		want     []byte
	}{
		{"常规", []string{"Go"}, 400, "normal", goregular.TTF},
		{"粗体", []string{"Go"}, 700, "normal", gobold.TTF},
		{"粗斜体", []string{"Go"}, 600, "italic", gobolditalic.TTF},
		{"等宽斜体", []string{"Go Mono"}, 400, "oblique", gomonoitalic.TTF},
		{"家族大小写不敏感", []string{"go mono"}, 400, "italic", gomonoitalic.TTF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Resolve(tc.families, tc.weight, tc.style)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(data, tc.want) {
				t.Fatalf("解析到错误的字体变体")
			}
		})
	}
}

// TestResolveFallsBackToDefault 验证未知家族静默退回 Go 常规体。
func TestResolveFallsBackToDefault(t *testing.T) {
	data, err := Resolve([]string{"Helvetica", "Arial"}, 400, "normal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, goregular.TTF) {
		t.Fatalf("未知家族应退回 Go 常规体")
	}
}

// TestResolveDegradesMissingVariant 验证缺失变体的降级：
// Go Medium 没有粗体，应退回其常规体。
func TestResolveDegradesMissingVariant(t *testing.T) {
	data, err := Resolve([]string{"Go Medium"}, 700, "normal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, gomedium.TTF) {
		t.Fatalf("Go Medium 缺粗体时应退回常规体")
	}
}

// TestResolvePathEntry 验证家族列表中的文件路径直接读盘。
func TestResolvePathEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("写入临时字体失败: %v", err)
	}
	data, err := Resolve([]string{path, "Go"}, 400, "normal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, goregular.TTF) {
		t.Fatalf("路径条目未生效")
	}
}

// TestLoadMissingFile 验证磁盘字体缺失时报错。
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Fatalf("缺失文件应报错")
	}
}

// TestFaceMetrics 验证字体面可创建且携带合理度量。
func TestFaceMetrics(t *testing.T) {
	face, err := Face(goregular.TTF, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := face.Metrics()
	if m.Ascent <= 0 || m.Height <= 0 {
		t.Fatalf("字体度量异常: %+v", m)
	}

	if _, err := Face([]byte("not a font"), 16); err == nil {
		t.Fatalf("非法字体数据应报错")
	}
}
