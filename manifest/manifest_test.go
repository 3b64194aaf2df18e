package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/stele/layout"
)

const sampleManifest = `
defaults:
  font: bold 32px "Noto Serif CJK SC", Go
  lineHeight: 1.4
  fill: "#202020"
  width: 96
  height: 480
jobs:
  - text: 春眠不觉晓
    out: out/spring.png
  - text: ${title}
    out: out/custom.svg
    font: 24px Go Mono
    lineHeight: 40px
    background: "#f5f0e6"
    height: 320
    data:
      title: 处处闻啼鸟
`

func TestParseAppliesDefaults(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Jobs) != 2 {
		t.Fatalf("任务数 = %d, 期望 2", len(m.Jobs))
	}
	first := m.Jobs[0]
	if first.Font != `bold 32px "Noto Serif CJK SC", Go` {
		t.Errorf("默认字体未生效: %q", first.Font)
	}
	if first.LineHeight != "1.4" || first.Fill != "#202020" {
		t.Errorf("默认行高/颜色未生效: %q %q", first.LineHeight, first.Fill)
	}
	if first.Width != 96 || first.Height != 480 {
		t.Errorf("默认尺寸未生效: %g x %g", first.Width, first.Height)
	}
	second := m.Jobs[1]
	if second.Font != "24px Go Mono" {
		t.Errorf("任务字段应覆盖默认值: %q", second.Font)
	}
	if second.Height != 320 || second.Width != 96 {
		t.Errorf("覆盖后的尺寸错误: %g x %g", second.Width, second.Height)
	}
}

func TestParseRejectsInvalidJobs(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"无任务", "defaults:\n  width: 10\n", "没有任务"},
		{"缺输出", "jobs:\n  - text: 碑\n    width: 10\n    height: 10\n", "缺少输出路径"},
		{"宽度为零", "jobs:\n  - text: 碑\n    out: a.png\n    height: 10\n", "宽度"},
		{"高度为负", "jobs:\n  - text: 碑\n    out: a.png\n    width: 10\n    height: -1\n", "高度"},
		{"YAML 语法错误", "jobs: [\n", "YAML"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.yaml))
			if err == nil {
				t.Fatalf("期望解析失败")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("错误信息 %q 未包含 %q", err, c.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("期望读取失败")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.yaml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Jobs[0].Out != "out/spring.png" {
		t.Errorf("输出路径 = %q", m.Jobs[0].Out)
	}
}

func TestJobBuildOptions(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts, err := m.Jobs[0].BuildOptions()
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if opts.Box.Width != 96 || opts.Box.Height != 480 {
		t.Errorf("盒子尺寸 = %+v", opts.Box)
	}
	if opts.Style.Font.SizePx != 32 || opts.Style.Font.Weight != 700 {
		t.Errorf("字体解析错误: %+v", opts.Style.Font)
	}
	if got := opts.LineHeight.Coefficient(32); got != 1.4 {
		t.Errorf("行高系数 = %g, 期望 1.4", got)
	}
	if opts.Style.Fill.R != 0x20 || opts.Style.Fill.G != 0x20 || opts.Style.Fill.B != 0x20 {
		t.Errorf("文字颜色 = %+v", opts.Style.Fill)
	}
	if opts.Style.Background != nil {
		t.Errorf("未设置背景时应为 nil")
	}

	opts2, err := m.Jobs[1].BuildOptions()
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if opts2.Style.Background == nil || opts2.Style.Background.R != 0xf5 {
		t.Errorf("背景颜色 = %+v", opts2.Style.Background)
	}
	if got := opts2.LineHeight.Coefficient(24); got != 40.0/24.0 {
		t.Errorf("绝对行高系数 = %g", got)
	}
}

func TestJobBuildOptionsDefaultsFont(t *testing.T) {
	j := Job{Out: "a.png", Width: 10, Height: 10}
	opts, err := j.BuildOptions()
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if opts.Style.Font.SizePx != 16 {
		t.Errorf("缺省字体字号 = %g, 期望 16", opts.Style.Font.SizePx)
	}
	if (opts.Style.Fill != layout.Color{R: 30, G: 30, B: 30}) {
		t.Errorf("缺省文字颜色 = %+v", opts.Style.Fill)
	}
}

func TestJobBuildOptionsErrors(t *testing.T) {
	cases := []struct {
		name string
		job  Job
	}{
		{"字体", Job{Out: "a", Width: 1, Height: 1, Font: "不是字体"}},
		{"行高", Job{Out: "a", Width: 1, Height: 1, LineHeight: "快"}},
		{"颜色", Job{Out: "a", Width: 1, Height: 1, Fill: "red"}},
		{"背景", Job{Out: "a", Width: 1, Height: 1, Background: "#12"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := c.job.BuildOptions(); err == nil {
				t.Fatalf("期望返回错误")
			}
		})
	}
}

func TestJobContent(t *testing.T) {
	j := Job{
		Text: "${title}·${author|佚名}",
		Data: map[string]any{"title": "登鹳雀楼"},
	}
	if got := j.Content(nil); got != "登鹳雀楼·佚名" {
		t.Errorf("Content = %q", got)
	}
	if got := j.Content(map[string]any{"author": "王之涣"}); got != "登鹳雀楼·佚名" {
		t.Errorf("任务数据已消费占位符后不应再改写: %q", got)
	}

	j2 := Job{Text: "${poem.line}"}
	global := map[string]any{"poem": map[string]any{"line": "白日依山尽"}}
	if got := j2.Content(global); got != "白日依山尽" {
		t.Errorf("全局数据未生效: %q", got)
	}
}

// TestJobContentNoData 验证任务不带 data 且无全局数据时，默认值占位符
// 仍被解析，未命中且无默认值的占位符保持原样。
func TestJobContentNoData(t *testing.T) {
	j := Job{Text: "${date|今日}立·${title}"}
	if got := j.Content(nil); got != "今日立·${title}" {
		t.Errorf("Content = %q", got)
	}
}
