package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/stele/binding"
	"github.com/ByLCY/stele/fontspec"
	"github.com/ByLCY/stele/layout"
	"github.com/ByLCY/stele/manifest"
	"github.com/ByLCY/stele/renderer"
	canvasrenderer "github.com/ByLCY/stele/renderer/canvas"
	ggrenderer "github.com/ByLCY/stele/renderer/gg"
)

func main() {
	text := flag.String("text", "", "要竖排的文本")
	output := flag.String("out", "output/stele.png", "输出路径，扩展名决定格式（png/svg/pdf）")
	fontArg := flag.String("font", "", "CSS font 简写，如 'bold 32px \"Noto Serif CJK SC\", Go'")
	lineHeight := flag.String("line-height", "", "行高：系数（1.4 或 1.4x）或绝对值（40px、30pt）")
	fill := flag.String("fill", "", "文字颜色，如 #333333")
	background := flag.String("background", "", "背景颜色；留空则不填充")
	width := flag.Float64("width", 96, "盒子宽度（像素）")
	height := flag.Float64("height", 480, "盒子高度（像素）")
	manifestPath := flag.String("manifest", "", "批量任务清单（YAML）路径")
	watch := flag.Bool("watch", false, "监听清单文件变更并自动重新生成")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	debugMetrics := flag.Bool("debug-metrics", false, "在调试 JSON 中输出 debug 度量字段")
	dataJSON := flag.String("data", "", "绑定到文本占位符的 JSON 数据")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	if *manifestPath != "" {
		if err := runManifest(*manifestPath, inputData); err != nil {
			log.Fatalf("执行清单失败: %v", err)
		}
		if *watch {
			if err := watchManifest(*manifestPath, inputData); err != nil {
				log.Fatalf("监听清单失败: %v", err)
			}
		}
		return
	}
	if *watch {
		log.Fatalf("-watch 需要与 -manifest 一起使用")
	}
	if *text == "" {
		log.Fatalf("必须通过 -text 或 -manifest 提供内容")
	}

	opts, err := buildOptions(*fontArg, *lineHeight, *fill, *background, *width, *height, *debugMetrics)
	if err != nil {
		log.Fatalf("参数无效: %v", err)
	}

	r, err := rendererFor(*output)
	if err != nil {
		log.Fatalf("%v", err)
	}

	content := binding.Interpolate(*text, inputData)
	if err := run(content, *output, *debug, opts, r); err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	fmt.Printf("已生成：%s\n", *output)
}

// buildOptions 把命令行参数转换为布局参数。
func buildOptions(fontArg, lineHeight, fill, background string, width, height float64, debugMetrics bool) (layout.BuildOptions, error) {
	if width <= 0 {
		return layout.BuildOptions{}, fmt.Errorf("盒子宽度必须为正数，当前为 %g", width)
	}
	if height <= 0 {
		return layout.BuildOptions{}, fmt.Errorf("盒子高度必须为正数，当前为 %g", height)
	}

	font := fontspec.Default()
	if fontArg != "" {
		parsed, err := fontspec.Parse(fontArg)
		if err != nil {
			return layout.BuildOptions{}, fmt.Errorf("字体描述无效: %w", err)
		}
		font = parsed
	}

	opts := layout.BuildOptions{
		Box:   layout.Box{Width: width, Height: height},
		Style: layout.Style{Font: font, Fill: layout.Color{R: 30, G: 30, B: 30}},
		Debug: layout.DebugOptions{Metrics: debugMetrics},
	}
	if lineHeight != "" {
		lh, err := fontspec.ParseLineHeight(lineHeight)
		if err != nil {
			return layout.BuildOptions{}, fmt.Errorf("行高无效: %w", err)
		}
		opts.LineHeight = lh
	}
	if fill != "" {
		col, err := layout.ParseColor(fill)
		if err != nil {
			return layout.BuildOptions{}, fmt.Errorf("文字颜色无效: %w", err)
		}
		opts.Style.Fill = col
	}
	if background != "" {
		col, err := layout.ParseColor(background)
		if err != nil {
			return layout.BuildOptions{}, fmt.Errorf("背景颜色无效: %w", err)
		}
		opts.Style.Background = &col
	}
	return opts, nil
}

// rendererFor 根据输出扩展名选择渲染后端。
func rendererFor(path string) (renderer.Renderer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".png":
		return ggrenderer.NewRenderer(), nil
	case ".svg":
		return canvasrenderer.NewRenderer(canvasrenderer.FormatSVG), nil
	case ".pdf":
		return canvasrenderer.NewRenderer(canvasrenderer.FormatPDF), nil
	default:
		return nil, fmt.Errorf("不支持的输出格式: %s", filepath.Ext(path))
	}
}

// run 串联测量、布局与渲染。
func run(text, outputPath, debugPath string, opts layout.BuildOptions, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	m, ok := r.(layout.Measurer)
	if !ok {
		return fmt.Errorf("renderer 未实现测量接口")
	}
	opts.Measurer = m

	plan, err := layout.Build(text, opts)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(plan, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	out, err := r.Render(plan)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}

	return nil
}

// runManifest 顺序执行清单中的每个任务。
func runManifest(path string, global any) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	for i := range m.Jobs {
		job := m.Jobs[i]
		opts, err := job.BuildOptions()
		if err != nil {
			return err
		}
		r, err := rendererFor(job.Out)
		if err != nil {
			return fmt.Errorf("任务 %s: %w", job.Out, err)
		}
		out, err := renderer.Generate(job.Content(global), opts, r)
		if err != nil {
			return fmt.Errorf("任务 %s 生成失败: %w", job.Out, err)
		}
		if err := os.MkdirAll(filepath.Dir(job.Out), 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
		if err := os.WriteFile(job.Out, out, 0o644); err != nil {
			return fmt.Errorf("写入 %s 失败: %w", job.Out, err)
		}
		fmt.Printf("已生成：%s\n", job.Out)
	}
	return nil
}

func writeDebug(plan *layout.Plan, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(plan, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
