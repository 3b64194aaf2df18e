package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/stele/binding"
	"github.com/ByLCY/stele/fontspec"
	"github.com/ByLCY/stele/layout"
)

// Manifest 描述一批竖排文本的生成任务。顶层 defaults 为所有任务提供
// 缺省样式，任务自身的字段优先。
type Manifest struct {
	Defaults Defaults `yaml:"defaults"`
	Jobs     []Job    `yaml:"jobs"`
}

// Defaults 是任务级字段的缺省值集合。
type Defaults struct {
	Font       string  `yaml:"font"`
	LineHeight string  `yaml:"lineHeight"`
	Fill       string  `yaml:"fill"`
	Background string  `yaml:"background"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
}

// Job 描述单个输出文件的生成参数。
type Job struct {
	Text       string         `yaml:"text"`
	Out        string         `yaml:"out"`
	Font       string         `yaml:"font"`
	LineHeight string         `yaml:"lineHeight"`
	Fill       string         `yaml:"fill"`
	Background string         `yaml:"background"`
	Width      float64        `yaml:"width"`
	Height     float64        `yaml:"height"`
	Data       map[string]any `yaml:"data"`
}

// Load 读取并解析清单文件。
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取清单 %s 失败: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("清单 %s 无效: %w", path, err)
	}
	return m, nil
}

// Parse 解析清单内容，套用默认值并校验每个任务。
// 任何一个任务非法都会使整个清单被拒绝。
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("解析 YAML 失败: %w", err)
	}
	if len(m.Jobs) == 0 {
		return nil, fmt.Errorf("清单中没有任务")
	}
	for i := range m.Jobs {
		m.Jobs[i].applyDefaults(m.Defaults)
		if err := m.Jobs[i].validate(i); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

func (j *Job) applyDefaults(d Defaults) {
	if j.Font == "" {
		j.Font = d.Font
	}
	if j.LineHeight == "" {
		j.LineHeight = d.LineHeight
	}
	if j.Fill == "" {
		j.Fill = d.Fill
	}
	if j.Background == "" {
		j.Background = d.Background
	}
	if j.Width == 0 {
		j.Width = d.Width
	}
	if j.Height == 0 {
		j.Height = d.Height
	}
}

func (j *Job) validate(idx int) error {
	if j.Out == "" {
		return fmt.Errorf("任务 #%d 缺少输出路径", idx)
	}
	if j.Width <= 0 {
		return fmt.Errorf("任务 %s 的盒子宽度必须为正数，当前为 %g", j.Out, j.Width)
	}
	if j.Height <= 0 {
		return fmt.Errorf("任务 %s 的盒子高度必须为正数，当前为 %g", j.Out, j.Height)
	}
	return nil
}

// BuildOptions 把任务字段转换为布局参数。
func (j Job) BuildOptions() (layout.BuildOptions, error) {
	font := fontspec.Default()
	if j.Font != "" {
		parsed, err := fontspec.Parse(j.Font)
		if err != nil {
			return layout.BuildOptions{}, fmt.Errorf("任务 %s 的字体描述无效: %w", j.Out, err)
		}
		font = parsed
	}
	opts := layout.BuildOptions{
		Box:   layout.Box{Width: j.Width, Height: j.Height},
		Style: layout.Style{Font: font, Fill: layout.Color{R: 30, G: 30, B: 30}},
	}
	if j.LineHeight != "" {
		lh, err := fontspec.ParseLineHeight(j.LineHeight)
		if err != nil {
			return layout.BuildOptions{}, fmt.Errorf("任务 %s 的行高无效: %w", j.Out, err)
		}
		opts.LineHeight = lh
	}
	if j.Fill != "" {
		col, err := layout.ParseColor(j.Fill)
		if err != nil {
			return layout.BuildOptions{}, fmt.Errorf("任务 %s 的文字颜色无效: %w", j.Out, err)
		}
		opts.Style.Fill = col
	}
	if j.Background != "" {
		col, err := layout.ParseColor(j.Background)
		if err != nil {
			return layout.BuildOptions{}, fmt.Errorf("任务 %s 的背景颜色无效: %w", j.Out, err)
		}
		opts.Style.Background = &col
	}
	return opts, nil
}

// Content 返回应用数据绑定后的文本：先用任务自带的 data，再用全局数据
// 填充剩余占位符。两遍无条件执行，带默认值的占位符在首遍未命中时即取
// 默认值，因此没有任何数据时默认值依然生效。
func (j Job) Content(global any) string {
	text := binding.Interpolate(j.Text, j.Data)
	return binding.Interpolate(text, global)
}
