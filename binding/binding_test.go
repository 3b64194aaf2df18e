package binding

import "testing"

// TestInterpolateNestedPath 验证多级路径与数组下标的替换。
func TestInterpolateNestedPath(t *testing.T) {
	data := map[string]any{
		"user": map[string]any{"name": "王羲之"},
		"poems": []any{
			map[string]any{"title": "兰亭"},
			map[string]any{"title": "快雪"},
		},
	}
	cases := []struct {
		text string
		want string
	}{
		{"${user.name}之碑", "王羲之之碑"},
		{"《${poems[1].title}》", "《快雪》"},
		{"${user.name}：${poems[0].title}", "王羲之：兰亭"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.text, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

// TestInterpolateMissingKeepsPlaceholder 验证未命中路径保留原占位符。
func TestInterpolateMissingKeepsPlaceholder(t *testing.T) {
	data := map[string]any{"a": 1}
	for _, text := range []string{"${b}", "${a.b.c}", "${a[0]}", "${list[9]}"} {
		if got := Interpolate(text, data); got != text {
			t.Fatalf("未命中路径应保留原样: %q -> %q", text, got)
		}
	}
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("空数据应保留原样，实际 %q", got)
	}
}

// TestInterpolateFallback 验证 ${path|默认值} 的回退语义。
func TestInterpolateFallback(t *testing.T) {
	data := map[string]any{"user": map[string]any{"name": "白"}}
	if got := Interpolate("${user.nick|无名氏}", data); got != "无名氏" {
		t.Fatalf("路径缺失应使用默认值，实际 %q", got)
	}
	if got := Interpolate("${user.name|无名氏}", data); got != "白" {
		t.Fatalf("路径命中时默认值不应生效，实际 %q", got)
	}
}

// TestInterpolateScalars 验证数字等标量按通用格式输出。
func TestInterpolateScalars(t *testing.T) {
	data := map[string]any{"year": 353, "ratio": 1.5}
	if got := Interpolate("公元${year}年", data); got != "公元353年" {
		t.Fatalf("整数替换错误: %q", got)
	}
	if got := Interpolate("${ratio}", data); got != "1.5" {
		t.Fatalf("浮点替换错误: %q", got)
	}
}
