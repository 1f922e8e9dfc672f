package binding

import "testing"

func TestInterpolateMap(t *testing.T) {
	data := map[string]any{
		"generated": map[string]any{"month": "February 2026"},
		"page":      3,
	}
	cases := []struct {
		in   string
		want string
	}{
		{"Page ${page}", "Page 3"},
		{"${generated.month}", "February 2026"},
		{"no placeholder", "no placeholder"},
		{"${missing.path} stays", "${missing.path} stays"},
		{"a ${page} b ${page}", "a 3 b 3"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("Page ${page}", nil); got != "Page ${page}" {
		t.Fatalf("无数据时应原样保留: %q", got)
	}
}

func TestResolveSliceAndStruct(t *testing.T) {
	type vendor struct {
		Name string
		Tier string
	}
	data := map[string]any{
		"vendors": []any{
			map[string]any{"name": "Diageo"},
			vendor{Name: "Bacardi", Tier: "Premium"},
		},
	}

	if v, ok := Resolve(data, "vendors.0.name"); !ok || v != "Diageo" {
		t.Fatalf("切片下钻失败: %v %v", v, ok)
	}
	if v, ok := Resolve(data, "vendors.1.Name"); !ok || v != "Bacardi" {
		t.Fatalf("结构体字段下钻失败: %v %v", v, ok)
	}
	if _, ok := Resolve(data, "vendors.5.name"); ok {
		t.Fatalf("越界索引不应命中")
	}
	if _, ok := Resolve(data, "vendors.1.unexported"); ok {
		t.Fatalf("未知字段不应命中")
	}
	if _, ok := Resolve(nil, "x"); ok {
		t.Fatalf("nil 数据不应命中")
	}
}

func TestToStringFloats(t *testing.T) {
	data := map[string]any{"pct": 19.6}
	if got := Interpolate("${pct}%", data); got != "19.6%" {
		t.Fatalf("浮点格式化不符: %q", got)
	}
}
