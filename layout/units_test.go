package layout

import "testing"

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"40", Length{Value: 40, Unit: UnitNone}},
		{"4cm", Length{Value: 4, Unit: UnitCM}},
		{"12pt", Length{Value: 12, Unit: UnitPT}},
		{"1.5in", Length{Value: 1.5, Unit: UnitIN}},
		{"6mm", Length{Value: 6, Unit: UnitMM}},
		{" 8 mm ", Length{Value: 8, Unit: UnitMM}},
		{"", Length{}},
		{"abc", Length{}},
	}
	for _, c := range cases {
		if got := ParseLength(c.in); got != c.want {
			t.Fatalf("ParseLength(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestLengthConversions(t *testing.T) {
	if got := (Length{Value: 4, Unit: UnitCM}).ToMM(); !near(got, 40) {
		t.Fatalf("4cm = %gmm", got)
	}
	if got := (Length{Value: 1, Unit: UnitIN}).ToMM(); !near(got, 25.4) {
		t.Fatalf("1in = %gmm", got)
	}
	if got := (Length{Value: 72, Unit: UnitPT}).ToMM(); got < 25.3 || got > 25.5 {
		t.Fatalf("72pt = %gmm, want ~25.4", got)
	}
	// 单位缺省按 mm 处理
	if got := (Length{Value: 10}).ToMM(); !near(got, 10) {
		t.Fatalf("10 = %gmm", got)
	}
	// mm -> pt -> mm 往返
	mm := 6.0
	back := Length{Value: Length{Value: mm, Unit: UnitMM}.ToPT(), Unit: UnitPT}.ToMM()
	if d := back - mm; d < -1e-9 || d > 1e-9 {
		t.Fatalf("往返换算漂移: %g", back)
	}
}
