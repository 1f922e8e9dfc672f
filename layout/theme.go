package layout

import "strings"

// Theme 汇总全部具名颜色；各内容块的字号/行高是块类型的纯函数，
// 只有配色可以通过清单的 theme 段覆盖。
type Theme struct {
	Accent          Color `json:"accent"`          // 强调色（标题下划线、标注框）
	Heading         Color `json:"heading"`         // 一级标题
	SubHeading      Color `json:"subHeading"`      // 二级标题
	Ink             Color `json:"ink"`             // 正文
	HeaderText      Color `json:"headerText"`      // 页眉文本
	FooterText      Color `json:"footerText"`      // 页脚文本
	RuleLight       Color `json:"ruleLight"`       // 页眉分隔线
	TableBorder     Color `json:"tableBorder"`     // 表格边框
	TableHeaderFill Color `json:"tableHeaderFill"` // 表头填充
	PanelFill       Color `json:"panelFill"`       // 标注框背景
	CodeFill        Color `json:"codeFill"`        // 代码块背景
	CoverBackground Color `json:"coverBackground"` // 封面底色
	CoverMuted      Color `json:"coverMuted"`      // 封面副标题
	CoverFaint      Color `json:"coverFaint"`      // 封面备注行
	White           Color `json:"white"`
}

// DefaultTheme 返回默认配色。
func DefaultTheme() Theme {
	return Theme{
		Accent:          Color{R: 233, G: 69, B: 96},
		Heading:         Color{R: 26, G: 26, B: 46},
		SubHeading:      Color{R: 22, G: 33, B: 62},
		Ink:             Color{R: 51, G: 51, B: 51},
		HeaderText:      Color{R: 102, G: 102, B: 102},
		FooterText:      Color{R: 128, G: 128, B: 128},
		RuleLight:       Color{R: 200, G: 200, B: 200},
		TableBorder:     Color{R: 200, G: 200, B: 200},
		TableHeaderFill: Color{R: 248, G: 249, B: 250},
		PanelFill:       Color{R: 250, G: 250, B: 250},
		CodeFill:        Color{R: 245, G: 245, B: 245},
		CoverBackground: Color{R: 26, G: 26, B: 46},
		CoverMuted:      Color{R: 200, G: 200, B: 200},
		CoverFaint:      Color{R: 180, G: 180, B: 180},
		White:           Color{R: 255, G: 255, B: 255},
	}
}

// set 按名称覆盖一个主题颜色，名称未知时返回 false。
func (t *Theme) set(name string, c Color) bool {
	switch strings.ToLower(name) {
	case "accent":
		t.Accent = c
	case "heading":
		t.Heading = c
	case "subheading", "sub-heading":
		t.SubHeading = c
	case "ink":
		t.Ink = c
	case "header-text":
		t.HeaderText = c
	case "footer-text":
		t.FooterText = c
	case "rule":
		t.RuleLight = c
	case "table-border":
		t.TableBorder = c
	case "table-header-fill":
		t.TableHeaderFill = c
	case "panel-fill":
		t.PanelFill = c
	case "code-fill":
		t.CodeFill = c
	case "cover-background":
		t.CoverBackground = c
	case "cover-muted":
		t.CoverMuted = c
	case "cover-faint":
		t.CoverFaint = c
	default:
		return false
	}
	return true
}
