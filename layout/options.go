package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行，并测量文本宽度。
// 所有入参与返回值的宽度/字号单位均为毫米（mm）。
type Typesetter interface {
	LayoutLines(content string, width float64, font string, fontSize float64) ([]TextLine, error)
	TextWidth(content string, font string, fontSize float64) (float64, error)
}
