package layout

// 该文件定义布局结果类型，供布局计算、渲染与调试 JSON 共用。

// Result 保存布局后的页面、主题与文档元信息。
type Result struct {
	Pages []Page       `json:"pages"`
	Theme Theme        `json:"theme"`
	Meta  DocumentMeta `json:"meta"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸、边距与最终可以直接渲染的元素。
// Chrome 为 false 时（封面页）不渲染页眉/页脚；坐标均为页面坐标（单位：mm）。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
	Number int     `json:"number"`
	Chrome bool    `json:"chrome"`
	// 主体内容（绘制顺序：矩形 → 线条 → 文本 → 表格）
	Texts  []TextBox  `json:"texts"`
	Lines  []Line     `json:"lines,omitempty"`
	Rects  []Rect     `json:"rects,omitempty"`
	Tables []TableBox `json:"tables,omitempty"`
	// 页眉与页脚（页脚文本含页码，因此逐页保存而非全局共享）
	Header HeaderFooter `json:"header"`
	Footer HeaderFooter `json:"footer"`
}

// HeaderFooter 描述页眉/页脚区域的固定高度与元素集合。
type HeaderFooter struct {
	Height float64   `json:"height"` // 区域高度（mm）
	Texts  []TextBox `json:"texts,omitempty"`
	Lines  []Line    `json:"lines,omitempty"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextBox 表示一个已经排好坐标的文本块。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      string     `json:"align,omitempty"` // 水平对齐：left/center/right（默认 left）
}

// TextLine 表示排版后的一行文本内容及其宽度。
// 每行占据所属 TextBox 的 LineHeight 高度（fpdf 风格的 cell 模型）。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// TableBox 保存表格布局信息。
type TableBox struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Width        float64    `json:"width"`
	ColumnWidths []float64  `json:"columnWidths"`
	Rows         []TableRow `json:"rows"`
	BorderColor  Color      `json:"borderColor"`
	HeaderFill   Color      `json:"headerFill"`
}

// TableRow 记录每一行的高度与单元格。
type TableRow struct {
	Y        float64     `json:"y"`
	Height   float64     `json:"height"`
	IsHeader bool        `json:"isHeader"`
	Cells    []TableCell `json:"cells"`
}

// TableCell 复用 TextBox 作为单元格内容。
type TableCell struct {
	Text TextBox `json:"text"`
}

// Line 表示一条线段（单位均为 mm）。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`         // mm，<=0 表示只填充不描边
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
