package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/slooze/reportgen/binding"
	"github.com/slooze/reportgen/fonts"
	"github.com/slooze/reportgen/manifest"
)

// 页面几何常量（单位：mm）。
const (
	pageWidth  = 210.0
	pageHeight = 297.0

	headerBandHeight = 28.0 // chrome 页内容区域顶部（页眉文本 + 分隔线 + 间距）
	footerBandHeight = 18.0 // 页脚区域高度（页码距页面底部 15mm）
)

func defaultMargin() Margin {
	return Margin{Top: 20, Right: 15, Bottom: 20, Left: 15}
}

// Build 根据清单 AST 生成页面布局结果。
// data 提供 ${path} 插值数据（例如生成日期）；排版后端通过 opts 注入。
func Build(doc *manifest.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}

	theme := collectTheme(doc)
	meta := collectMeta(doc)
	chrome := collectChrome(doc)

	collector := newPageCollector(pageWidth, pageHeight, defaultMargin())
	ctx := &flowContext{
		data:       data,
		typesetter: opts.Typesetter,
		theme:      theme,
		collector:  collector,
	}

	for _, section := range doc.Sections {
		switch {
		case section.Cover != nil:
			if err := ctx.buildCover(section.Cover.Block); err != nil {
				return nil, err
			}
		case section.Page != nil:
			collector.startPage(true)
			ctx.reset()
			if err := ctx.processBlock(section.Page.Block); err != nil {
				return nil, err
			}
		}
	}
	if len(collector.states) == 0 {
		return nil, fmt.Errorf("文档中缺少 cover 或 page 段落")
	}

	if err := applyChrome(collector, chrome, theme, opts.Typesetter); err != nil {
		return nil, err
	}

	return &Result{Pages: collector.pages(), Theme: theme, Meta: meta}, nil
}

// processBlock 依次处理 page 块内的内容命令。
func (ctx *flowContext) processBlock(block *manifest.Block) error {
	if block == nil {
		return fmt.Errorf("page 段落缺少内容")
	}
	for _, stmt := range block.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		var err error
		switch cmd.Name {
		case "h1":
			err = ctx.title(extractText(cmd.Block), 1)
		case "h2":
			err = ctx.title(extractText(cmd.Block), 2)
		case "h3":
			err = ctx.title(extractText(cmd.Block), 3)
		case "para":
			err = ctx.paragraph(extractText(cmd.Block))
		case "bullets":
			err = ctx.bulletList(textItems(cmd.Block), hasFlag(cmd.Args, "bold-prefix"))
		case "numbered":
			err = ctx.numberedList(textItems(cmd.Block))
		case "callout":
			err = ctx.callout(firstString(cmd.Args), extractText(cmd.Block))
		case "info":
			err = ctx.info(firstString(cmd.Args), textItems(cmd.Block))
		case "table":
			err = ctx.table(cmd)
		case "toc":
			err = ctx.toc(cmd.Block)
		case "code":
			err = ctx.code(extractText(cmd.Block))
		case "colophon":
			err = ctx.colophon(extractText(cmd.Block))
		default:
			// 其余命令暂未实现，忽略即可
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// pageState 累积单页元素；布局阶段只追加，finalize 阶段补 chrome。
type pageState struct {
	number int
	chrome bool
	texts  []TextBox
	lines  []Line
	rects  []Rect
	tables []TableBox
	header HeaderFooter
	footer HeaderFooter
}

type pageCollector struct {
	width  float64
	height float64
	margin Margin
	states []*pageState
}

func newPageCollector(width, height float64, margin Margin) *pageCollector {
	return &pageCollector{width: width, height: height, margin: margin}
}

func (pc *pageCollector) startPage(chrome bool) *pageState {
	st := &pageState{number: len(pc.states) + 1, chrome: chrome}
	pc.states = append(pc.states, st)
	return st
}

func (pc *pageCollector) curr() *pageState {
	if len(pc.states) == 0 {
		return pc.startPage(true)
	}
	return pc.states[len(pc.states)-1]
}

// contentTop 内容区域顶部 = max(上边距, 页眉区域高度)。
func (pc *pageCollector) contentTop() float64 {
	if pc.curr().chrome && headerBandHeight > pc.margin.Top {
		return headerBandHeight
	}
	return pc.margin.Top
}

// contentBottom 内容区域底部 = 页面高度 - max(下边距, 页脚区域高度)。
func (pc *pageCollector) contentBottom() float64 {
	b := pc.margin.Bottom
	if pc.curr().chrome && footerBandHeight > b {
		b = footerBandHeight
	}
	return pc.height - b
}

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.states))
	for i, st := range pc.states {
		out[i] = Page{
			Width:  pc.width,
			Height: pc.height,
			Margin: pc.margin,
			Number: st.number,
			Chrome: st.chrome,
			Texts:  st.texts,
			Lines:  st.lines,
			Rects:  st.rects,
			Tables: st.tables,
			Header: st.header,
			Footer: st.footer,
		}
	}
	return out
}

// flowContext 维护当前页的游标；页内 cursorY 单调递增。
type flowContext struct {
	baseX      float64
	width      float64
	cursorY    float64
	data       any
	typesetter Typesetter
	theme      Theme
	collector  *pageCollector
}

// reset 将游标移到当前页内容区域顶部。
func (ctx *flowContext) reset() {
	ctx.baseX = ctx.collector.margin.Left
	ctx.width = ctx.collector.width - ctx.collector.margin.Left - ctx.collector.margin.Right
	ctx.cursorY = ctx.collector.contentTop()
}

// ensureSpace 在剩余空间不足时透明地换页；任何块渲染调用内部都会经过这里。
func (ctx *flowContext) ensureSpace(height float64) {
	if ctx.cursorY+height <= ctx.collector.contentBottom() {
		return
	}
	ctx.pageBreak()
}

func (ctx *flowContext) pageBreak() {
	ctx.collector.startPage(true)
	ctx.reset()
}

func (ctx *flowContext) page() *pageState {
	return ctx.collector.curr()
}

// textStyle 是一次绘制操作的样式元组，应用后即丢弃，不持久化在内容块上。
type textStyle struct {
	font       string
	size       float64 // mm
	lineHeight float64 // mm（单行占位高度，即 fpdf 的 cell 高）
	color      Color
}

// pt 将点值换算为内部使用的毫米。
func pt(v float64) float64 { return v * PtToMm }

func bodyStyle(th Theme) textStyle {
	return textStyle{font: fonts.Body, size: pt(10), lineHeight: 6, color: th.Ink}
}

// composeText 折行并计算文本块高度；内容先经过数据绑定插值。
// 返回的 TextBox 未定位，由调用方填 X/Y。
func (ctx *flowContext) composeText(content string, st textStyle, width float64) (TextBox, error) {
	if ctx.data != nil {
		content = binding.Interpolate(content, ctx.data)
	}
	lines, err := ctx.typesetter.LayoutLines(content, width, st.font, st.size)
	if err != nil {
		return TextBox{}, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: ""}}
	}
	for i := range lines {
		lines[i].Height = st.lineHeight
	}
	return TextBox{
		Content:    content,
		Width:      width,
		LineHeight: st.lineHeight,
		Font:       st.font,
		FontSize:   st.size,
		Color:      st.color,
		Lines:      lines,
		Height:     float64(len(lines)) * st.lineHeight,
	}, nil
}

// composeLine 生成不折行的单行文本块（fpdf 的 cell 语义，超宽不截断）。
func (ctx *flowContext) composeLine(content string, st textStyle, width float64, align string) (TextBox, error) {
	if ctx.data != nil {
		content = binding.Interpolate(content, ctx.data)
	}
	w, err := ctx.typesetter.TextWidth(content, st.font, st.size)
	if err != nil {
		return TextBox{}, err
	}
	return TextBox{
		Content:    content,
		Width:      width,
		LineHeight: st.lineHeight,
		Font:       st.font,
		FontSize:   st.size,
		Color:      st.color,
		Lines:      []TextLine{{Content: content, Width: w, Height: st.lineHeight}},
		Height:     st.lineHeight,
		Align:      align,
	}, nil
}

// --- 清单段落收集 ---

func collectTheme(doc *manifest.Document) Theme {
	theme := DefaultTheme()
	for _, section := range doc.Sections {
		if section.Theme == nil || section.Theme.Block == nil {
			continue
		}
		for _, stmt := range section.Theme.Block.Statements {
			if stmt.Command == nil || stmt.Command.Name != "color" {
				continue
			}
			args := stmt.Command.Args
			if len(args) < 2 {
				continue
			}
			c, err := parseColor(args[len(args)-1].Value)
			if err != nil {
				continue
			}
			theme.set(args[0].Value, c)
		}
	}
	return theme
}

func collectMeta(doc *manifest.Document) DocumentMeta {
	meta := DocumentMeta{Creator: "reportgen"}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = valueToString(stmt.Assignment.Value)
			case "author":
				meta.Author = valueToString(stmt.Assignment.Value)
			case "subject":
				meta.Subject = valueToString(stmt.Assignment.Value)
			case "creator":
				meta.Creator = valueToString(stmt.Assignment.Value)
			case "keywords":
				meta.Keywords = valueToStringSlice(stmt.Assignment.Value)
			}
		}
	}
	if meta.Title == "" {
		meta.Title = string(doc.Name)
	}
	return meta
}

// chromeSpec 保存页眉文本与页脚模板（模板中的 ${page} 按页码插值）。
type chromeSpec struct {
	header string
	footer string
}

func collectChrome(doc *manifest.Document) chromeSpec {
	var spec chromeSpec
	for _, section := range doc.Sections {
		if section.Chrome == nil || section.Chrome.Block == nil {
			continue
		}
		for _, stmt := range section.Chrome.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "header":
				spec.header = valueToString(stmt.Assignment.Value)
			case "footer":
				spec.footer = valueToString(stmt.Assignment.Value)
			}
		}
	}
	return spec
}

// --- 清单读取辅助 ---

func extractText(block *manifest.Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

// textItems 返回块内的每个字符串字面量，一个字面量即一个列表项。
func textItems(block *manifest.Block) []string {
	if block == nil {
		return nil
	}
	var items []string
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			items = append(items, string(stmt.Text.Value))
		}
	}
	return items
}

func hasFlag(args []*manifest.Lexeme, name string) bool {
	for _, arg := range args {
		if arg.Type == "Ident" && arg.Value == name {
			return true
		}
	}
	return false
}

func firstString(args []*manifest.Lexeme) string {
	for _, arg := range args {
		if arg.Type == "String" {
			return arg.Value
		}
	}
	return ""
}

func firstNumber(args []*manifest.Lexeme) int {
	for _, arg := range args {
		if arg.Type == "Number" {
			return int(ParseLength(arg.Value).Value)
		}
	}
	return 0
}

// lengthArgs 返回全部数值参数（换算为 mm），用于表格列宽等。
func lengthArgs(args []*manifest.Lexeme) []float64 {
	var out []float64
	for _, arg := range args {
		if arg.Type == "Number" {
			out = append(out, ParseLength(arg.Value).ToMM())
		}
	}
	return out
}

func valueToString(val *manifest.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	default:
		return ""
	}
}

func valueToStringSlice(val *manifest.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}

func parseColor(value string) (Color, error) {
	value = strings.TrimPrefix(value, "#")
	switch len(value) {
	case 3:
		r := strings.Repeat(string(value[0]), 2)
		g := strings.Repeat(string(value[1]), 2)
		b := strings.Repeat(string(value[2]), 2)
		return Color{R: mustHex(r), G: mustHex(g), B: mustHex(b)}, nil
	case 6, 8:
		return Color{
			R: mustHex(value[0:2]),
			G: mustHex(value[2:4]),
			B: mustHex(value[4:6]),
		}, nil
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}
