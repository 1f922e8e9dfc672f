package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/slooze/reportgen/binding"
	"github.com/slooze/reportgen/fonts"
	"github.com/slooze/reportgen/manifest"
)

// 各内容块的固定版式常量（单位：mm）。
const (
	paragraphGap = 6.0

	listIndent = 5.0  // 列表整体左缩进
	bulletCell = 5.0  // 项目符号占位宽度
	numberCell = 10.0 // 编号占位宽度
	listGap    = 2.0

	calloutMinHeight = 25.0
	calloutGap       = 3.0

	tableHeaderRowHeight = 8.0
	tableRowHeight       = 7.0
	tableGap             = 3.0
	cellPadding          = 1.2

	tocRowHeight     = 7.0
	tocIndent        = 10.0
	tocPageColWidth  = 20.0
	codeGap          = 3.0
	colophonBaseline = 30.0 // 结束语距页面底部的高度
)

// titleSpec 返回各级标题的样式、标题后的间距以及是否带强调下划线。
// 标题版式只由级别决定，不受主题影响（主题只换颜色）。
func titleSpec(level int, th Theme) (textStyle, float64, bool) {
	switch level {
	case 1:
		return textStyle{font: fonts.BodyBold, size: pt(16), lineHeight: 12, color: th.Heading}, 5, true
	case 2:
		return textStyle{font: fonts.BodyBold, size: pt(13), lineHeight: 10, color: th.SubHeading}, 2, false
	default:
		return textStyle{font: fonts.BodyBold, size: pt(11), lineHeight: 8, color: th.Ink}, 1, false
	}
}

func (ctx *flowContext) title(text string, level int) error {
	st, after, rule := titleSpec(level, ctx.theme)
	ctx.ensureSpace(st.lineHeight + after)
	tb, err := ctx.composeLine(text, st, ctx.width, "")
	if err != nil {
		return err
	}
	tb.X, tb.Y = ctx.baseX, ctx.cursorY
	page := ctx.page()
	page.texts = append(page.texts, tb)
	ctx.cursorY += st.lineHeight
	if rule {
		page.lines = append(page.lines, Line{
			X1:    ctx.baseX,
			Y1:    ctx.cursorY,
			X2:    ctx.baseX + ctx.width,
			Y2:    ctx.cursorY,
			Color: ctx.theme.Accent,
			Width: 0.5,
		})
	}
	ctx.cursorY += after
	return nil
}

func (ctx *flowContext) paragraph(text string) error {
	tb, err := ctx.composeText(text, bodyStyle(ctx.theme), ctx.width)
	if err != nil {
		return err
	}
	ctx.ensureSpace(tb.Height)
	tb.X, tb.Y = ctx.baseX, ctx.cursorY
	page := ctx.page()
	page.texts = append(page.texts, tb)
	ctx.cursorY += tb.Height + paragraphGap
	return nil
}

func (ctx *flowContext) bulletList(items []string, boldPrefix bool) error {
	markerX := ctx.baseX + listIndent
	for _, item := range items {
		if err := ctx.listItem("•", markerX, bulletCell, item, boldPrefix); err != nil {
			return err
		}
	}
	ctx.cursorY += listGap
	return nil
}

func (ctx *flowContext) numberedList(items []string) error {
	markerX := ctx.baseX + listIndent
	for i, item := range items {
		if err := ctx.listItem(fmt.Sprintf("%d.", i+1), markerX, numberCell, item, false); err != nil {
			return err
		}
	}
	ctx.cursorY += listGap
	return nil
}

// listItem 渲染一个列表项：记号 + （可选的加粗前缀）+ 正文。
// 加粗前缀模式下，项目文本在第一个冒号处分割，冒号前（含冒号）加粗，
// 其余正文紧随其后折行；整个列表项不跨页。
func (ctx *flowContext) listItem(marker string, markerX, markerW float64, item string, boldPrefix bool) error {
	st := bodyStyle(ctx.theme)
	bold := st
	bold.font = fonts.BodyBold

	label := ""
	rest := item
	if boldPrefix {
		if idx := strings.Index(item, ":"); idx >= 0 {
			label = item[:idx+1]
			rest = strings.TrimPrefix(item[idx+1:], " ")
		}
	}

	bodyX := markerX + markerW
	restX := bodyX
	var labelTB TextBox
	if label != "" {
		var err error
		labelTB, err = ctx.composeLine(label, bold, 0, "")
		if err != nil {
			return err
		}
		labelW, err := ctx.typesetter.TextWidth(label+" ", bold.font, bold.size)
		if err != nil {
			return err
		}
		labelTB.Width = labelW
		restX = bodyX + labelW
	}

	body, err := ctx.composeText(rest, st, ctx.baseX+ctx.width-restX)
	if err != nil {
		return err
	}

	ctx.ensureSpace(body.Height)
	page := ctx.page()

	markerTB, err := ctx.composeLine(marker, st, markerW, "")
	if err != nil {
		return err
	}
	markerTB.X, markerTB.Y = markerX, ctx.cursorY
	page.texts = append(page.texts, markerTB)
	if label != "" {
		labelTB.X, labelTB.Y = bodyX, ctx.cursorY
		page.texts = append(page.texts, labelTB)
	}
	body.X, body.Y = restX, ctx.cursorY
	page.texts = append(page.texts, body)
	ctx.cursorY += body.Height
	return nil
}

// callout 渲染左侧带强调竖线的标注框；高度随正文折行结果增长，
// 最小 25mm。标注框整体不跨页。
func (ctx *flowContext) callout(title, body string) error {
	titleSt := textStyle{font: fonts.BodyBold, size: pt(10), lineHeight: 6, color: ctx.theme.Accent}
	bodySt := textStyle{font: fonts.Body, size: pt(10), lineHeight: 5, color: ctx.theme.Ink}

	bodyTB, err := ctx.composeText(body, bodySt, ctx.width-10)
	if err != nil {
		return err
	}

	height := 10 + bodyTB.Height + 3
	if height < calloutMinHeight {
		height = calloutMinHeight
	}
	ctx.ensureSpace(height + calloutGap)

	page := ctx.page()
	y := ctx.cursorY
	fill := ctx.theme.PanelFill
	page.rects = append(page.rects, Rect{
		X: ctx.baseX + 2, Y: y,
		Width: ctx.width - 2, Height: height,
		FillColor: &fill,
	})
	page.lines = append(page.lines, Line{
		X1: ctx.baseX, Y1: y,
		X2: ctx.baseX, Y2: y + height,
		Color: ctx.theme.Accent,
		Width: 1,
	})

	titleTB, err := ctx.composeLine(title, titleSt, ctx.width-10, "")
	if err != nil {
		return err
	}
	titleTB.X, titleTB.Y = ctx.baseX+5, y+3
	page.texts = append(page.texts, titleTB)

	bodyTB.X, bodyTB.Y = ctx.baseX+5, y+10
	page.texts = append(page.texts, bodyTB)

	ctx.cursorY = y + height + calloutGap
	return nil
}

// info 渲染带小标题的信息组：次级标题加一组加粗前缀列表项。
func (ctx *flowContext) info(title string, items []string) error {
	st := textStyle{font: fonts.BodyBold, size: pt(11), lineHeight: 8, color: ctx.theme.SubHeading}
	ctx.ensureSpace(st.lineHeight)
	tb, err := ctx.composeLine(title, st, ctx.width, "")
	if err != nil {
		return err
	}
	tb.X, tb.Y = ctx.baseX, ctx.cursorY
	page := ctx.page()
	page.texts = append(page.texts, tb)
	ctx.cursorY += st.lineHeight
	return ctx.bulletList(items, true)
}

// tableLayout 跟踪跨页时的表格分段：每一段是一个独立的 TableBox，
// 换页后由调用方重新发出表头行。
type tableLayout struct {
	ctx    *flowContext
	widths []float64
	header []string
	box    *TableBox
}

func (t *tableLayout) start() {
	total := 0.0
	for _, w := range t.widths {
		total += w
	}
	t.box = &TableBox{
		X:            t.ctx.baseX,
		Y:            t.ctx.cursorY,
		Width:        total,
		ColumnWidths: t.widths,
		BorderColor:  t.ctx.theme.TableBorder,
		HeaderFill:   t.ctx.theme.TableHeaderFill,
	}
}

func (t *tableLayout) flush() {
	if t.box != nil && len(t.box.Rows) > 0 {
		page := t.ctx.page()
		page.tables = append(page.tables, *t.box)
	}
	t.box = nil
}

// row 追加一行；行不跨页，放不下时整行移到下一页并重复表头。
func (t *tableLayout) row(cells []string, isHeader bool) error {
	h := tableRowHeight
	st := textStyle{font: fonts.Body, size: pt(9), lineHeight: 5, color: t.ctx.theme.Ink}
	if isHeader {
		h = tableHeaderRowHeight
		st.font = fonts.BodyBold
	}

	if t.ctx.cursorY+h > t.ctx.collector.contentBottom() {
		t.flush()
		t.ctx.pageBreak()
		t.start()
		if !isHeader && len(t.header) > 0 {
			if err := t.row(t.header, true); err != nil {
				return err
			}
		}
	}
	if t.box == nil {
		t.start()
	}

	row := TableRow{Y: t.ctx.cursorY, Height: h, IsHeader: isHeader}
	x := t.box.X
	for i, cell := range cells {
		w := t.widths[min(i, len(t.widths)-1)]
		tb, err := t.ctx.composeLine(cell, st, w-2*cellPadding, "")
		if err != nil {
			return err
		}
		tb.X = x + cellPadding
		tb.Y = t.ctx.cursorY + (h-st.lineHeight)/2
		row.Cells = append(row.Cells, TableCell{Text: tb})
		x += w
	}
	t.box.Rows = append(t.box.Rows, row)
	t.ctx.cursorY += h
	return nil
}

func (ctx *flowContext) table(cmd *manifest.Command) error {
	if cmd.Block == nil {
		return fmt.Errorf("table 语句缺少内容")
	}
	var header []string
	var rows [][]string
	for _, stmt := range cmd.Block.Statements {
		if stmt.Command == nil {
			continue
		}
		switch stmt.Command.Name {
		case "header":
			header = rowCells(stmt.Command)
		case "row":
			rows = append(rows, rowCells(stmt.Command))
		}
	}
	if len(header) == 0 {
		return fmt.Errorf("table 需要 header 行 (%s)", cmd.Pos)
	}

	widths := lengthArgs(cmd.Args)
	if len(widths) == 0 {
		// 未指定列宽时等分内容宽度
		w := ctx.width / float64(len(header))
		widths = make([]float64, len(header))
		for i := range widths {
			widths[i] = w
		}
	}

	tl := &tableLayout{ctx: ctx, widths: widths, header: header}
	tl.start()
	if err := tl.row(header, true); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tl.row(r, false); err != nil {
			return err
		}
	}
	tl.flush()
	ctx.cursorY += tableGap
	return nil
}

func rowCells(cmd *manifest.Command) []string {
	if cmd.Block == nil {
		return nil
	}
	var cells []string
	for _, stmt := range cmd.Block.Statements {
		if stmt.Text != nil {
			cells = append(cells, string(stmt.Text.Value))
		}
	}
	return cells
}

// toc 渲染目录：左侧条目（顶级加粗，子级缩进），右侧页码右对齐。
func (ctx *flowContext) toc(block *manifest.Block) error {
	if block == nil {
		return fmt.Errorf("toc 语句缺少条目")
	}
	for _, stmt := range block.Statements {
		if stmt.Command == nil || stmt.Command.Name != "entry" {
			continue
		}
		pageNo := firstNumber(stmt.Command.Args)
		label := extractText(stmt.Command.Block)

		st := textStyle{font: fonts.BodyBold, size: pt(11), lineHeight: tocRowHeight, color: ctx.theme.Ink}
		x := ctx.baseX
		if hasFlag(stmt.Command.Args, "indent") {
			st.font = fonts.Body
			st.size = pt(10)
			x += tocIndent
		}

		ctx.ensureSpace(tocRowHeight)
		page := ctx.page()

		tb, err := ctx.composeLine(label, st, ctx.baseX+ctx.width-tocPageColWidth-x, "")
		if err != nil {
			return err
		}
		tb.X, tb.Y = x, ctx.cursorY
		page.texts = append(page.texts, tb)

		num, err := ctx.composeLine(strconv.Itoa(pageNo), st, tocPageColWidth, "right")
		if err != nil {
			return err
		}
		num.X = ctx.baseX + ctx.width - tocPageColWidth
		num.Y = ctx.cursorY
		page.texts = append(page.texts, num)

		ctx.cursorY += tocRowHeight
	}
	return nil
}

// code 渲染等宽字体代码块，背景铺浅色底。
func (ctx *flowContext) code(text string) error {
	st := textStyle{font: fonts.Mono, size: pt(9), lineHeight: 6, color: ctx.theme.Ink}
	tb, err := ctx.composeText(text, st, ctx.width)
	if err != nil {
		return err
	}
	ctx.ensureSpace(tb.Height + codeGap)
	page := ctx.page()
	fill := ctx.theme.CodeFill
	page.rects = append(page.rects, Rect{
		X: ctx.baseX, Y: ctx.cursorY,
		Width: ctx.width, Height: tb.Height,
		FillColor: &fill,
	})
	tb.X, tb.Y = ctx.baseX, ctx.cursorY
	page.texts = append(page.texts, tb)
	ctx.cursorY += tb.Height + codeGap
	return nil
}

// colophon 将结束语固定在页面底部，不参与游标流动。
func (ctx *flowContext) colophon(text string) error {
	st := textStyle{font: fonts.BodyItalic, size: pt(10), lineHeight: 10, color: ctx.theme.FooterText}
	tb, err := ctx.composeLine(text, st, ctx.width, "center")
	if err != nil {
		return err
	}
	tb.X = ctx.baseX
	tb.Y = ctx.collector.height - colophonBaseline
	page := ctx.page()
	page.texts = append(page.texts, tb)
	return nil
}

// 封面各区块的固定版式（mm）。
const (
	coverBadgeX       = 65.0
	coverBadgeY       = 60.0
	coverBadgeWidth   = 80.0
	coverBadgeHeight  = 10.0
	coverTitleY       = 100.0
	coverTitleCell    = 15.0
	coverSubtitleY    = 145.0
	coverSubtitleCell = 10.0
	coverRuleY        = 175.0
	coverNoteY        = 200.0
	coverNoteCell     = 8.0
	coverBarHeight    = 8.0
)

// buildCover 渲染无页眉页脚的封面页：整页底色、底部强调条、徽标、
// 居中的标题/副标题/分隔线/备注，全部按固定坐标绝对定位。
func (ctx *flowContext) buildCover(block *manifest.Block) error {
	if block == nil {
		return fmt.Errorf("cover 段落缺少内容")
	}
	ctx.collector.startPage(false)
	ctx.reset()
	page := ctx.page()

	bg := ctx.theme.CoverBackground
	accent := ctx.theme.Accent
	page.rects = append(page.rects,
		Rect{X: 0, Y: 0, Width: ctx.collector.width, Height: ctx.collector.height, FillColor: &bg},
		Rect{X: 0, Y: ctx.collector.height - coverBarHeight, Width: ctx.collector.width, Height: coverBarHeight, FillColor: &accent},
	)

	titleY := coverTitleY
	subtitleY := coverSubtitleY
	noteY := coverNoteY

	for _, stmt := range block.Statements {
		if stmt.Command == nil {
			continue
		}
		text := extractText(stmt.Command.Block)
		switch stmt.Command.Name {
		case "badge":
			page.rects = append(page.rects, Rect{
				X: coverBadgeX, Y: coverBadgeY,
				Width: coverBadgeWidth, Height: coverBadgeHeight,
				FillColor: &accent,
			})
			tb, err := ctx.composeLine(text, textStyle{font: fonts.BodyBold, size: pt(10), lineHeight: 6, color: ctx.theme.White}, coverBadgeWidth, "center")
			if err != nil {
				return err
			}
			tb.X, tb.Y = coverBadgeX, coverBadgeY+2
			page.texts = append(page.texts, tb)
		case "title":
			tb, err := ctx.composeLine(text, textStyle{font: fonts.BodyBold, size: pt(28), lineHeight: coverTitleCell, color: ctx.theme.White}, ctx.width, "center")
			if err != nil {
				return err
			}
			tb.X, tb.Y = ctx.baseX, titleY
			page.texts = append(page.texts, tb)
			titleY += coverTitleCell
		case "subtitle":
			tb, err := ctx.composeLine(text, textStyle{font: fonts.Body, size: pt(14), lineHeight: coverSubtitleCell, color: ctx.theme.CoverMuted}, ctx.width, "center")
			if err != nil {
				return err
			}
			tb.X, tb.Y = ctx.baseX, subtitleY
			page.texts = append(page.texts, tb)
			subtitleY += coverSubtitleCell
		case "rule":
			page.lines = append(page.lines, Line{
				X1: 85, Y1: coverRuleY,
				X2: 125, Y2: coverRuleY,
				Color: accent,
				Width: 1,
			})
		case "note":
			tb, err := ctx.composeLine(text, textStyle{font: fonts.Body, size: pt(11), lineHeight: coverNoteCell, color: ctx.theme.CoverFaint}, ctx.width, "center")
			if err != nil {
				return err
			}
			tb.X, tb.Y = ctx.baseX, noteY
			page.texts = append(page.texts, tb)
			noteY += coverNoteCell
		}
	}
	return nil
}

// applyChrome 在布局完成后为每个 chrome 页补上页眉与页脚；
// 页脚模板中的 ${page} 以该页页码插值，因此必须逐页生成。
func applyChrome(pc *pageCollector, chrome chromeSpec, theme Theme, ts Typesetter) error {
	contentW := pc.width - pc.margin.Left - pc.margin.Right
	for _, st := range pc.states {
		if !st.chrome {
			continue
		}
		if chrome.header != "" {
			w, err := ts.TextWidth(chrome.header, fonts.BodyBold, pt(9))
			if err != nil {
				return err
			}
			st.header = HeaderFooter{
				Height: headerBandHeight,
				Texts: []TextBox{{
					Content:    chrome.header,
					X:          pc.margin.Left,
					Y:          10,
					Width:      contentW,
					LineHeight: 8,
					Font:       fonts.BodyBold,
					FontSize:   pt(9),
					Color:      theme.HeaderText,
					Lines:      []TextLine{{Content: chrome.header, Width: w, Height: 8}},
					Height:     8,
					Align:      "center",
				}},
				Lines: []Line{{
					X1: pc.margin.Left, Y1: 20,
					X2: pc.width - pc.margin.Right, Y2: 20,
					Color: theme.RuleLight,
					Width: 0.2,
				}},
			}
		}
		if chrome.footer != "" {
			text := binding.Interpolate(chrome.footer, map[string]any{"page": st.number})
			w, err := ts.TextWidth(text, fonts.BodyItalic, pt(8))
			if err != nil {
				return err
			}
			st.footer = HeaderFooter{
				Height: footerBandHeight,
				Texts: []TextBox{{
					Content:    text,
					X:          pc.margin.Left,
					Y:          pc.height - 15,
					Width:      contentW,
					LineHeight: 10,
					Font:       fonts.BodyItalic,
					FontSize:   pt(8),
					Color:      theme.FooterText,
					Lines:      []TextLine{{Content: text, Width: w, Height: 10}},
					Height:     10,
					Align:      "center",
				}},
			}
		}
	}
	return nil
}
