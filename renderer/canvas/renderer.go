package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/slooze/reportgen/fonts"
	"github.com/slooze/reportgen/layout"
	"github.com/slooze/reportgen/renderer"
)

// hairline 为表格边框与默认线宽（mm）。
const hairline = 0.2

// Renderer 基于 github.com/tdewolff/canvas 绘制布局结果。
// 同时实现 layout.Typesetter：布局阶段用同一套字体度量折行，
// 保证折行结果与最终绘制一致。
type Renderer struct {
	mu       sync.Mutex
	families map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// New 创建渲染器并预加载全部内置字体，字体数据损坏时在启动阶段即失败。
func New() (*Renderer, error) {
	r := &Renderer{families: map[string]*canvas.FontFamily{}}
	for _, name := range fonts.Names() {
		if _, err := r.family(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Renderer) family(name string) (*canvas.FontFamily, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fam, ok := r.families[name]; ok {
		return fam, nil
	}
	data, err := fonts.Load(name)
	if err != nil {
		return nil, err
	}
	fam := canvas.NewFontFamily(name)
	if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	r.families[name] = fam
	return fam, nil
}

// fontFace 按逻辑名创建字体面；sizePt 为点值。
func (r *Renderer) fontFace(name string, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	fam, err := r.family(name)
	if err != nil {
		return nil, err
	}
	return fam.Face(sizePt, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

// Render 将布局结果渲染为 PDF 字节切片。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	keywords := strings.Join(result.Meta.Keywords, ", ")
	writer.SetInfo(result.Meta.Title, result.Meta.Subject, keywords, result.Meta.Author, result.Meta.Creator)

	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 与布局一致：左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	// 背景形状先于文本绘制
	r.drawRects(ctx, page.Rects)
	r.drawLines(ctx, page.Lines)
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	if err := r.drawTables(ctx, page.Tables); err != nil {
		return err
	}

	if !page.Chrome {
		return nil
	}
	r.drawLines(ctx, page.Header.Lines)
	for _, tb := range page.Header.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	r.drawLines(ctx, page.Footer.Lines)
	for _, tb := range page.Footer.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	// TextBox 的坐标/字号/行高均为 mm；创建字体面需要 pt，这里做一次换算。
	face, err := r.fontFace(tb.Font, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	metrics := face.Metrics()
	cursorY := tb.Y
	for _, line := range lines {
		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.LineHeight
		}
		if line.Content != "" {
			// 基线位置：行顶加字体上升部
			baseline := cursorY + metrics.Ascent
			ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line.Content, textAlign))
		}
		cursorY += lineHeight
	}
	return nil
}

func (r *Renderer) drawTables(ctx *canvas.Context, tables []layout.TableBox) error {
	for _, table := range tables {
		if len(table.ColumnWidths) == 0 {
			continue
		}
		for _, row := range table.Rows {
			x := table.X
			for i, cell := range row.Cells {
				colWidth := table.ColumnWidths[min(i, len(table.ColumnWidths)-1)]
				var fill color.Color = canvas.White
				if row.IsHeader {
					fill = colorFromLayout(table.HeaderFill)
				}
				ctx.SetFillColor(fill)
				ctx.SetStrokeColor(colorFromLayout(table.BorderColor))
				ctx.SetStrokeWidth(hairline)
				ctx.DrawPath(x, row.Y, canvas.Rectangle(colWidth, row.Height))

				if err := r.drawTextBox(ctx, cell.Text); err != nil {
					return err
				}
				x += colWidth
			}
		}
	}
	return nil
}

func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = hairline
		}
		ctx.SetFillColor(color.RGBA{})
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		if rc.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*rc.FillColor))
		} else {
			ctx.SetFillColor(color.RGBA{})
		}
		if rc.StrokeWidth > 0 {
			ctx.SetStrokeColor(colorFromLayout(rc.StrokeColor))
			ctx.SetStrokeWidth(rc.StrokeWidth)
		} else {
			// 只填充不描边
			ctx.SetStrokeColor(color.RGBA{})
			ctx.SetStrokeWidth(0)
		}
		ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
	}
}

// LayoutLines 实现 layout.Typesetter，贪心换行：优先在空白处分割，
// 单个词超宽时在词内拆分。宽度与字号入参均为 mm。
func (r *Renderer) LayoutLines(content string, width float64, font string, fontSize float64) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Color{})
	if err != nil {
		return nil, err
	}
	lines := greedyWrap(content, width, face)
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: ""}}
	}
	return lines, nil
}

// TextWidth 返回单行文本的排版宽度（mm）。
func (r *Renderer) TextWidth(content string, font string, fontSize float64) (float64, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Color{})
	if err != nil {
		return 0, err
	}
	return face.TextWidth(content), nil
}

func greedyWrap(content string, width float64, face *canvas.FontFace) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	tokens := tokenize(content)
	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{Content: ""})
			}
			return
		}
		lines = append(lines, layout.TextLine{
			Content: strings.TrimRight(builder.String(), " \t"),
			Width:   currentWidth,
		})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		if builder.Len() == 0 && strings.TrimSpace(token) == "" {
			return // 行首不保留空白
		}
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}
		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			continue
		}
		for _, chunk := range splitByWidth(token, limit, face) {
			if currentWidth > 0 && currentWidth+face.TextWidth(chunk) > limit {
				emit(false)
			}
			appendToken(chunk)
		}
	}
	emit(false)
	return lines
}

// tokenize 将文本切成交替的空白/非空白片段，显式换行单独成片。
func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// splitByWidth 将超宽的单个词按宽度限制切块。
func splitByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米转换为点。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
