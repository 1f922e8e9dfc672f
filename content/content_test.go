package content_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/slooze/reportgen/content"
	"github.com/slooze/reportgen/layout"
	"github.com/slooze/reportgen/manifest"
	canvasrenderer "github.com/slooze/reportgen/renderer/canvas"
)

func buildDefault(t *testing.T) (*layout.Result, *canvasrenderer.Renderer) {
	t.Helper()
	r, err := canvasrenderer.New()
	if err != nil {
		t.Fatalf("初始化渲染器失败: %v", err)
	}
	doc, err := manifest.Parse(content.Default())
	if err != nil {
		t.Fatalf("解析内置清单失败: %v", err)
	}
	data := map[string]any{
		"generated": map[string]any{"month": "February 2026"},
	}
	res, err := layout.Build(doc, data, layout.BuildOptions{Typesetter: r})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	return res, r
}

func TestDefaultManifestBuilds(t *testing.T) {
	res, _ := buildDefault(t)

	// 封面 + 目录 + 9 个章节，自动分页只会增加页数
	if len(res.Pages) < 11 {
		t.Fatalf("期望至少 11 页，实际 %d", len(res.Pages))
	}

	cover := res.Pages[0]
	if cover.Chrome {
		t.Fatalf("封面不应带页眉页脚")
	}
	var sawTitle, sawMonth bool
	for _, tb := range cover.Texts {
		switch tb.Content {
		case "Inventory Optimization &":
			sawTitle = true
		case "February 2026":
			sawMonth = true
		}
	}
	if !sawTitle || !sawMonth {
		t.Fatalf("封面缺少标题或生成月份 (title=%v month=%v)", sawTitle, sawMonth)
	}

	for i, page := range res.Pages[1:] {
		if !page.Chrome {
			t.Fatalf("第 %d 页应带页眉页脚", i+2)
		}
		if len(page.Header.Texts) == 0 ||
			page.Header.Texts[0].Content != "Slooze Data Science Challenge - Technical Documentation" {
			t.Fatalf("第 %d 页页眉缺失", i+2)
		}
		if len(page.Footer.Texts) == 0 || !strings.HasPrefix(page.Footer.Texts[0].Content, "Page ") {
			t.Fatalf("第 %d 页页脚缺失", i+2)
		}
	}
}

func TestDefaultManifestMeta(t *testing.T) {
	res, _ := buildDefault(t)
	if res.Meta.Title != "Slooze Analysis Documentation" {
		t.Fatalf("标题不符: %q", res.Meta.Title)
	}
	if res.Meta.Author != "Data Science Team" {
		t.Fatalf("作者不符: %q", res.Meta.Author)
	}
	if len(res.Meta.Keywords) != 4 {
		t.Fatalf("关键词不符: %v", res.Meta.Keywords)
	}
}

func TestDefaultManifestContent(t *testing.T) {
	res, _ := buildDefault(t)

	var headings []string
	tables := 0
	for _, page := range res.Pages {
		for _, tb := range page.Texts {
			if strings.HasPrefix(tb.Content, "1. ") || strings.HasPrefix(tb.Content, "9. ") {
				headings = append(headings, tb.Content)
			}
			if strings.Contains(tb.Content, "${") {
				t.Fatalf("存在未插值占位符: %q", tb.Content)
			}
		}
		tables += len(page.Tables)
	}
	var sawFirst, sawLast bool
	for _, h := range headings {
		if h == "1. Executive Summary" {
			sawFirst = true
		}
		if h == "9. Conclusion" {
			sawLast = true
		}
	}
	if !sawFirst || !sawLast {
		t.Fatalf("缺少首尾章节标题: %v", headings)
	}
	// 原报告共 11 个表格（跨页分段只会更多）
	if tables < 11 {
		t.Fatalf("表格数量不足: %d", tables)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	// 相同输入的两次布局必须完全一致（时间戳只能来自注入数据）
	first, _ := buildDefault(t)
	second, _ := buildDefault(t)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("相同输入的两次布局结果不一致")
	}
}

func TestRenderDefaultManifest(t *testing.T) {
	res, r := buildDefault(t)
	out, err := r.Render(res)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
}
