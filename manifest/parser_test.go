package manifest_test

import (
	"strings"
	"testing"

	"github.com/slooze/reportgen/manifest"
)

const sampleManifest = `
report "Quarterly Review" v1 {
  meta {
    title: "Quarterly Review"
    author: "Ops Team"
    keywords: [
      "inventory"
      "internal"
    ]
  }

  theme {
    color accent #e94560
  }

  chrome {
    header: "Quarterly Review - Technical Documentation"
    footer: "Page ${page}"
  }

  cover {
    badge { "REVIEW" }
    title { "Quarterly Review" }
    rule
    note { "${generated.month}" }
  }

  page {
    h1 { "1. Overview" }
    para { "Revenue grew in Q1." }
    bullets bold-prefix {
      "Growth: 12% quarter over quarter"
      "No prefix item"
    }
    table 40 60 {
      header { "Metric" "Value" }
      row { "Revenue" "$33.1M" }
    }
    toc {
      entry 3 { "1. Overview" }
      entry 4 indent { "1.1 Details" }
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := manifest.ParseString(sampleManifest)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Quarterly Review" {
		t.Fatalf("expected document name Quarterly Review, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(doc.Sections))
	}

	meta := doc.Sections[0].Meta
	if meta == nil {
		t.Fatalf("meta section missing, got %s", doc.Sections[0].Kind())
	}
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	if got := string(*title.Value.String); got != "Quarterly Review" {
		t.Fatalf("expected title Quarterly Review, got %s", got)
	}
	keywords := meta.Block.Statements[2].Assignment
	if keywords == nil || keywords.Value.Array == nil {
		t.Fatalf("expected keywords array, got %+v", meta.Block.Statements[2])
	}
	if n := len(keywords.Value.Array.Values); n != 2 {
		t.Fatalf("expected 2 keywords, got %d", n)
	}
}

func TestParseThemeColorArgs(t *testing.T) {
	doc, err := manifest.ParseString(sampleManifest)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	theme := doc.Sections[1].Theme
	if theme == nil {
		t.Fatalf("theme section missing")
	}
	cmd := theme.Block.Statements[0].Command
	if cmd == nil || cmd.Name != "color" {
		t.Fatalf("expected color command, got %+v", theme.Block.Statements[0])
	}
	if len(cmd.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(cmd.Args))
	}
	if cmd.Args[0].Type != "Ident" || cmd.Args[0].Value != "accent" {
		t.Fatalf("expected ident arg accent, got %+v", cmd.Args[0])
	}
	if cmd.Args[1].Type != "Color" || cmd.Args[1].Value != "#e94560" {
		t.Fatalf("expected color arg #e94560, got %+v", cmd.Args[1])
	}
}

func TestParseCommandVariants(t *testing.T) {
	doc, err := manifest.ParseString(sampleManifest)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	cover := doc.Sections[3].Cover
	if cover == nil {
		t.Fatalf("cover section missing")
	}
	// rule 命令无参数也无块
	var sawRule bool
	for _, stmt := range cover.Block.Statements {
		if stmt.Command != nil && stmt.Command.Name == "rule" {
			sawRule = true
			if stmt.Command.Block != nil {
				t.Fatalf("rule should have no block, got %+v", stmt.Command.Block)
			}
		}
	}
	if !sawRule {
		t.Fatalf("rule command missing from cover")
	}

	page := doc.Sections[4].Page
	if page == nil {
		t.Fatalf("page section missing")
	}

	bullets := page.Block.Statements[2].Command
	if bullets == nil || bullets.Name != "bullets" {
		t.Fatalf("expected bullets command, got %+v", page.Block.Statements[2])
	}
	if len(bullets.Args) != 1 || bullets.Args[0].Value != "bold-prefix" {
		t.Fatalf("expected bold-prefix flag, got %+v", bullets.Args)
	}
	if n := len(bullets.Block.Statements); n != 2 {
		t.Fatalf("expected 2 bullet items, got %d", n)
	}
	if bullets.Block.Statements[0].Text == nil {
		t.Fatalf("bullet item should be a text literal")
	}

	table := page.Block.Statements[3].Command
	if table == nil || table.Name != "table" {
		t.Fatalf("expected table command, got %+v", page.Block.Statements[3])
	}
	if len(table.Args) != 2 || table.Args[0].Type != "Number" {
		t.Fatalf("expected numeric column widths, got %+v", table.Args)
	}
	// 同一行内的多个字符串解析为多个语句（即表格单元格）
	header := table.Block.Statements[0].Command
	if header == nil || header.Name != "header" {
		t.Fatalf("expected header row, got %+v", table.Block.Statements[0])
	}
	if n := len(header.Block.Statements); n != 2 {
		t.Fatalf("expected 2 header cells, got %d", n)
	}

	toc := page.Block.Statements[4].Command
	if toc == nil || toc.Name != "toc" {
		t.Fatalf("expected toc command, got %+v", page.Block.Statements[4])
	}
	indented := toc.Block.Statements[1].Command
	if indented == nil || len(indented.Args) != 2 {
		t.Fatalf("expected entry with page number and indent flag, got %+v", indented)
	}
	if indented.Args[0].Type != "Number" || indented.Args[0].Value != "4" {
		t.Fatalf("expected page number 4, got %+v", indented.Args[0])
	}
	if indented.Args[1].Value != "indent" {
		t.Fatalf("expected indent flag, got %+v", indented.Args[1])
	}
}

func TestParseStringEscapes(t *testing.T) {
	doc, err := manifest.ParseString(`report "R" v1 { page { para { "uses \"quoted\" words" } } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	para := doc.Sections[0].Page.Block.Statements[0].Command
	text := para.Block.Statements[0].Text
	if text == nil {
		t.Fatalf("text literal missing")
	}
	if got := string(text.Value); got != `uses "quoted" words` {
		t.Fatalf("unexpected unquoted value: %q", got)
	}
}

func TestParseComments(t *testing.T) {
	input := `
// 行注释
report "R" v1 {
  /* 块注释 */
  page {
    h1 { "Title" } // 行尾注释
  }
}
`
	if _, err := manifest.Parse(strings.NewReader(input)); err != nil {
		t.Fatalf("parse with comments failed: %v", err)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := manifest.ParseString(`report "R" v1 { page {`); err == nil {
		t.Fatalf("expected error for unterminated block")
	}
	if _, err := manifest.ParseString(`page { }`); err == nil {
		t.Fatalf("expected error for missing report declaration")
	}
}
