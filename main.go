package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/slooze/reportgen/content"
	"github.com/slooze/reportgen/layout"
	"github.com/slooze/reportgen/manifest"
	"github.com/slooze/reportgen/renderer"
	canvasrenderer "github.com/slooze/reportgen/renderer/canvas"
)

func main() {
	input := flag.String("in", "", "报告清单文件路径（留空使用内置报告）")
	output := flag.String("out", content.DefaultFilename, "PDF 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到清单的 JSON 数据")
	flag.Parse()

	data := defaultData(time.Now())
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	r, err := canvasrenderer.New()
	if err != nil {
		log.Fatalf("初始化渲染器失败: %v", err)
	}

	pages, err := run(*input, *output, *debug, data, r)
	if err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}

	fmt.Printf("已生成 PDF：%s（%d 页，%s）\n",
		*output, pages, time.Now().Format("2006-01-02 15:04:05"))
}

// defaultData 提供内置清单需要的动态字段，例如封面上的生成月份。
func defaultData(now time.Time) any {
	return map[string]any{
		"generated": map[string]any{
			"month": now.Format("January 2006"),
		},
	}
}

// run 串联解析、布局与渲染。
func run(inputPath, outputPath, debugPath string, data any, r renderer.Renderer) (int, error) {
	if r == nil {
		return 0, fmt.Errorf("renderer 不能为空")
	}

	var source io.Reader
	if inputPath == "" {
		source = content.Default()
	} else {
		file, err := os.Open(inputPath)
		if err != nil {
			return 0, fmt.Errorf("无法打开清单文件 %s: %w", inputPath, err)
		}
		defer file.Close()
		source = file
	}

	doc, err := manifest.Parse(source)
	if err != nil {
		return 0, fmt.Errorf("解析清单失败: %w", err)
	}

	ts, ok := r.(layout.Typesetter)
	if !ok {
		return 0, fmt.Errorf("renderer 未实现排版接口")
	}

	result, err := layout.Build(doc, data, layout.BuildOptions{Typesetter: ts})
	if err != nil {
		return 0, fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return 0, err
		}
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("创建输出目录失败: %w", err)
		}
	}

	pdfBytes, err := r.Render(result)
	if err != nil {
		return 0, fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return 0, fmt.Errorf("写入 PDF 文件失败: %w", err)
	}

	return len(result.Pages), nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if dir := filepath.Dir(debugPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
