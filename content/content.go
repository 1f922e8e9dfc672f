// Package content 内置默认的 Slooze 库存分析报告清单。
package content

import (
	"bytes"
	_ "embed"
	"io"
)

//go:embed report.manifest
var reportManifest []byte

// DefaultFilename 是默认的 PDF 输出文件名。
const DefaultFilename = "Slooze_Analysis_Documentation_FPDF.pdf"

// Default 返回内置报告清单的读取器。
func Default() io.Reader {
	return bytes.NewReader(reportManifest)
}
