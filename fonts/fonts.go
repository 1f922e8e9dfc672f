package fonts

import (
	"fmt"
	"sort"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// 字体逻辑名。布局阶段只记录逻辑名，渲染后端按需加载对应字形数据。
const (
	Body       = "Body"
	BodyBold   = "Body-Bold"
	BodyItalic = "Body-Italic"
	Mono       = "Mono"
)

var registry = map[string][]byte{
	Body:       goregular.TTF,
	BodyBold:   gobold.TTF,
	BodyItalic: goitalic.TTF,
	Mono:       gomono.TTF,
}

// Load 返回逻辑名对应的 TTF 字节数据。
func Load(name string) ([]byte, error) {
	data, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("未注册的字体 %q", name)
	}
	return data, nil
}

// Names 返回全部已注册的字体逻辑名（字典序）。
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
