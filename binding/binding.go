package binding

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Package binding 提供 ${path} 占位符插值：path 以点号分段，
// 依次在 map、切片或结构体中下钻。

var placeholderPattern = regexp.MustCompile(`\$\{([^}]*)\}`)

// Interpolate 替换文本中的全部 ${path} 占位符；无法解析的占位符原样保留。
func Interpolate(content string, data any) string {
	if data == nil || !strings.Contains(content, "${") {
		return content
	}
	return placeholderPattern.ReplaceAllStringFunc(content, func(m string) string {
		path := strings.TrimSpace(m[2 : len(m)-1])
		val, ok := Resolve(data, path)
		if !ok {
			return m
		}
		return toString(val)
	})
}

// Resolve 按点号路径查找值。支持 map（字符串键）、切片/数组（数字段）
// 与结构体导出字段。
func Resolve(data any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := data
	for _, seg := range strings.Split(path, ".") {
		next, ok := descend(current, seg)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func descend(current any, seg string) (any, bool) {
	if m, ok := current.(map[string]any); ok {
		val, ok := m[seg]
		return val, ok
	}

	rv := reflect.ValueOf(current)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(seg))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	case reflect.Struct:
		fv := rv.FieldByName(seg)
		if !fv.IsValid() || !fv.CanInterface() {
			return nil, false
		}
		return fv.Interface(), true
	default:
		return nil, false
	}
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}
