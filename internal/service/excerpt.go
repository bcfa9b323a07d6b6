package service

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	bodySanitizer = bluemonday.UGCPolicy()
	textSanitizer = bluemonday.StrictPolicy()
)

const defaultExcerptLimit = 160

// sanitizeBody 过滤正文中不允许的 HTML 片段，正文以 Markdown 存储，
// 但来稿接口允许内嵌 HTML，入库前统一走 UGC 白名单。
func sanitizeBody(body string) string {
	return bodySanitizer.Sanitize(body)
}

// deriveExcerpt 从 Markdown 正文渲染并剥离标签，取前 limit 个字符作为摘要。
func deriveExcerpt(body string, limit int) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return ""
	}
	if limit <= 0 {
		limit = defaultExcerptLimit
	}

	var rendered bytes.Buffer
	if err := markdownEngine.Convert([]byte(trimmed), &rendered); err != nil {
		// 渲染失败时直接降级为原始文本
		rendered.Reset()
		rendered.WriteString(trimmed)
	}

	plain := textSanitizer.Sanitize(rendered.String())
	plain = strings.Join(strings.Fields(plain), " ")

	runes := []rune(plain)
	if len(runes) <= limit {
		return plain
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
