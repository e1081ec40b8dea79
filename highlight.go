package opine

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Highlight maps mentions back onto the original review content, wrapping
// each mention's span in a sentiment-classed <span>. Mentions with
// unresolved, out-of-range or overlapping offsets are skipped and logged;
// they must never be rendered.
func Highlight(content string, mentions []Mention, log *zap.Logger) string {
	if log == nil {
		log = zap.NewNop()
	}
	sorted := make([]Mention, len(mentions))
	copy(sorted, mentions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartChar < sorted[j].StartChar
	})

	var b strings.Builder
	last := 0
	for _, m := range sorted {
		if m.StartChar < 0 || m.EndChar <= m.StartChar || m.EndChar > len(content) {
			log.Warn("invalid mention offsets, skipping highlight",
				zap.Int("start", m.StartChar), zap.Int("end", m.EndChar),
				zap.Int("content_len", len(content)), zap.String("keyword", m.KeywordFound))
			continue
		}
		if m.StartChar < last {
			log.Warn("overlapping mention offsets, skipping highlight",
				zap.Int("start", m.StartChar), zap.String("keyword", m.KeywordFound))
			continue
		}
		b.WriteString(html.EscapeString(content[last:m.StartChar]))
		class := "highlight-" + strings.ToLower(string(m.Label))
		fmt.Fprintf(&b, `<span class=%q>%s</span>`, class, html.EscapeString(content[m.StartChar:m.EndChar]))
		last = m.EndChar
	}
	b.WriteString(html.EscapeString(content[last:]))
	return b.String()
}
