// Package citations rewrites inline citation tags emitted by the report
// composer into numbered, anchored reference links plus a trailing
// References section.
package citations

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/salesintel/market-stream/pkg/grounding"
)

// DefaultMaxReferences caps the visible reference list. It is independent
// of the ledger's source cap: ingestion bounds what is collected, this
// bounds what is rendered.
const DefaultMaxReferences = 15

// citeTag matches <cite source="src-N" /> with loose quoting and an
// optional self-closing slash.
var citeTag = regexp.MustCompile(`<cite\s+source\s*=\s*["']?\s*(src-\d+)\s*["']?\s*/?>`)

// danglingSpace collapses whitespace left behind by removed tags when it
// directly precedes punctuation.
var danglingSpace = regexp.MustCompile(`\s+([.,;:])`)

// Rewriter renders citation tags against a snapshot of the source map.
type Rewriter struct {
	MaxReferences int
	Logger        *slog.Logger
}

func NewRewriter(maxReferences int, logger *slog.Logger) *Rewriter {
	if maxReferences <= 0 {
		maxReferences = DefaultMaxReferences
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{MaxReferences: maxReferences, Logger: logger}
}

// Render replaces every citation tag in report with a numbered anchor link
// and appends a References section. Tags referencing unknown or truncated
// sources are removed and logged; Render never fails. It does not mutate
// the given source map.
func (r *Rewriter) Render(report string, sources map[string]grounding.Source) string {
	ordered := grounding.OrderedIDs(sources)
	if len(ordered) > r.MaxReferences {
		ordered = ordered[:r.MaxReferences]
	}

	index := make(map[string]int, len(ordered))
	for i, id := range ordered {
		index[id] = i + 1
	}

	processed := citeTag.ReplaceAllStringFunc(report, func(tag string) string {
		shortID := citeTag.FindStringSubmatch(tag)[1]
		idx, ok := index[shortID]
		if !ok {
			r.Logger.Warn("invalid citation tag removed", "tag", tag)
			return ""
		}
		return fmt.Sprintf(`[<a href="#ref%d">%d</a>]`, idx, idx)
	})
	processed = danglingSpace.ReplaceAllString(processed, "$1")

	var refs strings.Builder
	refs.WriteString("\n\n## References\n")
	for i, id := range ordered {
		src := sources[id]
		refs.WriteString(fmt.Sprintf(`<p id="ref%d">[%d] <a href="%s">%s</a>`, i+1, i+1, src.URL, src.Title))
		if src.Domain != "" {
			refs.WriteString(fmt.Sprintf(" (%s)", src.Domain))
		}
		refs.WriteString("</p>\n")
	}

	return processed + refs.String()
}
