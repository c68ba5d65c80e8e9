package citations

import (
	"fmt"
	"strings"
	"testing"

	"github.com/salesintel/market-stream/pkg/grounding"
)

func sampleSources(n int) map[string]grounding.Source {
	out := make(map[string]grounding.Source, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("src-%d", i)
		out[id] = grounding.Source{
			ShortID: id,
			Title:   fmt.Sprintf("Source %d", i),
			URL:     fmt.Sprintf("https://example.com/%d", i),
			Domain:  "example.com",
		}
	}
	return out
}

func TestRenderReplacesKnownTags(t *testing.T) {
	r := NewRewriter(0, nil)
	report := `Acme raised a Series B<cite source="src-2" /> and hired a CRO<cite source="src-1" />.`

	got := r.Render(report, sampleSources(2))

	if !strings.Contains(got, `[<a href="#ref2">2</a>]`) {
		t.Errorf("missing link for src-2:\n%s", got)
	}
	if !strings.Contains(got, `[<a href="#ref1">1</a>]`) {
		t.Errorf("missing link for src-1:\n%s", got)
	}
	if !strings.Contains(got, `<p id="ref1">[1] <a href="https://example.com/1">Source 1</a> (example.com)</p>`) {
		t.Errorf("missing reference entry:\n%s", got)
	}
	if strings.Contains(got, "<cite") {
		t.Errorf("cite tag left in output:\n%s", got)
	}
}

func TestRenderTagSyntaxVariants(t *testing.T) {
	r := NewRewriter(0, nil)
	sources := sampleSources(1)

	tests := []struct {
		name   string
		report string
	}{
		{"double quotes self closing", `fact<cite source="src-1" />.`},
		{"single quotes", `fact<cite source='src-1' />.`},
		{"no quotes", `fact<cite source=src-1 />.`},
		{"no slash", `fact<cite source="src-1" >.`},
		{"padded", `fact<cite  source = " src-1 " />.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(tt.report, sources)
			if !strings.Contains(got, `fact[<a href="#ref1">1</a>].`) {
				t.Errorf("tag not rewritten: %q ->\n%s", tt.report, got)
			}
		})
	}
}

func TestRenderRemovesUnknownTagAndCleansWhitespace(t *testing.T) {
	r := NewRewriter(0, nil)
	report := "Revenue grew 10% <cite source=\"src-3\" />."

	got := r.Render(report, sampleSources(2))

	if strings.Contains(got, "src-3") && !strings.Contains(got, "ref") {
		t.Errorf("unknown tag survived:\n%s", got)
	}
	if !strings.Contains(got, "Revenue grew 10%.") {
		t.Errorf("whitespace before period not collapsed:\n%s", got)
	}
	if strings.Contains(got, "[3]") {
		t.Errorf("phantom reference index emitted:\n%s", got)
	}
}

func TestRenderTruncatesToMaxReferences(t *testing.T) {
	r := NewRewriter(2, nil)
	sources := sampleSources(5)
	report := `kept<cite source="src-1" /> dropped<cite source="src-5" />.`

	got := r.Render(report, sources)

	if !strings.Contains(got, `[<a href="#ref1">1</a>]`) {
		t.Errorf("surviving source not linked:\n%s", got)
	}
	if strings.Contains(got, "#ref5") || strings.Contains(got, "Source 5") {
		t.Errorf("truncated source leaked into output:\n%s", got)
	}
	if strings.Count(got, "<p id=") != 2 {
		t.Errorf("reference list not truncated:\n%s", got)
	}
}

func TestRenderIndexMatchesReferenceOrder(t *testing.T) {
	r := NewRewriter(0, nil)
	sources := sampleSources(11) // src-10, src-11 exercise numeric ordering
	report := `late fact<cite source="src-10" />.`

	got := r.Render(report, sources)

	if !strings.Contains(got, `[<a href="#ref10">10</a>]`) {
		t.Errorf("src-10 should map to index 10 under numeric ordering:\n%s", got)
	}
	if !strings.Contains(got, `<p id="ref10">[10] <a href="https://example.com/10">Source 10</a>`) {
		t.Errorf("reference entry 10 mismatch:\n%s", got)
	}
}

func TestRenderDoesNotMutateSources(t *testing.T) {
	r := NewRewriter(1, nil)
	sources := sampleSources(3)

	r.Render(`a<cite source="src-1" />`, sources)

	if len(sources) != 3 {
		t.Fatalf("source map mutated: %d entries", len(sources))
	}
	if sources["src-3"].Title != "Source 3" {
		t.Error("source entry changed")
	}
}
