package grounding

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMaxSources caps the total number of distinct sources kept per run.
	DefaultMaxSources = 25
	// DefaultMaxClaimsPerSource caps claim evidence attached to one source.
	DefaultMaxClaimsPerSource = 3

	titleMaxLen   = 100
	segmentMaxLen = 200
)

// Config bounds a ledger. Zero values fall back to the package defaults.
type Config struct {
	MaxSources         int
	MaxClaimsPerSource int
}

// Ledger deduplicates discovered web sources by URL, mints stable short ids
// and accumulates confidence-scored claim evidence per source. It is not
// safe for concurrent use; a pipeline run owns exactly one ledger.
type Ledger struct {
	cfg     Config
	logger  *slog.Logger
	urlToID map[string]string
	sources map[string]*Source
	counter int
	now     func() time.Time
}

func NewLedger(cfg Config, logger *slog.Logger) *Ledger {
	if cfg.MaxSources <= 0 {
		cfg.MaxSources = DefaultMaxSources
	}
	if cfg.MaxClaimsPerSource <= 0 {
		cfg.MaxClaimsPerSource = DefaultMaxClaimsPerSource
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		cfg:     cfg,
		logger:  logger,
		urlToID: make(map[string]string),
		sources: make(map[string]*Source),
		now:     time.Now,
	}
}

// Ingest folds a batch of grounding events into the ledger. Malformed
// chunks and supports are skipped; ingestion never fails. Once the source
// cap is reached the remainder of the batch is dropped entirely.
func (l *Ledger) Ingest(events []Event) {
	for _, ev := range events {
		if len(l.sources) >= l.cfg.MaxSources {
			l.logger.Warn("source limit reached, skipping remaining grounding events",
				"max_sources", l.cfg.MaxSources)
			return
		}
		l.ingestEvent(ev)
	}
}

func (l *Ledger) ingestEvent(ev Event) {
	// Chunk index -> short id, for the supports in this same event.
	chunkIDs := make(map[int]string)

	for idx, chunk := range ev.Chunks {
		if chunk.URI == "" {
			continue
		}
		if id, ok := l.urlToID[chunk.URI]; ok {
			chunkIDs[idx] = id
			continue
		}
		if len(l.sources) >= l.cfg.MaxSources {
			continue
		}
		l.counter++
		id := fmt.Sprintf("src-%d", l.counter)
		l.urlToID[chunk.URI] = id
		l.sources[id] = &Source{
			ShortID:    id,
			Title:      normalizeTitle(chunk.Title, chunk.Domain),
			URL:        chunk.URI,
			Domain:     chunk.Domain,
			SourceType: Classify(chunk.Domain, chunk.URI),
			AccessDate: l.now().Format("2006-01-02"),
		}
		chunkIDs[idx] = id
	}

	for _, support := range ev.Supports {
		for i, chunkIdx := range support.ChunkIndices {
			id, ok := chunkIDs[chunkIdx]
			if !ok {
				continue
			}
			src := l.sources[id]
			if len(src.SupportedClaims) >= l.cfg.MaxClaimsPerSource {
				continue
			}
			confidence := 0.5
			if i < len(support.ConfidenceScores) {
				confidence = support.ConfidenceScores[i]
			}
			src.SupportedClaims = append(src.SupportedClaims, Claim{
				TextSegment: truncate(support.SegmentText, segmentMaxLen),
				Confidence:  confidence,
			})
		}
	}
}

// Len reports the number of distinct sources collected.
func (l *Ledger) Len() int {
	return len(l.sources)
}

// Source looks up one source by short id.
func (l *Ledger) Source(shortID string) (Source, bool) {
	src, ok := l.sources[shortID]
	if !ok {
		return Source{}, false
	}
	return *src, true
}

// Sources returns a copy of the source map keyed by short id.
func (l *Ledger) Sources() map[string]Source {
	out := make(map[string]Source, len(l.sources))
	for id, src := range l.sources {
		out[id] = *src
	}
	return out
}

// URLIndex returns a copy of the url -> short id index.
func (l *Ledger) URLIndex() map[string]string {
	out := make(map[string]string, len(l.urlToID))
	for url, id := range l.urlToID {
		out[url] = id
	}
	return out
}

// OrderedIDs returns the short ids sorted by their numeric suffix, falling
// back to lexicographic order for non-numeric ids.
func OrderedIDs(sources map[string]Source) []string {
	ids := make([]string, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ni, iOK := numericSuffix(ids[i])
		nj, jOK := numericSuffix(ids[j])
		if iOK && jOK {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
	return ids
}

func numericSuffix(id string) (int, bool) {
	dash := strings.LastIndex(id, "-")
	if dash < 0 || dash == len(id)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(id[dash+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

func normalizeTitle(title, domain string) string {
	if title == "" || title == domain {
		title = domain
	}
	if title == "" {
		title = "Unknown Source"
	}
	return truncate(title, titleMaxLen)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
