package grounding

import (
	"google.golang.org/genai"
)

// SourceType classifies where a web source came from.
type SourceType string

const (
	SourceSocialMedia      SourceType = "Social Media"
	SourceFinancial        SourceType = "Financial"
	SourceBusinessDatabase SourceType = "Business Database"
	SourceNewsMedia        SourceType = "News Media"
	SourceCompanyOfficial  SourceType = "Company Official"
	SourceIndustryOther    SourceType = "Industry/Other"
)

// Claim is a span of generated text that a source supports, with the
// model-reported confidence for that span.
type Claim struct {
	TextSegment string  `json:"text_segment"`
	Confidence  float64 `json:"confidence"`
}

// Source is a deduplicated web reference discovered during research.
// Identity is the URL; ShortID ("src-N") is assigned once and never reused.
type Source struct {
	ShortID         string     `json:"short_id"`
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	Domain          string     `json:"domain"`
	SourceType      SourceType `json:"source_type"`
	AccessDate      string     `json:"access_date"`
	SupportedClaims []Claim    `json:"supported_claims"`
}

// Chunk is one web result reference attached to a model response.
type Chunk struct {
	URI    string
	Title  string
	Domain string
}

// Support links a span of generated text to the chunks backing it.
// ConfidenceScores pairs positionally with ChunkIndices; the score list may
// be shorter than the index list.
type Support struct {
	ConfidenceScores []float64
	ChunkIndices     []int
	SegmentText      string
}

// Event carries the grounding metadata of a single model response.
type Event struct {
	Chunks   []Chunk
	Supports []Support
}

// EventFromMetadata maps the genai grounding metadata structure onto the
// ledger's event shape. A nil metadata yields an empty event.
func EventFromMetadata(md *genai.GroundingMetadata) Event {
	var ev Event
	if md == nil {
		return ev
	}
	for _, chunk := range md.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			ev.Chunks = append(ev.Chunks, Chunk{})
			continue
		}
		ev.Chunks = append(ev.Chunks, Chunk{
			URI:    chunk.Web.URI,
			Title:  chunk.Web.Title,
			Domain: chunk.Web.Domain,
		})
	}
	for _, support := range md.GroundingSupports {
		if support == nil {
			continue
		}
		s := Support{}
		for _, score := range support.ConfidenceScores {
			s.ConfidenceScores = append(s.ConfidenceScores, float64(score))
		}
		for _, idx := range support.GroundingChunkIndices {
			s.ChunkIndices = append(s.ChunkIndices, int(idx))
		}
		if support.Segment != nil {
			s.SegmentText = support.Segment.Text
		}
		ev.Supports = append(ev.Supports, s)
	}
	return ev
}
