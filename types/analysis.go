package types

// PersonaQuery is the combined semantic representation of a user role
// and a task objective. It is built once per run and every similarity
// in that run is computed against the same embedding.
type PersonaQuery struct {
	PersonaText  string
	JobText      string
	CombinedText string
	Embedding    []float32
}

// RankedSection is a section that survived the adaptive threshold,
// with its similarity to the persona query and a dense 1-based rank.
type RankedSection struct {
	Section        Section `json:"section"`
	Similarity     float64 `json:"similarity"`
	ImportanceRank int     `json:"importance_rank"`
}

// SentenceHighlight is a sentence selected inside a top-ranked section.
type SentenceHighlight struct {
	Sentence   string  `json:"refined_text"`
	Similarity float64 `json:"similarity"`
	Document   string  `json:"document"`
	Page       int     `json:"page"`
}

// AnalysisConfig is the tunable surface of the structure-inference and
// ranking engine. Out-of-range values fail validation at startup,
// before any document is processed.
type AnalysisConfig struct {
	// MinSections is the adaptive-threshold floor: ranking relaxes its
	// cutoff until at least min(MinSections, total) sections survive.
	MinSections int `mapstructure:"min_sections"`
	// MaxSections bounds the ranked output.
	MaxSections int `mapstructure:"max_sections"`
	// MaxTopSections bounds how many ranked sections get sentence-level
	// sub-section analysis.
	MaxTopSections int `mapstructure:"max_top_sections"`
	// MaxHighlightsPerSection bounds refined sentences per section.
	MaxHighlightsPerSection int `mapstructure:"max_highlights_per_section"`
	// HeadingScoreFloor is the minimum composite score for a span to
	// become a heading candidate.
	HeadingScoreFloor float64 `mapstructure:"heading_score_floor"`
	// DedupRecurrenceFraction is the fraction of pages on which an
	// identical heading must recur to be treated as a running
	// header/footer and collapsed.
	DedupRecurrenceFraction float64 `mapstructure:"dedup_recurrence_fraction"`
	// Workers is the per-collection document worker limit.
	Workers int `mapstructure:"workers"`
	// SectionEmbedChars truncates section body text before embedding.
	SectionEmbedChars int `mapstructure:"section_embed_chars"`
	// HighlightChars truncates refined sentences.
	HighlightChars int `mapstructure:"highlight_chars"`
	// MaxSentencesPerSection caps sentence embedding work per section.
	MaxSentencesPerSection int `mapstructure:"max_sentences_per_section"`
	// Weights fuse the individual heading signals into one score.
	Weights HeadingWeights `mapstructure:"weights"`
}

// HeadingWeights are the heuristic constants fusing font, style,
// pattern and position signals into the composite heading score. They
// are deliberately configuration, not hard-coded.
type HeadingWeights struct {
	FontTier  float64 `mapstructure:"font_tier"` // per-tier font size contribution
	FontZ     float64 `mapstructure:"font_z"`    // z-score contribution per deviation
	Bold      float64 `mapstructure:"bold"`
	Italic    float64 `mapstructure:"italic"`
	Numbering float64 `mapstructure:"numbering"`
	Keyword   float64 `mapstructure:"keyword"`
	Length    float64 `mapstructure:"length"`
	Uppercase float64 `mapstructure:"uppercase"`
	Position  float64 `mapstructure:"position"` // top-of-page bonus
	Script    float64 `mapstructure:"script"`   // non-Latin script bonus
}

// CollectionInput mirrors the input.json of a collection directory.
type CollectionInput struct {
	Persona struct {
		Role string `json:"role"`
	} `json:"persona"`
	JobToBeDone struct {
		Task string `json:"task"`
	} `json:"job_to_be_done"`
	Documents []CollectionDocument `json:"documents"`
}

// CollectionDocument names one PDF inside a collection.
type CollectionDocument struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// CollectionMetadata echoes the run inputs alongside the results.
type CollectionMetadata struct {
	InputDocuments []string `json:"input_documents"`
	Persona        string   `json:"persona"`
	JobToBeDone    string   `json:"job_to_be_done"`
	Timestamp      string   `json:"timestamp"`
}

// ExtractedSection is the serialized form of a ranked section.
type ExtractedSection struct {
	Document       string  `json:"document"`
	Page           int     `json:"page"`
	SectionTitle   string  `json:"section_title"`
	ImportanceRank int     `json:"importance_rank"`
	Similarity     float64 `json:"similarity"`
}

// RefinedText is the serialized form of a sentence highlight.
type RefinedText struct {
	Document    string `json:"document"`
	Page        int    `json:"page"`
	RefinedText string `json:"refined_text"`
}

// DocumentReport carries the per-document outcome, including documents
// that produced no outline. Failed documents never abort a collection.
type DocumentReport struct {
	Document string   `json:"document"`
	Outline  *Outline `json:"outline,omitempty"`
	Sections int      `json:"sections"`
	Error    string   `json:"error,omitempty"`
}

// CollectionOutput is the full result of a persona-driven analysis run.
type CollectionOutput struct {
	Metadata           CollectionMetadata `json:"metadata"`
	ExtractedSections  []ExtractedSection `json:"extracted_sections"`
	SubSectionAnalysis []RefinedText      `json:"sub_section_analysis"`
	Documents          []DocumentReport   `json:"documents,omitempty"`
}
