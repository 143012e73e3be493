package domain

import "time"

// Article is the core entity persisted for the reader front end. Identity is
// the (ID, Source) pair; the same upstream id may appear under different
// sources.
type Article struct {
	ID        string
	Source    string
	Title     string
	Content   string
	URL       string
	PubDate   time.Time
	Category  string
	Summary   string
	Author    string
	ImageURL  string
	Tags      []string
	CreatedAt time.Time

	// Processed is terminal: once true it never goes back.
	Processed bool
	Analysis  *AnalysisResult

	// Set by the separate quality-enhancement pass, never by this pipeline.
	QualityEnhanced  bool
	EnhancedTitle    string
	EnhancedSummary  string
	EnhancedInsights string
	QualityScore     float64
}

// FlashNews is a lighter-weight record with no analysis step.
type FlashNews struct {
	ID        string
	Source    string
	Title     string
	Content   string
	URL       string
	PubDate   time.Time
	CreatedAt time.Time
}

// Summary is the minimal record a source adapter's listing call returns.
type Summary struct {
	ID      string
	Title   string
	URL     string
	PubDate time.Time
}

// Detail is the full per-item record fetched from a source.
type Detail struct {
	ID       string
	Title    string
	Content  string
	URL      string
	PubDate  time.Time
	Category string
	Author   string
	ImageURL string
	Tags     []string
}

// Article converts a fetched detail into a persistable article.
func (d Detail) Article(source string) Article {
	return Article{
		ID:       d.ID,
		Source:   source,
		Title:    d.Title,
		Content:  d.Content,
		URL:      d.URL,
		PubDate:  d.PubDate,
		Category: d.Category,
		Author:   d.Author,
		ImageURL: d.ImageURL,
		Tags:     d.Tags,
	}
}

// Snippet is an ephemeral related-content excerpt used only as prompt context.
type Snippet struct {
	Title   string
	Excerpt string
}

// Outcome reports what Ingest did with a summary.
type Outcome int

const (
	// Saved means the article was persisted with a fresh analysis attached.
	Saved Outcome = iota
	// AlreadyExists means a processed row for (id, source) was already stored.
	AlreadyExists
	// SavedWithoutAnalysis means the detail was persisted unprocessed for the
	// batch reprocessor to finish later.
	SavedWithoutAnalysis
)

// String names the outcome for logs.
func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case AlreadyExists:
		return "already_exists"
	case SavedWithoutAnalysis:
		return "saved_without_analysis"
	default:
		return "unknown"
	}
}

// LogSeverity classifies rows in the per-article diagnostic trail.
type LogSeverity string

const (
	LogInfo  LogSeverity = "info"
	LogWarn  LogSeverity = "warning"
	LogError LogSeverity = "error"
)
