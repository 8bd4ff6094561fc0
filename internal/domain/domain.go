package domain

import "time"

// DefaultSubreddits are the sources polled when TREND_SUBREDDITS is not set.
var DefaultSubreddits = []string{"all", "popular"}

const SourceReddit = "reddit"

type AlertKind string

const (
	AlertNew   AlertKind = "new"
	AlertSpike AlertKind = "spike"
)

// Document is one raw post fetched from a source, before tokenization.
type Document struct {
	Source       string
	SourceItemID string
	Title        string
	Body         string
	Author       string
	PublishedAt  time.Time
}

// TrendRecord is one word's aggregate count for a single monitoring cycle.
type TrendRecord struct {
	Word       string    `json:"word"`
	Count      int       `json:"count"`
	Source     string    `json:"source"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Alert marks a word that newly started trending or spiked against the
// previous cycle's baseline.
type Alert struct {
	Word          string    `json:"word"`
	Count         int       `json:"count"`
	ChangePercent float64   `json:"change_percent"`
	Kind          AlertKind `json:"kind"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// TrendSummary is the read-side aggregate returned to the dashboard API.
type TrendSummary struct {
	Word   string `json:"word"`
	Count  int64  `json:"count"`
	Source string `json:"source"`
}

type TrendStats struct {
	TotalRecords int64 `json:"total_records"`
	UniqueWords  int64 `json:"unique_words"`
	AlertsCount  int64 `json:"alerts_count"`
}

// TrendRunResult summarizes one monitoring cycle for logging and the
// manual-run endpoint.
type TrendRunResult struct {
	DocsFetched    int
	TokensSeen     int
	RecordsWritten int
	AlertsWritten  int
	Skipped        bool
	Errors         []string
}
