package trend

import (
	"time"

	"trend-radar/internal/domain"
)

// ClassifierConfig holds the detection thresholds. Zero values fall back to
// the defaults the service has always run with.
type ClassifierConfig struct {
	MinCount    int     // ignore words seen fewer times than this
	NewMinCount int     // minimum count for a word absent from the baseline
	SpikePct    float64 // relative increase, in percent, that counts as a spike
	ClassifyTop int     // how many ranked words are considered per cycle
	StateSize   int     // how many words the retained baseline keeps
}

func (c ClassifierConfig) withDefaults() ClassifierConfig {
	if c.MinCount <= 0 {
		c.MinCount = 2
	}
	if c.NewMinCount <= 0 {
		c.NewMinCount = 3
	}
	if c.SpikePct <= 0 {
		c.SpikePct = 50
	}
	if c.ClassifyTop <= 0 {
		c.ClassifyTop = 30
	}
	if c.StateSize <= 0 {
		c.StateSize = 100
	}
	return c
}

// Classifier compares a cycle's frequencies against the previous cycle's
// retained baseline. It owns its baseline; the orchestrator must call Commit
// only after the cycle's results were persisted, so a failed cycle leaves
// the baseline untouched.
type Classifier struct {
	cfg      ClassifierConfig
	previous map[string]int
}

func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg.withDefaults(), previous: map[string]int{}}
}

// ClassifyTop returns how many ranked words Classify inspects per cycle.
func (c *Classifier) ClassifyTop() int {
	return c.cfg.ClassifyTop
}

// Classify emits alerts for the ranked words of the current cycle and stages
// the next baseline (the top StateSize words of the full table). It does not
// mutate the classifier; pass the staged state to Commit once persistence
// succeeded.
func (c *Classifier) Classify(ranked []RankedWord, table *FrequencyTable, now time.Time) ([]domain.Alert, map[string]int) {
	var alerts []domain.Alert
	for _, row := range ranked {
		if row.Count < c.cfg.MinCount {
			continue
		}
		prev := c.previous[row.Word]
		switch {
		case prev == 0:
			if row.Count >= c.cfg.NewMinCount {
				alerts = append(alerts, domain.Alert{
					Word:       row.Word,
					Count:      row.Count,
					Kind:       domain.AlertNew,
					RecordedAt: now,
				})
			}
		default:
			change := float64(row.Count-prev) / float64(prev) * 100
			if change >= c.cfg.SpikePct {
				alerts = append(alerts, domain.Alert{
					Word:          row.Word,
					Count:         row.Count,
					ChangePercent: change,
					Kind:          domain.AlertSpike,
					RecordedAt:    now,
				})
			}
		}
	}

	next := make(map[string]int, c.cfg.StateSize)
	for _, row := range table.Rank(c.cfg.StateSize) {
		next[row.Word] = row.Count
	}
	return alerts, next
}

// Commit replaces the baseline wholesale with the staged state.
func (c *Classifier) Commit(state map[string]int) {
	if state == nil {
		state = map[string]int{}
	}
	c.previous = state
}

// Baseline returns a copy of the retained state, for inspection in tests.
func (c *Classifier) Baseline() map[string]int {
	out := make(map[string]int, len(c.previous))
	for word, count := range c.previous {
		out[word] = count
	}
	return out
}
