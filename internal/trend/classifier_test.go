package trend

import (
	"fmt"
	"testing"
	"time"

	"trend-radar/internal/domain"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func classifyTokens(t *testing.T, c *Classifier, tokens []string) ([]domain.Alert, map[string]int) {
	t.Helper()
	table := Aggregate(tokens)
	return c.Classify(table.Rank(c.ClassifyTop()), table, testNow)
}

func repeat(word string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = word
	}
	return out
}

func TestClassifyEmitsNewForUnseenWord(t *testing.T) {
	c := NewClassifier(ClassifierConfig{})
	alerts, _ := classifyTokens(t, c, repeat("rocket", 5))
	if len(alerts) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Word != "rocket" || a.Kind != domain.AlertNew || a.ChangePercent != 0 {
		t.Fatalf("unexpected alert: %+v", a)
	}
	if a.Count != 5 {
		t.Fatalf("expected count 5, got %d", a.Count)
	}
}

func TestClassifyNewRequiresMinimumCount(t *testing.T) {
	c := NewClassifier(ClassifierConfig{})
	alerts, _ := classifyTokens(t, c, repeat("rocket", 2))
	if len(alerts) != 0 {
		t.Fatalf("count 2 for an unseen word should not alert, got %v", alerts)
	}
	alerts, _ = classifyTokens(t, c, []string{"rocket"})
	if len(alerts) != 0 {
		t.Fatalf("singleton word should be ignored entirely, got %v", alerts)
	}
}

func TestClassifySpikeThreshold(t *testing.T) {
	c := NewClassifier(ClassifierConfig{})
	c.Commit(map[string]int{"rocket": 10})

	alerts, _ := classifyTokens(t, c, repeat("rocket", 16))
	if len(alerts) != 1 {
		t.Fatalf("expected one spike alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Kind != domain.AlertSpike || a.ChangePercent != 60.0 {
		t.Fatalf("expected 60%% spike, got %+v", a)
	}

	alerts, _ = classifyTokens(t, c, repeat("rocket", 12))
	if len(alerts) != 0 {
		t.Fatalf("20%% change is below threshold, got %v", alerts)
	}
}

func TestClassifyDoesNotMutateBaseline(t *testing.T) {
	c := NewClassifier(ClassifierConfig{})
	c.Commit(map[string]int{"rocket": 10})

	_, next := classifyTokens(t, c, repeat("rocket", 16))
	if got := c.Baseline()["rocket"]; got != 10 {
		t.Fatalf("baseline mutated before commit: %d", got)
	}
	c.Commit(next)
	if got := c.Baseline()["rocket"]; got != 16 {
		t.Fatalf("baseline not applied on commit: %d", got)
	}
}

func TestClassifyStateKeepsTopHundred(t *testing.T) {
	c := NewClassifier(ClassifierConfig{})

	var tokens []string
	for i := 0; i < 150; i++ {
		// word000 appears 151 times, word149 twice: strictly decreasing counts.
		tokens = append(tokens, repeat(fmt.Sprintf("word%03d", i), 151-i)...)
	}
	_, next := classifyTokens(t, c, tokens)
	if len(next) != 100 {
		t.Fatalf("expected state of 100 entries, got %d", len(next))
	}
	for i := 0; i < 100; i++ {
		word := fmt.Sprintf("word%03d", i)
		if next[word] != 151-i {
			t.Fatalf("expected %s retained with count %d, got %d", word, 151-i, next[word])
		}
	}
	if _, ok := next["word100"]; ok {
		t.Fatal("word outside the top 100 should not be retained")
	}
}

func TestClassifyStateTieBreaksByFirstSeen(t *testing.T) {
	c := NewClassifier(ClassifierConfig{StateSize: 2})
	_, next := classifyTokens(t, c, []string{"zulu", "alpha", "zulu", "alpha", "mike", "mike"})
	if len(next) != 2 {
		t.Fatalf("expected 2 retained, got %d", len(next))
	}
	if _, ok := next["zulu"]; !ok {
		t.Fatal("zulu was seen first and should win the tie")
	}
	if _, ok := next["alpha"]; !ok {
		t.Fatal("alpha was seen second and should win over mike")
	}
}

func TestClassifyConfiguredThresholds(t *testing.T) {
	c := NewClassifier(ClassifierConfig{MinCount: 5, NewMinCount: 6, SpikePct: 100})
	alerts, _ := classifyTokens(t, c, repeat("rocket", 5))
	if len(alerts) != 0 {
		t.Fatalf("count below custom new threshold should not alert, got %v", alerts)
	}

	c.Commit(map[string]int{"rocket": 4})
	alerts, _ = classifyTokens(t, c, repeat("rocket", 7))
	if len(alerts) != 0 {
		t.Fatalf("75%% change below custom 100%% threshold should not alert, got %v", alerts)
	}
	alerts, _ = classifyTokens(t, c, repeat("rocket", 8))
	if len(alerts) != 1 || alerts[0].Kind != domain.AlertSpike {
		t.Fatalf("expected spike at 100%% change, got %v", alerts)
	}
}
