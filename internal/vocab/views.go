// internal/vocab/views.go
//
// Read-only views over a record set. All functions are pure: same input,
// same output (including ordering), so callers can recompute them on every
// request against the cached snapshot.

package vocab

import (
	"slices"
	"strings"
)

// TopicSummary counts the words of one topic.
type TopicSummary struct {
	Topic     string `json:"topic"`
	WordCount int    `json:"word_count"`
}

// LevelSummary counts words and distinct topics of one level.
type LevelSummary struct {
	Level      string         `json:"level"`
	WordCount  int            `json:"word_count"`
	TopicCount int            `json:"topic_count"`
	Topics     []TopicSummary `json:"topics,omitempty"`
}

// GlobalStats aggregates the whole record set.
type GlobalStats struct {
	TotalLevels int            `json:"totalLevels"`
	TotalTopics int            `json:"totalTopics"`
	TotalWords  int            `json:"totalWords"`
	LevelStats  []LevelSummary `json:"levelStats"`
}

// levelAcc accumulates per-level counters while grouping.
type levelAcc struct {
	words  int
	topics map[string]int // trimmed topic -> word count; "" is a value too
}

func groupByLevel(records []Record) map[string]*levelAcc {
	groups := make(map[string]*levelAcc)
	for _, r := range records {
		key := r.LevelKey()
		if key == "" {
			continue
		}
		acc, ok := groups[key]
		if !ok {
			acc = &levelAcc{topics: make(map[string]int)}
			groups[key] = acc
		}
		acc.words++
		acc.topics[r.TopicKey()]++
	}
	return groups
}

// Levels summarises every level, ascending by level code. With withTopics
// each summary also lists its topics, ascending by name.
func Levels(records []Record, withTopics bool) []LevelSummary {
	groups := groupByLevel(records)
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]LevelSummary, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		s := LevelSummary{Level: k, WordCount: acc.words, TopicCount: len(acc.topics)}
		if withTopics {
			s.Topics = sortedTopics(acc.topics)
		}
		out = append(out, s)
	}
	return out
}

func sortedTopics(counts map[string]int) []TopicSummary {
	out := make([]TopicSummary, 0, len(counts))
	for t, n := range counts {
		out = append(out, TopicSummary{Topic: t, WordCount: n})
	}
	slices.SortFunc(out, func(a, b TopicSummary) int { return strings.Compare(a.Topic, b.Topic) })
	return out
}

// Topics lists the topics of one level, ascending by name. Records without a
// topic are not listed. An unknown level yields an empty list.
func Topics(records []Record, level string) ([]TopicSummary, error) {
	want := NormalizeLevel(level)
	if want == "" {
		return nil, &ValidationError{Field: "level"}
	}
	counts := make(map[string]int)
	for _, r := range records {
		if r.LevelKey() != want {
			continue
		}
		t := r.TopicKey()
		if t == "" {
			continue
		}
		counts[t]++
	}
	return sortedTopics(counts), nil
}

// Lesson returns every record of (level, topic) in source order.
func Lesson(records []Record, level, topic string) ([]Record, error) {
	wantLevel, wantTopic := NormalizeLevel(level), NormalizeTopic(topic)
	if wantLevel == "" || wantTopic == "" {
		return nil, &ValidationError{Field: "slug", Message: "Thiếu Level và Topic trong đường dẫn."}
	}
	var out []Record
	for _, r := range records {
		if r.LevelKey() == wantLevel && r.TopicKey() == wantTopic {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, &NotFoundError{Level: wantLevel, Topic: wantTopic}
	}
	return out, nil
}

// Stats aggregates totals. A topic name appearing under two levels counts
// twice in TotalTopics.
func Stats(records []Record) GlobalStats {
	levels := Levels(records, false)
	st := GlobalStats{TotalLevels: len(levels), TotalWords: len(records), LevelStats: levels}
	for _, l := range levels {
		st.TotalTopics += l.TopicCount
	}
	return st
}

// Sample returns at most n records from the front of rs.
func Sample(rs []Record, n int) []Record {
	if n < 0 || len(rs) <= n {
		return rs
	}
	return rs[:n]
}
