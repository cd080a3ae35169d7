package game

import (
	"sort"
	"sync"
	"time"
)

// RunRecord describes one finished run. Score is the number of foods eaten.
type RunRecord struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time
	Score     int
	Ticks     int
}

func (r RunRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Stats collects finished runs in memory for the exit summary
type Stats struct {
	mu   sync.RWMutex
	runs []RunRecord
}

func NewStats() *Stats {
	return &Stats{runs: make([]RunRecord, 0)}
}

func (s *Stats) Add(record RunRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, record)
}

// Records returns a copy of the finished runs, oldest first
func (s *Stats) Records() []RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RunRecord(nil), s.runs...)
}

func (s *Stats) AverageScore() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.runs) == 0 {
		return 0
	}
	total := 0
	for _, r := range s.runs {
		total += r.Score
	}
	return float64(total) / float64(len(s.runs))
}

func (s *Stats) MedianScore() float64 {
	s.mu.RLock()
	scores := make([]int, len(s.runs))
	for i, r := range s.runs {
		scores[i] = r.Score
	}
	s.mu.RUnlock()

	if len(scores) == 0 {
		return 0
	}
	sort.Ints(scores)
	mid := len(scores) / 2
	if len(scores)%2 == 0 {
		return float64(scores[mid-1]+scores[mid]) / 2
	}
	return float64(scores[mid])
}

func (s *Stats) MaxScore() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := 0
	for _, r := range s.runs {
		if r.Score > best {
			best = r.Score
		}
	}
	return best
}
