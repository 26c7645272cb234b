package pipeline

import "github.com/backmassage/docnamer/internal/oracle"

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total      int
	Current    int
	Renamed    int // includes dry-run "would rename"
	Skipped    int
	Failed     int
	TotalBytes int64 // size of every document that reached a terminal state
	Usage      oracle.Usage
	Failures   []Failure
}

// HasFailures reports whether any document failed.
func (s *RunStats) HasFailures() bool { return s.Failed > 0 }

// Processed is the number of documents that reached a terminal state.
func (s *RunStats) Processed() int { return s.Renamed + s.Skipped + s.Failed }

func (s *RunStats) record(state State, doc *Document) {
	switch state {
	case StateRenamed:
		s.Renamed++
	case StateSkipped:
		s.Skipped++
	case StateFailed:
		s.Failed++
	}
	s.TotalBytes += doc.Size
}
