package lingotray

import (
	"sync"
	"time"
)

// DefaultHistoryLimit is the number of failures kept when no limit is given.
const DefaultHistoryLimit = 50

// ErrorRecord is one remembered translation failure. It never holds the
// input text itself, only its length.
type ErrorRecord struct {
	Time        time.Time
	Kind        ErrorKind
	Message     string
	InputLength int
	Model       string
}

// ErrorHistory is a bounded, newest-last record of classified failures,
// exposed so a settings surface can show recent problems.
type ErrorHistory struct {
	mu      sync.Mutex
	limit   int
	records []ErrorRecord
}

// NewErrorHistory creates a history bounded at limit entries. A limit of 0
// or less uses DefaultHistoryLimit.
func NewErrorHistory(limit int) *ErrorHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &ErrorHistory{limit: limit}
}

// Record appends a failure, dropping the oldest entries beyond the limit.
func (h *ErrorHistory) Record(cerr *ClassifiedError, inputLength int, model string) {
	if cerr == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, ErrorRecord{
		Time:        time.Now(),
		Kind:        cerr.Kind,
		Message:     cerr.UserMessage(),
		InputLength: inputLength,
		Model:       model,
	})
	if len(h.records) > h.limit {
		h.records = h.records[len(h.records)-h.limit:]
	}
}

// Entries returns a copy of the recorded failures, oldest first.
func (h *ErrorHistory) Entries() []ErrorRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]ErrorRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Clear empties the history.
func (h *ErrorHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}
