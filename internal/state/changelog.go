package state

import "time"

// ChangeLogCap bounds the debugging change log.
const ChangeLogCap = 50

// ChangeRecord documents one committed state mutation. The change log exists
// for debugging and observability only; it is not used for persistence or
// undo.
type ChangeRecord struct {
	Time   time.Time `json:"time"`
	Old    any       `json:"old"`
	New    any       `json:"new"`
	Path   Path      `json:"path"`
	Source string    `json:"source"`
}

// changeLog is a bounded ring of the most recent mutations.
type changeLog struct {
	entries []ChangeRecord
	cap     int
}

func newChangeLog(capacity int) *changeLog {
	if capacity < 1 {
		capacity = ChangeLogCap
	}
	return &changeLog{cap: capacity}
}

func (l *changeLog) append(record ChangeRecord) {
	l.entries = append(l.entries, record)
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
}

func (l *changeLog) list() []ChangeRecord {
	out := make([]ChangeRecord, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *changeLog) replace(entries []ChangeRecord) {
	if len(entries) > l.cap {
		entries = entries[len(entries)-l.cap:]
	}
	l.entries = append([]ChangeRecord(nil), entries...)
}

func (l *changeLog) clear() {
	l.entries = nil
}
