package timetable

import "time"

// Snapshot is one point-in-time capture of all lessons across all classes.
type Snapshot struct {
	CapturedAt time.Time `cbor:"captured_at"`
	Lessons    []Lesson  `cbor:"lessons"`
}

// NewSnapshot returns an empty snapshot stamped with the current UTC time.
// CapturedAt is never changed afterwards.
func NewSnapshot() *Snapshot {
	return &Snapshot{CapturedAt: time.Now().UTC()}
}

// AddLesson appends a lesson. Lessons are never removed or reordered.
func (s *Snapshot) AddLesson(lesson Lesson) {
	s.Lessons = append(s.Lessons, lesson)
}

// ExportFile holds everything archived for one calendar day. Date is set
// once when the partition is first created and not updated on later appends.
type ExportFile struct {
	Date      time.Time  `cbor:"date"`
	Snapshots []Snapshot `cbor:"snapshots"`
}

// Add appends a snapshot. Existing snapshots are never reordered or
// dropped, and no validation of the snapshot's content happens here.
func (e *ExportFile) Add(snapshot Snapshot) {
	e.Snapshots = append(e.Snapshots, snapshot)
}
