package provider

import (
	"context"
	"time"
)

// Class is one school class known to the scheduling source.
type Class struct {
	ID   int
	Name string
}

// Status codes as the scheduling source reports them. An empty code means a
// regular lesson.
const (
	CodeRegular   = ""
	CodeIrregular = "irregular"
	CodeCancelled = "cancelled"
)

// RawLesson is a lesson exactly as the scheduling source reports it, before
// any pseudonymization. Teacher names here are still raw and must never be
// persisted.
type RawLesson struct {
	Classes   []string
	Teachers  []string
	Rooms     []string
	Subjects  []string
	Code      string
	Text      string
	SubstText *string
}

// Client is the read-only boundary to the external scheduling source.
// Implementations must bound every call with a finite timeout.
type Client interface {
	// Classes lists every class of the configured school.
	Classes(ctx context.Context) ([]Class, error)
	// Timetable returns the lessons of one class for a single day.
	Timetable(ctx context.Context, classID int, day time.Time) ([]RawLesson, error)
}
