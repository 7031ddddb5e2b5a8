package timetable

import (
	"timetable_collector/internal/domain/provider"
)

// LessonCode classifies a scheduled lesson. Exactly one code applies to a
// lesson at a time.
type LessonCode string

const (
	CodeRegular   LessonCode = "REGULAR"
	CodeIrregular LessonCode = "IRREGULAR"
	CodeCancelled LessonCode = "CANCELLED"
)

// TopicFallback is stored when the source reports no subject for a lesson.
const TopicFallback = "None"

// Lesson is one teaching unit as stored in the archive. Teachers holds
// pseudonymized tokens only once the snapshot builder is done with it; raw
// names never reach the persisted form.
type Lesson struct {
	Classes     []string   `cbor:"classes"`
	Teachers    []string   `cbor:"teachers"`
	Rooms       []string   `cbor:"rooms"`
	Code        LessonCode `cbor:"code"`
	Description string     `cbor:"description"`
	Topic       string     `cbor:"topic"`
	SubstText   *string    `cbor:"subst_text,omitempty"`
}

// FromRaw projects a provider lesson into the archive shape. Only the first
// reported subject is kept as the topic. Teacher names are copied as-is;
// pseudonymization is the snapshot builder's job.
func FromRaw(raw provider.RawLesson) Lesson {
	topic := TopicFallback
	if len(raw.Subjects) > 0 {
		topic = raw.Subjects[0]
	}

	code := CodeRegular
	switch raw.Code {
	case provider.CodeIrregular:
		code = CodeIrregular
	case provider.CodeCancelled:
		code = CodeCancelled
	}

	return Lesson{
		Classes:     raw.Classes,
		Teachers:    raw.Teachers,
		Rooms:       raw.Rooms,
		Code:        code,
		Description: raw.Text,
		Topic:       topic,
		SubstText:   raw.SubstText,
	}
}
