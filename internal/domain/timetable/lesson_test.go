package timetable

import (
	"reflect"
	"testing"

	"timetable_collector/internal/domain/provider"
)

func TestFromRawKeepsFirstSubjectOnly(t *testing.T) {
	raw := provider.RawLesson{Subjects: []string{"Mathematik", "Physik"}}
	if got := FromRaw(raw).Topic; got != "Mathematik" {
		t.Errorf("Topic = %q, want %q", got, "Mathematik")
	}
}

func TestFromRawTopicFallback(t *testing.T) {
	raw := provider.RawLesson{}
	if got := FromRaw(raw).Topic; got != TopicFallback {
		t.Errorf("Topic = %q, want %q", got, TopicFallback)
	}
}

func TestFromRawCodeMapping(t *testing.T) {
	cases := []struct {
		raw  string
		want LessonCode
	}{
		{provider.CodeRegular, CodeRegular},
		{provider.CodeIrregular, CodeIrregular},
		{provider.CodeCancelled, CodeCancelled},
		{"something-new", CodeRegular},
	}
	for _, c := range cases {
		if got := FromRaw(provider.RawLesson{Code: c.raw}).Code; got != c.want {
			t.Errorf("FromRaw(code=%q).Code = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestFromRawProjection(t *testing.T) {
	subst := "Vertretung durch Kollegium"
	raw := provider.RawLesson{
		Classes:   []string{"10a", "10b"},
		Teachers:  []string{"Maria Musterfrau"},
		Rooms:     []string{"R201"},
		Subjects:  []string{"Deutsch"},
		Code:      provider.CodeIrregular,
		Text:      "Raumwechsel",
		SubstText: &subst,
	}
	got := FromRaw(raw)
	want := Lesson{
		Classes:     []string{"10a", "10b"},
		Teachers:    []string{"Maria Musterfrau"},
		Rooms:       []string{"R201"},
		Code:        CodeIrregular,
		Description: "Raumwechsel",
		Topic:       "Deutsch",
		SubstText:   &subst,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromRaw = %+v, want %+v", got, want)
	}
}

func TestSnapshotAddLessonPreservesOrder(t *testing.T) {
	s := NewSnapshot()
	if s.CapturedAt.IsZero() {
		t.Error("CapturedAt not set on new snapshot")
	}
	for _, topic := range []string{"a", "b", "c"} {
		s.AddLesson(Lesson{Topic: topic})
	}
	if len(s.Lessons) != 3 {
		t.Fatalf("len(Lessons) = %d, want 3", len(s.Lessons))
	}
	for i, topic := range []string{"a", "b", "c"} {
		if s.Lessons[i].Topic != topic {
			t.Errorf("Lessons[%d].Topic = %q, want %q", i, s.Lessons[i].Topic, topic)
		}
	}
}
