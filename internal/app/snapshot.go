package app

import (
	"context"
	"fmt"

	"timetable_collector/internal/domain/provider"
	"timetable_collector/internal/domain/pseudonym"
	"timetable_collector/internal/domain/timetable"

	"github.com/sirupsen/logrus"
)

// buildSnapshot captures today's timetable of every class, one class at a
// time. A class whose lessons cannot be fetched is logged and skipped so
// one broken class does not discard the data already gathered for the
// others; only a failure to enumerate the classes aborts the build.
//
// Every teacher name is replaced with its pseudonymized token before the
// lesson enters the snapshot.
func (s *CollectorService) buildSnapshot(ctx context.Context, client provider.Client, log *logrus.Entry) (*timetable.Snapshot, error) {
	snapshot := timetable.NewSnapshot()

	classes, err := client.Classes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}

	today := s.now()
	for _, class := range classes {
		log.WithField("class", class.Name).Trace("fetching timetable")

		lessons, err := client.Timetable(ctx, class.ID, today)
		if err != nil {
			log.WithField("class", class.Name).WithError(err).
				Error("skipping class, timetable fetch failed")
			continue
		}

		for _, raw := range lessons {
			lesson := timetable.FromRaw(raw)
			tokens := make([]string, len(lesson.Teachers))
			for i, name := range lesson.Teachers {
				tokens[i] = pseudonym.Transform(s.secret, name)
			}
			lesson.Teachers = tokens
			snapshot.AddLesson(lesson)
		}
	}

	return snapshot, nil
}
