package archive

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"
	"time"

	"timetable_collector/internal/domain/timetable"
)

// fixedStore returns a store whose partition key never moves, so repeated
// load/save cycles in a test behave like a single calendar day.
func fixedStore(t *testing.T) (*Store, time.Time) {
	t.Helper()
	day := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)
	s := NewStore(t.TempDir())
	s.now = func() time.Time { return day }
	return s, day
}

func sampleExportFile() *timetable.ExportFile {
	subst := "Vertretung"
	file := &timetable.ExportFile{Date: time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)}
	file.Add(timetable.Snapshot{
		CapturedAt: time.Date(2026, 8, 30, 6, 0, 1, 123456789, time.UTC),
		Lessons: []timetable.Lesson{
			{
				Classes:     []string{"10a"},
				Teachers:    []string{"e3b0c44298fc1c14"},
				Rooms:       []string{"R201"},
				Code:        timetable.CodeCancelled,
				Description: "entfällt",
				Topic:       "Mathematik",
				SubstText:   &subst,
			},
			{
				Classes:  []string{"10b"},
				Teachers: []string{},
				Rooms:    []string{},
				Code:     timetable.CodeRegular,
				Topic:    timetable.TopicFallback,
			},
		},
	})
	return file
}

func TestLoadCreatesFreshPartition(t *testing.T) {
	s, day := fixedStore(t)

	file, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(file.Snapshots) != 0 {
		t.Errorf("fresh partition has %d snapshots, want 0", len(file.Snapshots))
	}
	if file.Date.IsZero() {
		t.Error("fresh partition has zero Date")
	}

	dir := filepath.Join(s.basePath, strconv.Itoa(day.Year()), strconv.Itoa(int(day.Month())))
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("partition directory %s not created: %v", dir, err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := fixedStore(t)
	want := sampleExportFile()

	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Date.Equal(want.Date) {
		t.Errorf("Date = %v, want %v", got.Date, want.Date)
	}
	if len(got.Snapshots) != len(want.Snapshots) {
		t.Fatalf("len(Snapshots) = %d, want %d", len(got.Snapshots), len(want.Snapshots))
	}
	if !got.Snapshots[0].CapturedAt.Equal(want.Snapshots[0].CapturedAt) {
		t.Errorf("CapturedAt = %v, want %v", got.Snapshots[0].CapturedAt, want.Snapshots[0].CapturedAt)
	}
	if !reflect.DeepEqual(got.Snapshots[0].Lessons, want.Snapshots[0].Lessons) {
		t.Errorf("Lessons = %+v, want %+v", got.Snapshots[0].Lessons, want.Snapshots[0].Lessons)
	}
	if got.Snapshots[0].Lessons[1].SubstText != nil {
		t.Error("absent substitution note did not stay absent")
	}
}

func TestEmptyExportFileRoundTrip(t *testing.T) {
	s, _ := fixedStore(t)
	want := &timetable.ExportFile{Date: time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)}

	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Snapshots) != 0 {
		t.Errorf("len(Snapshots) = %d, want 0", len(got.Snapshots))
	}
}

func TestSequentialAppendCycles(t *testing.T) {
	s, _ := fixedStore(t)
	const runs = 5

	for i := 0; i < runs; i++ {
		file, err := s.Load()
		if err != nil {
			t.Fatalf("run %d: Load: %v", i, err)
		}
		file.Add(timetable.Snapshot{
			CapturedAt: time.Date(2026, 8, 30, 6, i, 0, 0, time.UTC),
		})
		if err := s.Save(file); err != nil {
			t.Fatalf("run %d: Save: %v", i, err)
		}
	}

	file, err := s.Load()
	if err != nil {
		t.Fatalf("final Load: %v", err)
	}
	if len(file.Snapshots) != runs {
		t.Fatalf("len(Snapshots) = %d, want %d", len(file.Snapshots), runs)
	}
	for i, snap := range file.Snapshots {
		if snap.CapturedAt.Minute() != i {
			t.Errorf("Snapshots[%d].CapturedAt = %v, snapshots out of call order", i, snap.CapturedAt)
		}
	}
}

func TestLoadRejectsCorruptPartition(t *testing.T) {
	s, day := fixedStore(t)
	path := s.partitionPath(day)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("definitely not cbor"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load()
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load on corrupt file = %v, want ErrCorrupt", err)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s, day := fixedStore(t)
	if err := s.Save(sampleExportFile()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dir := filepath.Dir(s.partitionPath(day))
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != strconv.Itoa(day.Day())+".bin" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("partition dir contains %v, want only the partition file", names)
	}
}
