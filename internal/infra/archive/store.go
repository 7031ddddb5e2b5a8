package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"timetable_collector/internal/domain/timetable"

	"github.com/fxamacker/cbor/v2"
)

// ErrCorrupt marks a partition file that exists but cannot be decoded. A
// present-but-unreadable partition is never silently replaced by an empty
// one.
var ErrCorrupt = errors.New("archive partition is corrupt")

// Timestamps are stored as RFC3339 with nanoseconds so snapshots round-trip
// without losing precision.
var encMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Store persists export files in a date-partitioned tree below the base
// path: <base>/<year>/<month>/<day>.bin, one file per local calendar day.
// The store owns these files exclusively; nothing else reads or writes
// them.
//
// The partition key is computed from the current local date at every call,
// so a Load/Save pair that straddles local midnight targets two different
// files. Callers must load and save within the same logical run. There is
// no locking: two processes saving the same partition end in
// last-write-wins.
type Store struct {
	basePath string
	now      func() time.Time
}

func NewStore(basePath string) *Store {
	return &Store{basePath: basePath, now: time.Now}
}

func (s *Store) partitionPath(now time.Time) string {
	return filepath.Join(
		s.basePath,
		strconv.Itoa(now.Year()),
		strconv.Itoa(int(now.Month())),
		strconv.Itoa(now.Day())+".bin",
	)
}

// Load returns today's export file. When no partition has been written yet
// it creates the partition directory and returns a fresh file with no
// snapshots and Date set to now.
func (s *Store) Load() (*timetable.ExportFile, error) {
	path := s.partitionPath(s.now())

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create partition directory: %w", err)
		}
		return &timetable.ExportFile{Date: time.Now().UTC()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read partition %s: %w", path, err)
	}

	var file timetable.ExportFile
	if err := cbor.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return &file, nil
}

// Save serializes the whole export file and replaces the current partition
// through a temp file and rename, so a crash mid-write never leaves a
// truncated partition behind.
func (s *Store) Save(file *timetable.ExportFile) error {
	path := s.partitionPath(s.now())

	data, err := encMode.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode partition: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create partition directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp partition: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write partition: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write partition: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace partition %s: %w", path, err)
	}
	return nil
}
