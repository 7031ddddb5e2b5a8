package status

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"timetable_collector/internal/domain/runstate"
)

// Reporter publishes this run's lifecycle state to a local file. The file
// is typically exposed by a web server so other runners can poll it before
// starting their own collection.
type Reporter struct {
	path string
	now  func() time.Time
}

func NewReporter(path string) *Reporter {
	return &Reporter{path: path, now: time.Now}
}

// Publish writes the state together with the current UTC timestamp,
// replacing any previous record. Publication is best-effort telemetry;
// callers log failures but never let them change the run's outcome.
func (r *Reporter) Publish(state runstate.State) error {
	record := runstate.ReportedState{State: state, Timestamp: r.now().UTC()}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode run state: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
