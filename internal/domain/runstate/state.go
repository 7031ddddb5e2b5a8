package runstate

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind names the lifecycle phase of a collection run.
type Kind string

const (
	KindStarted Kind = "STARTED"
	KindSuccess Kind = "SUCCESS"
	KindError   Kind = "ERROR"
)

// StalenessWindow is how long a published record keeps gating other
// runners. Anything older is ignored by the preflight check.
const StalenessWindow = time.Hour

// State is the externally visible state of one collection run. A run moves
// from Started to exactly one of Success or Error; the Error variant
// carries the failure message.
type State struct {
	Kind    Kind
	Message string // set for KindError only
}

func Started() State { return State{Kind: KindStarted} }

func Success() State { return State{Kind: KindSuccess} }

func Error(message string) State {
	return State{Kind: KindError, Message: message}
}

// MarshalJSON encodes Started and Success as bare strings and Error as an
// object keyed by the variant name, so the payload text survives the round
// trip: "STARTED", "SUCCESS" or {"ERROR":"<message>"}.
func (s State) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case KindStarted, KindSuccess:
		return json.Marshal(string(s.Kind))
	case KindError:
		return json.Marshal(map[string]string{string(KindError): s.Message})
	default:
		return nil, fmt.Errorf("cannot encode unknown state kind %q", s.Kind)
	}
}

func (s *State) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		switch Kind(plain) {
		case KindStarted, KindSuccess:
			*s = State{Kind: Kind(plain)}
			return nil
		}
		return fmt.Errorf("unknown state %q", plain)
	}

	var tagged map[string]string
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("malformed state: %w", err)
	}
	message, ok := tagged[string(KindError)]
	if !ok {
		return fmt.Errorf("state object without %s tag", KindError)
	}
	*s = State{Kind: KindError, Message: message}
	return nil
}

// ReportedState is the shared coordination record: the state one runner
// published and when it published it.
type ReportedState struct {
	State     State     `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// Fresh reports whether the record is recent enough to gate a new run.
func (r ReportedState) Fresh(now time.Time) bool {
	return r.Timestamp.Add(StalenessWindow).After(now)
}
