package progression

import "time"

type Category string

const (
	CategoryInfluence Category = "influence"
	CategoryPrestige  Category = "prestige"
	CategoryAlignment Category = "alignment"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryInfluence, CategoryPrestige, CategoryAlignment:
		return true
	default:
		return false
	}
}

// ChangeRecord is one entry in a track's append-only history. Delta is the
// requested change; NewValue is the score after clamping.
type ChangeRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Delta     int       `json:"delta"`
	NewValue  int       `json:"new_value"`
	Reason    string    `json:"reason"`
}

type TrackChange struct {
	Category Category `json:"category"`
	Track    string   `json:"track"`
	ChangeRecord
}

// ledger is the score/history state shared by the three managers. Keys are
// the canonical track ids from the definitions; scores for tracks no longer
// defined stay in the map so a restored definition restores the score.
type ledger struct {
	category Category
	scores   map[string]int
	history  map[string][]ChangeRecord
	log      []TrackChange
}

func newLedger(category Category) ledger {
	return ledger{
		category: category,
		scores:   make(map[string]int),
		history:  make(map[string][]ChangeRecord),
	}
}

func (l *ledger) record(trackID string, delta, newValue int, reason string) {
	rec := ChangeRecord{
		Timestamp: time.Now(),
		Delta:     delta,
		NewValue:  newValue,
		Reason:    reason,
	}
	l.history[trackID] = append(l.history[trackID], rec)
	l.log = append(l.log, TrackChange{Category: l.category, Track: trackID, ChangeRecord: rec})
}

func (l *ledger) historyFor(trackID string) []ChangeRecord {
	recs := l.history[trackID]
	out := make([]ChangeRecord, len(recs))
	copy(out, recs)
	return out
}

// Changes returns every record since construction or the last drain, in
// application order.
func (l *ledger) Changes() []TrackChange {
	out := make([]TrackChange, len(l.log))
	copy(out, l.log)
	return out
}

// DrainChanges hands the pending records to the caller for persistence and
// resets the session log. Per-track history is unaffected.
func (l *ledger) DrainChanges() []TrackChange {
	out := l.log
	l.log = nil
	return out
}

func (l *ledger) Scores() map[string]int {
	out := make(map[string]int, len(l.scores))
	for k, v := range l.scores {
		out[k] = v
	}
	return out
}

// RestoreScores seeds persisted scores without emitting history records.
func (l *ledger) RestoreScores(scores map[string]int) {
	for k, v := range scores {
		l.scores[k] = v
	}
}
