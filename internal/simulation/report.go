package simulation

import (
	"context"
	"sort"
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
)

// Result labels how an encounter ended.
type Result string

const (
	ResultVictory Result = "victory"
	ResultDeath   Result = "death"
	ResultFled    Result = "fled"
	ResultAborted Result = "aborted"
)

// LevelUpRecord is a level gained during an encounter.
type LevelUpRecord struct {
	Skill string `json:"skill"`
	Level int    `json:"level"`
}

// Report summarizes one encounter.
type Report struct {
	ID          string
	SessionID   string
	Player      string
	CreatureID  string
	Style       string
	Result      Result
	Turns       int
	HPStart     int
	HPEnd       int
	DamageDealt int
	DamageTaken int
	// Experience maps skill name to experience gained.
	Experience      map[string]int
	TotalExperience int
	LevelUps        []LevelUpRecord
	Slayer          *combat.SlayerProgress
	Drops           []npc.Drop
	StartedAt       time.Time
	EndedAt         time.Time
}

// Recorder persists finished encounter reports.
//
//go:generate mockgen -destination=mock/mock_recorder.go -package=simulationmock github.com/cory-johannsen/skirmish/internal/simulation Recorder
type Recorder interface {
	Record(ctx context.Context, r *Report) error
}

// NopRecorder discards reports.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, *Report) error { return nil }

// applyRewards copies session rewards into the report.
func (r *Report) applyRewards(rw combat.Rewards) {
	r.Experience = make(map[string]int, len(rw.Experience))
	for s, amount := range rw.Experience {
		r.Experience[s.String()] = amount
	}
	r.TotalExperience = rw.Total
	r.LevelUps = make([]LevelUpRecord, 0, len(rw.LevelUps))
	for _, up := range rw.LevelUps {
		r.LevelUps = append(r.LevelUps, LevelUpRecord{Skill: up.Skill.String(), Level: up.Level})
	}
}

// Summary aggregates a series of encounters.
type Summary struct {
	Fights          int
	Victories       int
	Deaths          int
	Fled            int
	Turns           int
	TotalExperience int
	// Items maps item ID to total quantity dropped.
	Items map[string]int
	// LevelUps lists every level gained, in order.
	LevelUps []LevelUpRecord
}

// Add folds r into s.
func (s *Summary) Add(r *Report) {
	s.Fights++
	switch r.Result {
	case ResultVictory:
		s.Victories++
	case ResultDeath:
		s.Deaths++
	case ResultFled:
		s.Fled++
	}
	s.Turns += r.Turns
	s.TotalExperience += r.TotalExperience
	if s.Items == nil {
		s.Items = make(map[string]int)
	}
	for _, d := range r.Drops {
		s.Items[d.ItemID] += d.Quantity
	}
	s.LevelUps = append(s.LevelUps, r.LevelUps...)
}

// ItemIDs returns the dropped item IDs in sorted order.
func (s Summary) ItemIDs() []string {
	ids := make([]string, 0, len(s.Items))
	for id := range s.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
