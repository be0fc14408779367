package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/simulation"
)

// DefaultListLimit bounds ListByPlayer when no positive limit is given.
const DefaultListLimit = 50

// ErrEncounterNotFound is returned when an encounter lookup yields no results.
var ErrEncounterNotFound = errors.New("encounter not found")

// ErrEncounterExists is returned when a report with the same ID was already recorded.
var ErrEncounterExists = errors.New("encounter already recorded")

// EncounterRepository persists simulation reports. It implements simulation.Recorder.
type EncounterRepository struct {
	db *pgxpool.Pool
}

var _ simulation.Recorder = (*EncounterRepository)(nil)

// NewEncounterRepository creates an EncounterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewEncounterRepository(db *pgxpool.Pool) *EncounterRepository {
	return &EncounterRepository{db: db}
}

const encounterColumns = `id, session_id, player, creature_id, style, result, turns,
	hp_start, hp_end, damage_dealt, damage_taken, total_experience,
	experience, level_ups, slayer, drops, started_at, ended_at`

// Record inserts rep. JSON columns hold the experience map, level-ups, slayer
// progress and drops.
//
// Precondition: rep must be non-nil with ID and SessionID set.
// Postcondition: Returns ErrEncounterExists if rep.ID was already recorded.
func (r *EncounterRepository) Record(ctx context.Context, rep *simulation.Report) error {
	if rep == nil {
		return errors.New("recording encounter: nil report")
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO encounters (`+encounterColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		rep.ID, rep.SessionID, rep.Player, rep.CreatureID, rep.Style, string(rep.Result), rep.Turns,
		rep.HPStart, rep.HPEnd, rep.DamageDealt, rep.DamageTaken, rep.TotalExperience,
		nonNilMap(rep.Experience), nonNilLevelUps(rep.LevelUps), rep.Slayer, nonNilDrops(rep),
		rep.StartedAt, rep.EndedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrEncounterExists
		}
		return fmt.Errorf("inserting encounter: %w", err)
	}
	return nil
}

// Get retrieves one encounter by report ID.
//
// Postcondition: Returns ErrEncounterNotFound if no such encounter exists.
func (r *EncounterRepository) Get(ctx context.Context, id string) (*simulation.Report, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+encounterColumns+` FROM encounters WHERE id = $1`, id)
	rep, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEncounterNotFound
		}
		return nil, fmt.Errorf("querying encounter: %w", err)
	}
	return rep, nil
}

// ListByPlayer returns the player's most recent encounters, newest first.
//
// Postcondition: Returns at most limit reports (DefaultListLimit when limit <= 0).
func (r *EncounterRepository) ListByPlayer(ctx context.Context, player string, limit int) ([]*simulation.Report, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+encounterColumns+` FROM encounters
		 WHERE player = $1
		 ORDER BY ended_at DESC, recorded_at DESC
		 LIMIT $2`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing encounters: %w", err)
	}
	defer rows.Close()

	var out []*simulation.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning encounter: %w", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating encounters: %w", err)
	}
	return out, nil
}

// CountByResult tallies the player's recorded encounters by result.
func (r *EncounterRepository) CountByResult(ctx context.Context, player string) (map[simulation.Result]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT result, COUNT(*) FROM encounters WHERE player = $1 GROUP BY result`,
		player,
	)
	if err != nil {
		return nil, fmt.Errorf("counting encounters: %w", err)
	}
	defer rows.Close()

	counts := make(map[simulation.Result]int)
	for rows.Next() {
		var result string
		var n int
		if err := rows.Scan(&result, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[simulation.Result(result)] = n
	}
	return counts, rows.Err()
}

func scanReport(row pgx.Row) (*simulation.Report, error) {
	var rep simulation.Report
	var result string
	err := row.Scan(
		&rep.ID, &rep.SessionID, &rep.Player, &rep.CreatureID, &rep.Style, &result, &rep.Turns,
		&rep.HPStart, &rep.HPEnd, &rep.DamageDealt, &rep.DamageTaken, &rep.TotalExperience,
		&rep.Experience, &rep.LevelUps, &rep.Slayer, &rep.Drops, &rep.StartedAt, &rep.EndedAt,
	)
	if err != nil {
		return nil, err
	}
	rep.Result = simulation.Result(result)
	return &rep, nil
}

func nonNilMap(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func nonNilLevelUps(l []simulation.LevelUpRecord) []simulation.LevelUpRecord {
	if l == nil {
		return []simulation.LevelUpRecord{}
	}
	return l
}

func nonNilDrops(rep *simulation.Report) []npc.Drop {
	if rep.Drops == nil {
		return []npc.Drop{}
	}
	return rep.Drops
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
