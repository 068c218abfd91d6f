package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var conjunctionColumns = []string{
	"id",
	"object1_id", "object1_catalog_number", "object1_name", "object1_category",
	"object2_id", "object2_catalog_number", "object2_name", "object2_category",
	"detected_at", "conjunction_time",
	"closest_distance_km",
	"object1_velocity_km_s", "object2_velocity_km_s", "relative_velocity_km_s",
	"probability", "orbit_zone", "notes",
}

// InsertConjunction persists one conjunction record and fills in its id.
func (s *Store) InsertConjunction(ctx context.Context, c *Conjunction) error {
	res, err := sq.Insert("conjunctions").
		Columns(conjunctionColumns[1:]...).
		Values(
			c.Object1.LocalID, c.Object1.CatalogNumber, c.Object1.Name, c.Object1.Category,
			c.Object2.LocalID, c.Object2.CatalogNumber, c.Object2.Name, c.Object2.Category,
			c.DetectedAt.UTC().Format(time.RFC3339), c.ConjunctionTime.UTC().Format(time.RFC3339),
			c.ClosestDistanceKm,
			c.Object1VelocityKmS, c.Object2VelocityKmS, c.RelativeVelocityKmS,
			c.Probability, c.OrbitZone, c.Notes,
		).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("inserting conjunction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading conjunction id: %w", err)
	}
	c.ID = id
	return nil
}

// InsertManeuverPlan persists one maneuver plan and fills in its id.
func (s *Store) InsertManeuverPlan(ctx context.Context, p *ManeuverPlan) error {
	res, err := sq.Insert("maneuver_plans").
		Columns(
			"conjunction_id", "maneuvering_catalog_number", "maneuver_type",
			"delta_v_m_s", "execution_time", "expected_miss_distance_km",
			"fuel_cost_kg", "risk_reduction_percent", "generated_at",
		).
		Values(
			p.ConjunctionID, p.ManeuveringCatalogNumber, p.ManeuverType,
			p.DeltaVMetersPerSec, p.ExecutionTime.UTC().Format(time.RFC3339), p.ExpectedMissDistanceKm,
			p.FuelCostKg, p.RiskReductionPercent, p.GeneratedAt.UTC().Format(time.RFC3339),
		).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("inserting maneuver plan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading maneuver plan id: %w", err)
	}
	p.ID = id
	return nil
}

// ConjunctionByID retrieves a single conjunction record.
func (s *Store) ConjunctionByID(ctx context.Context, id int64) (*Conjunction, error) {
	row := sq.Select(conjunctionColumns...).
		From("conjunctions").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		QueryRowContext(ctx)

	c, err := scanConjunction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("conjunction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying conjunction %d: %w", id, err)
	}
	return c, nil
}

// ConjunctionsByDate returns conjunctions predicted within the UTC day
// containing t, ordered by conjunction time.
func (s *Store) ConjunctionsByDate(ctx context.Context, t time.Time) ([]*Conjunction, error) {
	day := time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
	return s.queryConjunctions(ctx,
		sq.Select(conjunctionColumns...).
			From("conjunctions").
			Where(sq.GtOrEq{"conjunction_time": day.Format(time.RFC3339)}).
			Where(sq.Lt{"conjunction_time": day.Add(24 * time.Hour).Format(time.RFC3339)}).
			OrderBy("conjunction_time ASC"),
	)
}

// ConjunctionsByObject returns conjunctions involving the given catalog
// number. With upcoming true, only conjunctions at or after now are
// returned, soonest first; otherwise past conjunctions, most recent first.
func (s *Store) ConjunctionsByObject(ctx context.Context, catalogNumber int, upcoming bool, now time.Time) ([]*Conjunction, error) {
	builder := sq.Select(conjunctionColumns...).
		From("conjunctions").
		Where(sq.Or{
			sq.Eq{"object1_catalog_number": catalogNumber},
			sq.Eq{"object2_catalog_number": catalogNumber},
		})

	nowStr := now.UTC().Format(time.RFC3339)
	if upcoming {
		builder = builder.Where(sq.GtOrEq{"conjunction_time": nowStr}).OrderBy("conjunction_time ASC")
	} else {
		builder = builder.Where(sq.Lt{"conjunction_time": nowStr}).OrderBy("conjunction_time DESC")
	}

	return s.queryConjunctions(ctx, builder)
}

// RecentConjunctions returns conjunctions detected within the last given
// number of days, used for graph construction.
func (s *Store) RecentConjunctions(ctx context.Context, days int, now time.Time) ([]*Conjunction, error) {
	since := now.UTC().Add(-time.Duration(days) * 24 * time.Hour)
	return s.queryConjunctions(ctx,
		sq.Select(conjunctionColumns...).
			From("conjunctions").
			Where(sq.GtOrEq{"detected_at": since.Format(time.RFC3339)}).
			OrderBy("detected_at DESC"),
	)
}

// ManeuverPlanByConjunction returns the newest maneuver plan for a
// conjunction. At most one plan per conjunction is expected in normal
// operation, but the store does not enforce it.
func (s *Store) ManeuverPlanByConjunction(ctx context.Context, conjunctionID int64) (*ManeuverPlan, error) {
	row := sq.Select(
		"id", "conjunction_id", "maneuvering_catalog_number", "maneuver_type",
		"delta_v_m_s", "execution_time", "expected_miss_distance_km",
		"fuel_cost_kg", "risk_reduction_percent", "generated_at",
	).
		From("maneuver_plans").
		Where(sq.Eq{"conjunction_id": conjunctionID}).
		OrderBy("generated_at DESC").
		Limit(1).
		RunWith(s.db).
		QueryRowContext(ctx)

	var p ManeuverPlan
	var execStr, genStr string
	err := row.Scan(
		&p.ID, &p.ConjunctionID, &p.ManeuveringCatalogNumber, &p.ManeuverType,
		&p.DeltaVMetersPerSec, &execStr, &p.ExpectedMissDistanceKm,
		&p.FuelCostKg, &p.RiskReductionPercent, &genStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("maneuver plan for conjunction %d: %w", conjunctionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying maneuver plan: %w", err)
	}

	if p.ExecutionTime, err = time.Parse(time.RFC3339, execStr); err != nil {
		return nil, fmt.Errorf("parsing execution_time: %w", err)
	}
	if p.GeneratedAt, err = time.Parse(time.RFC3339, genStr); err != nil {
		return nil, fmt.Errorf("parsing generated_at: %w", err)
	}
	return &p, nil
}

func (s *Store) queryConjunctions(ctx context.Context, builder sq.SelectBuilder) ([]*Conjunction, error) {
	rows, err := builder.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying conjunctions: %w", err)
	}
	defer rows.Close()

	var results []*Conjunction
	for rows.Next() {
		c, err := scanConjunction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning conjunction row: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conjunctions: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConjunction(row rowScanner) (*Conjunction, error) {
	var c Conjunction
	var detectedStr, conjStr string
	var notes sql.NullString

	err := row.Scan(
		&c.ID,
		&c.Object1.LocalID, &c.Object1.CatalogNumber, &c.Object1.Name, &c.Object1.Category,
		&c.Object2.LocalID, &c.Object2.CatalogNumber, &c.Object2.Name, &c.Object2.Category,
		&detectedStr, &conjStr,
		&c.ClosestDistanceKm,
		&c.Object1VelocityKmS, &c.Object2VelocityKmS, &c.RelativeVelocityKmS,
		&c.Probability, &c.OrbitZone, &notes,
	)
	if err != nil {
		return nil, err
	}

	if c.DetectedAt, err = time.Parse(time.RFC3339, detectedStr); err != nil {
		return nil, fmt.Errorf("parsing detected_at: %w", err)
	}
	if c.ConjunctionTime, err = time.Parse(time.RFC3339, conjStr); err != nil {
		return nil, fmt.Errorf("parsing conjunction_time: %w", err)
	}
	c.Notes = notes.String
	return &c, nil
}
