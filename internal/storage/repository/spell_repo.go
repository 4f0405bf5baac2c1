package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ramonehamilton/grimorio/internal/storage/models"
)

// SpellRepository handles database operations for the spell catalogue.
type SpellRepository interface {
	// ReplaceAll deletes every stored spell and inserts the given ones within tx.
	ReplaceAll(ctx context.Context, tx *sql.Tx, spells []*models.Spell) error

	// RecordImport stores the metadata of an import run within tx.
	RecordImport(ctx context.Context, tx *sql.Tx, imp *models.CatalogImport) error

	// List retrieves all spells in book order.
	List(ctx context.Context) ([]*models.Spell, error)

	// GetByUniqueName retrieves a spell by its unique name.
	// Returns nil if the spell doesn't exist.
	GetByUniqueName(ctx context.Context, nameUnique string) (*models.Spell, error)

	// Count returns the number of stored spells.
	Count(ctx context.Context) (int, error)

	// LatestImport returns the most recent import run, or nil if none.
	LatestImport(ctx context.Context) (*models.CatalogImport, error)
}

type spellRepository struct {
	db *sql.DB
}

// NewSpellRepository creates a new spell repository.
func NewSpellRepository(db *sql.DB) SpellRepository {
	return &spellRepository{db: db}
}

const spellColumns = `
	id, name_unique, name_en, name_pt, schools, prerequisites,
	prerequisites_text_en, prerequisites_text_pt, spell_type, is_very_hard,
	cost, cost_pt, maintenance_cost, maintenance_cost_pt,
	casting_time, casting_time_pt, duration_en, duration_pt,
	range_en, range_pt, resisted_by, description_en, description_pt,
	item_en, item_pt, creation_cost, reference`

const timeLayout = "2006-01-02 15:04:05.999999"

// ReplaceAll deletes every stored spell and inserts the given ones within tx.
func (r *spellRepository) ReplaceAll(ctx context.Context, tx *sql.Tx, spells []*models.Spell) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM spells`); err != nil {
		return fmt.Errorf("failed to clear spells: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO spells (`+spellColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare spell insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range spells {
		schools, err := json.Marshal(nonNil(s.Schools))
		if err != nil {
			return fmt.Errorf("failed to encode schools for %s: %w", s.NameUnique, err)
		}
		prereqs, err := json.Marshal(nonNil(s.Prerequisites))
		if err != nil {
			return fmt.Errorf("failed to encode prerequisites for %s: %w", s.NameUnique, err)
		}

		_, err = stmt.ExecContext(ctx,
			s.ID, s.NameUnique, s.NameEN, s.NamePT, string(schools), string(prereqs),
			s.PrerequisitesTextEN, s.PrerequisitesTextPT, s.SpellType, s.IsVeryHard,
			s.Cost, s.CostPT, s.MaintenanceCost, s.MaintenanceCostPT,
			s.CastingTime, s.CastingTimePT, s.DurationEN, s.DurationPT,
			s.RangeEN, s.RangePT, s.ResistedBy, s.DescriptionEN, s.DescriptionPT,
			s.ItemEN, s.ItemPT, s.CreationCost, s.Reference,
		)
		if err != nil {
			return fmt.Errorf("failed to insert spell %s: %w", s.NameUnique, err)
		}
	}

	return nil
}

// RecordImport stores the metadata of an import run within tx.
func (r *spellRepository) RecordImport(ctx context.Context, tx *sql.Tx, imp *models.CatalogImport) error {
	if imp.ImportedAt.IsZero() {
		imp.ImportedAt = time.Now().UTC()
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO catalog_imports (run_id, fingerprint, spell_count, source, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, imp.RunID, imp.Fingerprint, imp.SpellCount, imp.Source, imp.ImportedAt.Format(timeLayout))
	return err
}

// List retrieves all spells in book order.
func (r *spellRepository) List(ctx context.Context) ([]*models.Spell, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+spellColumns+` FROM spells ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var spells []*models.Spell
	for rows.Next() {
		s, err := scanSpell(rows)
		if err != nil {
			return nil, err
		}
		spells = append(spells, s)
	}

	return spells, rows.Err()
}

// GetByUniqueName retrieves a spell by its unique name.
func (r *spellRepository) GetByUniqueName(ctx context.Context, nameUnique string) (*models.Spell, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+spellColumns+` FROM spells WHERE name_unique = ?`, nameUnique)

	s, err := scanSpell(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Count returns the number of stored spells.
func (r *spellRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spells`).Scan(&count)
	return count, err
}

// LatestImport returns the most recent import run, or nil if none.
func (r *spellRepository) LatestImport(ctx context.Context) (*models.CatalogImport, error) {
	imp := &models.CatalogImport{}
	var importedAt string

	err := r.db.QueryRowContext(ctx, `
		SELECT run_id, fingerprint, spell_count, source, imported_at
		FROM catalog_imports
		ORDER BY imported_at DESC
		LIMIT 1
	`).Scan(&imp.RunID, &imp.Fingerprint, &imp.SpellCount, &imp.Source, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	imp.ImportedAt, _ = time.Parse(timeLayout, importedAt)
	return imp, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpell(row rowScanner) (*models.Spell, error) {
	s := &models.Spell{}
	var schools, prereqs string

	err := row.Scan(
		&s.ID, &s.NameUnique, &s.NameEN, &s.NamePT, &schools, &prereqs,
		&s.PrerequisitesTextEN, &s.PrerequisitesTextPT, &s.SpellType, &s.IsVeryHard,
		&s.Cost, &s.CostPT, &s.MaintenanceCost, &s.MaintenanceCostPT,
		&s.CastingTime, &s.CastingTimePT, &s.DurationEN, &s.DurationPT,
		&s.RangeEN, &s.RangePT, &s.ResistedBy, &s.DescriptionEN, &s.DescriptionPT,
		&s.ItemEN, &s.ItemPT, &s.CreationCost, &s.Reference,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(schools), &s.Schools); err != nil {
		return nil, fmt.Errorf("failed to decode schools for %s: %w", s.NameUnique, err)
	}
	if err := json.Unmarshal([]byte(prereqs), &s.Prerequisites); err != nil {
		return nil, fmt.Errorf("failed to decode prerequisites for %s: %w", s.NameUnique, err)
	}

	return s, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
