package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ramonehamilton/grimorio/internal/storage/models"
	"github.com/ramonehamilton/grimorio/internal/storage/repository"
)

// Service provides high-level operations for storing and retrieving the catalogue.
type Service struct {
	db     *DB
	spells repository.SpellRepository
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:     db,
		spells: repository.NewSpellRepository(db.Conn()),
	}
}

// SpellRepo returns the spell repository.
func (s *Service) SpellRepo() repository.SpellRepository {
	return s.spells
}

// ReplaceCatalog atomically swaps the stored catalogue for spells and records the import run.
func (s *Service) ReplaceCatalog(ctx context.Context, spells []*models.Spell, imp *models.CatalogImport) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.spells.ReplaceAll(ctx, tx, spells); err != nil {
			return err
		}
		if err := s.spells.RecordImport(ctx, tx, imp); err != nil {
			return fmt.Errorf("failed to record import: %w", err)
		}
		return nil
	})
}

// withTransaction commits when fn succeeds and rolls back on error or panic.
func (s *Service) withTransaction(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
			}
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("failed to commit transaction: %w", err)
		}
	}()

	return fn(tx)
}

// Close releases the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}
