package catalog

import (
	"context"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/ramonehamilton/grimorio/internal/storage/models"
)

//go:embed seed/spells.json
var defaultSeed []byte

// DefaultSource names the embedded seed in import records.
const DefaultSource = "embedded"

// reservedNames collide with fixed path segments under /api/magias/{lang}.
var reservedNames = map[string]bool{"todas": true}

// Store is the write side of spell storage.
type Store interface {
	ReplaceCatalog(ctx context.Context, spells []*models.Spell, imp *models.CatalogImport) error
}

// ImportResult describes a completed import run.
type ImportResult struct {
	RunID       string `json:"run_id"`
	Fingerprint string `json:"fingerprint"`
	Count       int    `json:"count"`
	Source      string `json:"source"`
}

// Importer loads a JSON seed into storage.
type Importer struct {
	store Store
}

// NewImporter creates an importer writing to store.
func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// ImportFile imports the seed at path, or the embedded seed when path is empty.
func (i *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	if path == "" {
		return i.Import(ctx, defaultSeed, DefaultSource)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return i.Import(ctx, data, path)
}

// Import decodes and validates data, then replaces the stored catalogue with it.
func (i *Importer) Import(ctx context.Context, data []byte, source string) (*ImportResult, error) {
	spells, err := Decode(data)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		RunID:       uuid.NewString(),
		Fingerprint: Fingerprint(data),
		Count:       len(spells),
		Source:      source,
	}

	imp := &models.CatalogImport{
		RunID:       result.RunID,
		Fingerprint: result.Fingerprint,
		SpellCount:  result.Count,
		Source:      source,
	}
	if err := i.store.ReplaceCatalog(ctx, spells, imp); err != nil {
		return nil, fmt.Errorf("failed to store catalogue: %w", err)
	}

	log.Printf("Imported %d spells from %s (run %s, fingerprint %s)", result.Count, source, result.RunID, result.Fingerprint[:12])
	return result, nil
}

// Decode parses a seed document and validates it. Records without an ID are
// numbered by their position, which is taken as book order.
func Decode(data []byte) ([]*models.Spell, error) {
	var spells []*models.Spell
	if err := json.Unmarshal(data, &spells); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	if len(spells) == 0 {
		return nil, errors.New("seed contains no spells")
	}

	seenNames := make(map[string]bool, len(spells))
	seenIDs := make(map[int]bool, len(spells))

	for idx, s := range spells {
		if s == nil {
			return nil, fmt.Errorf("spell %d is null", idx)
		}
		s.NameUnique = strings.TrimSpace(s.NameUnique)
		if s.NameUnique == "" {
			return nil, fmt.Errorf("spell %d has no name_unique", idx)
		}
		if reservedNames[strings.ToLower(s.NameUnique)] || strings.ContainsRune(s.NameUnique, '/') {
			return nil, fmt.Errorf("spell %d has reserved name_unique %q", idx, s.NameUnique)
		}
		if s.NameEN == "" && s.NamePT == "" {
			return nil, fmt.Errorf("spell %s has no name", s.NameUnique)
		}
		if s.NameEN == "" {
			s.NameEN = s.NamePT
		}
		if s.NamePT == "" {
			s.NamePT = s.NameEN
		}
		if seenNames[s.NameUnique] {
			return nil, fmt.Errorf("duplicate name_unique %q", s.NameUnique)
		}
		seenNames[s.NameUnique] = true

		if s.ID == 0 {
			s.ID = idx + 1
		}
		if seenIDs[s.ID] {
			return nil, fmt.Errorf("duplicate id %d (%s)", s.ID, s.NameUnique)
		}
		seenIDs[s.ID] = true
	}

	for _, s := range spells {
		for _, p := range s.Prerequisites {
			if !seenNames[p] {
				log.Printf("Spell %s references unknown prerequisite %s", s.NameUnique, p)
			}
		}
	}

	return spells, nil
}

// Fingerprint returns the hex BLAKE2b-256 digest of a seed document.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
