package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/grimorio/internal/storage/models"
)

type recordingStore struct {
	spells []*models.Spell
	imp    *models.CatalogImport
	calls  int
	err    error
}

func (s *recordingStore) ReplaceCatalog(_ context.Context, spells []*models.Spell, imp *models.CatalogImport) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.spells = spells
	s.imp = imp
	return nil
}

func TestDecode_EmbeddedSeed(t *testing.T) {
	spells, err := Decode(defaultSeed)
	require.NoError(t, err)

	require.Len(t, spells, 24)
	for i, s := range spells {
		assert.Equal(t, i+1, s.ID, s.NameUnique)
		assert.NotEmpty(t, s.NameEN, s.NameUnique)
		assert.NotEmpty(t, s.NamePT, s.NameUnique)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"invalid json", `{`, "failed to parse seed"},
		{"empty list", `[]`, "seed contains no spells"},
		{"null entry", `[null]`, "spell 0 is null"},
		{"missing unique name", `[{"name_en":"Light"}]`, "spell 0 has no name_unique"},
		{"reserved unique name", `[{"name_unique":"todas","name_en":"All"}]`, `spell 0 has reserved name_unique "todas"`},
		{"unique name with slash", `[{"name_unique":"fire/ball","name_en":"Fireball"}]`, `reserved name_unique "fire/ball"`},
		{"missing name", `[{"name_unique":"light"}]`, "spell light has no name"},
		{"duplicate unique name", `[{"name_unique":"light","name_en":"Light"},{"name_unique":"light","name_en":"Light"}]`, `duplicate name_unique "light"`},
		{"duplicate id", `[{"id":1,"name_unique":"a","name_en":"A"},{"id":1,"name_unique":"b","name_en":"B"}]`, "duplicate id 1 (b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecode_FillsMissingFields(t *testing.T) {
	spells, err := Decode([]byte(`[{"name_unique":" luz ","name_pt":"Luz"},{"name_unique":"haste","name_en":"Haste"}]`))
	require.NoError(t, err)

	assert.Equal(t, "luz", spells[0].NameUnique)
	assert.Equal(t, "Luz", spells[0].NameEN)
	assert.Equal(t, "Haste", spells[1].NamePT)
	assert.Equal(t, 2, spells[1].ID)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte(`[1]`))
	b := Fingerprint([]byte(`[2]`))

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Fingerprint([]byte(`[1]`)))
}

func TestImporter_ImportFileEmbedded(t *testing.T) {
	store := &recordingStore{}
	imp := NewImporter(store)

	result, err := imp.ImportFile(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 24, result.Count)
	assert.Equal(t, DefaultSource, result.Source)
	assert.Equal(t, Fingerprint(defaultSeed), result.Fingerprint)
	assert.NotEmpty(t, result.RunID)

	require.NotNil(t, store.imp)
	assert.Equal(t, result.RunID, store.imp.RunID)
	assert.Equal(t, 24, store.imp.SpellCount)
	assert.Len(t, store.spells, 24)
}

func TestImporter_ImportFileFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spells.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name_unique":"light","name_en":"Light","name_pt":"Luz"}]`), 0o600))

	store := &recordingStore{}
	result, err := NewImporter(store).ImportFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	assert.Equal(t, path, result.Source)
}

func TestImporter_MissingFile(t *testing.T) {
	store := &recordingStore{}
	_, err := NewImporter(store).ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"))

	assert.ErrorContains(t, err, "failed to read seed file")
	assert.Zero(t, store.calls)
}

func TestImporter_InvalidSeedDoesNotTouchStore(t *testing.T) {
	store := &recordingStore{}
	_, err := NewImporter(store).Import(context.Background(), []byte(`[]`), "test")

	assert.Error(t, err)
	assert.Zero(t, store.calls)
}

func TestImporter_StoreError(t *testing.T) {
	store := &recordingStore{err: errors.New("locked")}
	_, err := NewImporter(store).Import(context.Background(), defaultSeed, "test")

	assert.ErrorContains(t, err, "failed to store catalogue")
	assert.ErrorContains(t, err, "locked")
}
