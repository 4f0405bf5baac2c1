// Package catalog serves the spell catalogue: localisation, filtering, sorting,
// pagination, seed import and hot reload.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a spell does not exist.
	ErrNotFound = errors.New("spell not found")

	// ErrInvalidLanguage is returned for a language other than pt or en.
	ErrInvalidLanguage = errors.New("invalid language")
)

// Language is a catalogue display language.
type Language string

const (
	LangPT Language = "pt"
	LangEN Language = "en"
)

// ParseLanguage validates a language code.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LangPT:
		return LangPT, nil
	case LangEN:
		return LangEN, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
	}
}

// Sort keys understood by the API.
const (
	SortBook = "id"
	SortName = "nome"
	SortCost = "custo"
)

// NormalizeSort maps unknown or empty sort keys to book order.
func NormalizeSort(key string) string {
	switch key {
	case SortName, SortCost:
		return key
	default:
		return SortBook
	}
}

// PrereqRef is a cross-reference to a prerequisite spell.
type PrereqRef struct {
	Name       string `json:"name"`
	NameUnique string `json:"name_unique"`
}

// Spell is a localised spell as served by the API.
type Spell struct {
	ID                  int         `json:"id"`
	NameUnique          string      `json:"name_unique"`
	Name                string      `json:"name"`
	Schools             []string    `json:"schools"`
	Type                string      `json:"type"`
	Description         string      `json:"description"`
	CostText            string      `json:"cost_text"`
	MaintenanceCostText string      `json:"maintenance_cost_text"`
	CastingTime         string      `json:"casting_time"`
	Duration            string      `json:"duration"`
	Range               string      `json:"range"`
	ResistedBy          string      `json:"resisted_by"`
	VeryHard            bool        `json:"very_hard"`
	PrerequisitesText   string      `json:"prerequisites_text"`
	PrerequisitesObj    []PrereqRef `json:"prerequisites_obj"`
	ItemDescription     string      `json:"item_description"`
	CreationCost        string      `json:"creation_cost"`
	Reference           string      `json:"reference"`
}

// Pagination describes one page of a result set.
type Pagination struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
	TotalCount int  `json:"total_count"`
	PageSize   int  `json:"page_size"`
}

// Page is a paginated list response.
type Page struct {
	Spells     []Spell    `json:"spells"`
	Pagination Pagination `json:"pagination"`
}

// Filters holds the distinct values available for the filter menus.
type Filters struct {
	Schools []string `json:"escolas"`
	Types   []string `json:"tipos"`
}

// SchoolCount is the number of spells belonging to a school.
type SchoolCount struct {
	School string `json:"school"`
	Count  int    `json:"count"`
}
