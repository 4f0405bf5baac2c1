package models

import "time"

// Spell is a bilingual catalogue record as stored in the spells table.
// Columns with a Pt suffix hold the Portuguese text; the others hold the
// English or language-neutral text.
type Spell struct {
	ID         int    `json:"id"`          // Book order
	NameUnique string `json:"name_unique"` // Stable slug used for cross-references
	NameEN     string `json:"name_en"`
	NamePT     string `json:"name_pt"`

	Schools       []string `json:"schools"`
	Prerequisites []string `json:"prerequisites"` // Unique names of prerequisite spells

	PrerequisitesTextEN string `json:"prerequisites_text_en"`
	PrerequisitesTextPT string `json:"prerequisites_text_pt"`

	SpellType  string `json:"spell_type"`
	IsVeryHard bool   `json:"is_very_hard"`

	Cost              string `json:"cost"`
	CostPT            string `json:"cost_pt"`
	MaintenanceCost   string `json:"maintenance_cost"`
	MaintenanceCostPT string `json:"maintenance_cost_pt"`
	CastingTime       string `json:"casting_time"`
	CastingTimePT     string `json:"casting_time_pt"`
	DurationEN        string `json:"duration_en"`
	DurationPT        string `json:"duration_pt"`
	RangeEN           string `json:"range_en"`
	RangePT           string `json:"range_pt"`
	ResistedBy        string `json:"resisted_by"`

	DescriptionEN string `json:"description_en"`
	DescriptionPT string `json:"description_pt"`
	ItemEN        string `json:"item_en"`
	ItemPT        string `json:"item_pt"`
	CreationCost  string `json:"creation_cost"`
	Reference     string `json:"reference"`
}

// CatalogImport records one import run of the spell catalogue.
type CatalogImport struct {
	RunID       string    `json:"run_id"`
	Fingerprint string    `json:"fingerprint"`
	SpellCount  int       `json:"spell_count"`
	Source      string    `json:"source"`
	ImportedAt  time.Time `json:"imported_at"`
}
