package catalog

import (
	"strings"

	"github.com/ramonehamilton/grimorio/internal/storage/models"
)

// Localize converts a stored record into the API representation for lang.
// Portuguese fields fall back to their English or language-neutral column when
// no translation exists. names maps unique names to localised display names
// and is used to resolve prerequisites; unresolved references keep the slug.
func Localize(rec *models.Spell, lang Language, names map[string]string) Spell {
	pick := func(en, pt string) string {
		if lang == LangPT && strings.TrimSpace(pt) != "" {
			return pt
		}
		return en
	}

	s := Spell{
		ID:                  rec.ID,
		NameUnique:          rec.NameUnique,
		Name:                pick(rec.NameEN, rec.NamePT),
		Schools:             append([]string{}, rec.Schools...),
		Type:                rec.SpellType,
		Description:         pick(rec.DescriptionEN, rec.DescriptionPT),
		CostText:            pick(rec.Cost, rec.CostPT),
		MaintenanceCostText: pick(rec.MaintenanceCost, rec.MaintenanceCostPT),
		CastingTime:         pick(rec.CastingTime, rec.CastingTimePT),
		Duration:            pick(rec.DurationEN, rec.DurationPT),
		Range:               pick(rec.RangeEN, rec.RangePT),
		ResistedBy:          rec.ResistedBy,
		VeryHard:            rec.IsVeryHard,
		PrerequisitesText:   pick(rec.PrerequisitesTextEN, rec.PrerequisitesTextPT),
		PrerequisitesObj:    make([]PrereqRef, 0, len(rec.Prerequisites)),
		ItemDescription:     pick(rec.ItemEN, rec.ItemPT),
		CreationCost:        rec.CreationCost,
		Reference:           rec.Reference,
	}

	for _, unique := range rec.Prerequisites {
		name, ok := names[unique]
		if !ok {
			name = unique
		}
		s.PrerequisitesObj = append(s.PrerequisitesObj, PrereqRef{Name: name, NameUnique: unique})
	}

	if s.PrerequisitesText == "" && len(s.PrerequisitesObj) > 0 {
		parts := make([]string, len(s.PrerequisitesObj))
		for i, p := range s.PrerequisitesObj {
			parts[i] = p.Name
		}
		s.PrerequisitesText = strings.Join(parts, ", ")
	}

	return s
}

// NameIndex maps every record's unique name to its localised display name.
func NameIndex(recs []*models.Spell, lang Language) map[string]string {
	names := make(map[string]string, len(recs))
	for _, rec := range recs {
		if lang == LangPT && rec.NamePT != "" {
			names[rec.NameUnique] = rec.NamePT
		} else {
			names[rec.NameUnique] = rec.NameEN
		}
	}
	return names
}

// LocalizeAll localises every record, preserving order.
func LocalizeAll(recs []*models.Spell, lang Language) []Spell {
	names := NameIndex(recs, lang)
	spells := make([]Spell, len(recs))
	for i, rec := range recs {
		spells[i] = Localize(rec, lang, names)
	}
	return spells
}
