package catalog

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter narrows a spell list. Empty fields don't constrain.
type Filter struct {
	School string
	Type   string
	Search string
}

// Query is a list request: a filter plus sort key and page.
type Query struct {
	Filter
	Sort     string
	Page     int
	PageSize int
}

// Match reports whether s satisfies every non-empty field of f.
func (f Filter) Match(s Spell) bool {
	if f.School != "" && !slices.Contains(s.Schools, f.School) {
		return false
	}
	if f.Type != "" && s.Type != f.Type {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Apply returns the spells matching f, preserving order.
func Apply(spells []Spell, f Filter) []Spell {
	out := make([]Spell, 0, len(spells))
	for _, s := range spells {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// Sort orders spells in place by key. Name ordering uses the collation rules of lang.
func Sort(spells []Spell, key string, lang Language) {
	switch NormalizeSort(key) {
	case SortName:
		tag := language.English
		if lang == LangPT {
			tag = language.BrazilianPortuguese
		}
		col := collate.New(tag, collate.IgnoreCase, collate.IgnoreDiacritics)
		slices.SortStableFunc(spells, func(a, b Spell) int {
			if c := col.CompareString(a.Name, b.Name); c != 0 {
				return c
			}
			return a.ID - b.ID
		})
	case SortCost:
		slices.SortStableFunc(spells, func(a, b Spell) int {
			ca, okA := leadingInt(a.CostText)
			cb, okB := leadingInt(b.CostText)
			switch {
			case okA && !okB:
				return -1
			case !okA && okB:
				return 1
			case okA && okB && ca != cb:
				return ca - cb
			}
			return a.ID - b.ID
		})
	default:
		slices.SortStableFunc(spells, func(a, b Spell) int { return a.ID - b.ID })
	}
}

// leadingInt parses the integer at the start of a cost text such as "3" or "2/hex".
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(s)
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Paginate slices spells into the requested page. The page is clamped into
// [1, total pages]; an empty result set has one empty page.
func Paginate(spells []Spell, page, pageSize int) ([]Spell, Pagination) {
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(spells)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page = min(max(page, 1), totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	return spells[start:end], Pagination{
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		TotalCount: total,
		PageSize:   pageSize,
	}
}
