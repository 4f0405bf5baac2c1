package controller

import "github.com/ramonehamilton/grimorio/internal/catalog"

// Labels holds the user-visible strings of one language.
type Labels struct {
	Title    string
	Loading  string
	Language string

	Sort     string
	SortBook string
	SortName string
	SortCost string

	School     string
	AllSchools string
	Type       string
	AllTypes   string
	Search     string
	Reset      string

	NoSpells  string
	LoadError string

	PlaceholderTitle string
	PlaceholderHint  string

	Details       string
	Cost          string
	Maintenance   string
	CastingTime   string
	Duration      string
	Prerequisites string
	Item          string
	Reference     string

	NotAvailable    string
	NoSchool        string
	NoPrerequisites string
	ItemUnavailable string

	Previous   string
	Next       string
	PageFormat string

	// KeyHelp is the key summary shown by the terminal front end.
	KeyHelp string
}

var portuguese = Labels{
	Title:    "Grimório",
	Loading:  "Carregando...",
	Language: "English",

	Sort:     "Ordenar por",
	SortBook: "Ordem do Livro",
	SortName: "Nome",
	SortCost: "Custo",

	School:     "Escola",
	AllSchools: "Todas",
	Type:       "Tipo",
	AllTypes:   "Todos",
	Search:     "Buscar magia...",
	Reset:      "Limpar filtros",

	NoSpells:  "Nenhuma magia encontrada com os filtros selecionados.",
	LoadError: "Não foi possível carregar as magias.",

	PlaceholderTitle: "Selecione uma magia",
	PlaceholderHint:  "Use os filtros à esquerda para refinar a sua busca.",

	Details:       "Detalhes",
	Cost:          "Custo",
	Maintenance:   "Manutenção",
	CastingTime:   "Tempo de Execução",
	Duration:      "Duração",
	Prerequisites: "Pré-requisitos",
	Item:          "Item",
	Reference:     "Referência",

	NotAvailable:    "N/A",
	NoSchool:        "Nenhuma",
	NoPrerequisites: "Nenhum",
	ItemUnavailable: "Informação não disponível.",

	Previous:   "Anterior",
	Next:       "Próxima",
	PageFormat: "Pág. %d de %d",

	KeyHelp: "↑/↓ mover • enter selecionar • l idioma • s ordenar • e escola • t tipo • / buscar • r limpar • n/p página • 1-9 pré-requisito • q sair",
}

var english = Labels{
	Title:    "Grimoire",
	Loading:  "Loading...",
	Language: "English",

	Sort:     "Sort by",
	SortBook: "Book Order",
	SortName: "Name",
	SortCost: "Cost",

	School:     "School",
	AllSchools: "All",
	Type:       "Type",
	AllTypes:   "All",
	Search:     "Search spell...",
	Reset:      "Reset filters",

	NoSpells:  "No spells found with the selected filters.",
	LoadError: "Could not load spells.",

	PlaceholderTitle: "Select a spell",
	PlaceholderHint:  "Use the filters on the left to refine your search.",

	Details:       "Details",
	Cost:          "Cost",
	Maintenance:   "Maintenance",
	CastingTime:   "Casting Time",
	Duration:      "Duration",
	Prerequisites: "Prerequisites",
	Item:          "Item",
	Reference:     "Reference",

	NotAvailable:    "N/A",
	NoSchool:        "None",
	NoPrerequisites: "None",
	ItemUnavailable: "Information unavailable.",

	Previous:   "Previous",
	Next:       "Next",
	PageFormat: "Page %d of %d",

	KeyHelp: "↑/↓ move • enter select • l language • s sort • e school • t type • / search • r reset • n/p page • 1-9 prerequisite • q quit",
}

func labelsFor(lang catalog.Language) Labels {
	if lang == catalog.LangEN {
		return english
	}
	return portuguese
}
