package form

import (
	"sort"
	"strings"
)

// Type is the logical type of a schema node.
type Type int

const (
	Unknown Type = iota
	Text
	Integer
	Decimal
	SelectOne
	SelectMultiple
	Geopoint
	Photo
	Group
	Note
	Start
	End
	Today
	Date
	DateTime
	Calculate
)

var typeNames = [...]string{
	Unknown:        "unknown",
	Text:           "text",
	Integer:        "integer",
	Decimal:        "decimal",
	SelectOne:      "select one",
	SelectMultiple: "select multiple",
	Geopoint:       "geopoint",
	Photo:          "photo",
	Group:          "group",
	Note:           "note",
	Start:          "start",
	End:            "end",
	Today:          "today",
	Date:           "date",
	DateTime:       "datetime",
	Calculate:      "calculate",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return typeNames[Unknown]
	}
	return typeNames[t]
}

// spellings maps every known literal type string (lower case) to its logical type.
// Forms written by different tools spell the same type differently.
var spellings = map[string]Type{
	"text":                  Text,
	"string":                Text,
	"integer":               Integer,
	"int":                   Integer,
	"decimal":               Decimal,
	"select one":            SelectOne,
	"select_one":            SelectOne,
	"select":                SelectMultiple,
	"select all that apply": SelectMultiple,
	"select multiple":       SelectMultiple,
	"select_multiple":       SelectMultiple,
	"gps":                   Geopoint,
	"geopoint":              Geopoint,
	"photo":                 Photo,
	"image":                 Photo,
	"group":                 Group,
	"note":                  Note,
	"start":                 Start,
	"end":                   End,
	"today":                 Today,
	"date":                  Date,
	"datetime":              DateTime,
	"calculate":             Calculate,
}

// ParseType maps a literal type string to its logical type.
// Unrecognised spellings map to Unknown.
func ParseType(s string) Type {
	if t, ok := spellings[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return Unknown
}

// Spellings returns every literal spelling of t, sorted for stable output.
func Spellings(t Type) []string {
	var out []string
	for s, tt := range spellings {
		if tt == t {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// IsChoice reports whether values of this type are choice names.
func (t Type) IsChoice() bool {
	return t == SelectOne || t == SelectMultiple
}

// IsNumeric reports whether values of this type are numbers.
func (t Type) IsNumeric() bool {
	return t == Integer || t == Decimal
}

// IsStructural reports whether nodes of this type never become fields.
func (t Type) IsStructural() bool {
	return t == Group || t == Note
}
