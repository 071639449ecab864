// Package country resolves user supplied country names or codes to the
// lowercase ISO 3166-1 alpha-2 codes used by the company API.
package country

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/compdex/internal/domain"
	"github.com/kailas-cloud/compdex/internal/domain/kebab"
)

// lookupAlias maps common non-ISO spellings to canonical codes.
var lookupAlias = map[string]string{
	"uk":                       "gb",
	"great-britain":            "gb",
	"usa":                      "us",
	"united-states-of-america": "us",
	"czech-republic":           "cz",
	"ivory-coast":              "ci",
	"russian-federation":       "ru",
	"turkiye":                  "tr",
	"vatican-city":             "va",
}

// table is the bidirectional lookup built once from iso3166.
type table struct {
	codeByName map[string]string
	nameByCode map[string]string
}

var lookup = newTable(iso3166, lookupAlias)

func newTable(names, aliases map[string]string) table {
	t := table{
		codeByName: make(map[string]string, len(names)+len(aliases)),
		nameByCode: make(map[string]string, len(names)),
	}
	for code, name := range names {
		t.nameByCode[code] = name
		t.codeByName[kebab.Normalize(name)] = code
	}
	for alias, code := range aliases {
		t.codeByName[alias] = code
	}
	return t
}

// UnknownError names the rejected country input.
type UnknownError struct {
	Input string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrUnknownCountry.Error(), e.Input)
}

func (e *UnknownError) Unwrap() error { return domain.ErrUnknownCountry }

// Resolve returns the canonical code for a country name or code.
// Matching is case and convention insensitive ("United States", "united_states", "US").
func Resolve(s string) (string, error) {
	key := kebab.Normalize(s)
	if _, ok := lookup.nameByCode[key]; ok {
		return key, nil
	}
	if code, ok := lookup.codeByName[key]; ok {
		return code, nil
	}
	return "", &UnknownError{Input: key}
}

// Name returns the English name for a canonical code.
func Name(code string) (string, bool) {
	name, ok := lookup.nameByCode[code]
	return name, ok
}

// Codes returns all canonical codes in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(lookup.nameByCode))
	for code := range lookup.nameByCode {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}
