// Package query builds the condition list sent as the "query" parameter of the company API.
package query

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/compdex/internal/domain/country"
	"github.com/kailas-cloud/compdex/internal/domain/kebab"
	"github.com/kailas-cloud/compdex/internal/domain/search/filter"
)

// Remote attribute names.
const (
	AttrIndustries = "industries"
	AttrRevenue    = "revenue"
	AttrEmployees  = "totalEmployees"
	AttrCountry    = "country.code"
	AttrCity       = "city.code"
)

// SignEquals is the only comparator used by the builder.
const SignEquals = "equals"

// MaxConditions is the number of filterable attributes.
const MaxConditions = 5

// Condition is one attribute filter of the API query.
type Condition struct {
	Attribute string          `json:"attribute"`
	Operator  filter.Operator `json:"operator"`
	Sign      string          `json:"sign"`
	Values    []string        `json:"values"`
}

// Build converts a filter set into conditions, in the fixed order
// industries, revenue, employees, country, city. Categories that are empty
// after normalization are omitted. Only industries carry the caller's operator.
func Build(fs filter.Set) ([]Condition, error) {
	countries, err := resolveCountries(fs.Countries())
	if err != nil {
		return nil, err
	}

	candidates := []struct {
		attr   string
		values []string
		op     filter.Operator
	}{
		{AttrIndustries, normalizeAll(fs.Industries()), fs.IndustryOperator()},
		{AttrRevenue, fs.RevenueBands(), filter.OperatorOr},
		{AttrEmployees, fs.EmployeeBands(), filter.OperatorOr},
		{AttrCountry, countries, filter.OperatorOr},
		{AttrCity, normalizeAll(fs.Cities()), filter.OperatorOr},
	}

	conditions := make([]Condition, 0, MaxConditions)
	for _, c := range candidates {
		if len(c.values) == 0 {
			continue
		}
		conditions = append(conditions, Condition{
			Attribute: c.attr,
			Operator:  c.op,
			Sign:      SignEquals,
			Values:    c.values,
		})
	}
	return conditions, nil
}

// Encode serializes conditions to the JSON string expected by the API.
// A nil or empty list encodes as "[]".
func Encode(conditions []Condition) (string, error) {
	if conditions == nil {
		conditions = []Condition{}
	}
	data, err := json.Marshal(conditions)
	if err != nil {
		return "", fmt.Errorf("marshal query: %w", err)
	}
	return string(data), nil
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := kebab.Normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func resolveCountries(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if kebab.Normalize(v) == "" {
			continue
		}
		code, err := country.Resolve(v)
		if err != nil {
			return nil, fmt.Errorf("resolve country: %w", err)
		}
		out = append(out, code)
	}
	return out, nil
}
