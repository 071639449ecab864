package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/compdex/internal/domain"
)

// Page defaults.
const (
	DefaultPageSize = 10
	DefaultPage     = 1
)

// Operator combines the values of a multi-valued condition.
type Operator string

// Supported operators.
const (
	OperatorOr  Operator = "or"
	OperatorAnd Operator = "and"
)

// IsValid reports whether the operator is known.
func (o Operator) IsValid() bool {
	return o == OperatorOr || o == OperatorAnd
}

// ParseOperator accepts "and"/"or" in any case. Empty input yields OperatorOr.
func ParseOperator(s string) (Operator, error) {
	op := Operator(strings.ToLower(strings.TrimSpace(s)))
	if op == "" {
		return OperatorOr, nil
	}
	if !op.IsValid() {
		return "", fmt.Errorf("%w: operator must be \"and\" or \"or\", got %q", domain.ErrInvalidFilter, s)
	}
	return op, nil
}

// RevenueBands lists the revenue buckets accepted by the API, smallest first.
var RevenueBands = []string{
	"under-1m", "1m-10m", "10m-50m", "50m-100m", "100m-200m", "200m-1b", "over-1b",
}

// EmployeeBands lists the headcount buckets accepted by the API, smallest first.
var EmployeeBands = []string{
	"1-10", "10-50", "50-200", "200-500", "500-1k", "1k-5k", "5k-10k", "over-10k",
}

// Params holds raw user input for New.
type Params struct {
	Industries       []string
	IndustryOperator Operator
	RevenueBands     []string
	EmployeeBands    []string
	Cities           []string
	Countries        []string
	PageSize         int
	Page             int
}

// DefaultParams returns empty criteria on the first page of DefaultPageSize.
// Input layers start from it; New itself never fills in a page or size.
func DefaultParams() Params {
	return Params{IndustryOperator: OperatorOr, PageSize: DefaultPageSize, Page: DefaultPage}
}

// Set is the validated, immutable search criteria of one invocation.
type Set struct {
	industries    []string
	industryOp    Operator
	revenueBands  []string
	employeeBands []string
	cities        []string
	countries     []string
	pageSize      int
	page          int
}

// New validates and creates a Set.
// An empty operator means or. Page size and page must be at least 1.
// Bands must belong to their enumeration.
// Duplicate bands are dropped, first occurrence wins.
func New(p Params) (Set, error) {
	op := p.IndustryOperator
	if op == "" {
		op = OperatorOr
	}
	if !op.IsValid() {
		return Set{}, fmt.Errorf("%w: unknown industry operator %q", domain.ErrInvalidFilter, op)
	}

	revenue, err := validateBands("revenue", p.RevenueBands, RevenueBands)
	if err != nil {
		return Set{}, err
	}
	employees, err := validateBands("employees", p.EmployeeBands, EmployeeBands)
	if err != nil {
		return Set{}, err
	}

	if p.PageSize < 1 {
		return Set{}, fmt.Errorf("%w: page size must be positive, got %d", domain.ErrInvalidFilter, p.PageSize)
	}
	if p.Page < 1 {
		return Set{}, fmt.Errorf("%w: page index must be >= 1, got %d", domain.ErrInvalidFilter, p.Page)
	}

	return Set{
		industries:    slices.Clone(p.Industries),
		industryOp:    op,
		revenueBands:  revenue,
		employeeBands: employees,
		cities:        slices.Clone(p.Cities),
		countries:     slices.Clone(p.Countries),
		pageSize:      p.PageSize,
		page:          p.Page,
	}, nil
}

func validateBands(kind string, values, allowed []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(allowed, v) {
			return nil, fmt.Errorf("%w: unknown %s band %q (allowed: %s)",
				domain.ErrInvalidFilter, kind, v, strings.Join(allowed, ", "))
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Industries returns the raw industry inputs.
func (s Set) Industries() []string { return slices.Clone(s.industries) }

// IndustryOperator returns the operator combining industries.
func (s Set) IndustryOperator() Operator { return s.industryOp }

// RevenueBands returns the selected revenue bands.
func (s Set) RevenueBands() []string { return slices.Clone(s.revenueBands) }

// EmployeeBands returns the selected employee bands.
func (s Set) EmployeeBands() []string { return slices.Clone(s.employeeBands) }

// Cities returns the raw city inputs.
func (s Set) Cities() []string { return slices.Clone(s.cities) }

// Countries returns the raw country inputs (names or codes).
func (s Set) Countries() []string { return slices.Clone(s.countries) }

// PageSize returns the requested page size.
func (s Set) PageSize() int { return s.pageSize }

// Page returns the 1-based page index.
func (s Set) Page() int { return s.page }

// IsEmpty reports whether no filter category is set.
func (s Set) IsEmpty() bool {
	return len(s.industries) == 0 && len(s.revenueBands) == 0 && len(s.employeeBands) == 0 &&
		len(s.cities) == 0 && len(s.countries) == 0
}
