package compdex

import "github.com/kailas-cloud/compdex/internal/domain/search/filter"

// Operator joins the industries of a search.
type Operator string

// Operator constants.
const (
	// OperatorOr matches companies in any of the industries (default).
	OperatorOr Operator = "or"
	// OperatorAnd matches companies in all of the industries.
	OperatorAnd Operator = "and"
)

// Accepted band values.
var (
	RevenueBands  = append([]string(nil), filter.RevenueBands...)
	EmployeeBands = append([]string(nil), filter.EmployeeBands...)
)

// FilterBuilder is a fluent builder for search criteria.
// Validation happens when the search runs.
type FilterBuilder struct {
	p filter.Params
}

// Filters starts an empty set of criteria: every company, page 1, 10 per page.
func Filters() *FilterBuilder {
	return &FilterBuilder{p: filter.DefaultParams()}
}

// Industries adds industry names in any spelling ("Information Technology",
// "information_technology").
func (b *FilterBuilder) Industries(names ...string) *FilterBuilder {
	b.p.Industries = append(b.p.Industries, names...)
	return b
}

// Operator sets how industries combine.
func (b *FilterBuilder) Operator(op Operator) *FilterBuilder {
	b.p.IndustryOperator = filter.Operator(op)
	return b
}

// Revenues adds revenue bands from RevenueBands.
func (b *FilterBuilder) Revenues(bands ...string) *FilterBuilder {
	b.p.RevenueBands = append(b.p.RevenueBands, bands...)
	return b
}

// Employees adds headcount bands from EmployeeBands.
func (b *FilterBuilder) Employees(bands ...string) *FilterBuilder {
	b.p.EmployeeBands = append(b.p.EmployeeBands, bands...)
	return b
}

// Cities adds city names.
func (b *FilterBuilder) Cities(names ...string) *FilterBuilder {
	b.p.Cities = append(b.p.Cities, names...)
	return b
}

// Countries adds countries as English names or ISO 3166-1 alpha-2 codes.
func (b *FilterBuilder) Countries(names ...string) *FilterBuilder {
	b.p.Countries = append(b.p.Countries, names...)
	return b
}

// Size sets the number of companies per page.
func (b *FilterBuilder) Size(n int) *FilterBuilder {
	b.p.PageSize = n
	return b
}

// Page sets the 1-based page index.
func (b *FilterBuilder) Page(n int) *FilterBuilder {
	b.p.Page = n
	return b
}

func (b *FilterBuilder) build() (filter.Set, error) {
	if b == nil {
		return filter.New(filter.DefaultParams())
	}
	return filter.New(b.p)
}
