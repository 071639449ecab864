package chi

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/compdex/internal/domain/search/filter"
)

// defaultFormPageSize is the page size preselected in an empty form.
const defaultFormPageSize = 5

// FormState is one submission of the search form. It lives for a single
// request and is echoed back to pre-fill the rendered form.
type FormState struct {
	Token      string
	Industries []string
	Operator   string
	Revenues   []string
	Employees  []string
	Cities     []string
	Countries  []string
	Size       int
	Page       int
	ExportCSV  bool
	ExportDir  string
}

// NewFormState returns the state of an untouched form.
func NewFormState(exportDir string) FormState {
	return FormState{
		Operator:  string(filter.OperatorOr),
		Size:      defaultFormPageSize,
		Page:      filter.DefaultPage,
		ExportDir: exportDir,
	}
}

// Params converts the state into filter parameters.
func (f FormState) Params() filter.Params {
	return filter.Params{
		Industries:       f.Industries,
		IndustryOperator: filter.Operator(f.Operator),
		RevenueBands:     f.Revenues,
		EmployeeBands:    f.Employees,
		Cities:           f.Cities,
		Countries:        f.Countries,
		PageSize:         f.Size,
		Page:             f.Page,
	}
}

// formField binds one posted field. Comma lists are not exploded; checkbox
// groups arrive as repeated keys and are.
type formField struct {
	name    string
	explode bool
	dest    any
}

// ParseForm binds posted values onto a copy of base. Blank fields keep the
// base value. An error means a field could not be parsed at all.
func ParseForm(values url.Values, base FormState) (FormState, error) {
	st := base
	posted := compact(values)

	fields := []formField{
		{"api_token", true, &st.Token},
		{"industries", false, &st.Industries},
		{"i_operator", true, &st.Operator},
		{"revenue", true, &st.Revenues},
		{"employees", true, &st.Employees},
		{"cities", false, &st.Cities},
		{"countries", false, &st.Countries},
		{"output_size", true, &st.Size},
		{"page", true, &st.Page},
		{"csv_path", true, &st.ExportDir},
	}
	for _, f := range fields {
		if !posted.Has(f.name) {
			continue
		}
		if err := runtime.BindQueryParameter("form", f.explode, true, f.name, posted, f.dest); err != nil {
			return base, fmt.Errorf("field %s: %w", f.name, err)
		}
	}

	st.ExportCSV = values.Get("csv_checkbox") != ""
	st.Industries = trimAll(st.Industries)
	st.Cities = trimAll(st.Cities)
	st.Countries = trimAll(st.Countries)
	return st, nil
}

// compact drops blank values and keys left without values.
func compact(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, vs := range values {
		for _, v := range vs {
			if v = strings.TrimSpace(v); v != "" {
				out.Add(k, v)
			}
		}
	}
	return out
}

func trimAll(items []string) []string {
	out := items[:0:0]
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
