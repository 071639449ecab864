package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/compdex/internal/domain"
)

func TestNew_DefaultParams(t *testing.T) {
	s, err := New(DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.IndustryOperator() != OperatorOr {
		t.Errorf("operator = %q, want %q", s.IndustryOperator(), OperatorOr)
	}
	if s.PageSize() != DefaultPageSize {
		t.Errorf("page size = %d, want %d", s.PageSize(), DefaultPageSize)
	}
	if s.Page() != DefaultPage {
		t.Errorf("page = %d, want %d", s.Page(), DefaultPage)
	}
	if !s.IsEmpty() {
		t.Error("expected empty set")
	}
}

func TestNew_Valid(t *testing.T) {
	s, err := New(Params{
		Industries:       []string{"Information Technology"},
		IndustryOperator: OperatorAnd,
		RevenueBands:     []string{"1m-10m", "over-1b", "1m-10m"},
		EmployeeBands:    []string{"1-10"},
		Cities:           []string{"Paris"},
		Countries:        []string{"France"},
		PageSize:         25,
		Page:             3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.IndustryOperator() != OperatorAnd {
		t.Errorf("operator = %q", s.IndustryOperator())
	}
	if got := s.RevenueBands(); len(got) != 2 || got[0] != "1m-10m" || got[1] != "over-1b" {
		t.Errorf("revenue bands = %v", got)
	}
	if s.PageSize() != 25 || s.Page() != 3 {
		t.Errorf("size/page = %d/%d", s.PageSize(), s.Page())
	}
	if s.IsEmpty() {
		t.Error("expected non-empty set")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		errPart string
	}{
		{"bad operator", Params{IndustryOperator: "xor", PageSize: 10, Page: 1}, "operator"},
		{"bad revenue", Params{RevenueBands: []string{"1b-2b"}, PageSize: 10, Page: 1}, "revenue band"},
		{"bad employees", Params{EmployeeBands: []string{"10-20"}, PageSize: 10, Page: 1}, "employees band"},
		{"negative size", Params{PageSize: -1, Page: 1}, "page size"},
		{"zero size", Params{PageSize: 0, Page: 1}, "page size must be positive, got 0"},
		{"negative page", Params{PageSize: 10, Page: -2}, "page index"},
		{"zero page", Params{PageSize: 10, Page: 0}, "page index must be >= 1, got 0"},
		{"zero value", Params{}, "page size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrInvalidFilter) {
				t.Errorf("expected ErrInvalidFilter, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q should mention %q", err, tt.errPart)
			}
		})
	}
}

func TestSet_Immutable(t *testing.T) {
	industries := []string{"software"}
	p := DefaultParams()
	p.Industries = industries
	s, err := New(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	industries[0] = "mutated"
	if s.Industries()[0] != "software" {
		t.Error("Set must not alias caller input")
	}

	got := s.Industries()
	got[0] = "mutated"
	if s.Industries()[0] != "software" {
		t.Error("Set getters must return copies")
	}
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		in      string
		want    Operator
		wantErr bool
	}{
		{"", OperatorOr, false},
		{"or", OperatorOr, false},
		{"AND", OperatorAnd, false},
		{" And ", OperatorAnd, false},
		{"nand", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOperator(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOperator(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOperator(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
