package result

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/compdex/internal/domain"
	"github.com/kailas-cloud/compdex/internal/domain/company"
)

func records(n int) []company.Record {
	out := make([]company.Record, n)
	for i := range out {
		out[i] = company.Record{"name": "c"}
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		page  Page
		want  Outcome
		empty bool
	}{
		{"complete", Page{Total: 2, Companies: records(2)}, Complete, false},
		{"partial", Page{Total: 50, Companies: records(10)}, Partial, false},
		{"total below returned", Page{Total: 1, Companies: records(3)}, Complete, false},
		{"empty", Page{Total: 0}, "", true},
		{"empty with total", Page{Total: 40}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.page)
			if tt.empty {
				if !errors.Is(err, domain.ErrEmptyResult) {
					t.Fatalf("expected ErrEmptyResult, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotice(t *testing.T) {
	p := Page{Total: 50, Companies: records(10)}
	msg := Notice(Partial, p, 3)
	for _, part := range []string{"Found 50 companies", "10 companies from page 3", "different page index"} {
		if !strings.Contains(msg, part) {
			t.Errorf("partial notice %q missing %q", msg, part)
		}
	}

	if msg := Notice(Complete, Page{Total: 2, Companies: records(2)}, 1); msg != "Found 2 companies" {
		t.Errorf("complete notice = %q", msg)
	}
}
