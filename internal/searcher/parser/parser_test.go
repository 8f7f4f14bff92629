package parser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
)

func newParser() *Parser {
	return New(tokenizer.NewNormalizer(nil, nil, 0))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want Query
	}{
		{
			name: "bare terms are AND",
			expr: "cats dogs",
			want: Query{AndTerms: []string{"cat", "dog"}},
		},
		{
			name: "explicit operators",
			expr: "AND cat OR dog bird NOT sat",
			want: Query{AndTerms: []string{"cat"}, OrTerms: []string{"dog", "bird"}, NotTerms: []string{"sat"}},
		},
		{
			name: "bare then OR",
			expr: "markets OR stocks",
			want: Query{AndTerms: []string{"market"}, OrTerms: []string{"stock"}},
		},
		{
			name: "stop words dropped",
			expr: "the cat NOT and",
			want: Query{AndTerms: []string{"cat"}},
		},
		{
			name: "person filter only",
			expr: "PERSON Jane Doe",
			want: Query{Person: "jane doe"},
		},
		{
			name: "filters with multi-word names",
			expr: "Running PERSON Jane  Doe ORG Acme Corp NOT played",
			want: Query{
				AndTerms:     []string{"run"},
				NotTerms:     []string{"play"},
				Person:       "jane doe",
				Organization: "acme corp",
			},
		},
		{
			name: "lower-case keywords are terms",
			expr: "person org",
			want: Query{AndTerms: []string{"person", "org"}},
		},
	}
	p := newParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.expr, err)
			}
			tt.want.Raw = tt.expr
			for _, s := range []*[]string{&tt.want.AndTerms, &tt.want.OrTerms, &tt.want.NotTerms} {
				if *s == nil {
					*s = []string{}
				}
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.expr, *got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		wantToken string
		wantPos   int
	}{
		{"empty", "   ", "", 0},
		{"trailing operator", "cat AND", "AND", 2},
		{"operator after operator", "cat OR NOT dog", "NOT", 3},
		{"filter after operator", "NOT PERSON Jane", "PERSON", 2},
		{"filter without name", "cat PERSON", "PERSON", 2},
		{"filter followed by keyword", "ORG AND cat", "ORG", 1},
		{"duplicate person", "PERSON Jane ORG Acme PERSON John", "PERSON", 5},
	}
	p := newParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.expr)
			if !errors.Is(err, apperrors.ErrInvalidQuery) {
				t.Fatalf("err = %v, want ErrInvalidQuery", err)
			}
			var syn *SyntaxError
			if !errors.As(err, &syn) {
				t.Fatalf("err %T is not *SyntaxError", err)
			}
			if syn.Token != tt.wantToken || syn.Position != tt.wantPos {
				t.Errorf("token %q at %d, want %q at %d (%v)", syn.Token, syn.Position, tt.wantToken, tt.wantPos, err)
			}
		})
	}
}

func TestStringIsCanonical(t *testing.T) {
	p := newParser()
	a, err := p.Parse("cats   OR dogs PERSON Jane Doe")
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Parse("cat OR dog PERSON JANE DOE")
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("%q != %q", a.String(), b.String())
	}
	if want := "AND(cat) OR(dog) NOT() PERSON(jane doe)"; a.String() != want {
		t.Errorf("String() = %q, want %q", a.String(), want)
	}
}
