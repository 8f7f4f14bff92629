// Package parser turns a boolean search expression into a Query.
//
// Tokens are separated by whitespace. The upper-case keywords AND, OR and NOT
// set the class of the terms that follow; terms before any keyword are AND
// terms. PERSON and ORG start an entity filter whose value runs to the next
// keyword, so multi-word names need no quoting:
//
//	climate OR weather NOT sports PERSON Jane Doe ORG Acme Corp
package parser

import (
	"fmt"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/entity"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
)

const (
	keywordAnd    = "AND"
	keywordOr     = "OR"
	keywordNot    = "NOT"
	keywordPerson = "PERSON"
	keywordOrg    = "ORG"
)

// Query is a parsed expression. Terms are normalized the same way document
// bodies are; filters are normalized entity names, empty when absent.
type Query struct {
	AndTerms     []string
	OrTerms      []string
	NotTerms     []string
	Person       string
	Organization string
	Raw          string
}

// HasPerson reports whether the query carries a person filter.
func (q *Query) HasPerson() bool { return q.Person != "" }

// HasOrganization reports whether the query carries an organization filter.
func (q *Query) HasOrganization() bool { return q.Organization != "" }

// String renders the query in a canonical form. Two expressions that parse
// to the same Query render identically.
func (q *Query) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "AND(%s) OR(%s) NOT(%s)",
		strings.Join(q.AndTerms, ","),
		strings.Join(q.OrTerms, ","),
		strings.Join(q.NotTerms, ","))
	if q.HasPerson() {
		fmt.Fprintf(&b, " PERSON(%s)", q.Person)
	}
	if q.HasOrganization() {
		fmt.Fprintf(&b, " ORG(%s)", q.Organization)
	}
	return b.String()
}

// SyntaxError describes a malformed expression. Position is the 1-based
// index of Token among the whitespace-separated tokens.
type SyntaxError struct {
	Token    string
	Position int
	Reason   string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid query: %s", e.Reason)
	}
	return fmt.Sprintf("invalid query: %s at token %d %q", e.Reason, e.Position, e.Token)
}

func (e *SyntaxError) Unwrap() error {
	return apperrors.ErrInvalidQuery
}

// Parser normalizes query keywords with the same Normalizer used at
// ingestion time.
type Parser struct {
	normalizer *tokenizer.Normalizer
}

func New(normalizer *tokenizer.Normalizer) *Parser {
	return &Parser{normalizer: normalizer}
}

func isKeyword(word string) bool {
	switch word {
	case keywordAnd, keywordOr, keywordNot, keywordPerson, keywordOrg:
		return true
	}
	return false
}

// Parse parses expr. Keywords that normalize to nothing, such as stop words,
// are dropped without error.
func (p *Parser) Parse(expr string) (*Query, error) {
	q := &Query{
		AndTerms: make([]string, 0),
		OrTerms:  make([]string, 0),
		NotTerms: make([]string, 0),
		Raw:      expr,
	}
	words := strings.Fields(expr)
	if len(words) == 0 {
		return nil, &SyntaxError{Reason: "empty expression"}
	}

	target := &q.AndTerms
	operator, operatorPos := "", 0
	for i := 0; i < len(words); i++ {
		word := words[i]
		switch word {
		case keywordAnd, keywordOr, keywordNot, keywordPerson, keywordOrg:
			if operator != "" {
				return nil, &SyntaxError{
					Token:    word,
					Position: i + 1,
					Reason:   fmt.Sprintf("%s has no term before the next operator", operator),
				}
			}
		}

		switch word {
		case keywordAnd:
			target = &q.AndTerms
			operator, operatorPos = word, i+1
		case keywordOr:
			target = &q.OrTerms
			operator, operatorPos = word, i+1
		case keywordNot:
			target = &q.NotTerms
			operator, operatorPos = word, i+1
		case keywordPerson, keywordOrg:
			filter := &q.Person
			if word == keywordOrg {
				filter = &q.Organization
			}
			if *filter != "" {
				return nil, &SyntaxError{Token: word, Position: i + 1, Reason: "duplicate " + word + " filter"}
			}
			j := i + 1
			for j < len(words) && !isKeyword(words[j]) {
				j++
			}
			name := entity.NormalizeName(strings.Join(words[i+1:j], " "))
			if name == "" {
				return nil, &SyntaxError{Token: word, Position: i + 1, Reason: word + " requires a name"}
			}
			*filter = name
			i = j - 1
		default:
			operator = ""
			if term, ok := p.normalizer.NormalizeToken(word); ok {
				*target = append(*target, term)
			}
		}
	}
	if operator != "" {
		return nil, &SyntaxError{
			Token:    operator,
			Position: operatorPos,
			Reason:   operator + " requires a term",
		}
	}
	return q, nil
}
