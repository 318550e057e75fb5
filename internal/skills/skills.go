// Package skills extracts known technology terms from free text.
//
// Matching is whole-word and case-insensitive: a term matches only when it is
// not embedded in a larger alphanumeric run, so "go" never matches "google"
// and "java" never matches "javascript". A few spelling variants are folded
// into their canonical term via the alias table.
package skills

import (
	"regexp"
	"strings"
)

// Vocabulary is the fixed list of technology terms recognized across the
// pipeline: job description parsing, profile enrichment and match scoring.
var Vocabulary = []string{
	"python", "java", "javascript", "react", "angular", "vue", "node.js",
	"django", "flask", "spring", "docker", "kubernetes", "aws", "azure",
	"gcp", "terraform", "jenkins", "git", "sql", "postgresql", "mongodb",
	"redis", "elasticsearch", "machine learning", "ai", "data science",
	"tensorflow", "pytorch", "scikit-learn", "html", "css", "typescript",
	"go", "rust", "c++", "c#", ".net", "php", "devops", "ci/cd",
	"microservices", "restful api", "graphql", "agile", "scrum",
}

// aliases maps a canonical vocabulary term to spelling variants that count as
// a match for it.
var aliases = map[string][]string{
	"postgresql":       {"postgres"},
	"javascript":       {"js"},
	"kubernetes":       {"k8s"},
	"go":               {"golang"},
	"machine learning": {"ml"},
	"microservices":    {"microservice"},
}

// TermSet holds a list of terms compiled for repeated whole-word lookups.
// The zero value is not usable; construct with NewTermSet.
type TermSet struct {
	terms    []string
	patterns [][]*regexp.Regexp
}

// NewTermSet compiles the provided terms. Terms are normalized; empty and
// duplicate entries are dropped while the original order is preserved.
func NewTermSet(terms []string) *TermSet {
	set := &TermSet{}
	seen := make(map[string]bool, len(terms))

	for _, term := range terms {
		normalized := Normalize(term)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		variants := append([]string{normalized}, aliases[normalized]...)
		compiled := make([]*regexp.Regexp, 0, len(variants))
		for _, variant := range variants {
			compiled = append(compiled, wordPattern(variant))
		}

		set.terms = append(set.terms, normalized)
		set.patterns = append(set.patterns, compiled)
	}

	return set
}

// Extractor recognizes the full built-in vocabulary.
func Extractor() *TermSet {
	return NewTermSet(Vocabulary)
}

// Terms returns the normalized terms of the set in their original order.
func (s *TermSet) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// Len returns the number of terms in the set.
func (s *TermSet) Len() int {
	return len(s.terms)
}

// MatchedIn returns the subset of terms present in text, in set order.
// An empty result is normal for text mentioning none of the terms.
func (s *TermSet) MatchedIn(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var matched []string
	for i, term := range s.terms {
		for _, pattern := range s.patterns[i] {
			if pattern.MatchString(text) {
				matched = append(matched, term)
				break
			}
		}
	}
	return matched
}

// Contains reports whether the single term occurs in text as a whole word.
func Contains(text, term string) bool {
	normalized := Normalize(term)
	if normalized == "" {
		return false
	}
	if wordPattern(normalized).MatchString(text) {
		return true
	}
	for _, variant := range aliases[normalized] {
		if wordPattern(variant).MatchString(text) {
			return true
		}
	}
	return false
}

// Normalize lowercases and trims a skill name so differently-cased spellings
// compare equal.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// wordPattern builds a case-insensitive whole-word pattern for the term.
// Terms may contain symbols ("c++", "node.js", "ci/cd"), so \b is not usable;
// instead the term must not be flanked by letters or digits.
func wordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^a-z0-9])` + regexp.QuoteMeta(term) + `(?:$|[^a-z0-9])`)
}
