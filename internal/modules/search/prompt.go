package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"photomind/internal/domain"
)

var (
	errNotArray = errors.New("response is not a JSON array")

	fencedBlock = regexp.MustCompile("(?s)^```(?:json|JSON)?\\s*(.*?)\\s*```$")
)

// Vocabulary returns the distinct, non-empty tag names in lexicographic
// order, so identical catalogs always produce identical prompts.
func Vocabulary(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// BuildPrompt asks the model to pick at most maxResults tags from vocab for
// query and to answer with a bare JSON array.
func BuildPrompt(query string, vocab []string, maxResults int) string {
	tags := strings.Join(vocab, ", ")
	if tags == "" {
		tags = "(none)"
	}

	var b strings.Builder
	b.WriteString("You match photo search queries to a fixed list of image tags.\n\n")
	fmt.Fprintf(&b, "Query: %q\n\n", query)
	fmt.Fprintf(&b, "Available tags: %s\n\n", tags)
	b.WriteString("Choose the available tags that best match the query. ")
	b.WriteString("Respond with ONLY a JSON array, not wrapped in an object and with no other text. ")
	fmt.Fprintf(&b, "The array holds at most %d objects of the form ", maxResults)
	b.WriteString(`{"tag": "<tag from the list>", "confidence": <integer 0-100>}`)
	b.WriteString(", ordered by descending confidence. ")
	b.WriteString("Respond with [] when no tag fits.")
	return b.String()
}

// ParseMatches decodes a model answer. Surrounding whitespace and a markdown
// code fence are tolerated; anything other than a JSON array is an error.
func ParseMatches(text string) ([]domain.TagMatch, error) {
	text = strings.TrimSpace(text)
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if !strings.HasPrefix(text, "[") {
		return nil, errNotArray
	}

	var matches []domain.TagMatch
	if err := json.Unmarshal([]byte(text), &matches); err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []domain.TagMatch{}
	}
	return matches, nil
}

// filterStrict keeps entries naming a vocabulary tag with a confidence in
// 0..100, capped at maxResults.
func filterStrict(matches []domain.TagMatch, vocab []string, maxResults int) []domain.TagMatch {
	known := make(map[string]struct{}, len(vocab))
	for _, v := range vocab {
		known[v] = struct{}{}
	}

	out := make([]domain.TagMatch, 0, len(matches))
	for _, m := range matches {
		if _, ok := known[m.Tag]; !ok {
			continue
		}
		if m.Confidence < 0 || m.Confidence > 100 {
			continue
		}
		out = append(out, m)
		if len(out) == maxResults {
			break
		}
	}
	return out
}
