package services

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

const (
	previewRunes  = 300
	fragmentRunes = 160
	markOpen      = "<mark>"
	markClose     = "</mark>"
)

// preview truncates text to n runes on a word boundary where possible
func preview(text string, n int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= n {
		return text
	}

	runes := []rune(text)
	cut := runes[:n]
	if i := lastSpace(cut); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + "..."
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}

// excerpt prefers a curated summary and falls back to a body preview
func excerpt(summary, body string) string {
	if s := strings.TrimSpace(summary); s != "" {
		return preview(s, previewRunes)
	}
	return preview(body, previewRunes)
}

// queryTerms splits a query into lowercased terms worth highlighting
func queryTerms(query string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, f := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if utf8.RuneCountInString(f) < 2 || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}

// buildHighlight marks query terms in title and content.
// Returns nil when neither field contains a term.
func buildHighlight(query, title, content string) *domain.Highlight {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil
	}

	h := &domain.Highlight{}
	if marked, ok := markTerms(title, terms); ok {
		h.Title = []string{marked}
	}
	if fragment := contentFragment(content, terms); fragment != "" {
		if marked, ok := markTerms(fragment, terms); ok {
			h.Content = []string{marked}
		}
	}

	if len(h.Title) == 0 && len(h.Content) == 0 {
		return nil
	}
	return h
}

// contentFragment returns a window of content around the first term occurrence
func contentFragment(content string, terms []string) string {
	runes := []rune(content)
	lower := []rune(strings.ToLower(content))
	if len(lower) != len(runes) {
		// case folding changed the rune count; fall back to the leading preview
		return preview(content, fragmentRunes)
	}

	first := -1
	for _, t := range terms {
		if i := runeIndex(lower, []rune(t)); i >= 0 && (first < 0 || i < first) {
			first = i
		}
	}
	if first < 0 {
		return ""
	}

	start := max(0, first-fragmentRunes/4)
	end := min(len(runes), start+fragmentRunes)
	fragment := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		fragment = "..." + fragment
	}
	if end < len(runes) {
		fragment += "..."
	}
	return fragment
}

// markTerms wraps every case-insensitive occurrence of a term in <mark> tags.
// Unmarked text is HTML-escaped so the fragment is safe to render.
func markTerms(text string, terms []string) (string, bool) {
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))
	if len(lower) != len(runes) || len(runes) == 0 {
		return "", false
	}

	var b strings.Builder
	marked := false
	last := 0
	for i := 0; i < len(lower); {
		n := matchAt(lower, i, terms)
		if n == 0 {
			i++
			continue
		}
		b.WriteString(html.EscapeString(string(runes[last:i])))
		b.WriteString(markOpen)
		b.WriteString(html.EscapeString(string(runes[i : i+n])))
		b.WriteString(markClose)
		marked = true
		i += n
		last = i
	}
	if !marked {
		return "", false
	}
	b.WriteString(html.EscapeString(string(runes[last:])))
	return b.String(), true
}

// matchAt returns the rune length of the longest term starting at i, or 0
func matchAt(text []rune, i int, terms []string) int {
	longest := 0
	for _, t := range terms {
		tr := []rune(t)
		if len(tr) > longest && hasPrefixAt(text, i, tr) {
			longest = len(tr)
		}
	}
	return longest
}

func hasPrefixAt(text []rune, i int, prefix []rune) bool {
	if i+len(prefix) > len(text) {
		return false
	}
	for j, r := range prefix {
		if text[i+j] != r {
			return false
		}
	}
	return true
}

func runeIndex(text, sub []rune) int {
	for i := 0; i+len(sub) <= len(text); i++ {
		if hasPrefixAt(text, i, sub) {
			return i
		}
	}
	return -1
}
