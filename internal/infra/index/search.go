package index

import (
	"strings"

	"biocat/internal/domain"
)

// Relevance tiers, ordered by where a free-text term matched. Lower is
// better; a tool keeps the best tier across its terms.
const (
	TierName        = 0
	TierTag         = 1
	TierDescription = 2
	tierNoMatch     = 3
)

// Match pairs a tool with the relevance tier the query gave it.
type Match struct {
	Tool domain.ToolSummary
	Tier int
}

type termKind int

const (
	termFreeText termKind = iota
	termTag
	termTagAny
)

type term struct {
	kind  termKind
	value string
}

// parseQuery splits the raw search string into whitespace-separated
// terms. A token of the form tag:'value' is an exact tag term, tag:* is
// a has-any-tag term; anything else, including malformed tag syntax, is
// matched literally as free text.
func parseQuery(raw string) []term {
	var terms []term
	for _, token := range strings.Fields(raw) {
		switch {
		case token == "tag:*":
			terms = append(terms, term{kind: termTagAny})
		case strings.HasPrefix(token, "tag:'") && strings.HasSuffix(token, "'") && len(token) > len("tag:''"):
			terms = append(terms, term{kind: termTag, value: token[len("tag:'") : len(token)-1]})
		default:
			terms = append(terms, term{kind: termFreeText, value: token})
		}
	}
	return terms
}

// Evaluate applies a raw search string over the collection with AND
// semantics and returns the matching tools with their relevance tiers,
// in input order. An empty query matches everything at the top tier.
func Evaluate(tools []domain.ToolSummary, rawQuery string) []Match {
	terms := parseQuery(rawQuery)
	matches := make([]Match, 0, len(tools))
	for _, tool := range tools {
		tier, ok := evaluateTool(tool, terms)
		if !ok {
			continue
		}
		matches = append(matches, Match{Tool: tool, Tier: tier})
	}
	return matches
}

// evaluateTool checks every term against one tool. The returned tier is
// the best tier any free-text term achieved; queries without free-text
// terms rank everything equally.
func evaluateTool(tool domain.ToolSummary, terms []term) (int, bool) {
	best := tierNoMatch
	sawFreeText := false
	for _, t := range terms {
		switch t.kind {
		case termTagAny:
			if len(tool.Tags()) == 0 {
				return 0, false
			}
		case termTag:
			if !tool.HasTag(t.value) {
				return 0, false
			}
		case termFreeText:
			sawFreeText = true
			tier := freeTextTier(tool, t.value)
			if tier == tierNoMatch {
				return 0, false
			}
			if tier < best {
				best = tier
			}
		}
	}
	if !sawFreeText {
		return TierName, true
	}
	return best, true
}

// freeTextTier reports where a term matches: name beats tags, tags beat
// description. Matching is case-insensitive substring.
func freeTextTier(tool domain.ToolSummary, value string) int {
	needle := strings.ToLower(value)
	if strings.Contains(strings.ToLower(tool.ToolName), needle) {
		return TierName
	}
	for _, tag := range tool.Tags() {
		if strings.Contains(strings.ToLower(tag), needle) {
			return TierTag
		}
	}
	if strings.Contains(strings.ToLower(tool.Description()), needle) {
		return TierDescription
	}
	return tierNoMatch
}
