package validate

import (
	"strings"

	"github.com/gobwas/glob"
)

const maxSuggestions = 3

// suggestSimilar returns up to maxSuggestions candidates that look
// like they might be what the caller meant by input (spec §4.12.1:
// "3 nearest suggestions (substring match both ways)"). A candidate
// matches either direction by compiling it as a `*candidate*` glob
// against input, or input as a `*input*` glob against the candidate —
// the same glob-substring idiom the policy DSL's `like` condition
// uses for attribute matching, reused here for dictionary-term
// near-misses instead of policy attributes.
func suggestSimilar(input string, candidates []string) []string {
	lowerInput := strings.ToLower(input)
	var out []string
	for _, c := range candidates {
		lowerC := strings.ToLower(c)
		if globContains(lowerC, lowerInput) || globContains(lowerInput, lowerC) {
			out = append(out, c)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

// globContains reports whether needle appears anywhere in haystack,
// implemented as a `*needle*` glob match rather than strings.Contains.
// gobwas/glob
// has no escape syntax, so a needle carrying glob metacharacters
// (dictionary enumeration values are ordinary words in practice) falls
// back to a plain substring check rather than being misinterpreted as
// a pattern.
func globContains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.ContainsAny(needle, `*?[]{}`) {
		return strings.Contains(haystack, needle)
	}
	pattern, err := glob.Compile("*" + needle + "*")
	if err != nil {
		return strings.Contains(haystack, needle)
	}
	return pattern.Match(haystack)
}
