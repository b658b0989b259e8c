package conversation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// AnswerUnknown is the sentinel stored when an optional question is answered
// with a "don't know" phrase. Downstream feature transforms treat it as
// "use the population default".
const AnswerUnknown = "unknown"

// dontKnowPhrases are matched as substrings of the lower-cased trimmed
// answer. Only consulted for optional rules.
var dontKnowPhrases = []string{
	"don't know",
	"dont know",
	"do not know",
	"not sure",
	"unsure",
	"no idea",
	"no clue",
	"n/a",
	"unknown",
	"that's fine",
	"thats fine",
	"skip",
}

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// Verdict is the outcome of validating one raw answer against one rule.
type Verdict struct {
	OK      bool
	Value   string // normalized answer, set when OK
	Message string // user-facing rejection reason, set when !OK
}

func accept(value string) Verdict   { return Verdict{OK: true, Value: value} }
func reject(message string) Verdict { return Verdict{Message: message} }

// Validate normalizes or rejects a raw answer under the given rule.
func Validate(raw string, rule Rule) Verdict {
	lowered := strings.ToLower(strings.TrimSpace(raw))

	if rule.Optional && isDontKnow(lowered) {
		return accept(AnswerUnknown)
	}

	switch rule.Kind {
	case KindNumber:
		return validateNumber(lowered, rule)
	case KindChoice:
		return validateChoice(lowered, rule)
	default:
		return validateText(raw, lowered, rule)
	}
}

func isDontKnow(lowered string) bool {
	for _, phrase := range dontKnowPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

func validateNumber(lowered string, rule Rule) Verdict {
	match := numberPattern.FindString(lowered)
	if match == "" {
		if rule.Optional {
			return accept(AnswerUnknown)
		}
		return reject(fmt.Sprintf("Please provide a number for %s", rule.Field))
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil || value < rule.Min || value > rule.Max {
		return reject(fmt.Sprintf("Please provide a %s between %s and %s",
			rule.Field, formatNumber(rule.Min), formatNumber(rule.Max)))
	}
	// Re-serialize the numeral so "I am 25 years old" stores "25.0",
	// not the whole sentence.
	return accept(formatAnswerNumber(value))
}

func validateChoice(lowered string, rule Rule) Verdict {
	// Longest choice first so "female" wins over "male" in "female athlete".
	ordered := make([]string, len(rule.Choices))
	copy(ordered, rule.Choices)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})
	for _, choice := range ordered {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(choice)) + `\b`)
		if re.MatchString(lowered) {
			return accept(choice)
		}
	}
	return reject("Please choose from: " + strings.Join(rule.Choices, ", "))
}

func validateText(raw, lowered string, rule Rule) Verdict {
	if lowered == "" {
		return reject(fmt.Sprintf("Please provide an answer for %s", rule.Field))
	}
	return accept(raw)
}

// formatNumber renders a rule bound without trailing zeros (16, 0.5, 60000).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatAnswerNumber always keeps a decimal part so stored numeric answers
// are uniform ("25" becomes "25.0", "25.75" stays "25.75").
func formatAnswerNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
