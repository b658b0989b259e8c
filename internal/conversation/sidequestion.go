package conversation

import "strings"

// sideQuestionIndicators is the substring signal table for off-script
// question detection. Grouped for maintenance; membership is asserted by
// tests, so tune with care.
var sideQuestionIndicators = []string{
	// Question words
	"what", "how", "why", "when", "where", "which", "who", "whose",
	"what's", "how's", "why's", "when's", "where's", "who's",
	"what is", "how is", "why is", "when is", "where is", "which is",
	"what are", "how are", "why are", "when are", "where are",
	"what does", "how does", "why does", "when does", "where does",
	"what do", "how do", "why do", "when do", "where do",
	"what will", "how will", "why will", "when will", "where will",
	"what would", "how would", "why would", "when would", "where would",
	"what can", "how can", "why can", "when can", "where can",
	"what could", "how could", "why could", "when could", "where could",
	"what should", "how should", "why should", "when should", "where should",
	"what might", "how might", "why might", "when might", "where might",
	"what may", "how may", "why may", "when may", "where may",

	// Direct question phrases
	"can you", "could you", "would you", "will you", "should you",
	"do you", "did you", "have you", "are you", "were you",
	"is it", "are they", "was it", "were they",
	"tell me", "explain", "describe", "define", "clarify",
	"tell me about", "explain to me", "help me understand",
	"i want to know", "i need to know", "i'm curious about",
	"i wonder", "i'm wondering", "wondering about",
	"i don't understand", "i don't know", "i'm confused",
	"i'm not sure", "not sure about", "unclear about",

	// Information seeking
	"more about", "more information", "additional info",
	"details about", "information on", "info about",
	"learn about", "know more", "find out",
	"research", "study", "investigate",

	// Help requests
	"help", "assist", "guide", "advise", "recommend",
	"help me", "assist me", "guide me", "advise me",
	"help with", "assist with", "guidance on",
	"need help", "need assistance", "need guidance",
	"could use help", "looking for help",

	// Comparison and evaluation
	"difference between", "compare", "comparison",
	"better", "worse", "best", "worst", "prefer",
	"which one", "what's better", "what's worse",
	"pros and cons", "advantages", "disadvantages",
	"benefits", "drawbacks", "side effects",

	// Health and fitness vocabulary (signal only, never a validation result)
	"calories", "nutrition", "protein", "carbs", "fat",
	"exercise", "workout", "training", "muscle",
	"weight loss", "weight gain", "diet", "meal",
	"supplement", "vitamin", "mineral",
	"cardio", "strength", "flexibility", "endurance",
	"injury", "pain", "recovery", "rest",

	// Time and frequency
	"how often", "how long", "how much", "how many",
	"frequency", "duration", "amount", "quantity",
	"daily", "weekly", "monthly", "per day", "per week",

	// Methods and processes
	"how to", "way to", "method", "process", "procedure",
	"steps", "instructions", "tutorial",
	"technique", "approach", "strategy",

	// Uncertainty expressions
	"maybe", "perhaps", "possibly", "probably",
	"i think", "i believe", "i assume", "i guess",
	"it seems", "appears", "looks like",
	"not certain", "not confident", "unsure",

	// Question endings
	"right?", "correct?", "true?", "isn't it?", "aren't they?",
	"doesn't it?", "don't they?", "?",
}

// questionStartWords mark an interrogative opening token.
var questionStartWords = []string{
	"what", "how", "why", "when", "where", "which", "who",
	"can", "could", "would", "will", "should", "do", "did", "are", "is",
}

// simpleAnswers are exact matches that must never be classified as side
// questions even though they contain indicator substrings ("maybe", "no").
var simpleAnswers = []string{
	"i don't know", "not sure", "maybe", "yes", "no", "none",
}

// IsSideQuestion reports whether the user is asking something instead of
// answering the current question. Pure heuristic over fixed keyword tables;
// the short-answer escape hatch takes precedence over every signal, so
// "no idea" stays an answer.
func IsSideQuestion(text string) bool {
	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)

	containsIndicator := false
	for _, indicator := range sideQuestionIndicators {
		if strings.Contains(lowered, indicator) {
			containsIndicator = true
			break
		}
	}

	endsWithQuestionMark := strings.HasSuffix(trimmed, "?")

	startsWithQuestionWord := false
	for _, word := range questionStartWords {
		if strings.HasPrefix(lowered, word) {
			startsWithQuestionWord = true
			break
		}
	}

	isQuestion := containsIndicator || endsWithQuestionMark || startsWithQuestionWord

	isSimpleAnswer := len(strings.Fields(trimmed)) <= 3
	if !isSimpleAnswer {
		for _, answer := range simpleAnswers {
			if lowered == answer {
				isSimpleAnswer = true
				break
			}
		}
	}

	return isQuestion && !isSimpleAnswer
}
