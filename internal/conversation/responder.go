package conversation

import (
	"context"
	"log"
	"time"
)

// KnowledgeAnswer is the result of the external free-text answering
// capability. Source == "none" means nothing relevant was found.
type KnowledgeAnswer struct {
	Answer  string
	Source  string
	Results []string
}

// Answerer is the external capability that answers off-script questions.
type Answerer interface {
	Answer(ctx context.Context, query string) (KnowledgeAnswer, error)
}

// Planner is the external capability invoked once per topic when the last
// question has been answered. It returns the formatted plan text.
type Planner interface {
	Generate(ctx context.Context, userID string, topic Topic, answers map[string]string) (string, error)
}

const (
	noAnswerFallback = "I don't have specific information about that in my knowledge base. Let's continue with the questions so I can help you with your personalized plan."
	errorFallback    = "I'm having trouble accessing my knowledge base right now. Let's continue with the questions to create your personalized plan."
)

// respondToSideQuestion answers an off-script question with a bounded
// timeout. It never returns an error; any failure of the capability
// degrades to a fixed fallback sentence.
func respondToSideQuestion(ctx context.Context, answerer Answerer, query string, timeout time.Duration) string {
	if answerer == nil {
		return noAnswerFallback
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := answerer.Answer(ctx, query)
	if err != nil {
		log.Printf("[Engine] side question answer failed: %v", err)
		return errorFallback
	}
	if result.Source == "none" || result.Answer == "" {
		return noAnswerFallback
	}
	return result.Answer
}
