package conversation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// greetingWords and confirmationWords gate the pre-amble; both are matched
// as substrings of the lower-cased trimmed input.
var greetingWords = []string{
	"hi", "hello", "hey", "start", "begin",
	"good morning", "good afternoon", "good evening",
}

var confirmationWords = []string{
	"yes", "yeah", "sure", "okay", "ok",
	"go ahead", "continue", "start", "let's go", "proceed",
}

const defaultAnswerTimeout = 20 * time.Second

// Engine orchestrates one dialogue turn: pre-amble, side-question handling,
// validation, advancement, and the completion hook.
type Engine struct {
	store         Store
	answerer      Answerer
	planner       Planner
	answerTimeout time.Duration
}

func NewEngine(store Store, answerer Answerer, planner Planner) *Engine {
	return &Engine{
		store:         store,
		answerer:      answerer,
		planner:       planner,
		answerTimeout: defaultAnswerTimeout,
	}
}

// SetAnswerTimeout overrides the side-question answer deadline (tests).
func (e *Engine) SetAnswerTimeout(d time.Duration) {
	e.answerTimeout = d
}

// NextPrompt processes one user turn and returns the next system utterance.
// The only possible error is an unknown topic, which is a caller bug.
func (e *Engine) NextPrompt(ctx context.Context, userID string, topic Topic, userText string) (string, error) {
	if _, err := ParseTopic(string(topic)); err != nil {
		return "", err
	}

	state, release := e.store.Acquire(userID, topic)
	defer release()

	if state.CurrentIndex < preGreetingIndex || state.CurrentIndex > len(state.Questions) {
		// Invariant violation, not a user-recoverable condition.
		panic(fmt.Sprintf("conversation state corrupted: index %d of %d questions",
			state.CurrentIndex, len(state.Questions)))
	}

	switch {
	case state.CurrentIndex == preGreetingIndex && !state.Greeted:
		return e.handleGreeting(state, userText), nil
	case state.CurrentIndex == preGreetingIndex && state.Greeted:
		return e.handleConfirmation(state, userText), nil
	case state.Done():
		return "I've already generated your " + string(topic) + " plan. Reset the conversation if you'd like to start over.", nil
	default:
		return e.handleAnswer(ctx, userID, state, userText), nil
	}
}

// Reset clears the conversation for the key.
func (e *Engine) Reset(userID string, topic Topic) {
	e.store.Reset(userID, topic)
}

// Answers returns a read-only snapshot of the answers collected so far.
func (e *Engine) Answers(userID string, topic Topic) map[string]string {
	return e.store.Answers(userID, topic)
}

func (e *Engine) handleGreeting(state *State, userText string) string {
	lowered := strings.ToLower(strings.TrimSpace(userText))
	if containsAny(lowered, greetingWords) {
		state.Greeted = true
		if state.Topic == TopicFitness {
			return "Hi! I'm your fitness assistant. I'll help recommend a personalized workout plan for you. May I ask you a few quick questions to get started?"
		}
		return "Hi! I'm your nutrition assistant. I'll help recommend a personalized diet plan for you. May I ask you a few quick questions to get started?"
	}
	if state.Topic == TopicFitness {
		return "Hello! I'm your fitness assistant. Say 'hi' or 'hello' to get started with your personalized workout plan!"
	}
	return "Hello! I'm your nutrition assistant. Say 'hi' or 'hello' to get started with your personalized diet plan!"
}

func (e *Engine) handleConfirmation(state *State, userText string) string {
	lowered := strings.ToLower(strings.TrimSpace(userText))
	if containsAny(lowered, confirmationWords) {
		state.CurrentIndex = 0
		state.ValidationAttempts = 0
		return state.Questions[0]
	}
	if state.Topic == TopicFitness {
		return "Great! Just say 'yes' or 'sure' when you're ready to start answering questions for your fitness plan."
	}
	return "Great! Just say 'yes' or 'sure' when you're ready to start answering questions for your diet plan."
}

func (e *Engine) handleAnswer(ctx context.Context, userID string, state *State, userText string) string {
	question := state.Questions[state.CurrentIndex]

	if IsSideQuestion(userText) {
		answer := respondToSideQuestion(ctx, e.answerer, userText, e.answerTimeout)
		return fmt.Sprintf("%s\n\nNow, let's get back to your plan. %s", answer, question)
	}

	value := userText
	if rule, ok := RuleFor(state.Topic, state.CurrentIndex); ok {
		verdict := Validate(userText, rule)
		if !verdict.OK {
			state.ValidationAttempts++
			return rejectionMessage(verdict.Message, question, rule, state.ValidationAttempts)
		}
		value = verdict.Value
	}

	state.Answers[fmt.Sprintf("Q%d", state.CurrentIndex)] = value
	state.ValidationAttempts = 0
	state.CurrentIndex++

	if !state.Done() {
		return state.Questions[state.CurrentIndex]
	}
	return e.complete(ctx, userID, state)
}

// rejectionMessage escalates detail with the attempt count: a bare retry,
// then a restated question, then a rule-specific elaboration.
func rejectionMessage(errMsg, question string, rule Rule, attempt int) string {
	switch {
	case attempt == 1:
		return fmt.Sprintf("%s. Please try again.", errMsg)
	case attempt == 2:
		return fmt.Sprintf("%s. Let me ask again: %s", errMsg, question)
	}
	switch rule.Kind {
	case KindNumber:
		example := formatNumber((rule.Min + rule.Max) / 2)
		return fmt.Sprintf("%s. Any number between %s and %s works, for example %s. %s",
			errMsg, formatNumber(rule.Min), formatNumber(rule.Max), example, question)
	case KindChoice:
		return fmt.Sprintf("%s. You can answer with one of: %s. %s",
			errMsg, strings.Join(rule.Choices, ", "), question)
	default:
		return fmt.Sprintf("%s. %s", errMsg, question)
	}
}

func (e *Engine) complete(ctx context.Context, userID string, state *State) string {
	if e.planner == nil {
		return "Thanks! I have all the information I need. Your personalized plan will be ready shortly."
	}
	planText, err := e.planner.Generate(ctx, userID, state.Topic, state.Answers)
	if err != nil {
		log.Printf("[Engine] plan generation failed for %s/%s: %v", userID, state.Topic, err)
		return "Thanks! I have all the information I need, but I ran into a problem generating your plan. Please try again in a moment."
	}
	return fmt.Sprintf("Thanks! I have all the information I need. %s", planText)
}

func containsAny(lowered string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}
