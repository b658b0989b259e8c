package conversation

import (
	"errors"
	"fmt"
)

// Topic selects which question catalog and rule table a conversation uses.
type Topic string

const (
	TopicDiet    Topic = "diet"
	TopicFitness Topic = "fitness"
)

var ErrUnknownTopic = errors.New("unknown topic")

// ParseTopic validates a raw topic string from the request layer.
func ParseTopic(s string) (Topic, error) {
	switch Topic(s) {
	case TopicDiet:
		return TopicDiet, nil
	case TopicFitness:
		return TopicFitness, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTopic, s)
}

// dietQuestions index i corresponds to dietRules index i. Do not reorder
// one without the other.
var dietQuestions = []string{
	"First, may I know your age?",
	"What is your gender? (Male, Female, or Other)",
	"Could you tell me your height in centimeters?",
	"And your weight in kilograms?",
	"Do you have any health conditions such as hypertension, diabetes, or obesity?",
	"How would you describe the severity of your condition? (Mild, Moderate, or Severe)",
	"How active are you in your daily life? (Sedentary, Moderate, or Active)",
	"What is your cholesterol level in mg/dL? If you don't know, that's fine, but sharing it helps me make a more accurate plan.",
	"What is your blood pressure in mmHg? If you're unsure, no worries, just let me know.",
	"What is your glucose level in mg/dL? If you don't know, that's okay.",
	"Do you have any dietary restrictions, such as low sodium or low sugar?",
	"Are you allergic to any foods, like gluten or peanuts?",
	"What type of cuisine do you prefer? (Mexican, Indian, Chinese, or Italian)",
	"How many hours do you exercise per week?",
}

var fitnessQuestions = []string{
	"First, may I know your age?",
	"What is your gender? (Male, Female, or Other)",
	"Could you tell me your height in centimeters?",
	"And your weight in kilograms?",
	"How many hours of sleep do you usually get per day?",
	"How many litres of water do you usually drink in a day?",
	"How many steps do you usually take in a day?",
	"What's your resting heart rate (in beats per minute)? If you don't know, that's fine, but sharing it helps me make a more accurate plan.",
	"What's your systolic blood pressure? (the higher number, e.g., 120) If you don't know, no worries, just let me know.",
	"What's your diastolic blood pressure? (the lower number, e.g., 80) If you don't know, that's okay.",
	"How would you describe your overall fitness level (beginner, intermediate, or advanced)?",
	"Have you done any workouts? If so, on average, how long do your workout sessions last? (in minutes)",
	"How would you describe your workout intensity (low, moderate, or high?)",
	"How would you rate your endurance level (low, average, or high?)",
	"On a scale of 1-10, how would you rate your current stress level?",
	"What's your smoking status (current smoker, former smoker, or non-smoker?)",
	"Do you have any of the following health conditions such as Asthma, Diabetes or Hypertension?",
}

// Questions returns the immutable prompt sequence for a topic.
func Questions(topic Topic) []string {
	switch topic {
	case TopicFitness:
		return fitnessQuestions
	default:
		return dietQuestions
	}
}
