package plan

import (
	"regexp"
	"strconv"
	"strings"

	"fitvoice/internal/conversation"
)

// Feature column orders expected by the served models. Training used
// one-hot encoded dataframes, so order is part of the contract.
var dietFeatureColumns = []string{
	"Age", "Weight_kg", "Height_cm", "BMI", "Severity", "Physical_Activity_Level",
	"Cholesterol_mg/dL", "Blood_Pressure_mmHg", "Glucose_mg/dL",
	"Weekly_Exercise_Hours", "Calculated_Calorie_Intake",
	"Gender_Female", "Gender_Male",
	"Disease_Type_Diabetes", "Disease_Type_Hypertension", "Disease_Type_Obesity",
	"Dietary_Restrictions_Low_Sodium", "Dietary_Restrictions_Low_Sugar",
	"Allergies_Gluten", "Allergies_Peanuts",
	"Preferred_Cuisine_Chinese", "Preferred_Cuisine_Indian",
	"Preferred_Cuisine_Italian", "Preferred_Cuisine_Mexican",
}

var fitnessFeatureColumns = []string{
	"age", "height_cm", "weight_kg", "bmi", "duration_minutes", "intensity",
	"calories_burned", "daily_steps", "resting_heart_rate",
	"blood_pressure_systolic", "blood_pressure_diastolic",
	"endurance_level", "sleep_hours", "stress_level", "hydration_level",
	"fitness_level", "gender_F", "gender_M", "smoking_status_Current",
	"smoking_status_Former", "health_condition_Asthma",
	"health_condition_Diabetes", "health_condition_Hypertension",
}

var featureNumberPattern = regexp.MustCompile(`\d+\.?\d*`)

// extractNumber pulls the first numeral out of a stored answer. The unknown
// sentinel and other numberless answers yield 0 so callers can substitute
// population defaults.
func extractNumber(text string) float64 {
	lowered := strings.ToLower(text)
	if lowered == conversation.AnswerUnknown {
		return 0
	}
	match := featureNumberPattern.FindString(lowered)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return v
}

func numberOr(answers map[string]string, key string, fallback float64) float64 {
	v := extractNumber(answers[key])
	if v <= 0 {
		return fallback
	}
	return v
}

func answerContains(answers map[string]string, key string, substrings ...string) bool {
	lowered := strings.ToLower(answers[key])
	for _, s := range substrings {
		if strings.Contains(lowered, s) {
			return true
		}
	}
	return false
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// DietFeatures transforms a completed diet answer set into the model's
// feature vector. Missing or unknown answers fall back to population
// defaults (cholesterol 200, BP 120, glucose 100).
func DietFeatures(answers map[string]string) map[string]float64 {
	features := make(map[string]float64, len(dietFeatureColumns))
	for _, col := range dietFeatureColumns {
		features[col] = 0
	}

	age := numberOr(answers, "Q0", 25)
	features["Age"] = age

	female := answerContains(answers, "Q1", "female", "f")
	// "Other" and unanswered default to the male column, matching training.
	features["Gender_Female"] = boolFeature(female)
	features["Gender_Male"] = boolFeature(!female)

	height := numberOr(answers, "Q2", 170)
	weight := numberOr(answers, "Q3", 70)
	features["Height_cm"] = height
	features["Weight_kg"] = weight

	heightM := height / 100
	bmi := 25.0
	if heightM > 0 {
		bmi = weight / (heightM * heightM)
	}
	features["BMI"] = bmi

	features["Disease_Type_Diabetes"] = boolFeature(answerContains(answers, "Q4", "diabetes"))
	features["Disease_Type_Hypertension"] = boolFeature(answerContains(answers, "Q4", "hypertension", "blood pressure", "bp"))
	features["Disease_Type_Obesity"] = boolFeature(answerContains(answers, "Q4", "obesity", "obese"))

	switch {
	case answerContains(answers, "Q5", "severe"):
		features["Severity"] = 2
	case answerContains(answers, "Q5", "moderate"):
		features["Severity"] = 1
	default:
		features["Severity"] = 0
	}

	switch {
	case answerContains(answers, "Q6", "sedentary"):
		features["Physical_Activity_Level"] = 0
	case answerContains(answers, "Q6", "active"):
		features["Physical_Activity_Level"] = 2
	default:
		features["Physical_Activity_Level"] = 1
	}

	features["Cholesterol_mg/dL"] = numberOr(answers, "Q7", 200)
	features["Blood_Pressure_mmHg"] = numberOr(answers, "Q8", 120)
	features["Glucose_mg/dL"] = numberOr(answers, "Q9", 100)

	features["Dietary_Restrictions_Low_Sodium"] = boolFeature(answerContains(answers, "Q10", "sodium"))
	features["Dietary_Restrictions_Low_Sugar"] = boolFeature(answerContains(answers, "Q10", "sugar"))

	features["Allergies_Gluten"] = boolFeature(answerContains(answers, "Q11", "gluten"))
	features["Allergies_Peanuts"] = boolFeature(answerContains(answers, "Q11", "peanut", "nut"))

	switch {
	case answerContains(answers, "Q12", "chinese"):
		features["Preferred_Cuisine_Chinese"] = 1
	case answerContains(answers, "Q12", "indian"):
		features["Preferred_Cuisine_Indian"] = 1
	case answerContains(answers, "Q12", "italian"):
		features["Preferred_Cuisine_Italian"] = 1
	case answerContains(answers, "Q12", "mexican"):
		features["Preferred_Cuisine_Mexican"] = 1
	}

	features["Weekly_Exercise_Hours"] = extractNumber(answers["Q13"])

	// Mifflin-St Jeor BMR scaled by activity level.
	var bmr float64
	if female {
		bmr = 10*weight + 6.25*height - 5*age - 161
	} else {
		bmr = 10*weight + 6.25*height - 5*age + 5
	}
	multiplier := map[float64]float64{0: 1.2, 1: 1.375, 2: 1.55}[features["Physical_Activity_Level"]]
	features["Calculated_Calorie_Intake"] = float64(int(bmr * multiplier))

	return features
}

// FitnessFeatures transforms a completed fitness answer set into the
// model's feature vector.
func FitnessFeatures(answers map[string]string) map[string]float64 {
	features := make(map[string]float64, len(fitnessFeatureColumns))
	for _, col := range fitnessFeatureColumns {
		features[col] = 0
	}

	features["age"] = numberOr(answers, "Q0", 25)

	female := answerContains(answers, "Q1", "female", "f")
	features["gender_F"] = boolFeature(female)
	features["gender_M"] = boolFeature(!female)

	height := numberOr(answers, "Q2", 170)
	weight := numberOr(answers, "Q3", 70)
	features["height_cm"] = height
	features["weight_kg"] = weight

	heightM := height / 100
	bmi := 25.0
	if heightM > 0 {
		bmi = weight / (heightM * heightM)
	}
	features["bmi"] = bmi

	features["sleep_hours"] = extractNumber(answers["Q4"])
	features["hydration_level"] = extractNumber(answers["Q5"])
	features["daily_steps"] = extractNumber(answers["Q6"])
	features["resting_heart_rate"] = numberOr(answers, "Q7", 70)
	features["blood_pressure_systolic"] = numberOr(answers, "Q8", 120)
	features["blood_pressure_diastolic"] = numberOr(answers, "Q9", 80)

	switch {
	case answerContains(answers, "Q10", "intermediate"):
		features["fitness_level"] = 1
	case answerContains(answers, "Q10", "advanced"):
		features["fitness_level"] = 2
	default:
		features["fitness_level"] = 0
	}

	features["duration_minutes"] = extractNumber(answers["Q11"])

	switch {
	case answerContains(answers, "Q12", "low"):
		features["intensity"] = 0
	case answerContains(answers, "Q12", "high"):
		features["intensity"] = 2
	default:
		features["intensity"] = 1
	}

	switch {
	case answerContains(answers, "Q13", "low"):
		features["endurance_level"] = 0
	case answerContains(answers, "Q13", "high"):
		features["endurance_level"] = 2
	default:
		features["endurance_level"] = 1
	}

	stress := extractNumber(answers["Q14"])
	if stress < 1 || stress > 10 {
		stress = 5
	}
	features["stress_level"] = stress

	features["smoking_status_Current"] = boolFeature(answerContains(answers, "Q15", "current"))
	features["smoking_status_Former"] = boolFeature(answerContains(answers, "Q15", "former"))

	features["health_condition_Asthma"] = boolFeature(answerContains(answers, "Q16", "asthma"))
	features["health_condition_Diabetes"] = boolFeature(answerContains(answers, "Q16", "diabetes"))
	features["health_condition_Hypertension"] = boolFeature(answerContains(answers, "Q16", "hypertension", "blood pressure"))

	// METs estimate: low=3, moderate=5, high=8, calories = METs * kg * hours.
	if features["duration_minutes"] > 0 {
		mets := map[float64]float64{0: 3, 1: 5, 2: 8}[features["intensity"]]
		hours := features["duration_minutes"] / 60
		features["calories_burned"] = float64(int(mets * weight * hours))
	}

	return features
}

// FeatureVector flattens a feature map into the column order the predictor
// expects for the topic.
func FeatureVector(topic conversation.Topic, features map[string]float64) ([]string, []float64) {
	columns := dietFeatureColumns
	if topic == conversation.TopicFitness {
		columns = fitnessFeatureColumns
	}
	values := make([]float64, len(columns))
	for i, col := range columns {
		values[i] = features[col]
	}
	return columns, values
}
