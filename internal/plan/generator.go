package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fitvoice/internal/conversation"
)

type predictor interface {
	Predict(ctx context.Context, model string, columns []string, values []float64) (string, error)
}

// Generator turns a completed answer set into a plan recommendation. It
// implements conversation.Planner.
type Generator struct {
	predictor    predictor
	db           *gorm.DB
	dietModel    string
	fitnessModel string
}

func NewGenerator(p *Predictor, db *gorm.DB, dietModel, fitnessModel string) *Generator {
	g := &Generator{
		db:           db,
		dietModel:    dietModel,
		fitnessModel: fitnessModel,
	}
	if p != nil {
		g.predictor = p
	}
	return g
}

// Generate implements conversation.Planner: transform answers into the
// model's feature vector, predict the plan category, format the spoken
// text and persist the record.
func (g *Generator) Generate(ctx context.Context, userID string, topic conversation.Topic, answers map[string]string) (string, error) {
	if g.predictor == nil {
		return "", fmt.Errorf("plan predictor not configured")
	}

	var features map[string]float64
	model := g.dietModel
	if topic == conversation.TopicFitness {
		features = FitnessFeatures(answers)
		model = g.fitnessModel
	} else {
		features = DietFeatures(answers)
	}

	columns, values := FeatureVector(topic, features)
	category, err := g.predictor.Predict(ctx, model, columns, values)
	if err != nil {
		return "", fmt.Errorf("predict %s plan: %w", topic, err)
	}

	text := formatPlanText(topic, category, features)

	if g.db != nil {
		if err := g.save(userID, topic, category, text, answers, features); err != nil {
			// Persistence is best effort; the user still gets their plan.
			log.Printf("[Plan] failed to save plan record for user %s: %v", userID, err)
		}
	}

	return text, nil
}

// History returns a user's stored plans, newest first.
func (g *Generator) History(userID string, limit int) ([]PlanRecord, error) {
	if g.db == nil {
		return nil, fmt.Errorf("plan storage not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	var records []PlanRecord
	err := g.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load plan history: %w", err)
	}
	return records, nil
}

func (g *Generator) save(userID string, topic conversation.Topic, category, text string, answers map[string]string, features map[string]float64) error {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return err
	}
	record := PlanRecord{
		UserID:   userID,
		Topic:    string(topic),
		Category: category,
		PlanText: text,
		Answers:  datatypes.JSON(answersJSON),
		Features: datatypes.JSON(featuresJSON),
	}
	return g.db.Create(&record).Error
}

func formatPlanText(topic conversation.Topic, category string, features map[string]float64) string {
	var b strings.Builder
	if topic == conversation.TopicFitness {
		fmt.Fprintf(&b, "Your recommended workout plan category is %s.\n\n", category)
		fmt.Fprintf(&b, "Your profile:\n")
		fmt.Fprintf(&b, "- Age: %.0f years\n", features["age"])
		fmt.Fprintf(&b, "- Gender: %s\n", genderLabel(features["gender_F"]))
		fmt.Fprintf(&b, "- Weight: %.0f kg\n", features["weight_kg"])
		fmt.Fprintf(&b, "- Height: %.0f cm\n", features["height_cm"])
		fmt.Fprintf(&b, "- BMI: %.1f\n", features["bmi"])
		fmt.Fprintf(&b, "- Workout duration: %.0f minutes\n", features["duration_minutes"])
		fmt.Fprintf(&b, "- Daily steps: %.0f\n", features["daily_steps"])
		fmt.Fprintf(&b, "- Sleep: %.1f hours\n", features["sleep_hours"])
		fmt.Fprintf(&b, "- Stress level: %.0f/10", features["stress_level"])
		return b.String()
	}

	fmt.Fprintf(&b, "Your recommended diet plan category is %s.\n\n", category)
	fmt.Fprintf(&b, "Your profile:\n")
	fmt.Fprintf(&b, "- Age: %.0f years\n", features["Age"])
	fmt.Fprintf(&b, "- Gender: %s\n", genderLabel(features["Gender_Female"]))
	fmt.Fprintf(&b, "- Weight: %.0f kg\n", features["Weight_kg"])
	fmt.Fprintf(&b, "- Height: %.0f cm\n", features["Height_cm"])
	fmt.Fprintf(&b, "- BMI: %.1f\n", features["BMI"])
	fmt.Fprintf(&b, "- Daily calorie target: %.0f kcal", features["Calculated_Calorie_Intake"])
	return b.String()
}

func genderLabel(femaleFlag float64) string {
	if femaleFlag == 1 {
		return "Female"
	}
	return "Male"
}
