package plan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fitvoice/internal/conversation"
)

type fakePredictor struct {
	category string
	err      error
	model    string
	columns  []string
	values   []float64
}

func (f *fakePredictor) Predict(ctx context.Context, model string, columns []string, values []float64) (string, error) {
	f.model = model
	f.columns = columns
	f.values = values
	return f.category, f.err
}

func testGenerator(t *testing.T, p predictor) *Generator {
	t.Helper()
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(&PlanRecord{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return &Generator{
		predictor:    p,
		db:           dbConn,
		dietModel:    "diet-v1",
		fitnessModel: "fitness-v1",
	}
}

func TestGenerateDietPlan(t *testing.T) {
	pred := &fakePredictor{category: "3"}
	g := testGenerator(t, pred)

	answers := map[string]string{
		"Q0": "25.0", "Q1": "female", "Q2": "170.0", "Q3": "70.0",
		"Q6": "moderate",
	}
	text, err := g.Generate(context.Background(), "user-1", conversation.TopicDiet, answers)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if pred.model != "diet-v1" {
		t.Errorf("predictor called with model %q", pred.model)
	}
	if len(pred.columns) != 24 {
		t.Errorf("diet prediction should use 24 features, got %d", len(pred.columns))
	}
	if !strings.Contains(text, "diet plan category is 3") {
		t.Errorf("plan text missing category: %q", text)
	}
	if !strings.Contains(text, "Age: 25 years") {
		t.Errorf("plan text missing profile: %q", text)
	}

	var record PlanRecord
	if err := g.db.Where("user_id = ?", "user-1").First(&record).Error; err != nil {
		t.Fatalf("plan record not persisted: %v", err)
	}
	if record.Topic != "diet" || record.Category != "3" {
		t.Errorf("record fields wrong: %+v", record)
	}
	if !strings.Contains(string(record.Answers), "female") {
		t.Errorf("answers not stored: %s", record.Answers)
	}
}

func TestGenerateFitnessPlanUsesFitnessModel(t *testing.T) {
	pred := &fakePredictor{category: "strength"}
	g := testGenerator(t, pred)

	text, err := g.Generate(context.Background(), "user-2", conversation.TopicFitness, map[string]string{
		"Q0": "30.0", "Q1": "male", "Q2": "180.0", "Q3": "80.0",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if pred.model != "fitness-v1" {
		t.Errorf("predictor called with model %q", pred.model)
	}
	if len(pred.columns) != 23 {
		t.Errorf("fitness prediction should use 23 features, got %d", len(pred.columns))
	}
	if !strings.Contains(text, "workout plan category is strength") {
		t.Errorf("plan text missing category: %q", text)
	}
}

func TestGeneratePredictorFailure(t *testing.T) {
	g := testGenerator(t, &fakePredictor{err: errors.New("model down")})
	if _, err := g.Generate(context.Background(), "user-3", conversation.TopicDiet, nil); err == nil {
		t.Errorf("expected error when predictor fails")
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	pred := &fakePredictor{category: "1"}
	g := testGenerator(t, pred)

	for i := 0; i < 3; i++ {
		if _, err := g.Generate(context.Background(), "user-4", conversation.TopicDiet, map[string]string{"Q0": "25.0"}); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
	}

	records, err := g.History("user-4", 2)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("limit not applied, got %d records", len(records))
	}
	for _, r := range records {
		if r.UserID != "user-4" {
			t.Errorf("history leaked another user's record: %+v", r)
		}
	}
}
