package conversation

// RuleKind tags the validation strategy for one answer.
type RuleKind string

const (
	KindNumber RuleKind = "number"
	KindChoice RuleKind = "choice"
	KindText   RuleKind = "text"
)

// Rule is the declarative constraint bound to one (topic, question index)
// pair. Rules are pure data; the validator interprets them.
type Rule struct {
	Kind     RuleKind
	Field    string // human-readable field name used in error messages
	Min      float64
	Max      float64
	Choices  []string
	Optional bool // "don't know" answers are accepted as the unknown sentinel
}

// Indexes here must line up with the question catalogs in catalog.go.
// The alignment is checked by TestRuleTableAlignment.
var dietRules = map[int]Rule{
	0:  {Kind: KindNumber, Field: "age", Min: 16, Max: 100},
	1:  {Kind: KindChoice, Field: "gender", Choices: []string{"male", "female", "other", "m", "f"}},
	2:  {Kind: KindNumber, Field: "height", Min: 100, Max: 250},
	3:  {Kind: KindNumber, Field: "weight", Min: 30, Max: 300},
	4:  {Kind: KindText, Field: "health conditions"},
	5:  {Kind: KindChoice, Field: "severity", Choices: []string{"mild", "moderate", "severe", "none"}, Optional: true},
	6:  {Kind: KindChoice, Field: "activity level", Choices: []string{"sedentary", "moderate", "active"}},
	7:  {Kind: KindNumber, Field: "cholesterol level", Min: 50, Max: 500, Optional: true},
	8:  {Kind: KindNumber, Field: "blood pressure", Min: 60, Max: 250, Optional: true},
	9:  {Kind: KindNumber, Field: "glucose level", Min: 40, Max: 500, Optional: true},
	10: {Kind: KindText, Field: "dietary restrictions"},
	11: {Kind: KindText, Field: "food allergies"},
	12: {Kind: KindChoice, Field: "cuisine preference", Choices: []string{"mexican", "indian", "chinese", "italian"}},
	13: {Kind: KindNumber, Field: "weekly exercise hours", Min: 0, Max: 60},
}

var fitnessRules = map[int]Rule{
	0:  {Kind: KindNumber, Field: "age", Min: 16, Max: 100},
	1:  {Kind: KindChoice, Field: "gender", Choices: []string{"male", "female", "other", "m", "f"}},
	2:  {Kind: KindNumber, Field: "height", Min: 100, Max: 250},
	3:  {Kind: KindNumber, Field: "weight", Min: 30, Max: 300},
	4:  {Kind: KindNumber, Field: "sleep hours", Min: 0, Max: 16},
	5:  {Kind: KindNumber, Field: "water intake", Min: 0, Max: 15},
	6:  {Kind: KindNumber, Field: "daily steps", Min: 0, Max: 60000},
	7:  {Kind: KindNumber, Field: "resting heart rate", Min: 30, Max: 220, Optional: true},
	8:  {Kind: KindNumber, Field: "systolic blood pressure", Min: 70, Max: 250, Optional: true},
	9:  {Kind: KindNumber, Field: "diastolic blood pressure", Min: 40, Max: 150, Optional: true},
	10: {Kind: KindChoice, Field: "fitness level", Choices: []string{"beginner", "intermediate", "advanced"}},
	11: {Kind: KindNumber, Field: "workout duration", Min: 0, Max: 300},
	12: {Kind: KindChoice, Field: "workout intensity", Choices: []string{"low", "moderate", "high"}},
	13: {Kind: KindChoice, Field: "endurance level", Choices: []string{"low", "average", "high"}},
	14: {Kind: KindNumber, Field: "stress level", Min: 1, Max: 10},
	15: {Kind: KindChoice, Field: "smoking status", Choices: []string{"current smoker", "former smoker", "non-smoker"}},
	16: {Kind: KindText, Field: "health conditions"},
}

// RuleFor looks up the validation rule for a topic and question index.
// A missing rule means the answer is stored as-is without validation.
func RuleFor(topic Topic, index int) (Rule, bool) {
	var table map[int]Rule
	switch topic {
	case TopicFitness:
		table = fitnessRules
	default:
		table = dietRules
	}
	r, ok := table[index]
	return r, ok
}
