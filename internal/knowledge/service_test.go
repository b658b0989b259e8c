package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vector, f.err
}

type fakeRetriever struct {
	passages []Passage
	err      error
}

func (f *fakeRetriever) Search(ctx context.Context, vector []float32, topK int) ([]Passage, error) {
	return f.passages, f.err
}

type fakeGenerator struct {
	answer string
	err    error
	calls  int
}

func (f *fakeGenerator) GenerateAnswer(ctx context.Context, query, contextText string) (string, error) {
	f.calls++
	return f.answer, f.err
}

type fakeWebSearcher struct {
	results []SearchResult
	err     error
}

func (f *fakeWebSearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	return f.results, f.err
}

func testService(e embedder, r retriever, g answerGenerator, w webSearcher) *Service {
	return &Service{
		embedder:  e,
		retriever: r,
		llm:       g,
		web:       w,
		threshold: 0.3,
		topK:      3,
		webMax:    3,
		breaker:   newCircuitBreaker(3, time.Minute),
	}
}

type fakeStore struct {
	texts   []string
	vectors [][]float32
	err     error
}

func (f *fakeStore) Upsert(ctx context.Context, texts []string, vectors [][]float32) error {
	f.texts = texts
	f.vectors = vectors
	return f.err
}

func TestServiceAnswersFromCorpus(t *testing.T) {
	s := testService(
		&fakeEmbedder{vector: []float32{0.1, 0.2}},
		&fakeRetriever{passages: []Passage{
			{Text: "Cholesterol is a waxy substance.", Score: 0.8},
			{Text: "High LDL raises heart risk.", Score: 0.6},
		}},
		&fakeGenerator{answer: "Cholesterol is a blood lipid."},
		nil,
	)

	got, err := s.Answer(context.Background(), "what is cholesterol?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if got.Source != SourceKnowledgeBase {
		t.Errorf("expected knowledge base source, got %q", got.Source)
	}
	if got.Answer != "Cholesterol is a blood lipid." {
		t.Errorf("unexpected answer %q", got.Answer)
	}
	if len(got.Results) != 2 {
		t.Errorf("expected 2 supporting passages, got %d", len(got.Results))
	}
}

func TestServiceOutOfDomain(t *testing.T) {
	// Hits exist, but none clears the similarity threshold.
	s := testService(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeRetriever{passages: []Passage{{Text: "squat form basics", Score: 0.05}}},
		&fakeGenerator{answer: "should not be called"},
		nil,
	)

	got, err := s.Answer(context.Background(), "who won the world cup?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if got.Source != SourceNone {
		t.Errorf("expected source none for out-of-domain query, got %q", got.Source)
	}
	if got.Answer != outOfDomainAnswer {
		t.Errorf("unexpected answer %q", got.Answer)
	}
}

func TestServiceWebFallback(t *testing.T) {
	gen := &fakeGenerator{answer: "About 2 litres per day is a common guideline."}
	s := testService(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeRetriever{}, // empty corpus
		gen,
		&fakeWebSearcher{results: []SearchResult{
			{Title: "Hydration", URL: "http://127.0.0.1:1/nowhere", Content: "Adults need roughly two litres of water daily."},
		}},
	)

	got, err := s.Answer(context.Background(), "how much water should I drink?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if got.Source != SourceWeb {
		t.Errorf("expected web source, got %q", got.Source)
	}
	if gen.calls != 1 {
		t.Errorf("generator should run once over web snippets, got %d calls", gen.calls)
	}
}

func TestServiceNoAnswerAnywhere(t *testing.T) {
	s := testService(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeRetriever{},
		&fakeGenerator{answer: "unused"},
		&fakeWebSearcher{}, // no hits
	)

	got, err := s.Answer(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if got.Source != SourceNone || got.Answer != noInfoAnswer {
		t.Errorf("expected the no-information answer with source none, got %+v", got)
	}
}

func TestServiceWebFailureDegradesToNone(t *testing.T) {
	s := testService(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeRetriever{},
		&fakeGenerator{answer: "unused"},
		&fakeWebSearcher{err: errors.New("search down")},
	)

	got, err := s.Answer(context.Background(), "anything")
	if err != nil {
		t.Fatalf("web failure must not surface as an error: %v", err)
	}
	if got.Source != SourceNone {
		t.Errorf("expected source none, got %q", got.Source)
	}
}

func TestServiceEmbedFailureSurfaces(t *testing.T) {
	s := testService(
		&fakeEmbedder{err: errors.New("embedder down")},
		&fakeRetriever{},
		&fakeGenerator{},
		nil,
	)
	if _, err := s.Answer(context.Background(), "anything"); err == nil {
		t.Errorf("expected error when embedding fails")
	}
}

func TestServiceIngest(t *testing.T) {
	store := &fakeStore{}
	s := testService(&fakeEmbedder{vector: []float32{0.5, 0.5}}, &fakeRetriever{}, &fakeGenerator{}, nil)
	s.store = store

	texts := []string{"protein aids muscle repair", "fiber supports digestion"}
	if err := s.Ingest(context.Background(), texts); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if len(store.texts) != 2 || len(store.vectors) != 2 {
		t.Errorf("expected 2 passages stored, got %d texts / %d vectors", len(store.texts), len(store.vectors))
	}
}

func TestServiceIngestEmbedFailure(t *testing.T) {
	s := testService(&fakeEmbedder{err: errors.New("embedder down")}, &fakeRetriever{}, &fakeGenerator{}, nil)
	s.store = &fakeStore{}
	if err := s.Ingest(context.Background(), []string{"anything"}); err == nil {
		t.Errorf("expected error when embedding fails during ingest")
	}
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	cb := newCircuitBreaker(2, 20*time.Millisecond)
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if err := cb.Call(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected boom, got %v", i, err)
		}
	}

	// Threshold reached: calls are rejected without running fn.
	ran := false
	if err := cb.Call(func() error { ran = true; return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if ran {
		t.Errorf("open breaker must not run the function")
	}

	// After the cooldown a probe goes through and closes the breaker.
	time.Sleep(30 * time.Millisecond)
	if err := cb.Call(func() error { return nil }); err != nil {
		t.Errorf("probe after cooldown should succeed, got %v", err)
	}
	if err := cb.Call(func() error { return nil }); err != nil {
		t.Errorf("breaker should be closed again, got %v", err)
	}
}

func TestExtractReadableTextStripsBoilerplate(t *testing.T) {
	html := `<html><body>
		<nav>Home | About</nav>
		<article><p>Regular exercise lowers resting heart rate over time and improves cardiovascular health in most adults.</p></article>
		<footer>Copyright</footer>
	</body></html>`

	text := extractReadableText(html)
	if !strings.Contains(text, "lowers resting heart rate") {
		t.Errorf("article text missing: %q", text)
	}
	if strings.Contains(text, "Home | About") || strings.Contains(text, "Copyright") {
		t.Errorf("boilerplate not stripped: %q", text)
	}
}
