package knowledge

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"fitvoice/internal/conversation"
)

const (
	outOfDomainAnswer = "Sorry, I can only answer fitness and health-related questions."
	noInfoAnswer      = "I don't have enough information to answer that fitness question."

	// Sources reported in answers. "none" is the contract value for "no
	// answer found" and is what the dialogue engine keys its fallback on.
	SourceNone          = "none"
	SourceKnowledgeBase = "Knowledge Base"
	SourceWeb           = "Web"
)

type embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type retriever interface {
	Search(ctx context.Context, vector []float32, topK int) ([]Passage, error)
}

type answerGenerator interface {
	GenerateAnswer(ctx context.Context, query, contextText string) (string, error)
}

type webSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

type passageStore interface {
	Upsert(ctx context.Context, texts []string, vectors [][]float32) error
}

// Service answers free-text health/fitness questions: corpus retrieval
// first, web search as fallback, an LLM to phrase the final answer.
// It implements conversation.Answerer.
type Service struct {
	embedder  embedder
	retriever retriever
	store     passageStore
	llm       answerGenerator
	web       webSearcher
	threshold float32
	topK      int
	webMax    int
	breaker   *circuitBreaker
}

// Options tune retrieval behavior; zero values get sane defaults.
type Options struct {
	Threshold     float32 // minimum cosine similarity to count as in-domain
	TopK          int
	WebMaxResults int // cap on web fallback hits; defaults to TopK
}

func NewService(e *Embedder, r *Retriever, llm *LLMClient, web *SearchClient, opts Options) *Service {
	if opts.Threshold <= 0 {
		opts.Threshold = 0.3
	}
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.WebMaxResults <= 0 {
		opts.WebMaxResults = opts.TopK
	}
	s := &Service{
		threshold: opts.Threshold,
		topK:      opts.TopK,
		webMax:    opts.WebMaxResults,
		breaker:   newCircuitBreaker(3, 30*time.Second),
	}
	// Assign through the narrow interfaces so tests can substitute fakes.
	if e != nil {
		s.embedder = e
	}
	if r != nil {
		s.retriever = r
		s.store = r
	}
	if llm != nil {
		s.llm = llm
	}
	if web != nil {
		s.web = web
	}
	return s
}

// Answer implements conversation.Answerer.
func (s *Service) Answer(ctx context.Context, query string) (conversation.KnowledgeAnswer, error) {
	return s.AnswerTopK(ctx, query, s.topK)
}

// AnswerTopK is Answer with a per-call passage count; topK <= 0 falls back
// to the configured default.
func (s *Service) AnswerTopK(ctx context.Context, query string, topK int) (conversation.KnowledgeAnswer, error) {
	if s.embedder == nil || s.retriever == nil || s.llm == nil {
		return conversation.KnowledgeAnswer{}, fmt.Errorf("knowledge service not fully configured")
	}
	if topK <= 0 {
		topK = s.topK
	}

	var vector []float32
	err := s.breaker.Call(func() error {
		var embedErr error
		vector, embedErr = s.embedder.Embed(ctx, query)
		return embedErr
	})
	if err != nil {
		return conversation.KnowledgeAnswer{}, fmt.Errorf("embed query: %w", err)
	}

	passages, err := s.retriever.Search(ctx, vector, topK)
	if err != nil {
		return conversation.KnowledgeAnswer{}, fmt.Errorf("corpus search: %w", err)
	}

	var relevant []Passage
	for _, p := range passages {
		if p.Score >= s.threshold {
			relevant = append(relevant, p)
		}
	}

	// Hits exist but none clear the similarity bar: the question is outside
	// the corpus domain, not merely missing from it.
	if len(relevant) == 0 && len(passages) > 0 {
		return conversation.KnowledgeAnswer{Answer: outOfDomainAnswer, Source: SourceNone}, nil
	}

	if len(relevant) > 0 {
		texts := make([]string, len(relevant))
		for i, p := range relevant {
			texts[i] = p.Text
		}
		answer, err := s.generate(ctx, query, strings.Join(texts, "\n"))
		if err != nil {
			return conversation.KnowledgeAnswer{}, fmt.Errorf("generate answer: %w", err)
		}
		return conversation.KnowledgeAnswer{Answer: answer, Source: SourceKnowledgeBase, Results: texts}, nil
	}

	return s.answerFromWeb(ctx, query)
}

// answerFromWeb is the fallback when the corpus is empty for the query.
func (s *Service) answerFromWeb(ctx context.Context, query string) (conversation.KnowledgeAnswer, error) {
	if s.web == nil {
		return conversation.KnowledgeAnswer{Answer: noInfoAnswer, Source: SourceNone}, nil
	}

	hits, err := s.web.Search(ctx, query, s.webMax)
	if err != nil {
		log.Printf("[Knowledge] web fallback search failed: %v", err)
		return conversation.KnowledgeAnswer{Answer: noInfoAnswer, Source: SourceNone}, nil
	}
	if len(hits) == 0 {
		return conversation.KnowledgeAnswer{Answer: noInfoAnswer, Source: SourceNone}, nil
	}

	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		texts = append(texts, fetchPageText(ctx, hit.URL, hit.Content))
	}

	answer, err := s.generate(ctx, query, strings.Join(texts, "\n"))
	if err != nil {
		log.Printf("[Knowledge] web fallback answer failed: %v", err)
		return conversation.KnowledgeAnswer{Answer: noInfoAnswer, Source: SourceNone}, nil
	}
	return conversation.KnowledgeAnswer{Answer: answer, Source: SourceWeb, Results: texts}, nil
}

// Ingest embeds the given passages and stores them in the corpus.
func (s *Service) Ingest(ctx context.Context, texts []string) error {
	if s.embedder == nil || s.store == nil {
		return fmt.Errorf("knowledge ingestion not configured")
	}
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		var vector []float32
		err := s.breaker.Call(func() error {
			var embedErr error
			vector, embedErr = s.embedder.Embed(ctx, text)
			return embedErr
		})
		if err != nil {
			return fmt.Errorf("embed passage: %w", err)
		}
		vectors = append(vectors, vector)
	}
	return s.store.Upsert(ctx, texts, vectors)
}

func (s *Service) generate(ctx context.Context, query, contextText string) (string, error) {
	var answer string
	err := s.breaker.Call(func() error {
		var genErr error
		answer, genErr = s.llm.GenerateAnswer(ctx, query, contextText)
		return genErr
	})
	return answer, err
}
