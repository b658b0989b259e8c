package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"fitvoice/internal/api"
	"fitvoice/internal/config"
	"fitvoice/internal/conversation"
	"fitvoice/internal/db"
	"fitvoice/internal/knowledge"
	"fitvoice/internal/plan"
	redisdb "fitvoice/internal/redis"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	rdb := redisdb.NewClient(cfg)

	deps := api.Deps{}

	// The knowledge service is optional: without it the assistant still
	// walks its scripted questions, it just answers every off-script
	// question with "unknown".
	retriever, err := knowledge.NewRetriever(
		cfg.Knowledge.Qdrant.URL,
		cfg.Knowledge.Qdrant.Collection,
		cfg.Knowledge.Qdrant.APIKey,
	)
	if err != nil {
		log.Printf("[Main] WARNING: knowledge retriever unavailable: %v", err)
	} else {
		embedder := knowledge.NewEmbedder(cfg.Knowledge.EmbeddingModel.URL, cfg.Knowledge.EmbeddingModel.Name)
		answerLLM := knowledge.NewLLMClient(cfg.Knowledge.AnswerModel.URL, cfg.Knowledge.AnswerModel.Name)
		searcher := knowledge.NewSearchClient(cfg.Knowledge.SearxNG.URL, 10*time.Second)
		svc := knowledge.NewService(embedder, retriever, answerLLM, searcher, knowledge.Options{
			Threshold:     cfg.Knowledge.Threshold,
			TopK:          cfg.Knowledge.TopK,
			WebMaxResults: cfg.Knowledge.SearxNG.MaxResults,
		})
		deps.Answerer = svc
		deps.Ingester = svc
		log.Printf("[Main] Knowledge service ready (collection: %s)", cfg.Knowledge.Qdrant.Collection)
	}

	predictor := plan.NewPredictor(cfg.Plans.PredictorURL)
	generator := plan.NewGenerator(predictor, db.DB, cfg.Plans.DietModel, cfg.Plans.FitnessModel)
	deps.Plans = generator

	engine := conversation.NewEngine(conversation.NewMemoryStore(), deps.Answerer, generator)
	if cfg.Knowledge.TimeoutSeconds > 0 {
		engine.SetAnswerTimeout(time.Duration(cfg.Knowledge.TimeoutSeconds) * time.Second)
	}
	deps.Engine = engine

	r := api.SetupRouter(cfg, rdb, deps)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
