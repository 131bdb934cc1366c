package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tuberag/internal/channel"
	"tuberag/internal/chat"
	"tuberag/internal/config"
	"tuberag/internal/pipeline"
	"tuberag/internal/rag"
	"tuberag/internal/scraper"
	"tuberag/internal/transcripts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	printBanner()

	store, err := transcripts.NewStore(cfg.Transcripts.Dir)
	if err != nil {
		log.Fatalf("Failed to create transcript store: %v", err)
	}

	ragClient, err := rag.NewClient(ctx, &cfg.Gemini)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	var resolver pipeline.ChannelResolver
	if cfg.YouTube.APIKey != "" {
		r, err := channel.NewResolver(ctx, cfg.YouTube.APIKey)
		if err != nil {
			log.Fatalf("Failed to create channel resolver: %v", err)
		}
		resolver = r
	}

	controller := pipeline.New(pipeline.Deps{
		Scraper:  scraper.NewClient(&cfg.Scraper),
		Docs:     store,
		Indexer:  rag.NewIndexer(ragClient, &cfg.Indexing),
		Chat:     chat.New(rag.NewEngine(ragClient), os.Stdin, os.Stdout),
		Resolver: resolver,
		In:       os.Stdin,
		Out:      os.Stdout,
	})

	if err := controller.Run(ctx); err != nil {
		log.Fatalf("Session failed: %v", err)
	}
}

func printBanner() {
	rule := "================================================================================"
	fmt.Println("\n" + rule)
	fmt.Println("YouTube Channel RAG Chat")
	fmt.Println(rule)
	fmt.Println("\nBuild a chatbot for any YouTube channel from its video transcripts.")
	fmt.Println(rule)
}
