package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/villamare/concierge-nlu/internal/adapters/cache"
	"github.com/villamare/concierge-nlu/internal/application/services"
	"github.com/villamare/concierge-nlu/internal/domain/entities"
	"github.com/villamare/concierge-nlu/internal/domain/providers"
	"github.com/villamare/concierge-nlu/internal/evaluation"
	"github.com/villamare/concierge-nlu/internal/infrastructure/clients/openai"
	redisclient "github.com/villamare/concierge-nlu/internal/infrastructure/clients/redis"
	"github.com/villamare/concierge-nlu/internal/infrastructure/observability"
	"github.com/villamare/concierge-nlu/pkg/config"
	"github.com/villamare/concierge-nlu/pkg/secrets"
)

// evaluate runs the pipeline over the golden utterance set and fails (exit 1)
// when guardrail thresholds are violated, so it can gate releases in CI.
func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	if _, err := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "vault secrets: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.Service.Name, cfg.Service.Env)

	goldenPath := cfg.NLU.GoldenSetPath
	if len(os.Args) > 1 {
		goldenPath = os.Args[1]
	}

	utterances, err := evaluation.LoadGoldenUtterances(goldenPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", goldenPath).Msg("failed to load golden utterances")
	}
	if err := evaluation.ValidateGoldenUtterances(utterances); err != nil {
		log.Fatal().Err(err).Msg("golden utterance set is invalid")
	}

	embedder, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create embedding client")
	}

	opts := services.ClassifierOptions{
		Threshold:       cfg.NLU.IntentThreshold,
		EmbedTimeout:    time.Duration(cfg.NLU.EmbedTimeoutMillis) * time.Millisecond,
		CacheTTLSeconds: cfg.NLU.CacheTTLSeconds,
	}
	if cfg.Redis.Enabled {
		client, err := redisclient.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without embedding cache")
		} else {
			defer client.Close()
			opts.Cache = cache.NewRedisAdapter(client)
		}
	}

	exemplars := services.DefaultExemplars()
	if cfg.NLU.ExemplarsPath != "" {
		exemplars, err = services.LoadExemplars(cfg.NLU.ExemplarsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load exemplars")
		}
	}

	classifier, err := services.NewIntentClassifier(ctx, embedder, exemplars, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build intent classifier")
	}
	svc := services.NewService(classifier, providers.SystemClock{})

	runner := evaluation.NewRunner(svc)
	summary := runner.Run(ctx, utterances)
	printSummary(summary)

	guardrails := evaluation.NewGuardrails(evaluation.DefaultGuardrailConfig())
	violations := guardrails.Check(summary)
	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "guardrail violation: %s\n", v)
		}
		os.Exit(1)
	}
}

func printSummary(s *evaluation.Summary) {
	fmt.Printf("run %s: %d utterances\n", s.RunID, s.TotalUtterances)
	fmt.Printf("  intent accuracy:    %.3f\n", s.IntentAccuracy)
	fmt.Printf("  entity precision:   %.3f\n", s.AvgEntityPrecision)
	fmt.Printf("  entity recall:      %.3f\n", s.AvgEntityRecall)
	fmt.Printf("  sentiment accuracy: %.3f\n", s.SentimentAccuracy)
	fmt.Printf("  language accuracy:  %.3f\n", s.LanguageAccuracy)
	fmt.Printf("  avg latency:        %s\n", s.AvgLatency)

	intents := make([]string, 0, len(s.ByIntent))
	for intent := range s.ByIntent {
		intents = append(intents, string(intent))
	}
	sort.Strings(intents)
	for _, intent := range intents {
		bucket := s.ByIntent[entities.Intent(intent)]
		fmt.Printf("  %-24s n=%-3d accuracy=%.3f avg_conf=%.3f\n",
			intent, bucket.Count, bucket.IntentAccuracy, bucket.AvgConfidence)
	}
}
