package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/villamare/concierge-nlu/internal/adapters/cache"
	"github.com/villamare/concierge-nlu/internal/application/services"
	"github.com/villamare/concierge-nlu/internal/domain/providers"
	"github.com/villamare/concierge-nlu/internal/infrastructure/clients/openai"
	redisclient "github.com/villamare/concierge-nlu/internal/infrastructure/clients/redis"
	"github.com/villamare/concierge-nlu/internal/infrastructure/observability"
	"github.com/villamare/concierge-nlu/pkg/config"
	apperrors "github.com/villamare/concierge-nlu/pkg/errors"
	"github.com/villamare/concierge-nlu/pkg/secrets"
)

// interpret runs the NLU pipeline over a single message passed as an
// argument (or piped on stdin) and prints the structured result as JSON.
func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	if result, err := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "vault secrets: %v\n", err)
		os.Exit(1)
	} else if result.Enabled {
		fmt.Fprintf(os.Stderr, "vault secrets: loaded %d, skipped %d\n", result.Loaded, result.Skipped)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.Service.Name, cfg.Service.Env)

	if cfg.OTEL.Enabled {
		shutdown, err := observability.Setup(ctx, cfg.Service.Name, cfg.Service.Version, cfg.OTEL.Endpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to set up OpenTelemetry")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	text, err := readMessage()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read message")
	}

	svc, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build pipeline")
	}
	defer cleanup()

	result := svc.Process(ctx, text)

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(apperrors.NewInternalError("encoding interpretation result", err)).Msg("failed to encode result")
	}
	fmt.Println(string(encoded))
}

func readMessage() (string, error) {
	if len(os.Args) > 1 {
		return strings.Join(os.Args[1:], " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func buildPipeline(ctx context.Context, cfg *config.Config) (*services.Service, func(), error) {
	embedder, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		return nil, nil, err
	}

	opts := services.ClassifierOptions{
		Threshold:       cfg.NLU.IntentThreshold,
		EmbedTimeout:    time.Duration(cfg.NLU.EmbedTimeoutMillis) * time.Millisecond,
		CacheTTLSeconds: cfg.NLU.CacheTTLSeconds,
	}

	cleanup := func() {}
	if cfg.Redis.Enabled {
		client, err := redisclient.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without embedding cache")
		} else {
			opts.Cache = cache.NewRedisAdapter(client)
			cleanup = func() { _ = client.Close() }
		}
	}

	exemplars := services.DefaultExemplars()
	if cfg.NLU.ExemplarsPath != "" {
		loaded, err := services.LoadExemplars(cfg.NLU.ExemplarsPath)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		exemplars = loaded
	}

	classifier, err := services.NewIntentClassifier(ctx, embedder, exemplars, opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return services.NewService(classifier, providers.SystemClock{}), cleanup, nil
}
