package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"smarthorses/engine"
	"smarthorses/game"
	"smarthorses/server"
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	var (
		addr       = flag.String("addr", envOr("HOST", "0.0.0.0")+":"+envOr("PORT", "5000"), "HTTP listen address")
		logLevel   = flag.String("log-level", envOr("LOG_LEVEL", "info"), "zerolog level")
		corsFlag   = flag.String("cors-origins", envOr("CORS_ORIGINS", "*"), "comma-separated allowed CORS origins")
		seed       = flag.Uint64("seed", 0, "board generation seed (0 seeds from the clock)")
		selfPlay   = flag.Int("selfplay", 0, "run N machine-vs-random games instead of serving")
		difficulty = flag.String("difficulty", string(game.Beginner), "difficulty for self-play games")
		metricsOut = flag.String("metrics", "", "CSV file for self-play search metrics")
	)
	flag.Parse()

	setupLogging(*logLevel)

	if *selfPlay > 0 {
		if err := runSelfPlay(*selfPlay, *difficulty, *seed, *metricsOut); err != nil {
			log.Fatal().Err(err).Msg("self-play failed")
		}
		return
	}

	srv := server.New(server.Config{
		Seed:        *seed,
		CORSOrigins: splitOrigins(*corsFlag),
	})

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", *addr).Msg("serving")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("stopped")
}

func runSelfPlay(games int, difficultyName string, seed uint64, metricsOut string) error {
	difficulty, err := game.ParseDifficulty(difficultyName)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	var records []engine.GameRecord
	moves := map[int][]engine.MoveMetric{}

	for i := 1; i <= games; i++ {
		state := game.NewGameState(difficulty, rng)
		local := engine.NewLocal(state, engine.SearchAgent{}, engine.RandomAgent{Rng: rng})

		winner, metrics, err := local.Run()
		if err != nil {
			return err
		}

		records = append(records, engine.GameRecord{
			ID:         i,
			Difficulty: difficulty,
			Winner:     winner,
			WhiteScore: state.WhiteScore,
			BlackScore: state.BlackScore,
			Moves:      len(metrics),
		})
		moves[i] = metrics
	}

	if metricsOut != "" {
		if err := engine.WriteMetrics(metricsOut, records, moves); err != nil {
			return err
		}
		log.Info().Str("path", metricsOut).Msg("metrics written")
	}
	return nil
}

func setupLogging(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(raw string) []string {
	if raw == "" || raw == "*" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
