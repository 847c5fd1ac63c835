// Command reddit-rollup fetches a reddit discussion thread, flattens its
// comment tree, groups the comments into token-bounded chunks, and drives a
// multi-pass OpenAI summarization loop over them, saving the full
// prompt/completion transcript to a file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tidwall/gjson"

	"github.com/seandearnaley/reddit-rollup/provider"
	"github.com/seandearnaley/reddit-rollup/reddit"
	"github.com/seandearnaley/reddit-rollup/summarize"
)

func main() {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "missing OPENAI_API_KEY (or pass -api-key)")
		os.Exit(2)
	}

	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	ai := provider.NewOpenAI(cfg.APIKey, cfg.Model, cfg.Temperature)

	if cfg.ListModels {
		ids, err := ai.ListModels(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(os.Stdout, id)
		}
		return nil
	}

	instruction := defaultInstructionText
	if cfg.QueryFile != "" {
		b, err := os.ReadFile(cfg.QueryFile)
		if err != nil {
			return fmt.Errorf("read -query-file: %w", err)
		}
		instruction = strings.TrimSpace(string(b))
	}

	if !reddit.IsThreadURL(cfg.URL) {
		return fmt.Errorf("not a reddit thread URL: %s", cfg.URL)
	}
	url := reddit.NormalizeJSONURL(cfg.URL)

	logger.Info("fetching thread", "url", url)
	raw, err := reddit.FetchThread(ctx, &http.Client{Timeout: cfg.Timeout}, url)
	if err != nil {
		return err
	}
	if cfg.DumpJSON != "" {
		if err := summarize.DumpJSON(cfg.DumpJSON, raw); err != nil {
			return err
		}
		logger.Debug("dumped raw payload", "path", cfg.DumpJSON)
	}

	doc := gjson.ParseBytes(raw)
	title, selftext, err := reddit.ExtractMetadata(doc)
	if err != nil {
		return err
	}

	records := reddit.Flatten(doc)

	var counter summarize.TokenCounter
	counter, err = summarize.NewCounter(cfg.Encoding)
	if err != nil {
		// The BPE tables may be unreachable offline; the heuristic
		// over-estimates, which only makes chunks smaller.
		logger.Warn("falling back to heuristic token counting", "error", err)
		counter = summarize.HeuristicCounter{}
	}

	chunks := summarize.ChunkBodies(records, counter, cfg.ChunkTokens)
	logger.Info("chunked thread",
		"title", title,
		"comments", len(records),
		"chunks", len(chunks))

	driver := &summarize.Driver{
		Completer:      ai,
		Counter:        counter,
		Instruction:    instruction,
		MaxPasses:      cfg.Passes,
		MaxTotalTokens: cfg.MaxTokens,
		Logger:         logger,
	}
	res, err := driver.Summarize(ctx, title, selftext, chunks)
	if err != nil {
		var tooLarge *summarize.PromptTooLargeError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w (lower -chunk-tokens or raise -max-tokens)", tooLarge)
		}
		return err
	}

	path, err := summarize.Save(cfg.OutDir, title, res.Transcript)
	if err != nil {
		return err
	}
	logger.Info("transcript saved", "path", path, "passes", len(res.Passes))

	final := ""
	if n := len(res.Passes); n > 0 {
		final = res.Passes[n-1].Completion
	}

	if cfg.Digest && final != "" {
		digest, err := ai.Digest(ctx, title, final)
		if err != nil {
			return err
		}
		digestPath := strings.TrimSuffix(path, ".txt") + ".digest.json"
		if err := summarize.SaveDigest(digestPath, digest, true); err != nil {
			return err
		}
		logger.Info("digest saved", "path", digestPath)
	}

	fmt.Fprintf(os.Stdout, "passes=%d chunks=%d summary_words~%d transcript=%s\n",
		len(res.Passes), len(chunks), summarize.EstimateWords(counter.Count(final)), path)
	return nil
}
