package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/seandearnaley/reddit-rollup/summarize"
)

type Config struct {
	URL       string
	OutDir    string
	Model     string
	QueryFile string

	ChunkTokens int
	Passes      int
	MaxTokens   int
	Temperature float64
	Encoding    string

	APIKey   string
	Timeout  time.Duration
	DumpJSON string

	Digest     bool
	ListModels bool
}

func (c Config) Validate() error {
	if c.URL == "" && !c.ListModels {
		return errors.New("missing -url")
	}
	if c.OutDir == "" {
		return errors.New("missing -out")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if c.ChunkTokens <= 0 {
		return errors.New("chunk-tokens must be > 0")
	}
	if c.Passes < 1 || c.Passes > 10 {
		return errors.New("passes must be between 1 and 10")
	}
	if c.MaxTokens <= 0 {
		return errors.New("max-tokens must be > 0")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("temperature must be between 0 and 2")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		OutDir:      "outputs",
		Model:       "gpt-4o-mini",
		ChunkTokens: 2500,
		Passes:      1,
		MaxTokens:   4000,
		Temperature: 0.9,
		Encoding:    summarize.DefaultEncoding,
		Timeout:     10 * time.Second,
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.URL, "url", "", "Reddit thread URL (the .json suffix is added automatically)")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Output directory for transcript files")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model to use")
	fs.StringVar(&cfg.QueryFile, "query-file", "", "Optional path to a file with the instruction text injected into every prompt")
	fs.IntVar(&cfg.ChunkTokens, "chunk-tokens", cfg.ChunkTokens, "Token budget per comment chunk")
	fs.IntVar(&cfg.Passes, "passes", cfg.Passes, "Max number of summary passes (1-10)")
	fs.IntVar(&cfg.MaxTokens, "max-tokens", cfg.MaxTokens, "Per-prompt token ceiling; completion budget is this minus the prompt length")
	fs.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "Sampling temperature for completions")
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "tiktoken encoding used to count tokens")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY env var)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Timeout for fetching the thread JSON")
	fs.StringVar(&cfg.DumpJSON, "dump-json", "", "Optional path to dump the raw thread payload for debugging")
	fs.BoolVar(&cfg.Digest, "digest", false, "Also produce a structured JSON digest next to the transcript")
	fs.BoolVar(&cfg.ListModels, "list-models", false, "List available model IDs and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.OutDir = filepath.Clean(cfg.OutDir)
	if cfg.QueryFile != "" {
		cfg.QueryFile = filepath.Clean(cfg.QueryFile)
	}
	if cfg.DumpJSON != "" {
		cfg.DumpJSON = filepath.Clean(cfg.DumpJSON)
	}
	return cfg, nil
}
