// Command lingotray translates text between Japanese and English, streaming
// the result to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/lingotray"
	"github.com/ZaguanLabs/lingotray/provider"
	"github.com/ZaguanLabs/lingotray/settings"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = lingotray.Version
	commit    = lingotray.GitCommit
	buildDate = lingotray.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("lingotray", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Config file path (default: ./lingotray.yaml)")
	providerName := fs.String("provider", "", "Provider: anthropic or openai (default from config)")
	model := fs.String("model", "", "Model to use (default from config)")
	once := fs.Bool("once", false, "Wait for the full translation instead of streaming")
	noCache := fs.Bool("no-cache", false, "Bypass the translation cache")
	timeout := fs.Duration("timeout", 0, "Request timeout (default from config)")
	listModels := fs.Bool("list-models", false, "List known models and pricing")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress usage/cost output")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", lingotray.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	if *listModels {
		pricing := lingotray.DefaultPricing()
		for _, m := range lingotray.AvailableModels {
			rates := pricing[m.ID]
			fmt.Fprintf(stdout, "%-28s %-30s in $%.2f/M out $%.2f/M\n",
				m.ID, m.Name, rates.InputPerMillion, rates.OutputPerMillion)
		}
		return nil
	}

	cfg, err := settings.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *providerName != "" {
		cfg.Provider = *providerName
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *noCache {
		cfg.Cache.Enabled = false
	}

	input, inputName, err := readInput(fs)
	if err != nil {
		return err
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}

	p, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	opts := []lingotray.EngineOption{
		lingotray.WithLogger(logger),
		lingotray.WithRequestTimeout(cfg.Timeout),
		lingotray.WithSanitization(cfg.Sanitize),
	}
	if cfg.Cache.Enabled {
		store, err := cfg.NewStore()
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		opts = append(opts, lingotray.WithCache(store))
	}

	engine := lingotray.NewEngine(p, opts...)

	if !*quiet {
		fmt.Fprintf(stderr, "Translating %s with %s...\n", inputName, cfg.Model)
	}

	start := time.Now()
	if *once {
		text, usage, err := engine.TranslateOnce(context.Background(), lingotray.Request{
			Text:  input,
			Model: cfg.Model,
		})
		if err != nil {
			return userError(err)
		}
		fmt.Fprintln(stdout, text)
		printUsage(stderr, usage, time.Since(start), *quiet)
		return nil
	}

	events, err := engine.Translate(context.Background(), lingotray.Request{
		Text:  input,
		Model: cfg.Model,
	})
	if err != nil {
		return userError(err)
	}

	var usage *lingotray.UsageInfo
	for ev := range events {
		switch ev.Type {
		case lingotray.EventDelta:
			fmt.Fprint(stdout, ev.Text)
		case lingotray.EventUsage:
			usage = ev.Usage
		case lingotray.EventCompleted:
			fmt.Fprintln(stdout)
		case lingotray.EventFailed:
			return userError(ev.Err)
		}
	}
	printUsage(stderr, usage, time.Since(start), *quiet)
	return nil
}

// readInput returns the text to translate: the first positional argument is a
// file path, otherwise stdin is read.
func readInput(fs *flag.FlagSet) (string, string, error) {
	if fs.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	inputPath := fs.Arg(0)
	data, err := os.ReadFile(inputPath) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), filepath.Base(inputPath), nil
}

// buildProvider constructs the configured provider behind a retry wrapper.
func buildProvider(cfg *settings.Settings) (lingotray.StreamingProvider, error) {
	var p lingotray.StreamingProvider
	switch cfg.Provider {
	case "openai":
		p = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
		})
	case "anthropic", "":
		p = provider.NewAnthropicProvider(provider.AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	return lingotray.NewRetryingProvider(p, lingotray.DefaultRetryConfig()), nil
}

// userError converts classified failures to their user-facing message.
func userError(err error) error {
	if cerr := lingotray.Classify(err); cerr != nil {
		return fmt.Errorf("%s", cerr.UserMessage())
	}
	return err
}

func printUsage(stderr io.Writer, usage *lingotray.UsageInfo, elapsed time.Duration, quiet bool) {
	if quiet || usage == nil {
		return
	}
	if usage.Cached {
		fmt.Fprintf(stderr, "\nDone in %v (cached)\n", elapsed.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(stderr, "  Input tokens:  %d\n", usage.InputTokens)
	fmt.Fprintf(stderr, "  Output tokens: %d\n", usage.OutputTokens)
	fmt.Fprintf(stderr, "  Est. cost:     $%.6f\n", usage.EstimatedCost)
}
