package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/subscope/internal/ai"
	"github.com/dvloznov/subscope/internal/config"
	"github.com/dvloznov/subscope/internal/logger"
	"github.com/dvloznov/subscope/internal/pipeline"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log)
	case "alternatives":
		runAlternatives(log)
	case "reminders":
		runReminders(log)
	case "ask":
		runAsk(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Subscope CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze       Detect subscriptions in a statement and print saving tips")
	fmt.Println("  alternatives  Suggest cheaper alternatives for detected subscriptions")
	fmt.Println("  reminders     Generate upcoming payment reminders")
	fmt.Println("  ask           Ask a question about the detected subscriptions")
	fmt.Println("  help          Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// setup loads config, builds the analyzer and parses the statement file
// shared by every subcommand.
func setup(ctx context.Context, log zerolog.Logger, file string) (*pipeline.Analyzer, []byte) {
	if file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	capability, err := ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Failed to read statement file")
	}

	return pipeline.NewAnalyzer(capability, log), raw
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Minute)
}

func runAnalyze(log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	file := fs.String("file", "", "Path to the statement CSV file")
	fs.Parse(os.Args[2:])

	ctx, cancel := commandContext()
	defer cancel()

	analyzer, raw := setup(ctx, log, *file)

	subs, err := pipeline.AnalyzeStatement(ctx, analyzer, raw)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	if len(subs) == 0 {
		fmt.Println("No subscriptions found.")
		return
	}

	fmt.Println("Subscriptions detected:")
	for _, s := range subs {
		fmt.Printf("  %-30s %10s  last paid %s, next around %s\n",
			s.Description, s.Amount, s.LastPaid, s.NextEstimatedPayment)
	}

	fmt.Println("\nSuggestions to save money:")
	for _, tip := range pipeline.SavingTips(subs) {
		fmt.Println("  - " + tip.Text)
	}
}

func runAlternatives(log zerolog.Logger) {
	fs := flag.NewFlagSet("alternatives", flag.ExitOnError)
	file := fs.String("file", "", "Path to the statement CSV file")
	fs.Parse(os.Args[2:])

	ctx, cancel := commandContext()
	defer cancel()

	analyzer, raw := setup(ctx, log, *file)

	subs, err := pipeline.AnalyzeStatement(ctx, analyzer, raw)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	alternatives, err := analyzer.SuggestAlternatives(ctx, subs)
	if err != nil {
		log.Fatal().Err(err).Msg("Suggesting alternatives failed")
	}

	if len(alternatives) == 0 {
		fmt.Println("No subscriptions found.")
		return
	}
	fmt.Println("Cheaper alternatives:")
	for _, alt := range alternatives {
		fmt.Println("  - " + alt.Text)
	}
}

func runReminders(log zerolog.Logger) {
	fs := flag.NewFlagSet("reminders", flag.ExitOnError)
	file := fs.String("file", "", "Path to the statement CSV file")
	fs.Parse(os.Args[2:])

	ctx, cancel := commandContext()
	defer cancel()

	analyzer, raw := setup(ctx, log, *file)

	subs, err := pipeline.AnalyzeStatement(ctx, analyzer, raw)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	reminders, err := analyzer.Reminders(ctx, subs)
	if err != nil {
		log.Fatal().Err(err).Msg("Generating reminders failed")
	}

	if len(reminders) == 0 {
		fmt.Println("No subscriptions found.")
		return
	}
	fmt.Println("Upcoming subscription reminders:")
	fmt.Println(pipeline.ComposeReminderEmail(reminders))
}

func runAsk(log zerolog.Logger) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	file := fs.String("file", "", "Path to the statement CSV file")
	question := fs.String("q", "", "Question to ask about the subscriptions")
	fs.Parse(os.Args[2:])

	if *question == "" {
		log.Fatal().Msg("Error: -q is required")
	}

	ctx, cancel := commandContext()
	defer cancel()

	analyzer, raw := setup(ctx, log, *file)

	subs, err := pipeline.AnalyzeStatement(ctx, analyzer, raw)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	answer, err := analyzer.Answer(ctx, subs, *question)
	if err != nil {
		log.Fatal().Err(err).Msg("Answering failed")
	}

	fmt.Println(answer)
}
