package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"leadpilot/internal/campaign"
	"leadpilot/internal/config"
	"leadpilot/internal/gateway"
	"leadpilot/internal/mailer"
	"leadpilot/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Run flags
	csvPath       string
	outPath       string
	reportPath    string
	providerFlag  string
	modelFlag     string
	apiKeyFlag    string
	smtpHost      string
	smtpPort      int
	fromAddr      string
	sendThreshold int
	sendBudget    int
	concurrency   int
	runTimeout    time.Duration

	// Sample flags
	samplePath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "leadpilot",
	Short: "leadpilot - AI-assisted outreach campaign runner",
	Long: `leadpilot runs a sales outreach campaign end to end.

It reads leads from a CSV file, asks a language model for a buyer persona,
a 1-5 priority score, and a personalized outreach email per lead, sends the
highest-priority emails over SMTP, simulates and classifies prospect
replies, and writes back the enriched lead file plus a markdown campaign
report with model-generated insights.

All model and delivery failures degrade per lead; only unreadable or
unwritable lead files abort a run.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Best effort; a missing .env file is not an error.
		_ = godotenv.Load()

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// runCmd executes one full campaign
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a campaign over a lead CSV file",
	Long: `Runs the full pipeline over the lead file:
  1. Enrich: persona, priority, and outreach email per lead
  2. Dispatch: send email to leads at or above the priority threshold,
     up to the send budget, in file order
  3. Reply: simulate and classify a prospect reply for each sent lead
  4. Report: write the enriched CSV and a markdown campaign summary

With no configuration beyond an API key the run targets a local MailHog
capture server on localhost:1025.

Example:
  GROQ_API_KEY=... leadpilot run --csv data/leads.csv --send-threshold 4`,
	RunE: runCampaign,
}

// sampleCmd seeds a demo lead file
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a small demo lead CSV to get started",
	RunE:  writeSample,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "leadpilot.yaml", "Config file path")

	// Run flags
	runCmd.Flags().StringVar(&csvPath, "csv", "", "Lead CSV input path")
	runCmd.Flags().StringVar(&outPath, "out", "", "Enriched lead CSV output path")
	runCmd.Flags().StringVar(&reportPath, "report", "", "Campaign report output path")
	runCmd.Flags().StringVar(&providerFlag, "provider", "", "Model provider (groq, openai, gemini)")
	runCmd.Flags().StringVar(&modelFlag, "model", "", "Model name")
	runCmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "Model API key (or set GROQ_API_KEY / OPENAI_API_KEY / GEMINI_API_KEY)")
	runCmd.Flags().StringVar(&smtpHost, "smtp-host", "", "SMTP host")
	runCmd.Flags().IntVar(&smtpPort, "smtp-port", 0, "SMTP port")
	runCmd.Flags().StringVar(&fromAddr, "from", "", "Sender address")
	runCmd.Flags().IntVar(&sendThreshold, "send-threshold", 0, "Minimum priority (1-5) to dispatch a lead")
	runCmd.Flags().IntVar(&sendBudget, "send-budget", 0, "Maximum sends per run (0 = unlimited)")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Worker count for enrichment and replies")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 15*time.Minute, "Whole-run timeout")

	// Sample flags
	sampleCmd.Flags().StringVar(&samplePath, "csv", "data/leads.csv", "Where to write the sample lead file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sampleCmd)
}

// runCampaign wires the pipeline and executes one campaign run.
func runCampaign(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyRunFlags(cfg, cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// 1. Model gateway
	client, err := gateway.NewClientFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating model client: %w", err)
	}
	retry := gateway.DefaultRetryConfig()
	retry.MaxRetries = cfg.LLM.MaxRetries
	gw := gateway.New(client, retry, logger)
	logger.Info("Model gateway ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", gw.Model()))

	// 2. Lead store, report sink, mail transport
	leadStore := store.NewCSVStore(cfg.Campaign.LeadsPath, cfg.Campaign.OutputPath)
	reportSink := store.NewReportFile(cfg.Campaign.ReportPath)
	sender, err := mailer.NewSMTPSender(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		From:     cfg.SMTP.From,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	})
	if err != nil {
		return fmt.Errorf("creating mail transport: %w", err)
	}

	// 3. Execute
	orch := campaign.NewOrchestrator(campaign.OrchestratorConfig{
		Store:           leadStore,
		Reports:         reportSink,
		Gateway:         gw,
		Sender:          sender,
		SendThreshold:   cfg.Campaign.SendThreshold,
		SendBudget:      cfg.Campaign.SendBudget,
		DefaultPriority: cfg.Campaign.DefaultPriority,
		Concurrency:     cfg.Campaign.Concurrency,
		Logger:          logger,
	})
	result, err := orch.Run(ctx)
	if err != nil {
		return fmt.Errorf("campaign failed: %w", err)
	}

	fmt.Printf("Campaign %s finished\n", result.RunID)
	fmt.Printf("  Total leads: %d\n", result.Total)
	fmt.Printf("  Sent:        %d\n", result.Sent)
	fmt.Printf("  Replied:     %d\n", result.Replied)
	fmt.Printf("  Leads file:  %s\n", cfg.Campaign.OutputPath)
	fmt.Printf("  Report:      %s\n", cfg.Campaign.ReportPath)
	if cfg.SMTP.Host == "localhost" || cfg.SMTP.Host == "127.0.0.1" {
		fmt.Println("If using MailHog, open http://localhost:8025 to see sent messages")
	}
	return nil
}

// applyRunFlags overlays command-line flags onto the loaded config.
// Only flags the user actually set override file and env values.
func applyRunFlags(cfg *config.Config, cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("csv") {
		cfg.Campaign.LeadsPath = csvPath
	}
	if flags.Changed("out") {
		cfg.Campaign.OutputPath = outPath
	}
	if flags.Changed("report") {
		cfg.Campaign.ReportPath = reportPath
	}
	if flags.Changed("provider") {
		cfg.LLM.Provider = providerFlag
	}
	if flags.Changed("model") {
		cfg.LLM.Model = modelFlag
	}
	if flags.Changed("api-key") {
		cfg.LLM.APIKey = apiKeyFlag
	}
	if flags.Changed("smtp-host") {
		cfg.SMTP.Host = smtpHost
	}
	if flags.Changed("smtp-port") {
		cfg.SMTP.Port = smtpPort
	}
	if flags.Changed("from") {
		cfg.SMTP.From = fromAddr
	}
	if flags.Changed("send-threshold") {
		cfg.Campaign.SendThreshold = sendThreshold
	}
	if flags.Changed("send-budget") {
		cfg.Campaign.SendBudget = sendBudget
	}
	if flags.Changed("concurrency") {
		cfg.Campaign.Concurrency = concurrency
	}
}

// writeSample seeds a demo lead file for a first run.
func writeSample(cmd *cobra.Command, args []string) error {
	if err := store.WriteSampleLeads(samplePath); err != nil {
		return fmt.Errorf("writing sample leads: %w", err)
	}
	fmt.Printf("Wrote %d sample leads to %s\n", len(store.SampleLeads), samplePath)
	fmt.Printf("Next: leadpilot run --csv %s\n", samplePath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
