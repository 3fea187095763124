package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arthsaathi/strategist/internal/catalog"
	"github.com/arthsaathi/strategist/internal/config"
	"github.com/arthsaathi/strategist/internal/database"
	"github.com/arthsaathi/strategist/internal/llm"
	"github.com/arthsaathi/strategist/internal/server"
	"github.com/arthsaathi/strategist/internal/strategist"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "strategist",
	Short:   "Financial decision impact analysis",
	Long:    "Strategist analyzes a persona's financial decision, projects its consequences over time, and compares it against the paths not taken.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("strategist", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/strategist/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure catalog directories and the LLM provider.")
		return nil
	},
}

// --- seed command ---

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load personas and events into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		for i := range cat.Personas {
			if err := db.UpsertPersona(&cat.Personas[i]); err != nil {
				return fmt.Errorf("storing persona %s: %w", cat.Personas[i].ID, err)
			}
		}
		for i := range cat.Events {
			if err := db.UpsertEvent(&cat.Events[i]); err != nil {
				return fmt.Errorf("storing event %s: %w", cat.Events[i].ID, err)
			}
		}

		fmt.Printf("Seeded %d personas and %d events.\n", len(cat.Personas), len(cat.Events))
		for _, p := range cat.Personas {
			fmt.Printf("  persona %s (%s)\n", p.ID, p.DisplayProfile.Name)
		}
		for _, e := range cat.Events {
			fmt.Printf("  event %s: %s (%d choices)\n", e.ID, e.Title, len(e.Choices))
		}
		return nil
	},
}

// --- analyze command ---

var (
	analyzePersona string
	analyzeEvent   string
	analyzeChoice  string
	analyzeJSON    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a persona's decision and store the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		persona, err := db.GetPersona(analyzePersona)
		if err != nil {
			return fmt.Errorf("loading persona %s: %w", analyzePersona, err)
		}
		if persona == nil {
			return fmt.Errorf("persona %s not found (run 'strategist seed' first)", analyzePersona)
		}
		event, err := db.GetEvent(analyzeEvent)
		if err != nil {
			return fmt.Errorf("loading event %s: %w", analyzeEvent, err)
		}
		if event == nil {
			return fmt.Errorf("event %s not found (run 'strategist seed' first)", analyzeEvent)
		}

		provider := llm.CreateProvider(cfg.LLM.Provider, cfg.LLM.Model,
			cfg.LLM.OllamaURL, cfg.LLM.OpenAIModel, cfg.LLM.APIKeyEnv)
		if provider == nil {
			fmt.Println("No LLM provider configured; using fixed fallback commentary.")
		}

		strat := strategist.New(provider)
		report, err := strat.AnalyzeDecision(context.Background(), persona, event, analyzeChoice)
		if err != nil {
			return err
		}

		data, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}

		rec := &database.Report{
			ID:               uuid.NewString(),
			PersonaID:        analyzePersona,
			EventID:          analyzeEvent,
			ChoiceID:         analyzeChoice,
			WasOptimal:       report.DecisionTree.DecisionQualityMetrics.WasOptimal,
			RegretLikelihood: report.DecisionTree.DecisionQualityMetrics.RegretLikelihood,
			HealthScore:      report.DecisionTree.BranchOutcomes.TakenBranch.TwelveMonthOutlook.FinancialHealthScore,
			Summary:          report.Summary,
			Data:             data,
		}
		if err := db.InsertReport(rec); err != nil {
			return fmt.Errorf("storing report: %w", err)
		}

		if analyzeJSON {
			pretty, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			fmt.Println(string(pretty))
		} else {
			fmt.Println(report.Markdown())
		}

		fmt.Printf("\nReport stored: %s\n", rec.ID)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzePersona, "persona", "", "Persona ID")
	analyzeCmd.Flags().StringVar(&analyzeEvent, "event", "", "Event ID")
	analyzeCmd.Flags().StringVar(&analyzeChoice, "choice", "", "Selected choice ID")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the raw report JSON instead of markdown")
	analyzeCmd.MarkFlagRequired("persona")
	analyzeCmd.MarkFlagRequired("event")
	analyzeCmd.MarkFlagRequired("choice")
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Catalog:")
		fmt.Printf("  Personas: %d\n", stats.Personas)
		fmt.Printf("  Events: %d\n", stats.Events)
		fmt.Println("\nReports:")
		fmt.Printf("  Total: %d\n", stats.Reports)
		fmt.Printf("  Optimal decisions: %d\n", stats.OptimalReports)

		provider := llm.CreateProvider(cfg.LLM.Provider, cfg.LLM.Model,
			cfg.LLM.OllamaURL, cfg.LLM.OpenAIModel, cfg.LLM.APIKeyEnv)
		fmt.Println("\nLLM:")
		if provider == nil {
			fmt.Println("  Provider: none (fallback commentary)")
		} else if provider.IsConfigured() {
			fmt.Printf("  Provider: %s (%s), reachable\n", cfg.LLM.Provider, cfg.LLM.Model)
		} else {
			fmt.Printf("  Provider: %s (%s), NOT reachable\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		provider := llm.CreateProvider(cfg.LLM.Provider, cfg.LLM.Model,
			cfg.LLM.OllamaURL, cfg.LLM.OpenAIModel, cfg.LLM.APIKeyEnv)
		strat := strategist.New(provider)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, strat, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

// loadCatalog merges the embedded seed catalog with any configured
// persona/event directories.
func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Seed()
	if err != nil {
		return nil, fmt.Errorf("loading seed catalog: %w", err)
	}

	for _, dir := range []string{cfg.Catalog.PersonaDir, cfg.Catalog.EventDir} {
		if dir == "" {
			continue
		}
		extra, err := catalog.LoadDir(dir)
		if err != nil {
			return nil, err
		}
		cat.Personas = append(cat.Personas, extra.Personas...)
		cat.Events = append(cat.Events, extra.Events...)
	}
	return cat, nil
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "strategist.db")
	return database.Open(dbPath)
}
