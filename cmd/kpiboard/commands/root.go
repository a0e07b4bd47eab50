package commands

import (
	"os"

	"kpiboard/internal/config"
	"kpiboard/internal/dashboard"
	"kpiboard/internal/goals"
	"kpiboard/internal/kanban"
	"kpiboard/internal/logging"
	"kpiboard/internal/server"
	"kpiboard/internal/sheets"
	"kpiboard/internal/store"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose     bool
	openBrowser bool
	cfg         *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "kpiboard",
	Short: "kpiboard serves weekly KPI aggregates from spreadsheet sources",
	Long: `A small internal dashboard service that pulls rows from spreadsheet tabs and
a kanban tracker, buckets them into ISO weeks, classifies weekly totals
against goal thresholds and serves the aggregates over HTTP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("kpiboard starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().BoolVar(&openBrowser, "open", false, "open the dashboard endpoint in the browser after startup")
}

// newBuilder assembles the payload builder from the loaded configuration.
// Shared by the serve and summary paths.
func newBuilder() *dashboard.Builder {
	var source sheets.Client
	if cfg.FixtureFile != "" {
		log.Info().Str("path", cfg.FixtureFile).Msg("Using sheet values fixture file")
		source = sheets.NewFileSource(cfg.FixtureFile)
	} else {
		source = sheets.NewClient(cfg.Sheets)
	}

	var tracker kanban.Client
	if cfg.Tracker.Enabled() {
		tracker = kanban.NewClient(cfg.Tracker)
	}

	resolver := &goals.Resolver{}
	if _, err := os.Stat(cfg.GoalsFile); err != nil {
		log.Warn().Str("path", cfg.GoalsFile).Msg("No goals file, weekly statuses disabled")
	} else {
		loaded, err := goals.Load(cfg.GoalsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load goals configuration")
		}
		resolver = loaded
	}

	dashCfg := dashboard.DefaultConfig()
	dashCfg.SpreadsheetID = cfg.SpreadsheetID
	dashCfg.TrackerBoard = cfg.Tracker.BoardID
	dashCfg.YearSheets = cfg.YearSheets

	return dashboard.NewBuilder(source, tracker, resolver, dashCfg, cfg.Cache)
}

func runServe() {
	kpis, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open KPI store")
	}
	defer kpis.Close()

	srv := server.New(newBuilder(), kpis, cfg.HTTPAddr)

	if openBrowser {
		url := "http://localhost" + cfg.HTTPAddr + "/api/dashboard"
		go func() {
			if err := browser.OpenURL(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("Failed to open browser")
			}
		}()
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("HTTP server stopped")
	}
}
