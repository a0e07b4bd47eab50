package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"kpiboard/internal/cache"
	"kpiboard/internal/kanban"
	"kpiboard/internal/sheets"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sheets  sheets.Config
	Tracker kanban.Config
	Cache   cache.Config

	SpreadsheetID string
	YearSheets    map[string]string
	FixtureFile   string

	HTTPAddr  string
	DataPath  string
	LogDir    string
	DBPath    string
	GoalsFile string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first.
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run).
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths.
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}
	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	freshMs, _ := strconv.Atoi(getEnv("FRESH_TTL_MS", "60000"))
	staleMs, _ := strconv.Atoi(getEnv("STALE_TTL_MS", "600000"))
	delaySecs, _ := strconv.Atoi(getEnv("TRACKER_REQUEST_DELAY_SECONDS", "1"))

	cfg := &AppConfig{
		Sheets: sheets.Config{
			BaseURL: getEnv("SHEETS_API_URL", "https://sheets.googleapis.com"),
			APIKey:  getEnv("SHEETS_API_KEY", ""),
		},
		Tracker: kanban.Config{
			BaseURL:      getEnv("TRACKER_URL", ""),
			Token:        getEnv("TRACKER_TOKEN", ""),
			BoardID:      getEnv("TRACKER_BOARD_ID", ""),
			RequestDelay: time.Duration(delaySecs) * time.Second,
		},
		Cache: cache.Config{
			FreshTTL: time.Duration(freshMs) * time.Millisecond,
			StaleTTL: time.Duration(staleMs) * time.Millisecond,
		},
		SpreadsheetID: getEnv("OUTREACH_SPREADSHEET_ID", ""),
		YearSheets:    loadYearSheets(),
		FixtureFile:   getEnv("SHEETS_FIXTURE_FILE", ""),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		DataPath:      dataPath,
		LogDir:        logDir,
		DBPath:        getEnv("KPI_DB_PATH", filepath.Join(dataPath, "kpiboard.db")),
		GoalsFile:     getEnv("GOALS_FILE", filepath.Join(dataPath, "goals.yaml")),
	}

	return cfg, nil
}

// loadYearSheets collects SHEET_ID_<YEAR> variables into a year-to-id map,
// e.g. SHEET_ID_2025=1AbC... makes the 2025 revenue sheet resolvable.
func loadYearSheets() map[string]string {
	const prefix = "SHEET_ID_"
	sheets := make(map[string]string)
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, prefix) {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		year := kv[len(prefix):eq]
		if len(year) == 4 && kv[eq+1:] != "" {
			sheets[year] = kv[eq+1:]
		}
	}
	return sheets
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
