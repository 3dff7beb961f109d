package params

import (
	"os"

	"github.com/joho/godotenv"
)

// Files are the three flat files of one emulator run.
type Files struct {
	Clients string // initial client balances, tab-separated
	Orders  string // order feed, processed in line order
	Result  string // final balances are written here
}

// Journal controls the optional Pebble trade journal.
type Journal struct {
	Enabled bool
	Path    string
}

type Config struct {
	Files   Files
	Journal Journal
	// LogFile, when set, tees logs to a file in addition to stdout.
	LogFile string
}

func Default() Config {
	return Config{
		Files: Files{
			Clients: "data/clients.txt",
			Orders:  "data/orders.txt",
			Result:  "data/result.txt",
		},
		Journal: Journal{
			Enabled: false,
			Path:    "data/trades.db",
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("CLIENTS_FILE"); v != "" {
		cfg.Files.Clients = v
	}
	if v := os.Getenv("ORDERS_FILE"); v != "" {
		cfg.Files.Orders = v
	}
	if v := os.Getenv("RESULT_FILE"); v != "" {
		cfg.Files.Result = v
	}
	if v := os.Getenv("TRADE_JOURNAL"); v != "" {
		cfg.Journal.Enabled = v == "true"
	}
	if v := os.Getenv("TRADE_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return cfg
}
