package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/avykov/stockex/params"
	"github.com/avykov/stockex/pkg/app/core/exchange"
	"github.com/avykov/stockex/pkg/app/core/ledger"
	"github.com/avykov/stockex/pkg/feed"
	"github.com/avykov/stockex/pkg/storage"
	"github.com/avykov/stockex/pkg/util"
)

func main() {
	cfg := params.LoadFromEnv("")

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	book := ledger.New()
	if err := loadClients(cfg.Files.Clients, book); err != nil {
		logger.Fatal("load clients", zap.String("file", cfg.Files.Clients), zap.Error(err))
	}
	logger.Info("clients loaded", zap.Int("count", book.Count()))

	opts := []exchange.Option{exchange.WithLogger(logger)}
	if cfg.Journal.Enabled {
		journal, err := storage.OpenTradeJournal(cfg.Journal.Path)
		if err != nil {
			logger.Fatal("open trade journal", zap.String("path", cfg.Journal.Path), zap.Error(err))
		}
		defer journal.Close()
		opts = append(opts, exchange.WithJournal(journal))
	}
	ex := exchange.New(book, opts...)

	if err := replayOrders(cfg.Files.Orders, ex, logger); err != nil {
		logger.Fatal("order feed aborted", zap.String("file", cfg.Files.Orders), zap.Error(err))
	}

	if err := writeResult(cfg.Files.Result, book); err != nil {
		logger.Fatal("write result", zap.String("file", cfg.Files.Result), zap.Error(err))
	}
	logger.Info("run complete",
		zap.Int("clients", book.Count()),
		zap.Int("books", len(ex.Books())),
		zap.String("result", cfg.Files.Result),
	)
}

func newLogger(cfg params.Config) (*zap.Logger, error) {
	if cfg.LogFile != "" {
		return util.NewLoggerWithFile(cfg.LogFile)
	}
	return util.NewLogger()
}

func loadClients(path string, book *ledger.Ledger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return feed.LoadClients(f, book)
}

func replayOrders(path string, ex *exchange.Exchange, logger *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return feed.Replay(f, ex, logger)
}

func writeResult(path string, book *ledger.Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := feed.WriteClients(f, book); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
