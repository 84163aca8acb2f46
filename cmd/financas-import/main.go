// Command financas-import imports a bank statement CSV for one owner straight
// into the configured store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"financas/internal/cli"
	"financas/internal/config"
	"financas/internal/csvimport"
	applog "financas/internal/log"
	"financas/internal/services"
)

func main() {
	owner := flag.String("owner", "", "owner id the transactions belong to")
	file := flag.String("file", "", "CSV file to import (default: stdin)")
	timeout := flag.Duration("timeout", 5*time.Minute, "give up after this long")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentImport)
	if *owner == "" {
		logger.ErrorContext(context.Background(), "Error: -owner is required")
		os.Exit(2)
	}

	name, data, err := readInput(*file)
	cli.Must(logger, "Failed to read input", err, "file", *file)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = applog.WithLogger(ctx, logger)

	// the API settings (JWT, port) do not apply here
	cfg := config.Load()
	backend := cli.InitStore(ctx, logger, cfg)
	publisher, amqpCloser := cli.ConnectPublisher(ctx, logger, cfg)
	archiver, archiveCloser := cli.OpenArchiver(ctx, logger, cfg)
	defer func() {
		cli.CloseAll(ctx, logger, amqpCloser, archiveCloser)
		_ = backend.Cleanup()
	}()

	importer := services.NewImportService(backend.Store, archiver, publisher, nil)
	res, err := importer.Import(ctx, *owner, name, data)
	if err != nil {
		var ie *csvimport.ImportError
		if errors.As(err, &ie) {
			logger.ErrorContext(ctx, "Import aborted", "line", ie.Line, "imported", ie.Imported, "rejected", ie.Rejected, "error", ie.Err)
		} else {
			logger.ErrorContext(ctx, "Import failed", "error", err)
		}
		os.Exit(1)
	}

	fmt.Println(summary(res))
}

func readInput(path string) (string, []byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return "stdin.csv", data, err
	}
	data, err := os.ReadFile(path)
	return filepath.Base(path), data, err
}

func summary(res csvimport.Result) string {
	switch res.Outcome {
	case csvimport.OutcomeEmpty:
		return "Nothing to import: the file is empty."
	case csvimport.OutcomeNoValidRows:
		return fmt.Sprintf("No valid rows to import (%d rejected).", res.Rejected)
	default:
		return fmt.Sprintf("Imported %d transactions, %d rows rejected.", res.Imported, res.Rejected)
	}
}
