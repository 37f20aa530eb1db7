// Command rebuild_sheets rewrites both request sheets in the mirror
// spreadsheet from the sqlite store. Run it after the spreadsheet was edited
// by hand or a dead-lettered batch left it behind the store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"eventdesk/internal/database"
	"eventdesk/internal/google"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		dbPath        = flag.String("db", "./data/eventdesk.db", "path to sqlite db")
		credentials   = flag.String("credentials", "./configs/google-credentials.json", "path to service account json")
		spreadsheetID = flag.String("spreadsheet", "", "requests spreadsheet id")
		showEmail     = flag.Bool("email", false, "print the service account email and exit")
	)
	flag.Parse()

	if *showEmail {
		email, err := google.GetServiceAccountEmail(*credentials)
		if err != nil {
			return fmt.Errorf("read credentials: %w", err)
		}
		// share the spreadsheet with this address
		fmt.Println(email)
		return nil
	}

	if *spreadsheetID == "" {
		return fmt.Errorf("-spreadsheet is required")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	sheets, err := google.NewSheetsService(*credentials, *spreadsheetID)
	if err != nil {
		return fmt.Errorf("init sheets: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := sheets.TestConnection(ctx); err != nil {
		return fmt.Errorf("spreadsheet unreachable: %w", err)
	}

	contacts, err := db.ListContactRequests(ctx)
	if err != nil {
		return fmt.Errorf("load contact requests: %w", err)
	}
	quotes, err := db.ListQuoteRequests(ctx)
	if err != nil {
		return fmt.Errorf("load quote requests: %w", err)
	}

	if err := sheets.ReplaceRequestsSheet(ctx, contacts, quotes); err != nil {
		return fmt.Errorf("rebuild sheets: %w", err)
	}

	logger.Info().
		Int("contacts", len(contacts)).
		Int("quotes", len(quotes)).
		Msg("Sheets rebuilt from store")
	return nil
}
