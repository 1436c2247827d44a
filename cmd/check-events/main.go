package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"concertfever-storefront/internal/config"
	"concertfever-storefront/internal/logging"
	"concertfever-storefront/internal/models"
	"concertfever-storefront/internal/services"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var (
		category string
		query    string
		page     int
		mock     bool
	)
	flags := pflag.NewFlagSet("check-events", pflag.ContinueOnError)
	flags.StringVar(&category, "category", "", "only list events of this category")
	flags.StringVarP(&query, "query", "q", "", "case-insensitive event name filter")
	flags.IntVar(&page, "page", 1, "page to print")
	flags.StringVar(&cfg.Backend.URL, "backend-url", cfg.Backend.URL, "base URL of the ConcertFever backend")
	flags.BoolVar(&mock, "mock", cfg.Backend.Mode == config.BackendModeMock, "use the in-memory catalogue")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if mock {
		cfg.Backend.Mode = config.BackendModeMock
	}

	logger := logging.New(config.LoggingConfig{Level: "warn", Format: cfg.Logging.Format})
	backend := services.NewStorageFactory(cfg, logger).CreateBackend()
	events := services.NewEventService(backend, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	defer cancel()

	all, err := events.ListEvents(ctx, category)
	if err != nil {
		return err
	}
	result := services.Paginate(services.FilterEventsByName(all, query), page, services.EventsPageSize)

	fmt.Println("Checking Events")
	fmt.Printf("Total Events: %d\n", len(all))
	fmt.Printf("Matching Events: %d\n", result.TotalCount)
	fmt.Printf("Page %d of %d\n", result.Page, result.TotalPages)
	for _, event := range result.Events {
		printEvent(event)
	}
	return nil
}

func printEvent(event *models.Event) {
	start := event.StartDate
	if t, err := time.Parse(time.RFC3339, event.StartDate); err == nil {
		start = t.Format("2006-01-02 15:04")
	}
	fmt.Printf("  #%-4d %-40s %-12s %s  from %s\n",
		event.EventID, event.EventName, event.Category, start, event.LowestPriceLabel())
}
