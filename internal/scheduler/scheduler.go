package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/sharehub/nepse-ledger-backend/internal/service"
)

// Scheduler periodically refreshes the quote cache from the market-data API
// so holdings are valued at reasonably fresh prices between requests.
type Scheduler struct {
	cron   *cron.Cron
	quotes *service.QuoteService
}

// New creates a Scheduler that refreshes quotes on a cron schedule
// (standard 5-field syntax or descriptors like "@every 30m").
func New(quotes *service.QuoteService) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		quotes: quotes,
	}
}

// Start registers the refresh job and starts the cron loop. Returns an error
// only when the schedule expression does not parse.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, s.refreshQuotes)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("quote refresh scheduled: %s", schedule)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) refreshQuotes() {
	if err := s.quotes.RefreshAll(context.Background()); err != nil {
		log.Printf("scheduled quote refresh failed: %v", err)
	}
}
