package worker

import (
	"context"
	"time"

	"suave/config"
	"suave/internal/domains/reservation/service"
	"suave/shared/timezone"

	"github.com/rs/zerolog/log"
)

const defaultSweepInterval = time.Minute

// Sweeper expires stale pending reservations and marks missed arrivals on a
// fixed interval.
type Sweeper struct {
	config  *config.Config
	service service.Reservation
	now     func() time.Time
}

func NewSweeper(config *config.Config, service service.Reservation) *Sweeper {
	return &Sweeper{
		config:  config,
		service: service,
		now:     timezone.Now,
	}
}

// Run sweeps once immediately, then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	interval := time.Duration(s.config.Booking.SweepIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	log.Info().Dur("interval", interval).Msg("Starting reservation sweeper.")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.Sweep(ctx)

		select {
		case <-ctx.Done():
			log.Info().Msg("Reservation sweeper stopped.")

			return
		case <-ticker.C:
		}
	}
}

// Sweep runs a single pass. Errors are logged; the next tick retries.
func (s *Sweeper) Sweep(ctx context.Context) {
	res, err := s.service.Sweep(ctx, s.now())
	if err != nil {
		log.Error().Err(err).Msg("reservation sweep failed")

		return
	}

	if res.Expired+res.NoShows+res.Failed > 0 {
		log.Info().
			Int("expired", res.Expired).
			Int("no_shows", res.NoShows).
			Int("failed", res.Failed).
			Msg("reservation sweep finished")
	}
}
