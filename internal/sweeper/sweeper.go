package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/pkg/config"

	"github.com/google/uuid"
)

// Records is what the sweeper needs from the entry repository.
type Records interface {
	Users(ctx context.Context) ([]uuid.UUID, error)
	NonArchivedByUser(ctx context.Context, userID uuid.UUID) ([]*entry.Record, error)
	Save(ctx context.Context, rec *entry.Record) error
}

// Notifications is what the sweeper needs from the notification service.
type Notifications interface {
	ScheduleArchival(ctx context.Context, rec *entry.Record, destinationName string)
	CancelForRecord(ctx context.Context, entryID uuid.UUID)
}

// SweepError is one failed record from a sweep, kept in a bounded ring so a
// persistent failure cannot grow memory without bound.
type SweepError struct {
	EntryID    uuid.UUID `json:"entryId"`
	OccurredAt time.Time `json:"occurredAt"`
	Message    string    `json:"message"`
}

// Stats is a point-in-time view of sweeper activity.
type Stats struct {
	LastRunAt       *time.Time    `json:"lastRunAt,omitempty"`
	LastDuration    time.Duration `json:"lastDuration"`
	Runs            int           `json:"runs"`
	RecordsScanned  int           `json:"recordsScanned"`
	RecordsArchived int           `json:"recordsArchived"`
	RecordsExpired  int           `json:"recordsExpired"`
	RecentErrors    []SweepError  `json:"recentErrors"`
}

// Sweeper walks every non-archived entry record on an interval. Records
// strictly past the arrival window are archived; in-progress records whose
// arrival date has passed are expired first so the status history shows the
// missed submission. One record failing never stops the sweep.
type Sweeper struct {
	records       Records
	notifications Notifications
	clock         clock.Clock
	logger        *slog.Logger

	interval time.Duration
	grace    time.Duration

	mu           sync.Mutex
	lastRunAt    *time.Time
	lastDuration time.Duration
	runs         int
	scanned      int
	archived     int
	expired      int
	errs         []SweepError
	errCap       int

	cancel context.CancelFunc
	done   chan struct{}
}

func New(records Records, notifications Notifications, clk clock.Clock, logger *slog.Logger, cfg config.EngineConfig) *Sweeper {
	return &Sweeper{
		records:       records,
		notifications: notifications,
		clock:         clk,
		logger:        logger,
		interval:      cfg.SweepInterval,
		grace:         cfg.ArchiveGrace,
		errCap:        cfg.ErrorRingSize,
	}
}

// Start runs one sweep immediately, then ticks on the configured interval
// until Stop is called.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.RunOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// RunOnce executes a single sweep pass.
func (s *Sweeper) RunOnce(ctx context.Context) {
	now := s.clock.Now()
	users, err := s.records.Users(ctx)
	if err != nil {
		s.logger.Error("sweep aborted, cannot enumerate users", "error", err)
		s.recordRun(now, s.clock.Now().Sub(now), 0, 0, 0)
		return
	}

	var scanned, archived, expired int
	for _, userID := range users {
		recs, err := s.records.NonArchivedByUser(ctx, userID)
		if err != nil {
			s.logger.Error("sweep skipping user", "user_id", userID, "error", err)
			continue
		}
		for _, rec := range recs {
			scanned++
			a, e := s.sweepRecord(ctx, rec, now)
			archived += a
			expired += e
		}
	}

	elapsed := s.clock.Now().Sub(now)
	s.recordRun(now, elapsed, scanned, archived, expired)
	s.logger.Info("sweep complete",
		"scanned", scanned, "archived", archived, "expired", expired,
		"duration", elapsed)
}

func (s *Sweeper) sweepRecord(ctx context.Context, rec *entry.Record, now time.Time) (archived, expired int) {
	arrival := rec.ArrivalDate()
	if arrival == nil {
		return 0, 0
	}

	if rec.PastArrivalWindow(now, s.grace) {
		if rec.Status() == entry.StatusInProgress {
			if err := rec.Expire(now); err != nil {
				s.captureError(rec.ID(), now, err)
				return 0, 0
			}
			expired = 1
		}
		if err := rec.Archive("arrival window closed", now); err != nil {
			s.captureError(rec.ID(), now, err)
			return 0, expired
		}
		if err := s.records.Save(ctx, rec); err != nil {
			s.captureError(rec.ID(), now, err)
			return 0, expired
		}
		s.notifications.CancelForRecord(ctx, rec.ID())
		s.notifications.ScheduleArchival(ctx, rec, rec.DestinationID())
		return 1, expired
	}

	if rec.Status() == entry.StatusInProgress && now.After(*arrival) {
		if err := rec.Expire(now); err != nil {
			s.captureError(rec.ID(), now, err)
			return 0, 0
		}
		if err := s.records.Save(ctx, rec); err != nil {
			s.captureError(rec.ID(), now, err)
			return 0, 0
		}
		return 0, 1
	}
	return 0, 0
}

func (s *Sweeper) recordRun(at time.Time, elapsed time.Duration, scanned, archived, expired int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := at
	s.lastRunAt = &t
	s.lastDuration = elapsed
	s.runs++
	s.scanned += scanned
	s.archived += archived
	s.expired += expired
}

func (s *Sweeper) captureError(entryID uuid.UUID, at time.Time, err error) {
	s.logger.Error("sweep failed for record", "entry_id", entryID, "error", err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, SweepError{EntryID: entryID, OccurredAt: at, Message: err.Error()})
	if len(s.errs) > s.errCap {
		s.errs = s.errs[len(s.errs)-s.errCap:]
	}
}

func (s *Sweeper) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	errs := make([]SweepError, len(s.errs))
	copy(errs, s.errs)
	var last *time.Time
	if s.lastRunAt != nil {
		t := *s.lastRunAt
		last = &t
	}
	return Stats{
		LastRunAt:       last,
		LastDuration:    s.lastDuration,
		Runs:            s.runs,
		RecordsScanned:  s.scanned,
		RecordsArchived: s.archived,
		RecordsExpired:  s.expired,
		RecentErrors:    errs,
	}
}
