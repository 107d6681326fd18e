package components

import (
	"log/slog"

	"entrypass-engine/internal/domain/snapshot"
	"entrypass-engine/internal/events"
	"entrypass-engine/internal/infra/cache"
	"entrypass-engine/internal/infra/gateway"
	repo_impl "entrypass-engine/internal/infra/repository"
	"entrypass-engine/internal/notify"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/pkg/config"
	"entrypass-engine/internal/sweeper"
	"entrypass-engine/internal/usecase/commands"
	"entrypass-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		repo_impl.NewPassportRepository,
		repo_impl.NewPersonalInfoRepository,
		repo_impl.NewFundsRepository,
		repo_impl.NewTravelInfoRepository,
		repo_impl.NewEntryRepository,
		repo_impl.NewSnapshotRepository,
		repo_impl.NewNotificationRepository,
		repo_impl.NewPreferenceRepository,
		repo_impl.NewProfileReader,
		gateway.NewLocalSubmission,
		NewSignificantFieldPolicy,
		NewNotifyService,
		NewResubmissionWatcher,
		NewSweeper,
	),
	fx.Provide(
		// Write-side ports
		func(r *repo_impl.PassportRepository) commands.PassportRepository { return r },
		func(r *repo_impl.PersonalInfoRepository) commands.PersonalInfoRepository { return r },
		func(r *repo_impl.FundsRepository) commands.FundsRepository { return r },
		func(r *repo_impl.TravelInfoRepository) commands.TravelInfoRepository { return r },
		func(r *repo_impl.EntryRepository) commands.EntryRepository { return r },
		func(r *repo_impl.SnapshotRepository) commands.SnapshotRepository { return r },
		func(r *repo_impl.ProfileReader) commands.ProfileSource { return r },
		func(r *repo_impl.PreferenceRepository) commands.NotificationPreferenceRepository { return r },
		func(b *events.WarningBoard) commands.WarningBoard { return b },
		func(s *notify.Service) commands.NotificationScheduler { return s },
		func(g *gateway.LocalSubmission) commands.SubmissionGateway { return g },
		func(c *cache.Cache) commands.CacheMaintenance { return c },
		// Read-side ports
		func(r *repo_impl.EntryRepository) queries.EntryReader { return r },
		func(r *repo_impl.ProfileReader) queries.ProfileSource { return r },
		func(b *events.WarningBoard) queries.WarningSource { return b },
		func(b *events.WarningBoard) queries.WarningCount { return b },
		func(c *cache.Cache) queries.CacheStats { return c },
		func(s *sweeper.Sweeper) queries.SweeperStats { return s },
	),
)

func NewSignificantFieldPolicy(cfg config.Config) *snapshot.Policy {
	return snapshot.NewPolicy(cfg.Engine.SignificantFieldOverrides())
}

func NewNotifyService(
	notifier notify.Notifier,
	schedules *repo_impl.NotificationRepository,
	prefs *repo_impl.PreferenceRepository,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) *notify.Service {
	return notify.NewService(notifier, schedules, prefs, clk, logger, cfg.Engine)
}

func NewResubmissionWatcher(
	bus *events.Bus,
	board *events.WarningBoard,
	entries *repo_impl.EntryRepository,
	snapshots *repo_impl.SnapshotRepository,
	profiles *repo_impl.ProfileReader,
	policy *snapshot.Policy,
	clk clock.Clock,
	logger *slog.Logger,
) *events.ResubmissionWatcher {
	return events.NewResubmissionWatcher(bus, board, entries, snapshots, profiles, policy, clk, logger)
}

func NewSweeper(
	entries *repo_impl.EntryRepository,
	notifications *notify.Service,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) *sweeper.Sweeper {
	return sweeper.New(entries, notifications, clk, logger, cfg.Engine)
}
