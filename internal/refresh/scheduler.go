package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/roylee0704/gron"
	"go.uber.org/atomic"

	"pricewatch/internal/models"
	"pricewatch/internal/notify"
	"pricewatch/internal/pricing"
	"pricewatch/internal/providers"
	"pricewatch/internal/refresh/interfaces"
	"pricewatch/internal/services"
	"pricewatch/internal/storage"
	"pricewatch/internal/structures"
)

// ErrRefreshInProgress is returned when a cycle is requested while another
// one is still running.
var ErrRefreshInProgress = errors.New("refresh cycle already in progress")

type Scheduler struct {
	config     *structures.Config
	logger     providers.Logger
	service    services.PriceServiceInterface
	users      storage.UserRepositoryInterface
	watchlists storage.WatchlistRepositoryInterface
	states     storage.NotificationStateRepositoryInterface
	notifier   notify.Notifier
	metrics    providers.MetricsProviderInterface
	cache      providers.CacheProviderInterface
	snapshot   *SnapshotManager

	cron        *gron.Cron
	opsMu       sync.Mutex
	running     atomic.Bool
	lastRefresh atomic.Time

	summariesMu   sync.Mutex
	lastSummaries map[string]*models.ProductSummary

	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(
	config *structures.Config,
	logger providers.Logger,
	service services.PriceServiceInterface,
	users storage.UserRepositoryInterface,
	watchlists storage.WatchlistRepositoryInterface,
	states storage.NotificationStateRepositoryInterface,
	notifier notify.Notifier,
	metrics providers.MetricsProviderInterface,
	cache providers.CacheProviderInterface,
	snapshot *SnapshotManager,
) interfaces.SchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		config:        config,
		logger:        logger,
		service:       service,
		users:         users,
		watchlists:    watchlists,
		states:        states,
		notifier:      notifier,
		metrics:       metrics,
		cache:         cache,
		snapshot:      snapshot,
		lastSummaries: make(map[string]*models.ProductSummary),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// dailySchedule fires at a fixed UTC hour. gron's own At() resolves the
// wall time in the zone of the clock it is handed, so on a non-UTC host
// it would drift from the UTC times the status endpoint reports.
type dailySchedule struct {
	hour int
}

func (d dailySchedule) Next(t time.Time) time.Time {
	return NextRefreshAt(t, d.hour)
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(dailySchedule{hour: s.config.Refresh.Hour}, func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.RunOnce(s.ctx); err != nil {
			s.logger.Errorf(providers.TypeApp, "Scheduled refresh failed: %s", err)
			return
		}
		if err := s.save(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
		}
	})

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Scheduler started, daily refresh at %02d:00 UTC", s.config.Refresh.Hour)
}

func (s *Scheduler) Stop() {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

func (s *Scheduler) LastRefresh() time.Time {
	return s.lastRefresh.Load()
}

func (s *Scheduler) NextRefresh() time.Time {
	return NextRefreshAt(time.Now(), s.config.Refresh.Hour)
}

// RunOnce walks every watched product once: refresh, remember for the
// snapshot, then evaluate notifications for each watcher. A failed product
// never aborts the cycle, only a failed watchlist read does.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRefreshInProgress
	}
	defer s.running.Store(false)

	start := time.Now()
	entries, err := s.watchlists.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list watchlists: %w", err)
	}

	urls := make([]string, 0)
	watchers := make(map[string][]string)
	for _, e := range entries {
		if _, seen := watchers[e.URL]; !seen {
			urls = append(urls, e.URL)
		}
		watchers[e.URL] = append(watchers[e.URL], e.Username)
	}

	s.logger.Infof(providers.TypeApp, "Refresh cycle started: %d products, %d watch entries", len(urls), len(entries))

	for i, url := range urls {
		if i > 0 && s.config.Scraper.ProductDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.config.Scraper.ProductDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		summary, err := s.service.Refresh(ctx, url, nil)
		if err != nil {
			s.logger.Warnf(providers.TypeApp, "Refresh failed for %s: %s", url, err)
			continue
		}
		s.rememberSummary(summary)

		for _, username := range watchers[url] {
			s.notifyUser(ctx, username, summary)
		}
	}

	elapsed := time.Since(start)
	finished := time.Now().UTC()
	s.metrics.ObserveRefreshDuration(elapsed)
	s.metrics.SetLastRefreshTime(finished)
	s.lastRefresh.Store(finished)
	s.logger.Infof(providers.TypeApp, "Refresh cycle finished in %s", elapsed)
	return nil
}

// notifyUser applies the hysteresis rule: alert only when the discount
// clears the user's threshold AND beats the discount they were last
// notified about. State advances only after a successful send.
func (s *Scheduler) notifyUser(ctx context.Context, username string, summary *models.ProductSummary) {
	user, err := s.users.GetOrCreate(ctx, username)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Cannot load user %s: %s", username, err)
		return
	}
	if user.PushoverCode == "" {
		return
	}

	prev, err := s.states.LastNotifiedDiscount(ctx, username, summary.URL)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Cannot load notification state for %s: %s", username, err)
		return
	}

	if !pricing.ShouldNotify(prev, summary.SavingsPercent, user.PriceLimit) {
		return
	}

	msg := notify.BuildDealMessage(summary, summary.SavingsPercent, prev)
	if err := s.notifier.Send(ctx, user.PushoverCode, msg); err != nil {
		s.logger.Errorf(providers.TypeApp, "Notification to %s failed: %s", username, err)
		return
	}
	s.metrics.IncNotificationsSent()

	if err := s.states.RecordNotified(ctx, username, summary.URL, summary.SavingsPercent, time.Now().UTC()); err != nil {
		s.logger.Errorf(providers.TypeApp, "Cannot record notification state for %s: %s", username, err)
	}
}

func (s *Scheduler) rememberSummary(summary *models.ProductSummary) {
	s.summariesMu.Lock()
	defer s.summariesMu.Unlock()
	s.lastSummaries[summary.URL] = summary
}

func (s *Scheduler) Restore() error {
	summaries, err := s.snapshot.Load(s.config.Snapshot.FilePath)
	if err != nil {
		return err
	}
	for url, summary := range summaries {
		s.rememberSummary(summary)
		data, err := json.Marshal(summary)
		if err != nil {
			continue
		}
		s.cache.Set(services.SummaryCacheKey(url), data, s.config.Cache.ProductTTL)
	}
	if len(summaries) > 0 {
		s.logger.Infof(providers.TypeApp, "Restored %d product summaries from snapshot", len(summaries))
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting snapshot to file...")
	if err := s.save(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) save() error {
	s.summariesMu.Lock()
	summaries := make(map[string]*models.ProductSummary, len(s.lastSummaries))
	for url, summary := range s.lastSummaries {
		summaries[url] = summary
	}
	s.summariesMu.Unlock()

	return s.snapshot.Save(s.config.Snapshot.FilePath, summaries)
}

// NextRefreshAt returns the first hh:00 UTC strictly after now.
func NextRefreshAt(now time.Time, hour int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
