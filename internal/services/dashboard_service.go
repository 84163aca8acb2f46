package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"financas/internal/cache"
	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/metrics"
	"financas/internal/store"
)

const MaxSeriesMonths = 24

var ErrInvalidMonths = errors.New("months must be between 1 and 24")

// DashboardService computes the aggregator output and keeps it per owner
// until a mutation by that owner invalidates it.
type DashboardService struct {
	txs           store.TransactionStore
	recs          store.RecurringStore
	cache         cache.Cache[metrics.Dashboard]
	defaultMonths int
	now           func() time.Time
}

func NewDashboardService(txs store.TransactionStore, recs store.RecurringStore, c cache.Cache[metrics.Dashboard], defaultMonths int) *DashboardService {
	if defaultMonths < 1 || defaultMonths > MaxSeriesMonths {
		defaultMonths = metrics.DefaultMonths
	}
	return &DashboardService{
		txs:           txs,
		recs:          recs,
		cache:         c,
		defaultMonths: defaultMonths,
		now:           time.Now,
	}
}

// Dashboard returns the figures for ownerID. Zero months selects the default series length.
func (s *DashboardService) Dashboard(ctx context.Context, ownerID string, months int) (metrics.Dashboard, error) {
	if ownerID == "" {
		return metrics.Dashboard{}, core.ErrNoOwner
	}
	if months == 0 {
		months = s.defaultMonths
	}
	if months < 1 || months > MaxSeriesMonths {
		return metrics.Dashboard{}, ErrInvalidMonths
	}

	now := s.now()
	key := cacheKey(ownerID, core.PeriodKey(now), months)
	if s.cache != nil {
		if d, ok := s.cache.Get(key); ok {
			dashboardLog().DebugContext(ctx, "Dashboard served from cache", "owner_id", ownerID)
			return d, nil
		}
	}

	var (
		txs  []core.Transaction
		recs []core.RecurringExpense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.txs.ListTransactions(gctx, ownerID, store.TransactionFilter{})
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recs, err = s.recs.ListRecurring(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("list recurring expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return metrics.Dashboard{}, err
	}

	d := metrics.Compute(txs, recs, now, months)
	if s.cache != nil {
		s.cache.Set(key, d)
	}
	return d, nil
}

// Invalidate drops every cached dashboard of ownerID.
func (s *DashboardService) Invalidate(ownerID string) {
	if s.cache == nil {
		return
	}
	if n := s.cache.DeletePrefix(ownerID + ":"); n > 0 {
		dashboardLog().Debug("Dashboard cache invalidated", "owner_id", ownerID, "entries", n)
	}
}

// cacheKey includes the current period so a snapshot never outlives the
// month it was computed in.
func cacheKey(ownerID, period string, months int) string {
	return ownerID + ":" + period + ":" + strconv.Itoa(months)
}

func dashboardLog() *slog.Logger {
	return slog.With(applog.FieldComponent, applog.ComponentDashboard)
}
