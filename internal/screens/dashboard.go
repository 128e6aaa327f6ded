package screens

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"finadmin/internal/aggregate"
	"finadmin/internal/api"
	"finadmin/internal/viewstate"
	"finadmin/pkg/models"
)

// Dashboard shows the server's overview aggregate next to the most recent
// payments. The two are fetched concurrently into independent stores, so a
// failure of one never hides the other.
type Dashboard struct {
	Stats    *viewstate.Store[models.DashboardStats]
	Payments *viewstate.Store[models.Payment]
}

func NewDashboard(client *api.Client) *Dashboard {
	payments := client.Payments()
	return &Dashboard{
		Stats: viewstate.New("dashboard.stats", func(ctx context.Context, _ aggregate.Query) ([]models.DashboardStats, error) {
			stats, err := client.Overview(ctx)
			if err != nil {
				return nil, err
			}
			return []models.DashboardStats{stats}, nil
		}),
		Payments: viewstate.New("dashboard.payments", func(ctx context.Context, _ aggregate.Query) ([]models.Payment, error) {
			return payments.List(ctx, nil)
		}),
	}
}

// Load fetches both panels concurrently and waits for both. The returned
// error is the first failure; each store keeps its own error state.
func (d *Dashboard) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return d.Stats.Load(ctx) })
	g.Go(func() error { return d.Payments.Load(ctx) })
	return g.Wait()
}

// Overview returns the last loaded overview, if any.
func (d *Dashboard) Overview() (models.DashboardStats, bool) {
	stats := d.Stats.Collection()
	if len(stats) == 0 {
		return models.DashboardStats{}, false
	}
	return stats[0], true
}

// TopDebtors returns the top-n debtor distribution for the chart.
func (d *Dashboard) TopDebtors(n int) []aggregate.Slice {
	stats, ok := d.Overview()
	if !ok {
		return []aggregate.Slice{}
	}
	return aggregate.TopDebtorSeries(stats.TopDebtors, n, stats.TotalOutstanding)
}

// RecentPayments returns the n newest payments.
func (d *Dashboard) RecentPayments(n int) []models.Payment {
	return aggregate.Latest(d.Payments.Collection(), n, func(p models.Payment) time.Time { return p.PaymentDate })
}

// ReceivedLocally recomputes the received windows from the loaded payments.
func (d *Dashboard) ReceivedLocally(now time.Time) models.ReceivedWindows {
	return aggregate.ReceivedSince(d.Payments.Collection(), now)
}

// PaymentMethods returns the method distribution of the loaded payments.
func (d *Dashboard) PaymentMethods() []aggregate.Slice {
	return aggregate.SummarizePayments(d.Payments.Collection()).ByMethod
}
