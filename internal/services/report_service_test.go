package services

import (
	"errors"
	"testing"
	"time"

	"easypalm_backend/internal/models"
)

type fakeReportRepo struct {
	revenue float64
	cogs    float64
}

func (f *fakeReportRepo) PurchaseTotalOnDate(_ time.Time) (float64, error) { return 1200, nil }
func (f *fakeReportRepo) PendingPaymentCount() (int, error)                { return 3, nil }
func (f *fakeReportRepo) EmployeeCount() (int, error)                      { return 12, nil }
func (f *fakeReportRepo) FarmerCount() (int, error)                        { return 40, nil }

func (f *fakeReportRepo) RecentPurchases(limit int) ([]models.PurchaseOrder, error) {
	return make([]models.PurchaseOrder, limit), nil
}

func (f *fakeReportRepo) RecentSales(limit int) ([]models.SalesOrder, error) {
	return make([]models.SalesOrder, limit), nil
}

func (f *fakeReportRepo) PurchaseTotalsByDay(_ time.Time) (map[string]float64, error) {
	return map[string]float64{"2026-08-29": 500}, nil
}

func (f *fakeReportRepo) DailyTotals(_ time.Time) ([]models.DailyTotals, error) {
	return []models.DailyTotals{}, nil
}

func (f *fakeReportRepo) RevenueAndCOGS(_, _ *time.Time) (float64, float64, error) {
	return f.revenue, f.cogs, nil
}

func (f *fakeReportRepo) TotalPurchaseCost() (float64, error) { return 9000, nil }

func TestGetProfitLossReport(t *testing.T) {
	service := NewReportService(&fakeReportRepo{revenue: 10000, cogs: 6500}, newFakeStockRepo())

	report, err := service.GetProfitLossReport("2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("GetProfitLossReport: %v", err)
	}
	if report.TotalRevenue != 10000 || report.TotalCOGS != 6500 {
		t.Errorf("report = %+v", report)
	}
	if report.GrossProfit != 3500 {
		t.Errorf("gross profit = %v, want 3500", report.GrossProfit)
	}
}

func TestGetProfitLossReportValidation(t *testing.T) {
	service := NewReportService(&fakeReportRepo{}, newFakeStockRepo())

	cases := []struct {
		name       string
		start, end string
	}{
		{"bad start", "01-08-2026", "2026-08-31"},
		{"bad end", "2026-08-01", "August 31"},
		{"inverted range", "2026-08-31", "2026-08-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.GetProfitLossReport(tc.start, tc.end); !errors.Is(err, ErrReportValidation) {
				t.Errorf("got %v, want ErrReportValidation", err)
			}
		})
	}
}

func TestGetAdminDashboard(t *testing.T) {
	service := NewReportService(&fakeReportRepo{}, newFakeStockRepo())

	summary, err := service.GetAdminDashboard()
	if err != nil {
		t.Fatalf("GetAdminDashboard: %v", err)
	}
	if summary.KeyMetrics.PurchaseToday != 1200 || summary.KeyMetrics.FarmerCount != 40 {
		t.Errorf("key metrics = %+v", summary.KeyMetrics)
	}
	if len(summary.RecentPurchases) != recentOrderLimit {
		t.Errorf("recent purchases = %d", len(summary.RecentPurchases))
	}
}

func TestGetExecutiveDashboard(t *testing.T) {
	stockRepo := newFakeStockRepo()
	stockRepo.seedLot("P001", "W001", 100, 5, time.Now())
	service := NewReportService(&fakeReportRepo{revenue: 10000, cogs: 6500}, stockRepo)

	summary, err := service.GetExecutiveDashboard()
	if err != nil {
		t.Fatalf("GetExecutiveDashboard: %v", err)
	}
	if summary.KPIs.GrossProfit != 3500 {
		t.Errorf("gross profit = %v", summary.KPIs.GrossProfit)
	}
	if summary.KPIs.CurrentStockValue != 500 {
		t.Errorf("stock value = %v, want 500", summary.KPIs.CurrentStockValue)
	}
}
