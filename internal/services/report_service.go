package services

import (
	"errors"
	"fmt"
	"time"

	"easypalm_backend/internal/models"
	"easypalm_backend/internal/repositories"
)

var ErrReportValidation = errors.New("report parameter validation error")

const recentOrderLimit = 5

// ReportService builds the dashboards and the profit-loss report.
type ReportService interface {
	GetAdminDashboard() (*models.AdminDashboardSummary, error)
	GetExecutiveDashboard() (*models.ExecutiveDashboardSummary, error)
	GetProfitLossReport(startDate, endDate string) (*models.ProfitLossReport, error)
}

type reportService struct {
	reportRepo repositories.ReportRepository
	stockRepo  repositories.StockRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(reportRepo repositories.ReportRepository, stockRepo repositories.StockRepository) ReportService {
	return &reportService{reportRepo: reportRepo, stockRepo: stockRepo}
}

// GetAdminDashboard gathers today's purchase total, open payables, headcounts,
// the latest purchases and a 7-day purchase chart.
func (s *reportService) GetAdminDashboard() (*models.AdminDashboardSummary, error) {
	now := time.Now()

	purchaseToday, err := s.reportRepo.PurchaseTotalOnDate(now)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase total: %w", err)
	}
	pendingPayments, err := s.reportRepo.PendingPaymentCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count pending payments: %w", err)
	}
	employeeCount, err := s.reportRepo.EmployeeCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}
	farmerCount, err := s.reportRepo.FarmerCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count farmers: %w", err)
	}
	recentPurchases, err := s.reportRepo.RecentPurchases(recentOrderLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent purchases: %w", err)
	}
	chartData, err := s.reportRepo.PurchaseTotalsByDay(now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase chart data: %w", err)
	}

	return &models.AdminDashboardSummary{
		KeyMetrics: models.AdminKeyMetrics{
			PurchaseToday:   purchaseToday,
			PendingPayments: pendingPayments,
			EmployeeCount:   employeeCount,
			FarmerCount:     farmerCount,
		},
		RecentPurchases:   recentPurchases,
		PurchaseChartData: chartData,
	}, nil
}

// GetExecutiveDashboard gathers revenue, gross profit, purchase cost and
// current stock value, plus a 30-day sales-vs-purchases chart and the latest
// orders on both sides.
func (s *reportService) GetExecutiveDashboard() (*models.ExecutiveDashboardSummary, error) {
	revenue, cogs, err := s.reportRepo.RevenueAndCOGS(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue: %w", err)
	}
	purchaseCost, err := s.reportRepo.TotalPurchaseCost()
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase cost: %w", err)
	}
	stockValue, err := s.stockRepo.TotalStockValueFIFO()
	if err != nil {
		return nil, fmt.Errorf("failed to value stock: %w", err)
	}
	chartData, err := s.reportRepo.DailyTotals(time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("failed to get chart data: %w", err)
	}
	recentSales, err := s.reportRepo.RecentSales(recentOrderLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent sales: %w", err)
	}
	recentPurchases, err := s.reportRepo.RecentPurchases(recentOrderLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent purchases: %w", err)
	}

	return &models.ExecutiveDashboardSummary{
		KPIs: models.ExecutiveKPIs{
			TotalRevenue:      revenue,
			GrossProfit:       revenue - cogs,
			TotalPurchaseCost: purchaseCost,
			CurrentStockValue: stockValue,
		},
		ChartData:       chartData,
		RecentSales:     recentSales,
		RecentPurchases: recentPurchases,
	}, nil
}

// GetProfitLossReport computes revenue, FIFO cost of goods sold and gross
// profit over paid sales orders in the inclusive date range.
func (s *reportService) GetProfitLossReport(startDate, endDate string) (*models.ProfitLossReport, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrReportValidation)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end date must be YYYY-MM-DD", ErrReportValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrReportValidation)
	}

	revenue, cogs, err := s.reportRepo.RevenueAndCOGS(&start, &end)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue and cogs: %w", err)
	}

	return &models.ProfitLossReport{
		StartDate:    startDate,
		EndDate:      endDate,
		TotalRevenue: revenue,
		TotalCOGS:    cogs,
		GrossProfit:  revenue - cogs,
	}, nil
}
