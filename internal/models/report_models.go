package models

// AdminKeyMetrics are the headline numbers on the admin dashboard.
type AdminKeyMetrics struct {
	PurchaseToday   float64 `json:"purchase_today"`
	PendingPayments int     `json:"pending_payments"`
	EmployeeCount   int     `json:"employee_count"`
	FarmerCount     int     `json:"farmer_count"`
}

// AdminDashboardSummary is the response of /admin/dashboard-summary.
type AdminDashboardSummary struct {
	KeyMetrics        AdminKeyMetrics    `json:"key_metrics"`
	RecentPurchases   []PurchaseOrder    `json:"recent_purchases"`
	PurchaseChartData map[string]float64 `json:"purchase_chart_data"` // date -> total
}

// ExecutiveKPIs are the headline numbers on the executive dashboard.
type ExecutiveKPIs struct {
	TotalRevenue      float64 `json:"total_revenue"`
	GrossProfit       float64 `json:"gross_profit"`
	TotalPurchaseCost float64 `json:"total_purchase_cost"`
	CurrentStockValue float64 `json:"current_stock_value"`
}

// DailyTotals is one point of the sales-vs-purchases chart.
type DailyTotals struct {
	Date      string  `json:"date"` // YYYY-MM-DD
	Sales     float64 `json:"sales"`
	Purchases float64 `json:"purchases"`
}

// ExecutiveDashboardSummary is the response of /executive/dashboard-summary.
type ExecutiveDashboardSummary struct {
	KPIs            ExecutiveKPIs   `json:"kpis"`
	ChartData       []DailyTotals   `json:"chart_data"`
	RecentSales     []SalesOrder    `json:"recent_sales"`
	RecentPurchases []PurchaseOrder `json:"recent_purchases"`
}

// ProfitLossReport is the response of /reports/profit-loss.
type ProfitLossReport struct {
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalCOGS    float64 `json:"total_cogs"`
	GrossProfit  float64 `json:"gross_profit"`
}
