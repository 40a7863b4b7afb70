// services/report_service.go
package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/utils"
)

const topReportEntries = 4

// AnalyticsSummary compares paid revenue against the previous period and lists the best sellers
type AnalyticsSummary struct {
	CurrentMonthRevenue   float64           `json:"currentMonthRevenue"`
	MonthGrowth           float64           `json:"monthGrowth"`
	CurrentQuarterRevenue float64           `json:"currentQuarterRevenue"`
	QuarterGrowth         float64           `json:"quarterGrowth"`
	CurrentYearRevenue    float64           `json:"currentYearRevenue"`
	YearGrowth            float64           `json:"yearGrowth"`
	TopItems              []ItemSummary     `json:"topItems"`
	TopCustomers          []CustomerSummary `json:"topCustomers"`
	QuickStats            QuickStatistics   `json:"quickStats"`
}

type ItemSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type CustomerSummary struct {
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Orders int     `json:"orders"`
	Spent  float64 `json:"spent"`
}

type QuickStatistics struct {
	TotalOrders     int     `json:"totalOrders"`
	PaidOrders      int     `json:"paidOrders"`
	DeliveryShare   float64 `json:"deliveryShare"`
	AvgOrderValue   float64 `json:"avgOrderValue"`
	CancelledOrders int     `json:"cancelledOrders"`
}

// ReportService computes back-office revenue analytics from paid orders.
type ReportService struct {
	orders   OrderStore
	timezone *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

func NewReportService(orders OrderStore, timezone *time.Location, now func() time.Time, logger *slog.Logger) *ReportService {
	if timezone == nil {
		timezone = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		orders:   orders,
		timezone: timezone,
		now:      now,
		logger:   logger.With("component", "report_service"),
	}
}

func (s *ReportService) Analytics(ctx context.Context, p *Principal) (*AnalyticsSummary, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}

	now := s.now().In(s.timezone)
	year, month, _ := now.Date()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, s.timezone)
	firstOfYear := time.Date(year, 1, 1, 0, 0, 0, 0, s.timezone)
	quarterStart := QuarterStart(now)

	// One read covers the current and the previous year.
	from := firstOfYear.AddDate(-1, 0, 0)
	orders, err := s.orders.ListOrders(ctx, OrderFilter{From: &from})
	if err != nil {
		s.logger.Error("failed to load orders for report", "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to load report").wrap(err)
	}

	revenue := func(start, end time.Time) float64 {
		var total float64
		for _, o := range orders {
			if o.PaymentStatus != models.PaymentStatusPaid {
				continue
			}
			if o.CreatedAt.Before(start) || !o.CreatedAt.Before(end) {
				continue
			}
			total += o.Total
		}
		return utils.Round2(total)
	}

	summary := &AnalyticsSummary{
		CurrentMonthRevenue:   revenue(firstOfMonth, firstOfMonth.AddDate(0, 1, 0)),
		CurrentQuarterRevenue: revenue(quarterStart, quarterStart.AddDate(0, 3, 0)),
		CurrentYearRevenue:    revenue(firstOfYear, firstOfYear.AddDate(1, 0, 0)),
	}
	summary.MonthGrowth = GrowthPercentage(summary.CurrentMonthRevenue, revenue(firstOfMonth.AddDate(0, -1, 0), firstOfMonth))
	summary.QuarterGrowth = GrowthPercentage(summary.CurrentQuarterRevenue, revenue(quarterStart.AddDate(0, -3, 0), quarterStart))
	summary.YearGrowth = GrowthPercentage(summary.CurrentYearRevenue, revenue(from, firstOfYear))

	monthly := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.PaymentStatus == models.PaymentStatusPaid && !o.CreatedAt.Before(firstOfMonth) {
			monthly = append(monthly, o)
		}
	}
	summary.TopItems = topItems(monthly, topReportEntries)
	summary.TopCustomers = topCustomers(monthly, topReportEntries)
	summary.QuickStats = quickStatistics(orders)
	return summary, nil
}

// QuarterStart returns midnight on the first day of the quarter containing date.
func QuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func GrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return utils.Round2((current - previous) / previous * 100)
}

func topItems(orders []models.Order, limit int) []ItemSummary {
	byName := map[string]*ItemSummary{}
	for _, o := range orders {
		for _, item := range o.Items {
			entry, ok := byName[item.ItemName]
			if !ok {
				entry = &ItemSummary{Name: item.ItemName}
				byName[item.ItemName] = entry
			}
			entry.Count += item.Quantity
			entry.Revenue += item.ItemPrice * float64(item.Quantity)
		}
	}
	out := make([]ItemSummary, 0, len(byName))
	for _, entry := range byName {
		entry.Revenue = utils.Round2(entry.Revenue)
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func topCustomers(orders []models.Order, limit int) []CustomerSummary {
	byPhone := map[string]*CustomerSummary{}
	for _, o := range orders {
		entry, ok := byPhone[o.CustomerPhone]
		if !ok {
			entry = &CustomerSummary{Name: o.CustomerName, Phone: o.CustomerPhone}
			byPhone[o.CustomerPhone] = entry
		}
		entry.Orders++
		entry.Spent += o.Total
	}
	out := make([]CustomerSummary, 0, len(byPhone))
	for _, entry := range byPhone {
		entry.Spent = utils.Round2(entry.Spent)
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spent != out[j].Spent {
			return out[i].Spent > out[j].Spent
		}
		return out[i].Phone < out[j].Phone
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func quickStatistics(orders []models.Order) QuickStatistics {
	var (
		stats      QuickStatistics
		deliveries int
		paidTotal  float64
	)
	stats.TotalOrders = len(orders)
	for _, o := range orders {
		if o.OrderType == models.OrderTypeDelivery {
			deliveries++
		}
		if o.Status == models.OrderStatusCancelled {
			stats.CancelledOrders++
		}
		if o.PaymentStatus == models.PaymentStatusPaid {
			stats.PaidOrders++
			paidTotal += o.Total
		}
	}
	if stats.TotalOrders > 0 {
		stats.DeliveryShare = utils.Round2(float64(deliveries) / float64(stats.TotalOrders) * 100)
	}
	if stats.PaidOrders > 0 {
		stats.AvgOrderValue = utils.Round2(paidTotal / float64(stats.PaidOrders))
	}
	return stats
}
