package services

import (
	"tillpoint/internal/repos"
)

type AnalyticsService struct {
	Sales    *repos.SaleRepo
	Expenses *repos.ExpenseRepo
}

func NewAnalyticsService(sales *repos.SaleRepo, expenses *repos.ExpenseRepo) *AnalyticsService {
	return &AnalyticsService{Sales: sales, Expenses: expenses}
}

type Summary struct {
	Revenue      float64          `json:"revenue"`
	Expenses     float64          `json:"expenses"`
	NetProfit    float64          `json:"netProfit"`
	RevenueTrend []repos.DayTotal `json:"revenueTrend"`
	ExpenseTrend []repos.DayTotal `json:"expenseTrend"`
}

// Summarize aggregates revenue and expenses for [from, to), optionally
// scoped to one branch. Chart rendering is the caller's problem; this
// just hands back the numbers.
func (s *AnalyticsService) Summarize(company, branch, from, to string) (Summary, error) {
	var out Summary
	var err error
	if out.Revenue, err = s.Sales.Revenue(company, branch, from, to); err != nil {
		return out, err
	}
	if out.Expenses, err = s.Expenses.Total(company, branch, from, to); err != nil {
		return out, err
	}
	out.NetProfit = out.Revenue - out.Expenses
	if out.RevenueTrend, err = s.Sales.RevenueByDay(company, branch, from, to); err != nil {
		return out, err
	}
	if out.ExpenseTrend, err = s.Expenses.TotalByDay(company, branch, from, to); err != nil {
		return out, err
	}
	return out, nil
}
