package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/fintrack-dev/fintrack/internal/backend"
)

// flexFloat decodes a JSON number that may arrive as a number, a numeric
// string, or null. Unparseable values decode to zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(parsed)
	return nil
}

// DashboardData is the composed dashboard view model
type DashboardData struct {
	Balances           Balances            `json:"balances"`
	SpendingByCategory []CategorySpending  `json:"spendingByCategory"`
	CashflowTrend      []CashflowPoint     `json:"cashflowTrend"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
}

// Balances summarizes account, income, expense and budget totals
type Balances struct {
	Total           float64 `json:"total"`
	Income          float64 `json:"income"`
	Expenses        float64 `json:"expenses"`
	BudgetRemaining float64 `json:"budgetRemaining"`
}

// CategorySpending is one slice of the spending-by-category breakdown
type CategorySpending struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// CashflowPoint is one month of the cash-flow trend
type CashflowPoint struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// RecentTransaction is one entry of the recent-activity list
type RecentTransaction struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

type transactionRecord struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Category        string    `json:"category"`
	Amount          flexFloat `json:"amount"`
	TransactionDate string    `json:"transactionDate"`
}

type statisticsPayload struct {
	TotalIncome       flexFloat `json:"totalIncome"`
	TotalExpense      flexFloat `json:"totalExpense"`
	CategoryBreakdown []struct {
		Category string `json:"category"`
		Sum      struct {
			Amount flexFloat `json:"amount"`
		} `json:"_sum"`
	} `json:"categoryBreakdown"`
	MonthlyTrend []struct {
		Month    string    `json:"month"`
		Income   flexFloat `json:"income"`
		Expenses flexFloat `json:"expenses"`
	} `json:"monthlyTrend"`
}

// unwrapData peels nested {success, data} wrappers off a backend payload.
// Some backend reads arrive double-wrapped.
func unwrapData(raw json.RawMessage) json.RawMessage {
	for i := 0; i < 2; i++ {
		var wrapper struct {
			Success *bool           `json:"success"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil || wrapper.Success == nil || len(wrapper.Data) == 0 {
			return raw
		}
		raw = wrapper.Data
	}
	return raw
}

// getDashboard issues the four backend reads in parallel and composes the
// dashboard view model. A failure in any one read cancels the others and
// surfaces a single error with no partial result.
func (s *Server) getDashboard(c *gin.Context) {
	g, ctx := errgroup.WithContext(c.Request.Context())

	var (
		rawTransactions json.RawMessage
		rawStatistics   json.RawMessage
		rawAccounts     json.RawMessage
		rawBudgets      json.RawMessage
	)

	g.Go(func() (err error) {
		rawTransactions, err = s.backend.Get(ctx, "/transactions")
		return err
	})
	g.Go(func() (err error) {
		rawStatistics, err = s.backend.Get(ctx, "/transactions/statistics")
		return err
	})
	g.Go(func() (err error) {
		rawAccounts, err = s.backend.Get(ctx, "/accounts/summary")
		return err
	})
	g.Go(func() (err error) {
		rawBudgets, err = s.backend.Get(ctx, "/budgets/summary")
		return err
	})

	if err := g.Wait(); err != nil {
		status := http.StatusInternalServerError
		message := "An error occurred while fetching dashboard data."
		var be *backend.Error
		if errors.As(err, &be) {
			if be.Status != 0 {
				status = be.Status
			}
			message = be.UserMessage()
		}
		respondError(c, status, message)
		return
	}

	var transactions []transactionRecord
	_ = json.Unmarshal(unwrapData(rawTransactions), &transactions)

	var statistics statisticsPayload
	_ = json.Unmarshal(unwrapData(rawStatistics), &statistics)

	var accountsSummary struct {
		TotalBalance flexFloat `json:"totalBalance"`
	}
	_ = json.Unmarshal(unwrapData(rawAccounts), &accountsSummary)

	var budgetsSummary struct {
		RemainingBudget flexFloat `json:"remainingBudget"`
	}
	_ = json.Unmarshal(unwrapData(rawBudgets), &budgetsSummary)

	dashboard := DashboardData{
		Balances: Balances{
			Total:           float64(accountsSummary.TotalBalance),
			Income:          float64(statistics.TotalIncome),
			Expenses:        float64(statistics.TotalExpense),
			BudgetRemaining: float64(budgetsSummary.RemainingBudget),
		},
		SpendingByCategory: make([]CategorySpending, 0, len(statistics.CategoryBreakdown)),
		CashflowTrend:      make([]CashflowPoint, 0, len(statistics.MonthlyTrend)),
		RecentTransactions: make([]RecentTransaction, 0, 4),
	}

	for _, item := range statistics.CategoryBreakdown {
		dashboard.SpendingByCategory = append(dashboard.SpendingByCategory, CategorySpending{
			Name:  item.Category,
			Value: float64(item.Sum.Amount),
		})
	}
	for _, item := range statistics.MonthlyTrend {
		dashboard.CashflowTrend = append(dashboard.CashflowTrend, CashflowPoint{
			Month:    item.Month,
			Income:   float64(item.Income),
			Expenses: float64(item.Expenses),
		})
	}
	for i, tx := range transactions {
		if i == 4 {
			break
		}
		dashboard.RecentTransactions = append(dashboard.RecentTransactions, RecentTransaction{
			ID:       tx.ID,
			Type:     tx.Type,
			Category: tx.Category,
			Amount:   float64(tx.Amount),
			Date:     tx.TransactionDate,
		})
	}

	data, err := json.Marshal(dashboard)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while fetching dashboard data.")
		return
	}
	respondData(c, http.StatusOK, data)
}
