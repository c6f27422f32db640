package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"tillpoint/internal/domain"
	"tillpoint/internal/repos"
)

var ErrNoAmounts = errors.New("enter at least one positive amount")

// CashInService computes the day's expected intake per branch and per
// teller from the sales log, and records tellers' physical cash-in
// submissions against it.
type CashInService struct {
	Sales   *repos.SaleRepo
	CashIns *repos.CashInRepo
	Users   *repos.UserRepo

	// Now is swappable so tests can pin the reconciliation day.
	Now func() time.Time
}

func NewCashInService(sales *repos.SaleRepo, cashIns *repos.CashInRepo, users *repos.UserRepo) *CashInService {
	return &CashInService{Sales: sales, CashIns: cashIns, Users: users, Now: time.Now}
}

// dayRange returns [start, end) bounds for the service's current day,
// matching the lexicographic ordering of stored timestamps.
func (s *CashInService) dayRange() (string, string) {
	day := s.Now().UTC().Truncate(24 * time.Hour)
	return day.Format("2006-01-02 15:04:05"), day.Add(24 * time.Hour).Format("2006-01-02 15:04:05")
}

// ExpectedByBranch is today's Cash-type sales total for one branch.
func (s *CashInService) ExpectedByBranch(company, branch string) (float64, error) {
	from, to := s.dayRange()
	return s.Sales.SumByBranch(company, branch, domain.PayCash, from, to)
}

// TellerExpected holds today's expected intake for one teller, split
// by payment type.
type TellerExpected struct {
	TellerID   string  `json:"tellerId"`
	TellerName string  `json:"tellerName"`
	Branch     string  `json:"branch"`
	Cash       float64 `json:"cash"`
	Bank       float64 `json:"bank"`
	Credit     float64 `json:"credit"`
}

func (s *CashInService) ExpectedByTeller(company string, teller domain.User) (TellerExpected, error) {
	from, to := s.dayRange()
	exp := TellerExpected{TellerID: teller.ID, TellerName: teller.Name, Branch: teller.Branch}
	var err error
	if exp.Cash, err = s.Sales.SumByTeller(company, teller.ID, domain.PayCash, from, to); err != nil {
		return exp, err
	}
	if exp.Bank, err = s.Sales.SumByTeller(company, teller.ID, domain.PayBank, from, to); err != nil {
		return exp, err
	}
	if exp.Credit, err = s.Sales.SumByTeller(company, teller.ID, domain.PayCredit, from, to); err != nil {
		return exp, err
	}
	return exp, nil
}

// EligibleTellers lists tellers with at least one positive expected
// sum today; tellers who sold nothing are left off the reconciliation
// list.
func (s *CashInService) EligibleTellers(company, branch string) ([]TellerExpected, error) {
	tellers, err := s.Users.Tellers(company, branch)
	if err != nil {
		return nil, err
	}
	out := []TellerExpected{}
	for _, t := range tellers {
		exp, err := s.ExpectedByTeller(company, t)
		if err != nil {
			return nil, err
		}
		if exp.Cash > 0 || exp.Bank > 0 || exp.Credit > 0 {
			out = append(out, exp)
		}
	}
	return out, nil
}

// Record stores one cash-in submission. The status is derived once,
// here, by comparing the entered cash against the teller's expected
// Cash-type sum, and stored denormalized on the row.
func (s *CashInService) Record(admin *domain.User, teller domain.User, cash, bank, credit float64) (domain.CashIn, error) {
	if cash <= 0 && bank <= 0 && credit <= 0 {
		return domain.CashIn{}, ErrNoAmounts
	}

	exp, err := s.ExpectedByTeller(admin.CompanyName, teller)
	if err != nil {
		return domain.CashIn{}, err
	}

	status := domain.CashInExact
	switch {
	case cash < exp.Cash:
		status = domain.CashInUnderpaid
	case cash > exp.Cash:
		status = domain.CashInOverpaid
	}

	ci := domain.CashIn{
		ID:             uuid.NewString(),
		CompanyName:    admin.CompanyName,
		Branch:         teller.Branch,
		TellerID:       teller.ID,
		TellerName:     teller.Name,
		Cash:           cash,
		Bank:           bank,
		Credit:         credit,
		ExpectedCashIn: exp.Cash,
		Status:         status,
		AdminID:        admin.ID,
	}
	if err := s.CashIns.Insert(ci); err != nil {
		return domain.CashIn{}, err
	}
	return ci, nil
}

// Today lists today's submissions for review.
func (s *CashInService) Today(company string) ([]domain.CashIn, error) {
	from, to := s.dayRange()
	return s.CashIns.ListByDay(company, from, to)
}
