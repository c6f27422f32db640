package services

import (
	"errors"

	"tillpoint/internal/domain"
	"tillpoint/internal/repos"
)

// Score deltas applied on payment: settling the balance rewards the
// customer, any payment that leaves a remainder counts against them.
const (
	scoreSettleReward   = 5
	scorePartialDemerit = -2
)

var ErrInvalidPayment = errors.New("invalid payment amount")

type CreditService struct {
	Credits *repos.CreditRepo
}

func NewCreditService(credits *repos.CreditRepo) *CreditService {
	return &CreditService{Credits: credits}
}

// ApplyPayment records a payment against an outstanding credit.
// Overpaying is rejected so paid_amount can never exceed amount_due.
// The adjusted score is computed here, at write time, and stored;
// downstream screens read the stored value back verbatim.
func (s *CreditService) ApplyPayment(company, creditID string, amount float64) (domain.Credit, error) {
	c, err := s.Credits.Get(company, creditID)
	if err != nil {
		return domain.Credit{}, err
	}
	if amount <= 0 || amount > c.AmountDue-c.PaidAmount {
		return domain.Credit{}, ErrInvalidPayment
	}

	newPaid := c.PaidAmount + amount
	remaining := c.AmountDue - newPaid
	delta := scorePartialDemerit
	if remaining <= 0 {
		delta = scoreSettleReward
	}
	newScore := c.CreditScore + delta

	if err := s.Credits.ApplyPayment(company, creditID, newPaid, newScore); err != nil {
		return domain.Credit{}, err
	}
	c.PaidAmount = newPaid
	c.CreditScore = newScore
	return c, nil
}

// DueStatus classifies a credit against today's date. Derived on every
// read, never persisted.
func DueStatus(c domain.Credit, today string) string {
	if c.DueDate < today && c.AmountDue > c.PaidAmount {
		return domain.DueOverdue
	}
	if c.DueDate == today {
		return domain.DueToday
	}
	return domain.DueOnTime
}

func (s *CreditService) List(company string) ([]domain.Credit, error) {
	return s.Credits.List(company)
}

func (s *CreditService) History(company, customerID string) ([]domain.Credit, error) {
	return s.Credits.HistoryByCustomer(company, customerID)
}
