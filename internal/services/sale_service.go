package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tillpoint/internal/domain"
	"tillpoint/internal/repos"
)

// The credit gate: customers scoring below this cannot buy on credit.
const MinCreditScore = 600

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCustomerRequired  = errors.New("credit sale requires a customer")
	ErrCreditScoreTooLow = errors.New("customer credit score too low for credit sale")
	ErrDueDateRequired   = errors.New("credit sale requires a due date")
	ErrAmountPaidTooLow  = errors.New("amount paid is less than the sale total")
)

// InsufficientStockError names the product that could not be covered.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

// SaleService turns a validated cart into a durable sale record.
//
// The whole submission runs in one database transaction: every line's
// stock decrement is guarded by qty >= requested, and the first line
// that fails rolls back everything before it. Stock is therefore never
// oversold and a sale is all-or-nothing across its lines.
type SaleService struct {
	DB      *sqlx.DB
	Carts   *CartService
	Prods   *repos.ProductRepo
	Sales   *repos.SaleRepo
	Credits *repos.CreditRepo
	Custs   *repos.CustomerRepo
}

func NewSaleService(db *sqlx.DB, carts *CartService, prods *repos.ProductRepo,
	sales *repos.SaleRepo, credits *repos.CreditRepo, custs *repos.CustomerRepo) *SaleService {
	return &SaleService{DB: db, Carts: carts, Prods: prods, Sales: sales, Credits: credits, Custs: custs}
}

// SubmitRequest carries the teller's payment entry for one sale.
type SubmitRequest struct {
	PaymentType    domain.PaymentType
	CustomerID     string
	AmountPaid     float64 // Cash only
	DueDate        string  // Credit only, YYYY-MM-DD
	IdempotencyKey string  // client-generated; resubmits return the original sale
}

// Submit validates the session's cart and commits it. On success the
// cart is cleared and the persisted sale id is returned.
func (s *SaleService) Submit(sid string, teller *domain.User, req SubmitRequest) (string, error) {
	if !req.PaymentType.Valid() {
		return "", fmt.Errorf("unknown payment type %q", req.PaymentType)
	}

	cv := s.Carts.View(sid)
	if len(cv.Items) == 0 {
		return "", ErrEmptyCart
	}
	total := cv.Total

	// All precondition checks happen before any write.
	var customer domain.Customer
	if req.CustomerID != "" {
		c, err := s.Custs.Get(teller.CompanyName, req.CustomerID)
		if err != nil {
			return "", fmt.Errorf("load customer: %w", err)
		}
		customer = c
	}
	switch req.PaymentType {
	case domain.PayCash:
		if req.AmountPaid < total {
			return "", ErrAmountPaidTooLow
		}
	case domain.PayCredit:
		if customer.ID == "" {
			return "", ErrCustomerRequired
		}
		if customer.CreditScore < MinCreditScore {
			return "", ErrCreditScoreTooLow
		}
		if req.DueDate == "" {
			return "", ErrDueDateRequired
		}
	}

	// Replay detection: a retry of an acknowledged-but-lost response
	// must not sell the stock twice.
	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	} else if prev, err := s.Sales.ByIdempotencyKey(teller.CompanyName, key); err == nil {
		return prev.ID, nil
	} else if err != sql.ErrNoRows {
		return "", err
	}

	sale := domain.Sale{
		ID:             uuid.NewString(),
		CompanyName:    teller.CompanyName,
		Branch:         teller.Branch,
		TellerID:       teller.ID,
		TellerName:     teller.Name,
		CustomerID:     customer.ID,
		CustomerName:   customer.Name,
		PaymentType:    string(req.PaymentType),
		Total:          total,
		IdempotencyKey: key,
	}
	switch req.PaymentType {
	case domain.PayCash:
		sale.AmountPaid = req.AmountPaid
		sale.Change = req.AmountPaid - total
	case domain.PayBank:
		sale.Bank = total
	case domain.PayCredit:
		sale.Credit = total
		sale.DueDate = req.DueDate
	}

	// Resolve product kinds before the transaction starts so nothing
	// reads through the pool while the tx connection is open.
	stocked := make(map[string]bool, len(cv.Items))
	for _, it := range cv.Items {
		p, err := s.Prods.Get(teller.CompanyName, it.ProductID)
		if err != nil {
			return "", fmt.Errorf("load product %s: %w", it.ProductID, err)
		}
		stocked[it.ProductID] = p.Kind == string(domain.KindProduct)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	for _, it := range cv.Items {
		if !stocked[it.ProductID] {
			continue // services carry no stock
		}
		if err := s.Prods.Decrement(tx, teller.CompanyName, it.ProductID, it.Quantity); err != nil {
			if errors.Is(err, repos.ErrOutOfStock) {
				return "", &InsufficientStockError{ProductName: it.Name}
			}
			return "", err
		}
	}

	if err := s.Sales.Insert(tx, sale); err != nil {
		return "", err
	}
	for _, it := range cv.Items {
		if err := s.Sales.InsertItem(tx, domain.SaleItem{
			SaleID:    sale.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Qty:       it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		}); err != nil {
			return "", err
		}
	}

	if req.PaymentType == domain.PayCredit {
		if err := s.Credits.Insert(tx, domain.Credit{
			ID:          uuid.NewString(),
			CompanyName: teller.CompanyName,
			Branch:      teller.Branch,
			SaleID:      sale.ID,
			CustomerID:  customer.ID,
			Name:        customer.Name,
			AmountDue:   total,
			PaidAmount:  0,
			DueDate:     req.DueDate,
			CreditScore: customer.CreditScore,
		}); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	s.Carts.Clear(sid)
	return sale.ID, nil
}
