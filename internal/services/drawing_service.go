package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tillpoint/internal/domain"
	"tillpoint/internal/repos"
)

var ErrBadDrawQty = errors.New("drawing quantity must be at least 1")

// DrawingService records stock write-offs. The decrement, the drawing
// row, and the mirrored expense land in one transaction.
type DrawingService struct {
	DB       *sqlx.DB
	Prods    *repos.ProductRepo
	Drawings *repos.DrawingRepo
	Expenses *repos.ExpenseRepo
}

func NewDrawingService(db *sqlx.DB, prods *repos.ProductRepo,
	drawings *repos.DrawingRepo, expenses *repos.ExpenseRepo) *DrawingService {
	return &DrawingService{DB: db, Prods: prods, Drawings: drawings, Expenses: expenses}
}

func (s *DrawingService) Record(user *domain.User, productID string, qty int, reason, date string) (domain.Drawing, error) {
	if qty < 1 {
		return domain.Drawing{}, ErrBadDrawQty
	}
	p, err := s.Prods.Get(user.CompanyName, productID)
	if err != nil {
		return domain.Drawing{}, fmt.Errorf("load product: %w", err)
	}

	d := domain.Drawing{
		ID:          uuid.NewString(),
		CompanyName: user.CompanyName,
		Branch:      user.Branch,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    qty,
		Subtotal:    float64(qty) * p.UnitPrice,
		Reason:      reason,
		DrawnByID:   user.ID,
		DrawnByName: user.Name,
		Date:        date,
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Drawing{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Prods.Decrement(tx, user.CompanyName, productID, qty); err != nil {
		if errors.Is(err, repos.ErrOutOfStock) {
			return domain.Drawing{}, &InsufficientStockError{ProductName: p.Name}
		}
		return domain.Drawing{}, err
	}
	if err := s.Drawings.Insert(tx, d); err != nil {
		return domain.Drawing{}, err
	}
	if err := s.Expenses.InsertTx(tx, domain.Expense{
		ID:          uuid.NewString(),
		CompanyName: user.CompanyName,
		Branch:      user.Branch,
		Name:        "Product Draw: " + p.Name,
		Amount:      d.Subtotal,
		Kind:        "Drawing",
		Notes:       reason,
	}); err != nil {
		return domain.Drawing{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Drawing{}, err
	}
	return d, nil
}

func (s *DrawingService) List(company string) ([]domain.Drawing, error) {
	return s.Drawings.List(company)
}
