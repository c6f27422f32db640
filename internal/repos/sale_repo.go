package repos

import (
	"github.com/jmoiron/sqlx"

	"tillpoint/internal/domain"
)

type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

// Insert writes the sale header inside the caller's transaction.
func (r *SaleRepo) Insert(tx *sqlx.Tx, s domain.Sale) error {
	_, err := tx.Exec(`
	  INSERT INTO sales(id, company_name, branch, teller_id, teller_name,
	    customer_id, customer_name, payment_type, total,
	    amount_paid, change, bank, credit, due_date, idempotency_key, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, s.ID, s.CompanyName, s.Branch, s.TellerID, s.TellerName,
		s.CustomerID, s.CustomerName, s.PaymentType, s.Total,
		s.AmountPaid, s.Change, s.Bank, s.Credit, s.DueDate, s.IdempotencyKey)
	return err
}

func (r *SaleRepo) InsertItem(tx *sqlx.Tx, it domain.SaleItem) error {
	_, err := tx.Exec(`
	  INSERT INTO sale_items(sale_id, product_id, name, qty, unit_price, subtotal)
	  VALUES (?,?,?,?,?,?)
	`, it.SaleID, it.ProductID, it.Name, it.Qty, it.UnitPrice, it.Subtotal)
	return err
}

// ByIdempotencyKey finds a sale previously written with the same
// client-generated key; used to make Submit a no-op on retry.
func (r *SaleRepo) ByIdempotencyKey(company, key string) (domain.Sale, error) {
	var s domain.Sale
	err := r.db.Get(&s, `
	  SELECT * FROM sales WHERE company_name = ? AND idempotency_key = ?`, company, key)
	return s, err
}

func (r *SaleRepo) Get(company, id string) (domain.Sale, []domain.SaleItem, error) {
	var s domain.Sale
	if err := r.db.Get(&s, `SELECT * FROM sales WHERE id = ? AND company_name = ?`, id, company); err != nil {
		return domain.Sale{}, nil, err
	}
	var items []domain.SaleItem
	if err := r.db.Select(&items, `
	  SELECT sale_id, product_id, name, qty, unit_price, subtotal
	  FROM sale_items WHERE sale_id = ? ORDER BY name`, id); err != nil {
		return domain.Sale{}, nil, err
	}
	return s, items, nil
}

func (r *SaleRepo) ListLatest(company string, limit int) ([]domain.Sale, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Sale
	err := r.db.Select(&out, `
	  SELECT * FROM sales WHERE company_name = ?
	  ORDER BY datetime(created_at) DESC LIMIT ?`, company, limit)
	return out, err
}

// SumByBranch totals sales of one payment type for a branch within
// [from, to) — the expected-cash-in feed for branch reconciliation.
func (r *SaleRepo) SumByBranch(company, branch string, pt domain.PaymentType, from, to string) (float64, error) {
	var total float64
	err := r.db.Get(&total, `
	  SELECT COALESCE(SUM(total), 0) FROM sales
	  WHERE company_name = ? AND branch = ? AND payment_type = ?
	    AND created_at >= ? AND created_at < ?
	`, company, branch, string(pt), from, to)
	return total, err
}

// SumByTeller is SumByBranch scoped to one teller instead of a branch.
func (r *SaleRepo) SumByTeller(company, tellerID string, pt domain.PaymentType, from, to string) (float64, error) {
	var total float64
	err := r.db.Get(&total, `
	  SELECT COALESCE(SUM(total), 0) FROM sales
	  WHERE company_name = ? AND teller_id = ? AND payment_type = ?
	    AND created_at >= ? AND created_at < ?
	`, company, tellerID, string(pt), from, to)
	return total, err
}

// Revenue sums all sale totals for a company (optionally one branch)
// within [from, to).
func (r *SaleRepo) Revenue(company, branch, from, to string) (float64, error) {
	q := `SELECT COALESCE(SUM(total), 0) FROM sales
	      WHERE company_name = ? AND created_at >= ? AND created_at < ?`
	args := []any{company, from, to}
	if branch != "" {
		q += ` AND branch = ?`
		args = append(args, branch)
	}
	var total float64
	err := r.db.Get(&total, q, args...)
	return total, err
}

type DayTotal struct {
	Day   string  `db:"day" json:"day"`
	Total float64 `db:"total" json:"total"`
}

// RevenueByDay buckets sale totals per calendar day for trend charts.
func (r *SaleRepo) RevenueByDay(company, branch, from, to string) ([]DayTotal, error) {
	q := `SELECT date(created_at) AS day, COALESCE(SUM(total), 0) AS total
	      FROM sales
	      WHERE company_name = ? AND created_at >= ? AND created_at < ?`
	args := []any{company, from, to}
	if branch != "" {
		q += ` AND branch = ?`
		args = append(args, branch)
	}
	q += ` GROUP BY date(created_at) ORDER BY day`
	var out []DayTotal
	err := r.db.Select(&out, q, args...)
	return out, err
}
