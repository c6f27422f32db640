package repos

import (
	"github.com/jmoiron/sqlx"

	"tillpoint/internal/domain"
)

type CreditRepo struct{ db *sqlx.DB }

func NewCreditRepo(db *sqlx.DB) *CreditRepo { return &CreditRepo{db: db} }

func (r *CreditRepo) Insert(tx *sqlx.Tx, c domain.Credit) error {
	_, err := tx.Exec(`
	  INSERT INTO credits(id, company_name, branch, sale_id, customer_id, name,
	    amount_due, paid_amount, due_date, credit_score, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, c.ID, c.CompanyName, c.Branch, c.SaleID, c.CustomerID, c.Name,
		c.AmountDue, c.PaidAmount, c.DueDate, c.CreditScore)
	return err
}

func (r *CreditRepo) Get(company, id string) (domain.Credit, error) {
	var c domain.Credit
	err := r.db.Get(&c, `SELECT * FROM credits WHERE id = ? AND company_name = ?`, id, company)
	return c, err
}

func (r *CreditRepo) List(company string) ([]domain.Credit, error) {
	var out []domain.Credit
	err := r.db.Select(&out, `
	  SELECT * FROM credits WHERE company_name = ?
	  ORDER BY datetime(created_at) DESC`, company)
	return out, err
}

// HistoryByCustomer lists a customer's credits newest due date first.
func (r *CreditRepo) HistoryByCustomer(company, customerID string) ([]domain.Credit, error) {
	var out []domain.Credit
	err := r.db.Select(&out, `
	  SELECT * FROM credits WHERE company_name = ? AND customer_id = ?
	  ORDER BY due_date DESC`, company, customerID)
	return out, err
}

// ApplyPayment stores the new paid amount and score in one statement.
// Both values were computed at payment time; reads trust them as-is.
func (r *CreditRepo) ApplyPayment(company, id string, paidAmount float64, creditScore int) error {
	_, err := r.db.Exec(`
	  UPDATE credits SET paid_amount = ?, credit_score = ?
	  WHERE id = ? AND company_name = ?`, paidAmount, creditScore, id, company)
	return err
}

// Items returns the product lines sold on the credit's originating sale.
func (r *CreditRepo) Items(company, id string) ([]domain.SaleItem, error) {
	var out []domain.SaleItem
	err := r.db.Select(&out, `
	  SELECT si.sale_id, si.product_id, si.name, si.qty, si.unit_price, si.subtotal
	  FROM sale_items si
	  JOIN credits c ON c.sale_id = si.sale_id
	  WHERE c.id = ? AND c.company_name = ?`, id, company)
	return out, err
}
