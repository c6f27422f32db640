package repos

import (
	"github.com/jmoiron/sqlx"

	"tillpoint/internal/domain"
)

type CashInRepo struct{ db *sqlx.DB }

func NewCashInRepo(db *sqlx.DB) *CashInRepo { return &CashInRepo{db: db} }

func (r *CashInRepo) Insert(ci domain.CashIn) error {
	_, err := r.db.Exec(`
	  INSERT INTO cash_ins(id, company_name, branch, teller_id, teller_name,
	    cash, bank, credit, expected_cash_in, status, admin_id, date)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, ci.ID, ci.CompanyName, ci.Branch, ci.TellerID, ci.TellerName,
		ci.Cash, ci.Bank, ci.Credit, ci.ExpectedCashIn, ci.Status, ci.AdminID)
	return err
}

func (r *CashInRepo) ListByDay(company, from, to string) ([]domain.CashIn, error) {
	var out []domain.CashIn
	err := r.db.Select(&out, `
	  SELECT * FROM cash_ins
	  WHERE company_name = ? AND date >= ? AND date < ?
	  ORDER BY datetime(date) DESC`, company, from, to)
	return out, err
}
