package repos

import (
	"github.com/jmoiron/sqlx"

	"tillpoint/internal/domain"
)

type ExpenseRepo struct{ db *sqlx.DB }

func NewExpenseRepo(db *sqlx.DB) *ExpenseRepo { return &ExpenseRepo{db: db} }

func (r *ExpenseRepo) Insert(e domain.Expense) error {
	return r.insert(r.db, e)
}

// InsertTx writes an expense inside the caller's transaction; the
// drawing flow uses this to mirror the write-off atomically.
func (r *ExpenseRepo) InsertTx(tx *sqlx.Tx, e domain.Expense) error {
	return r.insert(tx, e)
}

func (r *ExpenseRepo) insert(e sqlx.Execer, x domain.Expense) error {
	_, err := e.Exec(`
	  INSERT INTO expenses(id, company_name, branch, name, amount, kind, notes, created_at)
	  VALUES (?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, x.ID, x.CompanyName, x.Branch, x.Name, x.Amount, x.Kind, x.Notes)
	return err
}

func (r *ExpenseRepo) List(company string) ([]domain.Expense, error) {
	var out []domain.Expense
	err := r.db.Select(&out, `
	  SELECT * FROM expenses WHERE company_name = ?
	  ORDER BY datetime(created_at) DESC`, company)
	return out, err
}

// Total sums expenses for a company (optionally one branch) within [from, to).
func (r *ExpenseRepo) Total(company, branch, from, to string) (float64, error) {
	q := `SELECT COALESCE(SUM(amount), 0) FROM expenses
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

// TotalByDay buckets expense amounts per calendar day.
func (r *ExpenseRepo) TotalByDay(company, branch, from, to string) ([]DayTotal, error) {
	q := `SELECT date(created_at) AS day, COALESCE(SUM(amount), 0) AS total
	      FROM expenses
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
