package repos

import (
	"tillpoint/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, email, name, password_hash, role, branch, company_name`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Tellers lists teller accounts for a company, optionally one branch.
func (r *UserRepo) Tellers(company, branch string) ([]domain.User, error) {
	q := `SELECT ` + userCols + ` FROM users WHERE company_name = ? AND role = 'TELLER'`
	args := []any{company}
	if branch != "" {
		q += ` AND branch = ?`
		args = append(args, branch)
	}
	q += ` ORDER BY name`
	var out []domain.User
	err := r.DB.Select(&out, q, args...)
	return out, err
}

// Branches returns the distinct branches a company's tellers work in.
func (r *UserRepo) Branches(company string) ([]string, error) {
	var out []string
	err := r.DB.Select(&out, `
	  SELECT DISTINCT branch FROM users
	  WHERE company_name = ? AND branch != ''
	  ORDER BY branch`, company)
	return out, err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.role,u.branch,u.company_name
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
