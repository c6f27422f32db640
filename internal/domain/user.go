package domain

type User struct {
	ID          string `db:"id"`
	Email       string `db:"email"`
	Name        string `db:"name"`
	Hash        string `db:"password_hash"`
	Role        string `db:"role"`
	Branch      string `db:"branch"`
	CompanyName string `db:"company_name"`
}

const (
	RoleAdmin  = "ADMIN"
	RoleTeller = "TELLER"
)

// Operation names used by the permission table and the authz middleware.
const (
	OpSell          = "sell"
	OpManageCatalog = "catalog.manage"
	OpRecordCashIn  = "cashin.record"
	OpApplyCredit   = "credit.pay"
	OpRecordDrawing = "drawing.record"
	OpViewReports   = "reports.view"
	OpManageUsers   = "users.manage"
)

// perms is the explicit role capability table. Handlers gate on
// operations, not on role string comparisons.
var perms = map[string]map[string]bool{
	RoleAdmin: {
		OpSell:          true,
		OpManageCatalog: true,
		OpRecordCashIn:  true,
		OpApplyCredit:   true,
		OpRecordDrawing: true,
		OpViewReports:   true,
		OpManageUsers:   true,
	},
	RoleTeller: {
		OpSell:          true,
		OpRecordDrawing: true,
	},
}

// Can reports whether the user's role allows the named operation.
func (u *User) Can(op string) bool {
	if u == nil {
		return false
	}
	return perms[u.Role][op]
}
