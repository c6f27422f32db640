package domain

// PaymentType selects how a sale is settled. Exactly one of the
// payment field groups on Sale is non-zero for a given type.
type PaymentType string

const (
	PayCash   PaymentType = "Cash"
	PayBank   PaymentType = "Bank"
	PayCredit PaymentType = "Credit"
)

func (p PaymentType) Valid() bool {
	return p == PayCash || p == PayBank || p == PayCredit
}

// ProductKind distinguishes stocked goods from services.
type ProductKind string

const (
	KindProduct ProductKind = "product"
	KindService ProductKind = "service"
)

type Product struct {
	ID                string  `db:"id" json:"id"`
	CompanyName       string  `db:"company_name" json:"companyName"`
	Name              string  `db:"name" json:"name"`
	Kind              string  `db:"kind" json:"type"` // product | service
	UnitPrice         float64 `db:"unit_price" json:"unitPrice"`
	PurchasePrice     float64 `db:"purchase_price" json:"purchasePrice"`
	UnitPurchasePrice float64 `db:"unit_purchase_price" json:"unitPurchasePrice"`
	Qty               int     `db:"qty" json:"qty"`
	MinQty            int     `db:"min_qty" json:"minQty"`
	MaxQty            int     `db:"max_qty" json:"maxQty"`
	AvailableValue    float64 `db:"available_value" json:"availableValue"` // services only
	Unit              string  `db:"unit" json:"unit"`
	CreatedAt         string  `db:"created_at" json:"createdAt"`
	UpdatedAt         string  `db:"updated_at" json:"updatedAt"`
}

// CartItem is a product snapshot plus the quantity a teller wants to
// sell. It lives only in memory until the sale commits.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

type Customer struct {
	ID          string `db:"id" json:"id"`
	CompanyName string `db:"company_name" json:"companyName"`
	Name        string `db:"name" json:"name"`
	Phone       string `db:"phone" json:"phone"`
	IDNumber    string `db:"id_number" json:"idNumber"`
	CreditScore int    `db:"credit_score" json:"creditScore"`
}

// Sale is the immutable record of one completed POS transaction.
type Sale struct {
	ID             string  `db:"id" json:"id"`
	CompanyName    string  `db:"company_name" json:"companyName"`
	Branch         string  `db:"branch" json:"branch"`
	TellerID       string  `db:"teller_id" json:"tellerId"`
	TellerName     string  `db:"teller_name" json:"tellerName"`
	CustomerID     string  `db:"customer_id" json:"customerId"`
	CustomerName   string  `db:"customer_name" json:"customer"`
	PaymentType    string  `db:"payment_type" json:"paymentType"`
	Total          float64 `db:"total" json:"total"`
	AmountPaid     float64 `db:"amount_paid" json:"amountPaid"`
	Change         float64 `db:"change" json:"change"`
	Bank           float64 `db:"bank" json:"bank"`
	Credit         float64 `db:"credit" json:"credit"`
	DueDate        string  `db:"due_date" json:"dueDate"`
	IdempotencyKey string  `db:"idempotency_key" json:"-"`
	CreatedAt      string  `db:"created_at" json:"createdAt"`
}

type SaleItem struct {
	SaleID    string  `db:"sale_id" json:"-"`
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	Qty       int     `db:"qty" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unitPrice"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

// Credit is one ledger entry for an outstanding credit sale.
// paid_amount and credit_score are written at payment time and read
// back verbatim; nothing recomputes them on read.
type Credit struct {
	ID          string  `db:"id" json:"id"`
	CompanyName string  `db:"company_name" json:"companyName"`
	Branch      string  `db:"branch" json:"branch"`
	SaleID      string  `db:"sale_id" json:"saleId"`
	CustomerID  string  `db:"customer_id" json:"customerId"`
	Name        string  `db:"name" json:"name"`
	AmountDue   float64 `db:"amount_due" json:"amountDue"`
	PaidAmount  float64 `db:"paid_amount" json:"paidAmount"`
	DueDate     string  `db:"due_date" json:"dueDate"` // YYYY-MM-DD
	CreditScore int     `db:"credit_score" json:"creditScore"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
}

// Due statuses derived from a credit's due date; never stored.
const (
	DueOverdue = "Overdue"
	DueToday   = "Due Today"
	DueOnTime  = "On Time"
)

// Cash-in statuses, computed once at submission time and stored.
const (
	CashInUnderpaid = "underpaid"
	CashInOverpaid  = "overpaid"
	CashInExact     = "exact"
)

type CashIn struct {
	ID             string  `db:"id" json:"id"`
	CompanyName    string  `db:"company_name" json:"companyName"`
	Branch         string  `db:"branch" json:"branch"`
	TellerID       string  `db:"teller_id" json:"tellerId"`
	TellerName     string  `db:"teller_name" json:"tellerName"`
	Cash           float64 `db:"cash" json:"cash"`
	Bank           float64 `db:"bank" json:"bank"`
	Credit         float64 `db:"credit" json:"credit"`
	ExpectedCashIn float64 `db:"expected_cash_in" json:"expectedCashIn"`
	Status         string  `db:"status" json:"status"`
	AdminID        string  `db:"admin_id" json:"adminId"`
	Date           string  `db:"date" json:"date"`
}

type Drawing struct {
	ID          string  `db:"id" json:"id"`
	CompanyName string  `db:"company_name" json:"companyName"`
	Branch      string  `db:"branch" json:"branch"`
	ProductID   string  `db:"product_id" json:"productId"`
	ProductName string  `db:"product_name" json:"productName"`
	Quantity    int     `db:"quantity" json:"quantity"`
	Subtotal    float64 `db:"subtotal" json:"subtotal"`
	Reason      string  `db:"reason" json:"reason"`
	DrawnByID   string  `db:"drawn_by_id" json:"drawnById"`
	DrawnByName string  `db:"drawn_by_name" json:"drawnByName"`
	Date        string  `db:"date" json:"date"`
}

type Expense struct {
	ID          string  `db:"id" json:"id"`
	CompanyName string  `db:"company_name" json:"companyName"`
	Branch      string  `db:"branch" json:"branch"`
	Name        string  `db:"name" json:"name"`
	Amount      float64 `db:"amount" json:"amount"`
	Kind        string  `db:"kind" json:"type"`
	Notes       string  `db:"notes" json:"notes"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
}
