package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"tillpoint/internal/domain"
	"tillpoint/internal/repos"
	"tillpoint/internal/services"
)

const testCompany = "Demo Trading"

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	seed := `
	INSERT INTO products(id,company_name,name,kind,unit_price,qty,min_qty) VALUES
	  ('maize','Demo Trading','Maize Meal 10kg','product',50.00,10,2),
	  ('oil','Demo Trading','Cooking Oil 2L','product',64.50,5,2),
	  ('airtime','Demo Trading','Airtime Voucher','service',10.00,0,0);
	INSERT INTO customers(id,company_name,name,phone,credit_score) VALUES
	  ('cust-good','Demo Trading','Nomsa Dlamini','+27821234567',640),
	  ('cust-low','Demo Trading','Sipho Khumalo','+27837654321',560);
	INSERT INTO users(id,email,name,password_hash,role,branch,company_name) VALUES
	  ('t1','t1@demo.test','Thandi','x','TELLER','Main Street','Demo Trading'),
	  ('t2','t2@demo.test','Bongani','x','TELLER','Main Street','Demo Trading'),
	  ('t3','t3@demo.test','Lindiwe','x','TELLER','Taxi Rank','Demo Trading'),
	  ('a1','owner@demo.test','Owner','x','ADMIN','','Demo Trading');
	`
	if _, err := db.Exec(seed); err != nil {
		t.Fatal(err)
	}
	return db
}

type fixture struct {
	db      *sqlx.DB
	carts   *services.CartService
	sales   *services.SaleService
	prods   *repos.ProductRepo
	saleRe  *repos.SaleRepo
	credits *repos.CreditRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	prodRepo := repos.NewProductRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	saleRepo := repos.NewSaleRepo(db)
	creditRepo := repos.NewCreditRepo(db)
	cartSvc := services.NewCartService(prodRepo)
	saleSvc := services.NewSaleService(db, cartSvc, prodRepo, saleRepo, creditRepo, custRepo)
	return &fixture{db: db, carts: cartSvc, sales: saleSvc, prods: prodRepo, saleRe: saleRepo, credits: creditRepo}
}

func teller(id, name, branch string) *domain.User {
	return &domain.User{ID: id, Name: name, Role: domain.RoleTeller, Branch: branch, CompanyName: testCompany}
}

func (f *fixture) qty(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.prods.Get(testCompany, productID)
	if err != nil {
		t.Fatalf("get product %s: %v", productID, err)
	}
	return p.Qty
}

func TestSubmit_CashSale(t *testing.T) {
	f := newFixture(t)
	u := teller("t1", "Thandi", "Main Street")
	sid := "sess-cash"

	if err := f.carts.Add(sid, testCompany, "maize", 3); err != nil {
		t.Fatal(err)
	}

	saleID, err := f.sales.Submit(sid, u, services.SubmitRequest{
		PaymentType: domain.PayCash,
		AmountPaid:  200,
	})
	if err != nil {
		t.Fatal(err)
	}

	s, items, err := f.saleRe.Get(testCompany, saleID)
	if err != nil {
		t.Fatal(err)
	}
	if s.Total != 150 {
		t.Fatalf("want total 150, got %v", s.Total)
	}
	if s.AmountPaid != 200 || s.Change != 50 {
		t.Fatalf("cash fields wrong: paid=%v change=%v", s.AmountPaid, s.Change)
	}
	if s.Bank != 0 || s.Credit != 0 {
		t.Fatalf("other payment fields must be zero: bank=%v credit=%v", s.Bank, s.Credit)
	}
	if len(items) != 1 || items[0].Qty != 3 || items[0].Subtotal != 150 {
		t.Fatalf("bad items: %+v", items)
	}
	if got := f.qty(t, "maize"); got != 7 {
		t.Fatalf("want qty 7 after sale, got %d", got)
	}

	// Cart is gone after a successful submit.
	if cv := f.carts.View(sid); len(cv.Items) != 0 {
		t.Fatalf("cart not cleared: %+v", cv.Items)
	}
}

func TestSubmit_InsufficientStockAfterCartBuilt(t *testing.T) {
	f := newFixture(t)
	u := teller("t1", "Thandi", "Main Street")
	sid := "sess-oversell"

	if err := f.carts.Add(sid, testCompany, "maize", 8); err != nil {
		t.Fatal(err)
	}
	// Another till sells most of the stock before this cart submits.
	if _, err := f.db.Exec(`UPDATE products SET qty = 7 WHERE id = 'maize'`); err != nil {
		t.Fatal(err)
	}

	_, err := f.sales.Submit(sid, u, services.SubmitRequest{PaymentType: domain.PayCash, AmountPaid: 500})
	var ise *services.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if ise.ProductName != "Maize Meal 10kg" {
		t.Fatalf("error names wrong product: %q", ise.ProductName)
	}

	if got := f.qty(t, "maize"); got != 7 {
		t.Fatalf("stock must stay 7, got %d", got)
	}
	var n int
	if err := f.db.Get(&n, `SELECT COUNT(*) FROM sales`); err != nil || n != 0 {
		t.Fatalf("no sale may be written, count=%d err=%v", n, err)
	}
}

func TestSubmit_RollbackAcrossLines(t *testing.T) {
	f := newFixture(t)
	u := teller("t1", "Thandi", "Main Street")
	sid := "sess-multi"

	if err := f.carts.Add(sid, testCompany, "maize", 2); err != nil {
		t.Fatal(err)
	}
	if err := f.carts.Add(sid, testCompany, "oil", 5); err != nil {
		t.Fatal(err)
	}
	// Oil runs out between cart build and submit; maize is still fine.
	if _, err := f.db.Exec(`UPDATE products SET qty = 3 WHERE id = 'oil'`); err != nil {
		t.Fatal(err)
	}

	_, err := f.sales.Submit(sid, u, services.SubmitRequest{PaymentType: domain.PayBank})
	var ise *services.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if ise.ProductName != "Cooking Oil 2L" {
		t.Fatalf("error names wrong product: %q", ise.ProductName)
	}

	// The maize decrement from line 1 must have been rolled back.
	if got := f.qty(t, "maize"); got != 10 {
		t.Fatalf("maize decrement not rolled back: qty=%d", got)
	}
	if got := f.qty(t, "oil"); got != 3 {
		t.Fatalf("oil qty changed: %d", got)
	}
}

func TestSubmit_CreditGateLowScore(t *testing.T) {
	f := newFixture(t)
	u := teller("t1", "Thandi", "Main Street")
	sid := "sess-lowscore"

	if err := f.carts.Add(sid, testCompany, "maize", 2); err != nil {
		t.Fatal(err)
	}

	_, err := f.sales.Submit(sid, u, services.SubmitRequest{
		PaymentType: domain.PayCredit,
		CustomerID:  "cust-low",
		DueDate:     "2026-09-30",
	})
	if err != services.ErrCreditScoreTooLow {
		t.Fatalf("want ErrCreditScoreTooLow, got %v", err)
	}

	// Zero writes anywhere.
	for _, table := range []string{"sales", "credits"} {
		var n int
		if err := f.db.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil || n != 0 {
			t.Fatalf("%s must be empty, count=%d err=%v", table, n, err)
		}
	}
	if got := f.qty(t, "maize"); got != 10 {
		t.Fatalf("stock must be untouched, got %d", got)
	}
}

func TestSubmit_CreditSaleWritesLedger(t *testing.T) {
	f := newFixture(t)
	u := teller("t1", "Thandi", "Main Street")
	sid := "sess-credit"

	if err := f.carts.Add(sid, testCompany, "maize", 4); err != nil {
		t.Fatal(err)
	}

	saleID, err := f.sales.Submit(sid, u, services.SubmitRequest{
		PaymentType: domain.PayCredit,
		CustomerID:  "cust-good",
		DueDate:     "2026-09-30",
	})
	if err != nil {
		t.Fatal(err)
	}

	s, _, err := f.saleRe.Get(testCompany, saleID)
	if err != nil {
		t.Fatal(err)
	}
	if s.Credit != 200 || s.AmountPaid != 0 || s.Bank != 0 {
		t.Fatalf("credit payment fields wrong: %+v", s)
	}
	if s.DueDate != "2026-09-30" {
		t.Fatalf("due date not stored: %q", s.DueDate)
	}

	credits, err := f.credits.List(testCompany)
	if err != nil {
		t.Fatal(err)
	}
	if len(credits) != 1 {
		t.Fatalf("want one ledger entry, got %d", len(credits))
	}
	cr := credits[0]
	if cr.AmountDue != 200 || cr.PaidAmount != 0 || cr.CreditScore != 640 || cr.SaleID != saleID {
		t.Fatalf("bad ledger entry: %+v", cr)
	}

	items, err := f.credits.Items(testCompany, cr.ID)
	if err != nil || len(items) != 1 || items[0].Qty != 4 {
		t.Fatalf("ledger items wrong: %+v err=%v", items, err)
	}
}

func TestSubmit_CreditRequiresCustomerAndDueDate(t *testing.T) {
	f := newFixture(t)
	u := teller("t1", "Thandi", "Main Street")

	if err := f.carts.Add("s1", testCompany, "maize", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := f.sales.Submit("s1", u, services.SubmitRequest{PaymentType: domain.PayCredit}); err != services.ErrCustomerRequired {
		t.Fatalf("want ErrCustomerRequired, got %v", err)
	}

	if _, err := f.sales.Submit("s1", u, services.SubmitRequest{
		PaymentType: domain.PayCredit,
		CustomerID:  "cust-good",
	}); err != services.ErrDueDateRequired {
		t.Fatalf("want ErrDueDateRequired, got %v", err)
	}
}

func TestSubmit_EmptyCartAndShortCash(t *testing.T) {
	f := newFixture(t)
	u := teller("t1", "Thandi", "Main Street")

	if _, err := f.sales.Submit("nope", u, services.SubmitRequest{PaymentType: domain.PayCash, AmountPaid: 100}); err != services.ErrEmptyCart {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}

	if err := f.carts.Add("s2", testCompany, "maize", 3); err != nil {
		t.Fatal(err)
	}
	if _, err := f.sales.Submit("s2", u, services.SubmitRequest{PaymentType: domain.PayCash, AmountPaid: 100}); err != services.ErrAmountPaidTooLow {
		t.Fatalf("want ErrAmountPaidTooLow, got %v", err)
	}
}

func TestSubmit_IdempotentResubmission(t *testing.T) {
	f := newFixture(t)
	u := teller("t1", "Thandi", "Main Street")
	sid := "sess-retry"

	if err := f.carts.Add(sid, testCompany, "maize", 2); err != nil {
		t.Fatal(err)
	}

	req := services.SubmitRequest{PaymentType: domain.PayCash, AmountPaid: 100, IdempotencyKey: "retry-key-1"}
	first, err := f.sales.Submit(sid, u, req)
	if err != nil {
		t.Fatal(err)
	}

	// The client retries after a lost response: same key, rebuilt cart.
	if err := f.carts.Add(sid, testCompany, "maize", 2); err != nil {
		t.Fatal(err)
	}
	second, err := f.sales.Submit(sid, u, req)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("retry created a new sale: %s vs %s", first, second)
	}

	var n int
	if err := f.db.Get(&n, `SELECT COUNT(*) FROM sales`); err != nil || n != 1 {
		t.Fatalf("want exactly one sale, got %d (err=%v)", n, err)
	}
	if got := f.qty(t, "maize"); got != 8 {
		t.Fatalf("stock must be decremented once only, got %d", got)
	}
}

func TestDecrement_ReportsOutOfStock(t *testing.T) {
	f := newFixture(t)
	tx, err := f.db.Beginx()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := f.prods.Decrement(tx, testCompany, "maize", 10); err != nil {
		t.Fatalf("full decrement must succeed: %v", err)
	}
	if err := f.prods.Decrement(tx, testCompany, "maize", 1); !errors.Is(err, repos.ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock on empty stock, got %v", err)
	}
	if err := f.prods.Decrement(tx, testCompany, "no-such-product", 1); !errors.Is(err, repos.ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock for unknown product, got %v", err)
	}
}

func TestSubmit_ConcurrentSalesOneProduct(t *testing.T) {
	f := newFixture(t)
	// One connection so both goroutines hit the same in-memory database.
	f.db.SetMaxOpenConns(1)

	t1 := teller("t1", "Thandi", "Main Street")
	t2 := teller("t2", "Bongani", "Main Street")

	// Two carts of 7 against a stock of 10: only one can win.
	if err := f.carts.Add("race-1", testCompany, "maize", 7); err != nil {
		t.Fatal(err)
	}
	if err := f.carts.Add("race-2", testCompany, "maize", 7); err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for sid, u := range map[string]*domain.User{"race-1": t1, "race-2": t2} {
		wg.Add(1)
		go func(sid string, u *domain.User) {
			defer wg.Done()
			_, err := f.sales.Submit(sid, u, services.SubmitRequest{PaymentType: domain.PayCash, AmountPaid: 500})
			errs <- err
		}(sid, u)
	}
	wg.Wait()
	close(errs)

	won := 0
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		var ise *services.InsufficientStockError
		if !errors.As(err, &ise) {
			t.Fatalf("loser must fail on stock, got %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("want exactly one winning submission, got %d", won)
	}
	if got := f.qty(t, "maize"); got != 3 {
		t.Fatalf("want qty 3 after the race, got %d", got)
	}
}

func TestSubmit_ServiceLinesSkipStock(t *testing.T) {
	f := newFixture(t)
	u := teller("t1", "Thandi", "Main Street")
	sid := "sess-service"

	if err := f.carts.Add(sid, testCompany, "airtime", 3); err != nil {
		t.Fatal(err)
	}
	if _, err := f.sales.Submit(sid, u, services.SubmitRequest{PaymentType: domain.PayCash, AmountPaid: 30}); err != nil {
		t.Fatal(err)
	}
	if got := f.qty(t, "airtime"); got != 0 {
		t.Fatalf("service qty must stay 0, got %d", got)
	}
}
