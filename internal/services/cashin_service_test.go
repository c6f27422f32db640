package services_test

import (
	"testing"

	"tillpoint/internal/domain"
	"tillpoint/internal/repos"
	"tillpoint/internal/services"
)

func newCashInFixture(t *testing.T) (*fixture, *services.CashInService) {
	t.Helper()
	f := newFixture(t)
	ci := services.NewCashInService(f.saleRe, repos.NewCashInRepo(f.db), repos.NewUserRepo(f.db))
	return f, ci
}

func (f *fixture) sellCash(t *testing.T, sid string, u *domain.User, productID string, qty int, paid float64) {
	t.Helper()
	if err := f.carts.Add(sid, testCompany, productID, qty); err != nil {
		t.Fatal(err)
	}
	if _, err := f.sales.Submit(sid, u, services.SubmitRequest{PaymentType: domain.PayCash, AmountPaid: paid}); err != nil {
		t.Fatal(err)
	}
}

func admin() *domain.User {
	return &domain.User{ID: "a1", Name: "Owner", Role: domain.RoleAdmin, CompanyName: testCompany}
}

func TestExpected_BranchEqualsSumOfTellers(t *testing.T) {
	f, ci := newCashInFixture(t)
	t1 := teller("t1", "Thandi", "Main Street")
	t2 := teller("t2", "Bongani", "Main Street")

	f.sellCash(t, "s-t1", t1, "maize", 3, 150) // 150 cash
	f.sellCash(t, "s-t2", t2, "oil", 2, 129)   // 129 cash

	branch, err := ci.ExpectedByBranch(testCompany, "Main Street")
	if err != nil {
		t.Fatal(err)
	}
	e1, err := ci.ExpectedByTeller(testCompany, domain.User{ID: "t1", Branch: "Main Street"})
	if err != nil {
		t.Fatal(err)
	}
	e2, err := ci.ExpectedByTeller(testCompany, domain.User{ID: "t2", Branch: "Main Street"})
	if err != nil {
		t.Fatal(err)
	}
	if branch != e1.Cash+e2.Cash {
		t.Fatalf("branch expected %v != teller sums %v + %v", branch, e1.Cash, e2.Cash)
	}
	if branch != 279 {
		t.Fatalf("want branch expected 279, got %v", branch)
	}
}

func TestExpected_SplitsByPaymentType(t *testing.T) {
	f, ci := newCashInFixture(t)
	t1 := teller("t1", "Thandi", "Main Street")

	f.sellCash(t, "s-a", t1, "maize", 2, 100)

	if err := f.carts.Add("s-b", testCompany, "oil", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := f.sales.Submit("s-b", t1, services.SubmitRequest{PaymentType: domain.PayBank}); err != nil {
		t.Fatal(err)
	}

	exp, err := ci.ExpectedByTeller(testCompany, domain.User{ID: "t1", Name: "Thandi", Branch: "Main Street"})
	if err != nil {
		t.Fatal(err)
	}
	if exp.Cash != 100 || exp.Bank != 64.5 || exp.Credit != 0 {
		t.Fatalf("bad split: %+v", exp)
	}
}

func TestEligibleTellers_FiltersIdle(t *testing.T) {
	f, ci := newCashInFixture(t)
	t1 := teller("t1", "Thandi", "Main Street")

	f.sellCash(t, "s-t1", t1, "maize", 1, 50)

	// t2 shares the branch but sold nothing today.
	out, err := ci.EligibleTellers(testCompany, "Main Street")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].TellerID != "t1" {
		t.Fatalf("want only t1 eligible, got %+v", out)
	}
}

func TestRecord_StatusClassification(t *testing.T) {
	f, ci := newCashInFixture(t)
	t1 := teller("t1", "Thandi", "Main Street")
	f.sellCash(t, "s-t1", t1, "maize", 3, 150) // expected cash 150

	cases := []struct {
		cash float64
		want string
	}{
		{120, domain.CashInUnderpaid},
		{150, domain.CashInExact},
		{180, domain.CashInOverpaid},
	}
	for _, tc := range cases {
		ci2, err := ci.Record(admin(), domain.User{ID: "t1", Name: "Thandi", Branch: "Main Street"}, tc.cash, 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if ci2.Status != tc.want {
			t.Errorf("cash %v: want status %q, got %q", tc.cash, tc.want, ci2.Status)
		}
		if ci2.ExpectedCashIn != 150 {
			t.Errorf("cash %v: expected snapshot wrong: %v", tc.cash, ci2.ExpectedCashIn)
		}
	}

	today, err := ci.Today(testCompany)
	if err != nil {
		t.Fatal(err)
	}
	if len(today) != len(cases) {
		t.Fatalf("want %d submissions today, got %d", len(cases), len(today))
	}
}

func TestRecord_RejectsAllZero(t *testing.T) {
	_, ci := newCashInFixture(t)

	_, err := ci.Record(admin(), domain.User{ID: "t1", Branch: "Main Street"}, 0, 0, 0)
	if err != services.ErrNoAmounts {
		t.Fatalf("want ErrNoAmounts, got %v", err)
	}
}
