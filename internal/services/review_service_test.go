package services_test

import (
	"testing"

	"farmstand/internal/authz"
	"farmstand/internal/domain"
	"farmstand/internal/repos"
	"farmstand/internal/services"
)

func completeOrder(t *testing.T, osvc *services.OrderService, oid string) {
	t.Helper()
	for _, next := range []string{domain.StatusConfirmed, domain.StatusReady, domain.StatusCompleted} {
		if err := osvc.Transition(greta, oid, next); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReviewRequiresCompletedOrder(t *testing.T) {
	db := testDB(t)
	oid, osvc := placeDemoOrder(t, db)
	rsvc := services.NewReviewService(repos.NewReviewRepo(db))

	// Pending order: too early to review.
	if _, err := rsvc.Create(bea, "f-greenacre", &oid, 5, "great tomatoes"); err != repos.ErrOrderNotCompleted {
		t.Fatalf("want ErrOrderNotCompleted, got %v", err)
	}

	completeOrder(t, osvc, oid)
	id, err := rsvc.Create(bea, "f-greenacre", &oid, 5, "great tomatoes")
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("want review id")
	}
}

func TestReviewOwnershipAndTargetChecks(t *testing.T) {
	db := testDB(t)
	oid, osvc := placeDemoOrder(t, db)
	completeOrder(t, osvc, oid)
	rsvc := services.NewReviewService(repos.NewReviewRepo(db))

	// Someone else's order reads as missing.
	if _, err := rsvc.Create(ben, "f-greenacre", &oid, 4, "not my order"); err != authz.ErrDenied {
		t.Fatalf("foreign buyer: want ErrDenied, got %v", err)
	}
	// Order cites f-greenacre, review targets f-hillside.
	if _, err := rsvc.Create(bea, "f-hillside", &oid, 4, "wrong farm"); err != repos.ErrFarmerMismatch {
		t.Fatalf("want ErrFarmerMismatch, got %v", err)
	}
	missing := "no-such-order"
	if _, err := rsvc.Create(bea, "f-greenacre", &missing, 4, "ghost order"); err != authz.ErrDenied {
		t.Fatalf("missing order: want ErrDenied, got %v", err)
	}
}

func TestReviewOncePerOrder(t *testing.T) {
	db := testDB(t)
	oid, osvc := placeDemoOrder(t, db)
	completeOrder(t, osvc, oid)
	rsvc := services.NewReviewService(repos.NewReviewRepo(db))

	if _, err := rsvc.Create(bea, "f-greenacre", &oid, 5, "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := rsvc.Create(bea, "f-greenacre", &oid, 3, "second"); err != repos.ErrDuplicate {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}

	var rows int
	if err := db.Get(&rows, `SELECT COUNT(*) FROM reviews WHERE order_id=?`, oid); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("want exactly one review row, got %d", rows)
	}
}

func TestGeneralReviewNeedsNoOrder(t *testing.T) {
	db := testDB(t)
	rsvc := services.NewReviewService(repos.NewReviewRepo(db))

	if _, err := rsvc.Create(bea, "f-hillside", nil, 4, "nice stall at the market"); err != nil {
		t.Fatal(err)
	}
	// A second order-less review by the same buyer is fine.
	if _, err := rsvc.Create(bea, "f-hillside", nil, 5, "even better this week"); err != nil {
		t.Fatal(err)
	}

	out, err := rsvc.ForFarmer("f-hillside")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 reviews, got %d", len(out))
	}
}

func TestReviewUpdateScopedToAuthor(t *testing.T) {
	db := testDB(t)
	rsvc := services.NewReviewService(repos.NewReviewRepo(db))

	id, err := rsvc.Create(bea, "f-hillside", nil, 3, "ok")
	if err != nil {
		t.Fatal(err)
	}
	if err := rsvc.Update(ben, id, 1, "sabotage"); err != authz.ErrDenied {
		t.Fatalf("foreign update: want ErrDenied, got %v", err)
	}
	if err := rsvc.Update(bea, id, 5, "changed my mind"); err != nil {
		t.Fatal(err)
	}
	if err := rsvc.Update(bea, id, 9, "out of range"); err != services.ErrBadRating {
		t.Fatalf("want ErrBadRating, got %v", err)
	}
}
