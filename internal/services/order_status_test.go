package services_test

import (
	"testing"

	"farmstand/internal/authz"
	"farmstand/internal/domain"
	"farmstand/internal/repos"
	"farmstand/internal/services"
)

func TestTransitionHappyPath(t *testing.T) {
	db := testDB(t)
	oid, svc := placeDemoOrder(t, db)

	for _, next := range []string{domain.StatusConfirmed, domain.StatusReady, domain.StatusCompleted} {
		if err := svc.Transition(greta, oid, next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		o, _, err := svc.Get(greta, oid)
		if err != nil {
			t.Fatal(err)
		}
		if o.Status != next {
			t.Fatalf("want status %s, got %s", next, o.Status)
		}
	}

	// pending + confirmed + ready + completed
	var events int
	if err := db.Get(&events, `SELECT COUNT(*) FROM order_events
	  WHERE order_id=? AND event_type='status_change'`, oid); err != nil {
		t.Fatal(err)
	}
	if events != 4 {
		t.Fatalf("want 4 status events, got %d", events)
	}
}

func TestTransitionNotifiesCounterparty(t *testing.T) {
	db := testDB(t)
	oid, svc := placeDemoOrder(t, db)

	// Farmer confirms: the buyer hears about it, the farmer does not.
	if err := svc.Transition(greta, oid, domain.StatusConfirmed); err != nil {
		t.Fatal(err)
	}
	var toBuyer, toFarmer int
	if err := db.Get(&toBuyer, `SELECT COUNT(*) FROM notifications
	  WHERE recipient_id='u-bea' AND type='order_status_changed'`); err != nil {
		t.Fatal(err)
	}
	if err := db.Get(&toFarmer, `SELECT COUNT(*) FROM notifications
	  WHERE recipient_id='u-greta' AND type='order_status_changed'`); err != nil {
		t.Fatal(err)
	}
	if toBuyer != 1 || toFarmer != 0 {
		t.Fatalf("want 1 buyer / 0 farmer notifications, got %d / %d", toBuyer, toFarmer)
	}

	// Buyer cancels: now the farmer hears about it.
	if err := svc.Transition(bea, oid, domain.StatusCancelled); err != nil {
		t.Fatal(err)
	}
	if err := db.Get(&toFarmer, `SELECT COUNT(*) FROM notifications
	  WHERE recipient_id='u-greta' AND type='order_status_changed'`); err != nil {
		t.Fatal(err)
	}
	if toFarmer != 1 {
		t.Fatalf("want 1 farmer notification after buyer cancel, got %d", toFarmer)
	}
}

func TestTransitionRejectsIllegalEdges(t *testing.T) {
	db := testDB(t)
	oid, svc := placeDemoOrder(t, db)

	// No skipping ahead from pending.
	for _, next := range []string{domain.StatusReady, domain.StatusCompleted, domain.StatusPending} {
		if err := svc.Transition(greta, oid, next); err != repos.ErrBadTransition {
			t.Fatalf("pending -> %s: want ErrBadTransition, got %v", next, err)
		}
	}

	if err := svc.Transition(greta, oid, "shipped"); err != services.ErrBadStatus {
		t.Fatalf("unknown status: want ErrBadStatus, got %v", err)
	}

	o, _, err := svc.Get(greta, oid)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.StatusPending {
		t.Fatalf("rejected transitions must not move status, got %s", o.Status)
	}
}

func TestTerminalStatusesAreFinal(t *testing.T) {
	db := testDB(t)
	oid, svc := placeDemoOrder(t, db)

	if err := svc.Transition(bea, oid, domain.StatusCancelled); err != nil {
		t.Fatal(err)
	}
	for _, next := range []string{domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted} {
		if err := svc.Transition(greta, oid, next); err != repos.ErrOrderClosed {
			t.Fatalf("cancelled -> %s: want ErrOrderClosed, got %v", next, err)
		}
	}

	// A delivered order is just as closed as a cancelled one.
	oid2, _ := placeDemoOrder(t, db)
	for _, next := range []string{domain.StatusConfirmed, domain.StatusReady, domain.StatusCompleted} {
		if err := svc.Transition(greta, oid2, next); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.Transition(bea, oid2, domain.StatusCancelled); err != repos.ErrOrderClosed {
		t.Fatalf("cancel after completion: want ErrOrderClosed, got %v", err)
	}
}

func TestCancelAllowedFromEveryNonTerminalStatus(t *testing.T) {
	db := testDB(t)
	svc := services.NewOrderService(repos.NewOrderRepo(db))

	for _, path := range [][]string{
		{},
		{domain.StatusConfirmed},
		{domain.StatusConfirmed, domain.StatusReady},
	} {
		oid, _ := placeDemoOrder(t, db)
		for _, next := range path {
			if err := svc.Transition(greta, oid, next); err != nil {
				t.Fatal(err)
			}
		}
		if err := svc.Transition(bea, oid, domain.StatusCancelled); err != nil {
			t.Fatalf("cancel after %v: %v", path, err)
		}
	}
}

func TestTransitionDeniedForOutsiders(t *testing.T) {
	db := testDB(t)
	oid, svc := placeDemoOrder(t, db)

	// Neither an unrelated buyer nor an unrelated farmer may touch the
	// order, and the denial must read like a missing row.
	for _, outsider := range []authz.Caller{ben, hank} {
		if err := svc.Transition(outsider, oid, domain.StatusConfirmed); err != authz.ErrDenied {
			t.Fatalf("outsider %s: want ErrDenied, got %v", outsider.ID, err)
		}
	}
	if err := svc.Transition(greta, "no-such-order", domain.StatusConfirmed); err != authz.ErrDenied {
		t.Fatalf("missing order: want ErrDenied, got %v", err)
	}

	o, _, err := svc.Get(bea, oid)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.StatusPending {
		t.Fatalf("denied transitions must not move status, got %s", o.Status)
	}
}

func TestOrderVisibilityScopedToParties(t *testing.T) {
	db := testDB(t)
	oid, svc := placeDemoOrder(t, db)

	if _, _, err := svc.Get(ben, oid); err != authz.ErrDenied {
		t.Fatalf("foreign buyer read: want ErrDenied, got %v", err)
	}
	if _, _, err := svc.Get(hank, oid); err != authz.ErrDenied {
		t.Fatalf("foreign farmer read: want ErrDenied, got %v", err)
	}
	if _, _, err := svc.Get(greta, oid); err != nil {
		t.Fatalf("farm owner read: %v", err)
	}

	hist, err := svc.History(ben)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 0 {
		t.Fatalf("foreign buyer history should be empty, got %d", len(hist))
	}
}

func TestOrderEventsNoteAndLocation(t *testing.T) {
	db := testDB(t)
	oid, svc := placeDemoOrder(t, db)

	if err := svc.AddNote(bea, oid, "please pack the kale separately"); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddLocation(greta, oid, 38.99, -76.94); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddNote(ben, oid, "sneaky note"); err != authz.ErrDenied {
		t.Fatalf("outsider note: want ErrDenied, got %v", err)
	}

	events, err := svc.Events(bea, oid)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("want 3 events (initial + note + location), got %d", len(events))
	}
	if _, err := svc.Events(ben, oid); err != authz.ErrDenied {
		t.Fatalf("outsider events read: want ErrDenied, got %v", err)
	}
}
