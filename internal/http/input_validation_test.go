package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMalformedIDsRead404(t *testing.T) {
	app, _ := newTestApp(t)
	sid := login(t, app, "bea@farmstand.test")

	// Path params that fail the ID shape short-circuit to 404 before any
	// query runs.
	for _, target := range []string{
		"/api/v1/orders/..%2F..%2Fetc",
		"/api/v1/farmers/a%20b%20c",
		"/api/v1/products/" + strings64(80),
	} {
		resp, err := app.Test(withSID(httptest.NewRequest("GET", target, nil), sid))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: want 404, got %d", target, resp.StatusCode)
		}
	}
}

func strings64(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}

func TestReviewValidation(t *testing.T) {
	app, _ := newTestApp(t)
	sid := login(t, app, "bea@farmstand.test")

	cases := []map[string]any{
		{"farmerId": "f-greenacre", "rating": 0},
		{"farmerId": "f-greenacre", "rating": 6},
		{"farmerId": "", "rating": 5},
		{"farmerId": "f-greenacre", "rating": 5, "orderId": "bad id!"},
	}
	for i, body := range cases {
		resp, err := app.Test(withSID(jsonReq("POST", "/api/v1/reviews", body), sid))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("case %d: want 400, got %d", i, resp.StatusCode)
		}
	}
}

func TestOrderPlacementValidation(t *testing.T) {
	app, _ := newTestApp(t)
	sid := login(t, app, "bea@farmstand.test")

	// No items.
	resp, err := app.Test(withSID(jsonReq("POST", "/api/v1/orders", map[string]any{
		"farmerId": "f-greenacre", "items": []map[string]any{},
	}), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty order: want 400, got %d", resp.StatusCode)
	}

	// Bogus delivery method.
	resp, err = app.Test(withSID(jsonReq("POST", "/api/v1/orders", map[string]any{
		"farmerId":       "f-greenacre",
		"deliveryMethod": "drone",
		"items":          []map[string]any{{"productId": "p-kale", "quantity": 1}},
	}), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad method: want 400, got %d", resp.StatusCode)
	}

	// Farmers cannot place orders.
	gretaSID := login(t, app, "greta@farmstand.test")
	resp, err = app.Test(withSID(jsonReq("POST", "/api/v1/orders", map[string]any{
		"farmerId": "f-hillside",
		"items":    []map[string]any{{"productId": "p-milk", "quantity": 2}},
	}), gretaSID))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("farmer placing order: want 400, got %d", resp.StatusCode)
	}
}

func TestSelfMessageRejected(t *testing.T) {
	app, _ := newTestApp(t)
	sid := login(t, app, "bea@farmstand.test")

	resp, err := app.Test(withSID(jsonReq("POST", "/api/v1/messages", map[string]string{
		"recipientId": "u-bea", "content": "hello me",
	}), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("self message: want 400, got %d", resp.StatusCode)
	}

	// Messaging a nonexistent user reads as a missing row.
	resp, err = app.Test(withSID(jsonReq("POST", "/api/v1/messages", map[string]string{
		"recipientId": "u-nobody", "content": "hello void",
	}), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown recipient: want 404, got %d", resp.StatusCode)
	}
}
