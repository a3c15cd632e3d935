package handlers

import (
	"net/http"
	"testing"
)

func TestInvoiceEndpoints(t *testing.T) {
	srv := newTestServer(t)

	aliceToken, aliceID := srv.register("alice@example.com", "Alice")
	bobToken, bobID := srv.register("bob@example.com", "Bob")
	group := srv.createGroup(aliceToken, "Trip")
	if status := srv.do(http.MethodPost, "/auth/groups/"+group.ID+"/join", bobToken, nil, nil); status != http.StatusOK {
		t.Fatalf("join group: status = %d", status)
	}

	var bill billResponse
	status := srv.do(http.MethodPost, "/api/bills", aliceToken, createBillRequest{
		GroupID: group.ID,
		Title:   "lunch",
		PaidBy:  aliceID,
		Items: []billItemRequest{
			{Name: "rice", Quantity: 1, Price: 10000, WhoToPaid: []string{bobID}},
		},
	}, &bill)
	if status != http.StatusCreated {
		t.Fatalf("create bill: status = %d", status)
	}

	var invoice summaryResponse
	t.Run("generate", func(t *testing.T) {
		status := srv.do(http.MethodPost, "/api/invoices/generate/"+group.ID, aliceToken, nil, &invoice)
		if status != http.StatusCreated {
			t.Fatalf("status = %d, want 201", status)
		}
		if invoice.InvoiceID == "" {
			t.Error("invoice_id missing")
		}
		if invoice.TotalBills != 1 || invoice.TotalAmount != 10000 || invoice.RecordCount != 1 {
			t.Errorf("invoice = %+v", invoice)
		}
		rec := invoice.Records[0]
		if rec.DebtorName != "Bob" || rec.DebteeName != "Alice" || rec.Nominal != 10000 {
			t.Errorf("record = %+v, want Bob owes Alice 10000", rec)
		}
	})

	t.Run("generate again with nothing left", func(t *testing.T) {
		status := srv.do(http.MethodPost, "/api/invoices/generate/"+group.ID, aliceToken, nil, nil)
		if status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})

	t.Run("settled bill is frozen", func(t *testing.T) {
		var got billResponse
		if status := srv.do(http.MethodGet, "/api/bills/"+bill.ID, aliceToken, nil, &got); status != http.StatusOK {
			t.Fatalf("get bill: status = %d", status)
		}
		if got.Status != "settled" {
			t.Errorf("bill status = %s, want settled", got.Status)
		}
		status := srv.do(http.MethodDelete, "/api/bills/"+bill.ID, aliceToken, nil, nil)
		if status != http.StatusBadRequest {
			t.Errorf("delete settled bill: status = %d, want 400", status)
		}
	})

	t.Run("get invoice", func(t *testing.T) {
		var got summaryResponse
		status := srv.do(http.MethodGet, "/api/invoices/"+invoice.InvoiceID, bobToken, nil, &got)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if got.InvoiceID != invoice.InvoiceID || got.RecordCount != 1 {
			t.Errorf("invoice = %+v", got)
		}
	})

	t.Run("list by group", func(t *testing.T) {
		var got []summaryResponse
		status := srv.do(http.MethodGet, "/api/invoices/group/"+group.ID, aliceToken, nil, &got)
		if status != http.StatusOK || len(got) != 1 {
			t.Errorf("status = %d, invoices = %d, want 200 and 1", status, len(got))
		}
	})

	t.Run("mark record paid and unpaid", func(t *testing.T) {
		recID := invoice.Records[0].ID
		path := "/api/invoices/" + invoice.InvoiceID + "/records/" + recID + "/paid"

		var rec recordResponse
		status := srv.do(http.MethodPut, path, bobToken, markPaidRequest{IsPaid: true}, &rec)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if !rec.IsPaid {
			t.Error("record not marked paid")
		}

		status = srv.do(http.MethodPut, path, bobToken, markPaidRequest{IsPaid: false}, &rec)
		if status != http.StatusOK {
			t.Fatalf("unpay status = %d, want 200", status)
		}
		if rec.IsPaid {
			t.Error("record still paid after unpay")
		}
	})

	t.Run("mark unknown record", func(t *testing.T) {
		path := "/api/invoices/" + invoice.InvoiceID + "/records/no-such-record/paid"
		status := srv.do(http.MethodPut, path, aliceToken, markPaidRequest{IsPaid: true}, nil)
		if status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})
}

func TestHealthAndProfile(t *testing.T) {
	srv := newTestServer(t)

	t.Run("health is public", func(t *testing.T) {
		status := srv.do(http.MethodGet, "/health", "", nil, nil)
		if status != http.StatusOK {
			t.Errorf("status = %d, want 200", status)
		}
	})

	t.Run("metrics is public", func(t *testing.T) {
		resp, err := srv.Client().Get(srv.URL + "/metrics")
		if err != nil {
			t.Fatalf("metrics request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("profile round trip", func(t *testing.T) {
		token, _ := srv.register("carol@example.com", "Carol")

		var user userResponse
		status := srv.do(http.MethodGet, "/auth/profile", token, nil, &user)
		if status != http.StatusOK || user.DisplayName != "Carol" {
			t.Errorf("status = %d, user = %+v", status, user)
		}

		status = srv.do(http.MethodPut, "/auth/profile", token,
			updateProfileRequest{DisplayName: "Caroline"}, &user)
		if status != http.StatusOK || user.DisplayName != "Caroline" {
			t.Errorf("after update: status = %d, user = %+v", status, user)
		}

		status = srv.do(http.MethodDelete, "/auth/profile", token, nil, nil)
		if status != http.StatusNoContent {
			t.Errorf("delete status = %d, want 204", status)
		}
		status = srv.do(http.MethodGet, "/auth/profile", token, nil, nil)
		if status != http.StatusNotFound {
			t.Errorf("profile after delete status = %d, want 404", status)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		srv.register("dave@example.com", "Dave")
		status := srv.do(http.MethodPost, "/auth/register", "", map[string]string{
			"email": "dave@example.com", "display_name": "Dave II", "password": "password123",
		}, nil)
		if status != http.StatusConflict {
			t.Errorf("status = %d, want 409", status)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		srv.register("frank@example.com", "Frank")
		status := srv.do(http.MethodPost, "/auth/login", "", map[string]string{
			"email": "frank@example.com", "password": "wrong-password",
		}, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})
}
