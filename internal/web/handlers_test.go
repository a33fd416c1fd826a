package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/duka/loanbook/internal/auth"
	"github.com/duka/loanbook/internal/service"
	"github.com/duka/loanbook/internal/storage/sqlite"
)

type testApp struct {
	server *httptest.Server
	client *http.Client
	loans  *service.LoanService
}

// newTestApp spins up the full web stack over a temp SQLite database. The
// returned client keeps cookies but does not follow redirects, so tests
// can assert on them.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	loans := service.NewLoanService(store)
	authenticator := auth.NewPasswordAuthenticator(store)
	sessions := auth.NewSessionManager("test-secret", time.Hour)

	server := httptest.NewServer(NewServer(loans, authenticator, sessions).Handler())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{server: server, client: client, loans: loans}
}

func (app *testApp) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := app.client.Get(app.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func (app *testApp) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := app.client.PostForm(app.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

func (app *testApp) signIn(t *testing.T) {
	t.Helper()

	resp := app.postForm(t, "/register", url.Values{
		"username": {"operator"},
		"password": {"supersecret1"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("register status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}

	resp = app.postForm(t, "/login", url.Values{
		"username": {"operator"},
		"password": {"supersecret1"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(b)
}

func TestSessionRequired(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/dashboard", "/register_loan", "/logout"} {
		resp := app.get(t, path)
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("GET %s status = %d, want %d", path, resp.StatusCode, http.StatusSeeOther)
			continue
		}
		loc := resp.Header.Get("Location")
		if !strings.HasPrefix(loc, "/login") {
			t.Errorf("GET %s redirects to %s, want /login", path, loc)
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	t.Run("duplicate username is rejected", func(t *testing.T) {
		app.signIn(t)

		resp := app.postForm(t, "/register", url.Values{
			"username": {"operator"},
			"password": {"anotherpassword"},
		})
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
		}
		if !strings.Contains(body(t, resp), "already taken") {
			t.Error("expected duplicate-username message in response")
		}
	})

	t.Run("wrong password does not establish a session", func(t *testing.T) {
		fresh := newTestApp(t)
		fresh.signIn(t)
		fresh.client.Jar, _ = cookiejar.New(nil) // drop the session

		resp := fresh.postForm(t, "/login", url.Values{
			"username": {"operator"},
			"password": {"wrongpassword1"},
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("login status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}

		resp = fresh.get(t, "/dashboard")
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("dashboard status = %d, want redirect to login", resp.StatusCode)
		}
	})

	t.Run("logout ends the session", func(t *testing.T) {
		fresh := newTestApp(t)
		fresh.signIn(t)

		resp := fresh.get(t, "/logout")
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("logout status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
		}

		resp = fresh.get(t, "/dashboard")
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("dashboard after logout status = %d, want redirect", resp.StatusCode)
		}
	})
}

func TestRegisterLoanFlow(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t)

	t.Run("valid loan redirects to dashboard", func(t *testing.T) {
		resp := app.postForm(t, "/register_loan", url.Values{
			"client_name":     {"Asha"},
			"phone_number":    {"0712000001"},
			"business_name":   {"Asha Stores"},
			"item_name[]":     {"Rice", "Oil"},
			"item_unit[]":     {"kg", "L"},
			"item_quantity[]": {"10", "2"},
			"item_price[]":    {"2.5", "8.0"},
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
		}
		if loc := resp.Header.Get("Location"); loc != "/dashboard" {
			t.Errorf("redirect = %s, want /dashboard", loc)
		}

		dash := body(t, app.get(t, "/dashboard"))
		if !strings.Contains(dash, "Asha") || !strings.Contains(dash, "41.00") {
			t.Error("expected new loan with total 41.00 on dashboard")
		}
	})

	t.Run("non-numeric quantity re-renders with the input kept", func(t *testing.T) {
		resp := app.postForm(t, "/register_loan", url.Values{
			"client_name":     {"Asha"},
			"item_name[]":     {"Rice"},
			"item_unit[]":     {"kg"},
			"item_quantity[]": {"ten"},
			"item_price[]":    {"2.5"},
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
		page := body(t, resp)
		if !strings.Contains(page, "quantity must be a whole number") {
			t.Error("expected validation message in response")
		}
		if !strings.Contains(page, `value="ten"`) {
			t.Error("expected submitted quantity to be re-rendered")
		}
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		resp := app.postForm(t, "/register_loan", url.Values{
			"client_name":     {"Asha"},
			"item_name[]":     {"Rice"},
			"item_unit[]":     {"kg"},
			"item_quantity[]": {"10"},
			"item_price[]":    {"-2.5"},
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})
}

func TestPaymentFlow(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t)

	loan, err := app.loans.RegisterLoan(context.Background(), service.ClientInput{Name: "Asha"}, []service.ItemInput{
		{Name: "Rice", Unit: "kg", Quantity: 10, Price: 2.5},
		{Name: "Oil", Unit: "L", Quantity: 2, Price: 8.0},
	})
	if err != nil {
		t.Fatalf("RegisterLoan failed: %v", err)
	}

	t.Run("unknown loan is 404", func(t *testing.T) {
		for _, path := range []string{"/view_loan/nope", "/make_payment/nope"} {
			resp := app.get(t, path)
			resp.Body.Close()
			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
			}
		}
	})

	t.Run("overpayment re-renders with an error", func(t *testing.T) {
		resp := app.postForm(t, "/make_payment/"+loan.ID, url.Values{
			"amount":         {"50.0"},
			"payment_method": {"cash"},
			"removed_by":     {"Juma"},
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
		if !strings.Contains(body(t, resp), "exceeds remaining loan balance") {
			t.Error("expected balance message in response")
		}

		view := body(t, app.get(t, "/view_loan/"+loan.ID))
		if !strings.Contains(view, "Remaining: 41.00") {
			t.Error("expected remaining balance to be unchanged at 41.00")
		}
	})

	t.Run("exact payment clears the balance", func(t *testing.T) {
		resp := app.postForm(t, "/make_payment/"+loan.ID, url.Values{
			"amount":         {"41.0"},
			"payment_method": {"mpesa"},
			"removed_by":     {"Juma"},
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
		}
		if loc := resp.Header.Get("Location"); loc != "/view_loan/"+loan.ID {
			t.Errorf("redirect = %s, want /view_loan/%s", loc, loan.ID)
		}

		view := body(t, app.get(t, "/view_loan/"+loan.ID))
		if !strings.Contains(view, "Remaining: 0.00") {
			t.Error("expected remaining balance of 0.00")
		}
		if !strings.Contains(view, "mpesa") {
			t.Error("expected the payment to be listed")
		}
	})

	t.Run("non-numeric amount is rejected", func(t *testing.T) {
		resp := app.postForm(t, "/make_payment/"+loan.ID, url.Values{
			"amount":         {"lots"},
			"payment_method": {"cash"},
			"removed_by":     {"Juma"},
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})
}
