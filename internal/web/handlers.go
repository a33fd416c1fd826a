package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/duka/loanbook/internal/auth"
	"github.com/duka/loanbook/internal/models"
	"github.com/duka/loanbook/internal/service"
	"github.com/duka/loanbook/internal/storage"
)

// authFormData backs the register and login pages.
type authFormData struct {
	Username string
	Next     string
	Error    string
}

// itemRow carries one loan item line as submitted, before numeric parsing,
// so a failed form can be re-rendered with the operator's input intact.
type itemRow struct {
	Name     string
	Unit     string
	Quantity string
	Price    string
}

// loanFormData backs the loan registration page.
type loanFormData struct {
	Username     string
	ClientName   string
	PhoneNumber  string
	BusinessName string
	Items        []itemRow
	Error        string
}

// dashboardData backs the dashboard page.
type dashboardData struct {
	Username string
	Loans    []*models.Loan
}

// loanPageData backs the loan view and payment pages.
type loanPageData struct {
	Username   string
	Loan       *models.Loan
	Amount     string
	Method     string
	RecordedBy string
	Error      string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index.html", nil)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "register.html", authFormData{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	_, err := s.authenticator.Register(r.Context(), username, password)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, auth.ErrUsernameExists) {
			status = http.StatusConflict
		}
		s.render(w, status, "register.html", authFormData{Username: username, Error: err.Error()})
		return
	}

	slog.Info("User registered", "username", username)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login.html", authFormData{Next: r.URL.Query().Get("next")})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := r.PostFormValue("next")

	user, err := s.authenticator.Authenticate(r.Context(), username, password)
	if err != nil {
		slog.Warn("Login failed", "username", username)
		s.render(w, http.StatusUnauthorized, "login.html", authFormData{
			Username: username,
			Next:     next,
			Error:    "Invalid username or password",
		})
		return
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		s.internalError(w, "failed to issue session", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// Only follow local redirect targets.
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/dashboard"
	}
	slog.Info("User logged in", "username", username)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	loans, err := s.loans.ListLoans(r.Context())
	if err != nil {
		s.internalError(w, "failed to list loans", err)
		return
	}
	s.render(w, http.StatusOK, "dashboard.html", dashboardData{
		Username: GetClaims(r.Context()).Username,
		Loans:    loans,
	})
}

func (s *Server) handleRegisterLoanForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "register_loan.html", loanFormData{
		Username: GetClaims(r.Context()).Username,
		Items:    []itemRow{{}},
	})
}

func (s *Server) handleRegisterLoan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	form := loanFormFromRequest(r)
	form.Username = GetClaims(r.Context()).Username

	items, verr := parseItemRows(form.Items)
	if verr != nil {
		form.Error = verr.Message
		s.render(w, http.StatusBadRequest, "register_loan.html", form)
		return
	}

	loan, err := s.loans.RegisterLoan(r.Context(), service.ClientInput{
		Name:         form.ClientName,
		PhoneNumber:  form.PhoneNumber,
		BusinessName: form.BusinessName,
	}, items)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			form.Error = vErr.Message
			s.render(w, http.StatusBadRequest, "register_loan.html", form)
			return
		}
		s.internalError(w, "failed to register loan", err)
		return
	}

	slog.Debug("Loan registered via web", "loan_id", loan.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleViewLoan(w http.ResponseWriter, r *http.Request) {
	loan, ok := s.loadLoan(w, r)
	if !ok {
		return
	}
	s.render(w, http.StatusOK, "view_loan.html", loanPageData{
		Username: GetClaims(r.Context()).Username,
		Loan:     loan,
	})
}

func (s *Server) handlePaymentForm(w http.ResponseWriter, r *http.Request) {
	loan, ok := s.loadLoan(w, r)
	if !ok {
		return
	}
	s.render(w, http.StatusOK, "make_payment.html", loanPageData{
		Username: GetClaims(r.Context()).Username,
		Loan:     loan,
	})
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	loan, ok := s.loadLoan(w, r)
	if !ok {
		return
	}

	data := loanPageData{
		Username:   GetClaims(r.Context()).Username,
		Loan:       loan,
		Amount:     strings.TrimSpace(r.PostFormValue("amount")),
		Method:     r.PostFormValue("payment_method"),
		RecordedBy: r.PostFormValue("removed_by"),
	}

	amount, err := strconv.ParseFloat(data.Amount, 64)
	if err != nil {
		data.Error = "Payment amount must be a number"
		s.render(w, http.StatusBadRequest, "make_payment.html", data)
		return
	}

	_, err = s.loans.ApplyPayment(r.Context(), loan.ID, amount, data.Method, data.RecordedBy)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.Is(err, storage.ErrInsufficientBalance):
			data.Error = "Payment amount exceeds remaining loan balance"
		case errors.As(err, &vErr):
			data.Error = vErr.Message
		case errors.Is(err, storage.ErrNotFound):
			http.NotFound(w, r)
			return
		default:
			s.internalError(w, "failed to apply payment", err)
			return
		}
		s.render(w, http.StatusBadRequest, "make_payment.html", data)
		return
	}

	http.Redirect(w, r, "/view_loan/"+loan.ID, http.StatusSeeOther)
}

// loadLoan resolves the {id} path segment, writing a 404 or 500 itself
// when the loan cannot be served.
func (s *Server) loadLoan(w http.ResponseWriter, r *http.Request) (*models.Loan, bool) {
	loan, err := s.loans.GetLoan(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		s.internalError(w, "failed to load loan", err)
		return nil, false
	}
	return loan, true
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// loanFormFromRequest collects the registration form: scalar client fields
// plus the parallel item_* lists, zipped positionally to the shortest list.
func loanFormFromRequest(r *http.Request) loanFormData {
	names := r.PostForm["item_name[]"]
	units := r.PostForm["item_unit[]"]
	quantities := r.PostForm["item_quantity[]"]
	prices := r.PostForm["item_price[]"]

	n := len(names)
	for _, l := range []int{len(units), len(quantities), len(prices)} {
		if l < n {
			n = l
		}
	}

	items := make([]itemRow, n)
	for i := 0; i < n; i++ {
		items[i] = itemRow{
			Name:     strings.TrimSpace(names[i]),
			Unit:     strings.TrimSpace(units[i]),
			Quantity: strings.TrimSpace(quantities[i]),
			Price:    strings.TrimSpace(prices[i]),
		}
	}

	return loanFormData{
		ClientName:   strings.TrimSpace(r.PostFormValue("client_name")),
		PhoneNumber:  strings.TrimSpace(r.PostFormValue("phone_number")),
		BusinessName: strings.TrimSpace(r.PostFormValue("business_name")),
		Items:        items,
	}
}

// parseItemRows converts submitted item text to typed inputs. Non-numeric
// quantities or prices are a caller error.
func parseItemRows(rows []itemRow) ([]service.ItemInput, *service.ValidationError) {
	items := make([]service.ItemInput, len(rows))
	for i, row := range rows {
		quantity, err := strconv.Atoi(row.Quantity)
		if err != nil {
			return nil, &service.ValidationError{
				Field:   "item_quantity",
				Message: "Item " + strconv.Itoa(i+1) + ": quantity must be a whole number",
			}
		}
		price, err := strconv.ParseFloat(row.Price, 64)
		if err != nil {
			return nil, &service.ValidationError{
				Field:   "item_price",
				Message: "Item " + strconv.Itoa(i+1) + ": price must be a number",
			}
		}
		items[i] = service.ItemInput{
			Name:     row.Name,
			Unit:     row.Unit,
			Quantity: quantity,
			Price:    price,
		}
	}
	return items, nil
}
