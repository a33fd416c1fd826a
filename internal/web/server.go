// Package web serves the browser UI: routing, form parsing, session
// handling and template rendering.
package web

import (
	"html/template"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/duka/loanbook/internal/auth"
	"github.com/duka/loanbook/internal/service"
)

// Server holds the application context handed to every request handler:
// the loan service, the authenticator and the session manager. It is
// constructed once at startup; there are no package-level singletons.
type Server struct {
	loans         *service.LoanService
	authenticator auth.Authenticator
	sessions      *auth.SessionManager
	templates     *template.Template
}

// NewServer wires the web layer together.
func NewServer(loans *service.LoanService, authenticator auth.Authenticator, sessions *auth.SessionManager) *Server {
	return &Server{
		loans:         loans,
		authenticator: authenticator,
		sessions:      sessions,
		templates:     parseTemplates(),
	}
}

// Handler builds the route table and middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /register", s.handleRegisterForm)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)

	mux.HandleFunc("GET /logout", s.requireSession(s.handleLogout))
	mux.HandleFunc("GET /dashboard", s.requireSession(s.handleDashboard))
	mux.HandleFunc("GET /register_loan", s.requireSession(s.handleRegisterLoanForm))
	mux.HandleFunc("POST /register_loan", s.requireSession(s.handleRegisterLoan))
	mux.HandleFunc("GET /view_loan/{id}", s.requireSession(s.handleViewLoan))
	mux.HandleFunc("GET /make_payment/{id}", s.requireSession(s.handlePaymentForm))
	mux.HandleFunc("POST /make_payment/{id}", s.requireSession(s.handlePayment))

	mux.Handle("GET /metrics", promhttp.Handler())

	return withObservability(mux, mux)
}
