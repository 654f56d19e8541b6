package server

import (
	"net/http"
	"strings"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Portfolios
	mux.HandleFunc("/api/portfolios/", s.routePortfolios)
	mux.HandleFunc("/api/portfolios", s.handlePortfolioCollection)

	// Assets
	mux.HandleFunc("/api/assets/", s.routeAssets)
}

// routePortfolios dispatches /api/portfolios/{id}[/...] requests.
func (s *Server) routePortfolios(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/portfolios/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		s.handlePortfolio(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "summary":
		s.handlePortfolioSummary(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "assets":
		s.handlePortfolioAssets(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "import":
		s.handlePortfolioImport(w, r, parts[0])
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routeAssets dispatches /api/assets/{id}[/transactions[/{txid}]] requests.
func (s *Server) routeAssets(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/assets/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		s.handleAsset(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "transactions":
		s.handleAssetTransactions(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "transactions":
		s.handleAssetTransaction(w, r, parts[0], parts[2])
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}
