package server

import (
	"net/http"
)

// handlePortfolioCollection handles /api/portfolios (list and create).
func (s *Server) handlePortfolioCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		portfolios, err := s.app.PortfolioService.ListPortfolios(r.Context())
		if err != nil {
			WriteSettlementError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"portfolios": portfolios,
		})

	case http.MethodPost:
		var req struct {
			Name     string `json:"name"`
			Currency string `json:"currency"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		portfolio, err := s.app.PortfolioService.CreatePortfolio(r.Context(), req.Name, req.Currency)
		if err != nil {
			WriteSettlementError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, portfolio)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handlePortfolio handles /api/portfolios/{id} (get and delete).
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		portfolio, err := s.app.PortfolioService.GetPortfolio(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, portfolio)

	case http.MethodDelete:
		if err := s.app.PortfolioService.DeletePortfolio(r.Context(), id); err != nil {
			WriteSettlementError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// handlePortfolioSummary handles GET /api/portfolios/{id}/summary.
func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.PortfolioService.Summary(r.Context(), id)
	if err != nil {
		WriteSettlementError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}
