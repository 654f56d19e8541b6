package server

import (
	"net/http"

	"github.com/kellanreed/folio/internal/interfaces"
	"github.com/kellanreed/folio/internal/models"
)

// handlePortfolioAssets handles /api/portfolios/{id}/assets (list and create).
func (s *Server) handlePortfolioAssets(w http.ResponseWriter, r *http.Request, portfolioID string) {
	// Ownership check before touching assets.
	if _, err := s.app.PortfolioService.GetPortfolio(r.Context(), portfolioID); err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		assets, err := s.app.AssetService.ListAssets(r.Context(), portfolioID)
		if err != nil {
			WriteSettlementError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"assets": assets,
		})

	case http.MethodPost:
		var req struct {
			Symbol   string           `json:"symbol"`
			Type     models.AssetType `json:"type"`
			Currency string           `json:"currency"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		asset, err := s.app.AssetService.CreateAsset(r.Context(), portfolioID, req.Symbol, req.Type, req.Currency)
		if err != nil {
			WriteSettlementError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, asset)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handlePortfolioImport handles POST /api/portfolios/{id}/import.
func (s *Server) handlePortfolioImport(w http.ResponseWriter, r *http.Request, portfolioID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if _, err := s.app.PortfolioService.GetPortfolio(r.Context(), portfolioID); err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	var req interfaces.ImportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.AssetService.BulkImport(r.Context(), portfolioID, req)
	if err != nil {
		WriteSettlementError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, result)
}

// handleAsset handles /api/assets/{id} (get with history, delete).
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		detail, err := s.app.AssetService.GetAsset(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, detail)

	case http.MethodDelete:
		if err := s.app.AssetService.DeleteAsset(r.Context(), id); err != nil {
			WriteSettlementError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}
