package server

import (
	"net/http"
	"time"

	"github.com/kellanreed/folio/internal/models"
)

// handleAssetTransactions handles /api/assets/{id}/transactions (list and settle).
func (s *Server) handleAssetTransactions(w http.ResponseWriter, r *http.Request, assetID string) {
	switch r.Method {
	case http.MethodGet:
		txs, err := s.app.AssetService.ListTransactions(r.Context(), assetID)
		if err != nil {
			WriteSettlementError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"transactions": txs,
		})

	case http.MethodPost:
		var req struct {
			Type            models.TransactionType `json:"type"`
			Amount          float64                `json:"amount"`
			Price           float64                `json:"price"`
			Date            time.Time              `json:"date"`
			TransactionCost float64                `json:"transaction_cost"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}

		result, err := s.app.AssetService.CreateTransaction(r.Context(), assetID, models.TransactionInput{
			Type:            req.Type,
			Amount:          req.Amount,
			Price:           req.Price,
			Date:            req.Date,
			TransactionCost: req.TransactionCost,
		})
		if err != nil {
			WriteSettlementError(w, err)
			return
		}

		WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"transaction": result.Transaction,
			"asset":       result.UpdatedAsset,
			"method":      result.Method,
		})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleAssetTransaction handles DELETE /api/assets/{id}/transactions/{txid}.
// Corrections are modeled as delete plus recreate; the response carries the
// rebuilt asset state.
func (s *Server) handleAssetTransaction(w http.ResponseWriter, r *http.Request, assetID, transactionID string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	rebuilt, err := s.app.AssetService.DeleteTransaction(r.Context(), assetID, transactionID)
	if err != nil {
		WriteSettlementError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "deleted",
		"asset":  rebuilt,
	})
}
