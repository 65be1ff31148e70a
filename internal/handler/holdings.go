package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/finboard/finboard/internal/finance"
	"github.com/finboard/finboard/internal/models"
	"github.com/google/uuid"
)

// HandleHoldings handles GET, POST, and DELETE requests for portfolio holdings.
// GET responses include current values from the configured price source.
func (d *Dependencies) HandleHoldings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		slog.Info("fetching holdings", "method", r.Method, "path", r.URL.Path)
		holdings, err := d.Database.GetHoldings(r.Context())
		if err != nil {
			slog.Error("failed to get holdings", "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to get holdings: "+err.Error())
			return
		}

		valued, warnings := finance.ValuePortfolio(holdings, d.Prices.Price)
		for _, warn := range warnings {
			slog.Warn("no price available for holding", "symbol", warn.Symbol)
		}
		slog.Info("successfully retrieved holdings", "count", len(valued))
		WriteJSON(w, http.StatusOK, valued)

	case http.MethodPost:
		slog.Info("saving holding", "method", r.Method, "path", r.URL.Path)
		var holding models.Holding
		if err := json.NewDecoder(r.Body).Decode(&holding); err != nil {
			slog.Warn("invalid holding request body", "error", err)
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if holding.Symbol == "" {
			WriteError(w, http.StatusBadRequest, "Missing symbol")
			return
		}
		if holding.ID == "" {
			holding.ID = uuid.New().String()
		}

		if err := d.Database.SaveHolding(r.Context(), holding); err != nil {
			slog.Error("failed to save holding", "symbol", holding.Symbol, "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to save holding: "+err.Error())
			return
		}

		slog.Info("successfully saved holding", "symbol", holding.Symbol, "id", holding.ID)
		WriteJSON(w, http.StatusOK, holding)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "Missing holding ID")
			return
		}

		slog.Info("deleting holding", "id", id)
		if err := d.Database.DeleteHolding(r.Context(), id); err != nil {
			slog.Error("failed to delete holding", "id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to delete holding: "+err.Error())
			return
		}

		slog.Info("successfully deleted holding", "id", id)
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
