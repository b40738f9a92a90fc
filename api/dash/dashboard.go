package dash

import (
	"encoding/json"
	"net/http"

	"AqsatiSaaS/api"
	"AqsatiSaaS/api/auth"
	"AqsatiSaaS/api/constants"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardStats is the landing-page summary card set.
type DashboardStats struct {
	TotalCustomers          int    `json:"total_customers"`
	TotalActiveTransactions int    `json:"total_active_transactions"`
	TotalRevenue            string `json:"total_revenue"`
	TotalOutstanding        string `json:"total_outstanding"`
	TotalOverdue            string `json:"total_overdue"`
	OverdueTransactions     int    `json:"overdue_transactions"`
}

// GetDashboardStats aggregates the console's landing-page numbers in one
// round trip.
func GetDashboardStats(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUserID)
			return
		}
		if auth.SessionByUserID(req.UserID) == nil {
			api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}

		var stats DashboardStats
		err := pgxPool.QueryRow(r.Context(), `
			SELECT
				(SELECT COUNT(*) FROM customers),
				(SELECT COUNT(*) FROM transactions WHERE remaining_balance > 0),
				COALESCE(SUM(amount), 0)::text,
				COALESCE(SUM(remaining_balance), 0)::text,
				COALESCE(SUM(overdue_amount), 0)::text,
				COUNT(*) FILTER (WHERE overdue_amount > 0)
			FROM transactions`).Scan(
			&stats.TotalCustomers,
			&stats.TotalActiveTransactions,
			&stats.TotalRevenue,
			&stats.TotalOutstanding,
			&stats.TotalOverdue,
			&stats.OverdueTransactions,
		)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", stats)
	}
}
