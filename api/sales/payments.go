package sales

import (
	"encoding/json"
	"net/http"

	"AqsatiSaaS/api"
	"AqsatiSaaS/api/constants"
	"AqsatiSaaS/api/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// GetPayments lists recorded payments, optionally for one transaction.
func GetPayments(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID        string `json:"user_id"`
			TransactionID string `json:"transaction_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if sessionFromBody(w, req.UserID) == nil {
			return
		}

		pagination, err := utils.ExtractPagination(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		total, err := utils.CountTotal(r.Context(), pgxPool,
			`SELECT COUNT(*) FROM payments WHERE ($1 = '' OR transaction_id = $1::uuid)`, req.TransactionID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		pagination.SetPaginationStats(total)

		rows, err := pgxPool.Query(r.Context(), `
			SELECT p.id, p.transaction_id, COALESCE(t.sequence_number, ''), c.full_name,
			       p.amount::text, p.payment_date::text,
			       COALESCE(p.balance_before, 0)::text, COALESCE(p.balance_after, 0)::text,
			       COALESCE(p.notes, ''), COALESCE(p.proof_document, ''), p.created_at
			FROM payments p
			JOIN transactions t ON t.id = p.transaction_id
			JOIN customers c ON c.id = t.customer_id
			WHERE ($1 = '' OR p.transaction_id = $1::uuid)
			ORDER BY p.created_at DESC
			LIMIT $2 OFFSET $3`, req.TransactionID, pagination.Limit, pagination.Offset)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var (
				id, txID, seq, name, amount, date  string
				before, after, notes, proofDocPath string
				createdAt                          interface{}
			)
			if err := rows.Scan(&id, &txID, &seq, &name, &amount, &date, &before, &after, &notes, &proofDocPath, &createdAt); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			out = append(out, map[string]interface{}{
				"id":              id,
				"transaction_id":  txID,
				"sequence_number": seq,
				"customer_name":   name,
				"amount":          amount,
				"payment_date":    date,
				"balance_before":  before,
				"balance_after":   after,
				"notes":           notes,
				"proof_document":  proofDocPath,
				"created_at":      createdAt,
			})
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"rows":       out,
			"pagination": pagination,
		})
	}
}

// RecordPayment routes one payment through the record_payment procedure. The
// procedure recomputes the transaction's remaining balance and rejects a
// payment exceeding it; its message is surfaced to the caller verbatim.
func RecordPayment(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID        string `json:"user_id"`
			TransactionID string `json:"transaction_id"`
			Amount        string `json:"amount"`
			PaymentDate   string `json:"payment_date"`
			Notes         string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		session := sessionFromBody(w, req.UserID)
		if session == nil {
			return
		}

		amount, err := decimal.NewFromString(req.Amount)
		if err != nil || amount.IsNegative() || amount.IsZero() {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidAmount)
			return
		}
		if req.TransactionID == "" || req.PaymentDate == "" {
			api.RespondWithError(w, http.StatusBadRequest, "transaction_id and payment_date are required")
			return
		}

		_, err = pgxPool.Exec(r.Context(),
			`SELECT record_payment($1, $2::numeric, $3::date)`,
			req.TransactionID, amount.String(), req.PaymentDate)
		if err != nil {
			api.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if req.Notes != "" {
			// Notes are cosmetic; attach them to the newest payment row.
			_, _ = pgxPool.Exec(r.Context(), `
				UPDATE payments SET notes = $2
				WHERE id = (SELECT id FROM payments WHERE transaction_id = $1 ORDER BY created_at DESC LIMIT 1)`,
				req.TransactionID, req.Notes)
		}
		api.LogInfo("payment of %s recorded on %s by %s", amount.String(), req.TransactionID, session.Email)
		api.RespondWithResult(w, true, "")
	}
}
