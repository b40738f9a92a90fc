package sales

import (
	"encoding/json"
	"net/http"
	"strings"

	"AqsatiSaaS/api"
	"AqsatiSaaS/api/constants"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type TransactionRequest struct {
	ID                   string `json:"id"`
	SequenceNumber       string `json:"sequence_number"`
	CustomerID           string `json:"customer_id"`
	CostPrice            string `json:"cost_price"`
	ExtraPrice           string `json:"extra_price"`
	InstallmentAmount    string `json:"installment_amount"`
	NumberOfInstallments int    `json:"number_of_installments"`
	StartDate            string `json:"start_date"`
	Notes                string `json:"notes"`
}

// GetTransactions lists transactions joined with the customer name.
func GetTransactions(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if sessionFromBody(w, req.UserID) == nil {
			return
		}

		rows, err := pgxPool.Query(r.Context(), `
			SELECT t.id, COALESCE(t.sequence_number, ''), t.customer_id, c.full_name,
			       t.amount::text, t.remaining_balance::text,
			       t.installment_amount::text, COALESCE(t.number_of_installments, 0),
			       COALESCE(t.start_date::text, ''), t.status,
			       COALESCE(t.has_legal_case, false),
			       COALESCE(t.overdue_installments, 0), COALESCE(t.overdue_amount, 0)::text,
			       t.created_at
			FROM transactions t
			JOIN customers c ON c.id = t.customer_id
			ORDER BY t.created_at DESC`)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var (
				id, seq, customerID, customerName        string
				amount, remaining, installment, startStr string
				status, overdueAmount                    string
				installments, overdueInstallments        int
				hasLegalCase                             bool
				createdAt                                interface{}
			)
			if err := rows.Scan(&id, &seq, &customerID, &customerName, &amount, &remaining,
				&installment, &installments, &startStr, &status, &hasLegalCase,
				&overdueInstallments, &overdueAmount, &createdAt); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			out = append(out, map[string]interface{}{
				"id":                     id,
				"sequence_number":        seq,
				"customer_id":            customerID,
				"customer_name":          customerName,
				"amount":                 amount,
				"remaining_balance":      remaining,
				"installment_amount":     installment,
				"number_of_installments": installments,
				"start_date":             startStr,
				"status":                 status,
				"has_legal_case":         hasLegalCase,
				"overdue_installments":   overdueInstallments,
				"overdue_amount":         overdueAmount,
				"created_at":             createdAt,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// CreateTransaction inserts one sale on credit. The total amount and the
// opening remaining balance derive from cost + extra, same as the import
// pipeline.
func CreateTransaction(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string             `json:"user_id"`
			Row    TransactionRequest `json:"row"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if sessionFromBody(w, req.UserID) == nil {
			return
		}

		cost, err1 := decimal.NewFromString(req.Row.CostPrice)
		extra, err2 := decimal.NewFromString(req.Row.ExtraPrice)
		installment, err3 := decimal.NewFromString(req.Row.InstallmentAmount)
		if err1 != nil || err2 != nil || err3 != nil || cost.IsNegative() || extra.IsNegative() || installment.IsNegative() {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidAmount)
			return
		}
		if req.Row.CustomerID == "" || req.Row.StartDate == "" {
			api.RespondWithError(w, http.StatusBadRequest, "customer_id and start_date are required")
			return
		}
		amount := cost.Add(extra)

		var id string
		err := pgxPool.QueryRow(r.Context(), `
			INSERT INTO transactions
				(sequence_number, customer_id, cost_price, extra_price, amount, remaining_balance,
				 installment_amount, number_of_installments, start_date, notes, status)
			VALUES (NULLIF($1,''), $2, $3::numeric, $4::numeric, $5::numeric, $5::numeric,
				 $6::numeric, $7, $8::date, NULLIF($9,''), 'active')
			RETURNING id`,
			req.Row.SequenceNumber, req.Row.CustomerID, cost.String(), extra.String(), amount.String(),
			installment.String(), req.Row.NumberOfInstallments, req.Row.StartDate, req.Row.Notes,
		).Scan(&id)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{"id": id, "amount": amount.String()})
	}
}

// UpdateTransaction updates notes and the legal-case flag. Financial fields
// are immutable once the sale exists; corrections go through purge+reimport.
func UpdateTransaction(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID           string `json:"user_id"`
			ID               string `json:"id"`
			Notes            string `json:"notes"`
			HasLegalCase     bool   `json:"has_legal_case"`
			LegalCaseDetails string `json:"legal_case_details"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if sessionFromBody(w, req.UserID) == nil {
			return
		}

		tag, err := pgxPool.Exec(r.Context(), `
			UPDATE transactions
			SET notes = NULLIF($2,''), has_legal_case = $3, legal_case_details = NULLIF($4,''),
			    status = CASE WHEN $3 THEN 'legal_case' ELSE status END
			WHERE id = $1`,
			req.ID, req.Notes, req.HasLegalCase, req.LegalCaseDetails)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrTransactionNotFound)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// DeleteTransaction removes a transaction and its payments.
func DeleteTransaction(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
			ID     string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		session := sessionFromBody(w, req.UserID)
		if session == nil {
			return
		}
		if session.Role != "admin" {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrAdminOnly)
			return
		}

		tx, err := pgxPool.Begin(r.Context())
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer tx.Rollback(r.Context())

		if _, err := tx.Exec(r.Context(), `DELETE FROM payments WHERE transaction_id = $1`, req.ID); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		tag, err := tx.Exec(r.Context(), `DELETE FROM transactions WHERE id = $1`, req.ID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrTransactionNotFound)
			return
		}
		if err := tx.Commit(r.Context()); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// SearchTransactions finds open transactions by sequence number or customer
// name; the payment form uses it to pick the target sale.
func SearchTransactions(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
			Query  string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if sessionFromBody(w, req.UserID) == nil {
			return
		}
		q := strings.TrimSpace(req.Query)
		if q == "" {
			api.RespondWithPayload(w, true, "", []interface{}{})
			return
		}

		rows, err := pgxPool.Query(r.Context(), `
			SELECT t.id, COALESCE(t.sequence_number, ''), c.full_name,
			       t.remaining_balance::text, t.installment_amount::text
			FROM transactions t
			JOIN customers c ON c.id = t.customer_id
			WHERE t.remaining_balance > 0
			  AND (t.sequence_number::text ILIKE '%' || $1 || '%' OR c.full_name ILIKE '%' || $1 || '%')
			ORDER BY t.created_at DESC
			LIMIT 20`, q)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, seq, name, remaining, installment string
			if err := rows.Scan(&id, &seq, &name, &remaining, &installment); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			out = append(out, map[string]interface{}{
				"id":                 id,
				"sequence_number":    seq,
				"customer_name":      name,
				"remaining_balance":  remaining,
				"installment_amount": installment,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}
