package sales

import (
	"encoding/json"
	"net/http"

	"AqsatiSaaS/api"
	"AqsatiSaaS/api/auth"
	"AqsatiSaaS/api/constants"
	"AqsatiSaaS/api/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRequest struct {
	ID             string `json:"id"`
	SequenceNumber string `json:"sequence_number"`
	FullName       string `json:"full_name"`
	MobileNumber   string `json:"mobile_number"`
	MobileNumber2  string `json:"mobile_number2"`
	CivilID        string `json:"civil_id"`
}

// sessionFromBody validates the user_id carried in a JSON body.
func sessionFromBody(w http.ResponseWriter, userID string) *auth.UserSession {
	if userID == "" {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUserID)
		return nil
	}
	session := auth.SessionByUserID(userID)
	if session == nil {
		api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
		return nil
	}
	return session
}

// GetCustomers lists customers with their aggregate balances.
func GetCustomers(pgxPool *pgxpool.Pool) http.HandlerFunc {
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

		pagination, err := utils.ExtractPagination(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		total, err := utils.CountTotal(r.Context(), pgxPool, `SELECT COUNT(*) FROM customers`)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		pagination.SetPaginationStats(total)

		rows, err := pgxPool.Query(r.Context(), `
			SELECT c.id, COALESCE(c.sequence_number, ''), c.full_name,
			       COALESCE(c.mobile_number, ''), COALESCE(c.mobile_number2, ''),
			       COALESCE(c.civil_id, ''),
			       COALESCE(SUM(t.remaining_balance), 0)::text,
			       c.created_at
			FROM customers c
			LEFT JOIN transactions t ON t.customer_id = c.id AND t.status <> 'completed'
			GROUP BY c.id
			ORDER BY c.created_at DESC
			LIMIT $1 OFFSET $2`, pagination.Limit, pagination.Offset)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		customers := make([]map[string]interface{}, 0)
		for rows.Next() {
			var (
				id, seq, name, mobile, mobile2, civil, outstanding string
				createdAt                                          interface{}
			)
			if err := rows.Scan(&id, &seq, &name, &mobile, &mobile2, &civil, &outstanding, &createdAt); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			customers = append(customers, map[string]interface{}{
				"id":              id,
				"sequence_number": seq,
				"full_name":       name,
				"mobile_number":   mobile,
				"mobile_number2":  mobile2,
				"civil_id":        civil,
				"outstanding":     outstanding,
				"created_at":      createdAt,
			})
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"rows":       customers,
			"pagination": pagination,
		})
	}
}

// CreateCustomer inserts one customer.
func CreateCustomer(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string          `json:"user_id"`
			Row    CustomerRequest `json:"row"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if sessionFromBody(w, req.UserID) == nil {
			return
		}
		if req.Row.FullName == "" || req.Row.MobileNumber == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrCustomerCreateFailed)
			return
		}

		id := req.Row.ID
		if id == "" {
			id = uuid.New().String()
		}
		seq := req.Row.SequenceNumber
		if seq == "" {
			seq = req.Row.ID
		}

		var created string
		err := pgxPool.QueryRow(r.Context(), `
			INSERT INTO customers (id, sequence_number, full_name, mobile_number, mobile_number2, civil_id)
			VALUES ($1, NULLIF($2,''), $3, $4, NULLIF($5,''), NULLIF($6,''))
			RETURNING id`,
			id, seq, req.Row.FullName, req.Row.MobileNumber, req.Row.MobileNumber2, req.Row.CivilID,
		).Scan(&created)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{"id": created})
	}
}

// UpdateCustomer updates the editable customer fields.
func UpdateCustomer(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string          `json:"user_id"`
			Row    CustomerRequest `json:"row"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if sessionFromBody(w, req.UserID) == nil {
			return
		}
		if req.Row.ID == "" {
			api.RespondWithError(w, http.StatusBadRequest, "id is required")
			return
		}

		tag, err := pgxPool.Exec(r.Context(), `
			UPDATE customers
			SET full_name = $2, mobile_number = $3, mobile_number2 = NULLIF($4,''), civil_id = NULLIF($5,'')
			WHERE id = $1`,
			req.Row.ID, req.Row.FullName, req.Row.MobileNumber, req.Row.MobileNumber2, req.Row.CivilID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrCustomerNotFound)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}
