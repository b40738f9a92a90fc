package uam

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"AqsatiSaaS/api"
	"AqsatiSaaS/api/auth"
	"AqsatiSaaS/api/constants"

	"github.com/google/uuid"
)

// Application roles, mirroring the app_role enum in the store.
var validRoles = map[string]bool{
	"admin": true,
	"staff": true,
	"user":  true,
}

func requireAdmin(w http.ResponseWriter, userID string) *auth.UserSession {
	if userID == "" {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUserID)
		return nil
	}
	session := auth.SessionByUserID(userID)
	if session == nil {
		api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
		return nil
	}
	if session.Role != "admin" {
		api.RespondWithError(w, http.StatusForbidden, constants.ErrAdminOnly)
		return nil
	}
	return session
}

// GetUsers lists console users with their role.
func GetUsers(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if requireAdmin(w, req.UserID) == nil {
			return
		}

		rows, err := db.QueryContext(r.Context(), `
			SELECT u.id, u.full_name, u.email, COALESCE(r.role, 'user'), u.created_at
			FROM users u
			LEFT JOIN user_roles r ON u.id = r.user_id
			ORDER BY u.created_at`)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		users := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, name, email, role string
			var createdAt sql.NullTime
			if err := rows.Scan(&id, &name, &email, &role, &createdAt); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			users = append(users, map[string]interface{}{
				"id":         id,
				"full_name":  name,
				"email":      email,
				"role":       role,
				"created_at": createdAt.Time,
			})
		}
		api.RespondWithPayload(w, true, "", users)
	}
}

// CreateUser inserts a console user with a default role. Password hashing is
// done server-side with pgcrypto, same scheme the login query checks.
func CreateUser(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID   string `json:"user_id"`
			FullName string `json:"full_name"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		session := requireAdmin(w, req.UserID)
		if session == nil {
			return
		}
		if req.Email == "" || req.Password == "" || req.FullName == "" {
			api.RespondWithError(w, http.StatusBadRequest, "full_name, email and password are required")
			return
		}
		role := req.Role
		if role == "" {
			role = "user"
		}
		if !validRoles[role] {
			api.RespondWithError(w, http.StatusBadRequest, "role must be one of admin, staff, user")
			return
		}

		newID := uuid.New().String()
		tx, err := db.BeginTx(r.Context(), nil)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO users (id, full_name, email, password)
			VALUES ($1, $2, $3, crypt($4, gen_salt('bf')))`,
			newID, req.FullName, req.Email, req.Password)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		_, err = tx.ExecContext(r.Context(),
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, newID, role)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := tx.Commit(); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.LogInfo("user %s created with role %s by %s", req.Email, role, session.Email)
		api.RespondWithPayload(w, true, "", map[string]interface{}{"id": newID})
	}
}

// UpdateUserRole changes a user's application role.
func UpdateUserRole(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID       string `json:"user_id"`
			TargetUserID string `json:"target_user_id"`
			Role         string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		session := requireAdmin(w, req.UserID)
		if session == nil {
			return
		}
		if !validRoles[req.Role] {
			api.RespondWithError(w, http.StatusBadRequest, "role must be one of admin, staff, user")
			return
		}
		if req.TargetUserID == session.UserID {
			api.RespondWithError(w, http.StatusBadRequest, "Cannot change your own role")
			return
		}

		res, err := db.ExecContext(r.Context(), `
			INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`,
			req.TargetUserID, req.Role)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			api.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		api.LogInfo("role of %s set to %s by %s", req.TargetUserID, req.Role, session.Email)
		api.RespondWithResult(w, true, "")
	}
}
