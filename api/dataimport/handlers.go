package dataimport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"AqsatiSaaS/api"
	"AqsatiSaaS/api/auth"
	"AqsatiSaaS/api/constants"

	"github.com/jackc/pgx/v5/pgxpool"
)

const maxUploadBytes = 32 << 20

// requireSession resolves the caller's session from the user_id form value.
func requireSession(w http.ResponseWriter, r *http.Request) *auth.UserSession {
	userID := r.FormValue("user_id")
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

func readUploadFile(w http.ResponseWriter, r *http.Request) []byte {
	file, _, err := r.FormFile("file")
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUploadFile)
		return nil
	}
	defer file.Close()
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, "Failed to read uploaded file: "+err.Error())
		return nil
	}
	return fileBytes
}

// PreviewWorkbookHandler parses an uploaded workbook and returns sheet names
// plus the first rows of each sheet. No database writes.
func PreviewWorkbookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to parse multipart form")
			return
		}
		if requireSession(w, r) == nil {
			return
		}
		fileBytes := readUploadFile(w, r)
		if fileBytes == nil {
			return
		}
		summary, err := ReadWorkbook(fileBytes)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", summary)
	}
}

// ImportDataHandler runs one full import from the uploaded workbook.
// Form fields: file, user_id, table_name, sheet_name, mappings (JSON object
// of source column -> target field).
func ImportDataHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to parse multipart form")
			return
		}
		session := requireSession(w, r)
		if session == nil {
			return
		}

		cfg := ImportConfig{
			TableName: r.FormValue("table_name"),
			SheetName: r.FormValue("sheet_name"),
		}
		if cfg.SheetName == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingSheetName)
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("mappings")), &cfg.Mappings); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidMappings)
			return
		}

		fileBytes := readUploadFile(w, r)
		if fileBytes == nil {
			return
		}

		outcome, err := RunImport(r.Context(), NewPgStore(pgxPool), fileBytes, cfg)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrUnknownTable) || errors.Is(err, ErrParse) || errors.Is(err, ErrSheetNotFound) {
				status = http.StatusBadRequest
			}
			api.RespondWithError(w, status, err.Error())
			return
		}
		api.LogInfo("import run by %s into %s: %d imported, %d skipped",
			session.Email, cfg.TableName, outcome.Imported, len(outcome.Errors)+len(outcome.CommitErrors))
		api.RespondWithPayload(w, true, "", outcome)
	}
}

// PurgeImportedDataHandler deletes imported rows, optionally only those
// created within the last older_than_hours. Admin sessions only.
func PurgeImportedDataHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID         string `json:"user_id"`
			TableName      string `json:"table_name"`
			OlderThanHours string `json:"older_than_hours"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUserID)
			return
		}
		session := auth.SessionByUserID(req.UserID)
		if session == nil {
			api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}
		if session.Role != "admin" {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrAdminOnly)
			return
		}

		olderThanHours := 0
		if req.OlderThanHours != "" {
			n, err := strconv.Atoi(req.OlderThanHours)
			if err != nil || n < 0 {
				api.RespondWithError(w, http.StatusBadRequest, "older_than_hours must be a non-negative integer")
				return
			}
			olderThanHours = n
		}

		outcome, err := PurgeImportedData(r.Context(), NewPgStore(pgxPool), req.TableName, olderThanHours)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrUnknownTable) {
				status = http.StatusBadRequest
			}
			api.RespondWithError(w, status, err.Error())
			return
		}
		api.LogInfo("purge of %s requested by %s (older_than_hours=%d)", req.TableName, session.Email, olderThanHours)
		api.RespondWithPayload(w, true, "", outcome)
	}
}

// TableFieldsHandler returns the import descriptor for a target table plus
// the live column list, for building the mapping UI.
func TableFieldsHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID    string `json:"user_id"`
			TableName string `json:"table_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUserID)
			return
		}
		if auth.SessionByUserID(req.UserID) == nil {
			api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}
		cfg, err := GetConfig(req.TableName)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrUnknownImportTable)
			return
		}
		columns, err := NewPgStore(pgxPool).TableColumns(r.Context(), req.TableName)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"config":  cfg,
			"columns": columns,
		})
	}
}
