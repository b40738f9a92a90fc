package sales

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"AqsatiSaaS/api"
	"AqsatiSaaS/api/constants"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Proof-of-payment documents live in a Supabase Storage bucket; only the
// object path is persisted on the payment row.

func computeSHA256(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

func storageConfig() (baseURL, bucket, key string, err error) {
	baseURL = strings.Trim(os.Getenv("SUPABASE_URL"), "\"")
	bucket = strings.Trim(os.Getenv("SUPABASE_BUCKET"), "\"")
	key = strings.Trim(os.Getenv("SUPABASE_SERVICE_ROLE_KEY"), "\"")
	if key == "" {
		key = strings.Trim(os.Getenv("SUPABASE_ANON_KEY"), "\"")
	}
	if baseURL == "" || bucket == "" || key == "" {
		return "", "", "", fmt.Errorf("storage configuration missing; set SUPABASE_URL, SUPABASE_BUCKET and a key")
	}
	return baseURL, bucket, key, nil
}

// uploadToStorage PUTs fileBytes to /storage/v1/object/{bucket}/{path}.
func uploadToStorage(ctx context.Context, fileBytes []byte, objectPath, contentType string) error {
	baseURL, bucket, key, err := storageConfig()
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", strings.TrimRight(baseURL, "/"), bucket, url.PathEscape(objectPath))
	req, err := http.NewRequestWithContext(ctx, "PUT", u, bytes.NewReader(fileBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("apikey", key)
	req.Header.Set(constants.ContentTypeText, contentType)

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("storage upload failed: %d %s", resp.StatusCode, string(b))
}

func contentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// UploadProofHandler attaches a proof document to a payment. Multipart form:
// file, user_id, payment_id.
func UploadProofHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to parse multipart form")
			return
		}
		session := sessionFromBody(w, r.FormValue("user_id"))
		if session == nil {
			return
		}
		paymentID := r.FormValue("payment_id")
		if paymentID == "" {
			api.RespondWithError(w, http.StatusBadRequest, "payment_id is required")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUploadFile)
			return
		}
		defer file.Close()
		fileBytes, err := io.ReadAll(file)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		ext := filepath.Ext(header.Filename)
		objectPath := fmt.Sprintf("payment-proofs/%s/%s%s", paymentID, uuid.New().String(), ext)
		if err := uploadToStorage(r.Context(), fileBytes, objectPath, contentTypeForExt(ext)); err != nil {
			api.RespondWithError(w, http.StatusBadGateway, err.Error())
			return
		}

		tag, err := pgxPool.Exec(r.Context(),
			`UPDATE payments SET proof_document = $2 WHERE id = $1`, paymentID, objectPath)
		if err != nil || tag.RowsAffected() == 0 {
			if err == nil {
				err = fmt.Errorf("payment %s not found", paymentID)
			}
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.LogInfo("proof %s (sha256 %s) attached to payment %s by %s",
			objectPath, computeSHA256(fileBytes)[:12], paymentID, session.Email)
		api.RespondWithPayload(w, true, "", map[string]interface{}{"storage_path": objectPath})
	}
}

// DownloadProofHandler streams a payment's proof document back to the client.
func DownloadProofHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		paymentID := r.URL.Query().Get("payment_id")
		if sessionFromBody(w, userID) == nil {
			return
		}

		var objectPath string
		err := pgxPool.QueryRow(r.Context(),
			`SELECT proof_document FROM payments WHERE id = $1`, paymentID).Scan(&objectPath)
		if err != nil || objectPath == "" {
			api.RespondWithError(w, http.StatusNotFound, "No proof document for this payment")
			return
		}

		baseURL, bucket, key, err := storageConfig()
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		u := fmt.Sprintf("%s/storage/v1/object/%s/%s", strings.TrimRight(baseURL, "/"), bucket, url.PathEscape(objectPath))
		req, err := http.NewRequestWithContext(r.Context(), "GET", u, nil)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		req.Header.Set("Authorization", "Bearer "+key)
		req.Header.Set("apikey", key)

		client := &http.Client{Timeout: 60 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, err.Error())
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			api.RespondWithError(w, http.StatusBadGateway, fmt.Sprintf("storage download failed: %d", resp.StatusCode))
			return
		}
		w.Header().Set(constants.ContentTypeText, resp.Header.Get(constants.ContentTypeText))
		w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(objectPath))
		io.Copy(w, resp.Body)
	}
}
