package expense

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// jsonError writes a JSON error body with CORS headers set
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleScan accepts a receipt image upload and returns the analyzed fields.
// Analysis failures are contained by the tracker, so this always answers 200
// with a usable record once the upload itself is readable.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	// 50MB cap to handle high-resolution phone photos
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if err.Error() == "http: no such file" {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		jsonError(w, "File is too large. Maximum size is 50MB. Please compress or resize your image.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		switch ext {
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		case ".png":
			contentType = "image/png"
		case ".pdf":
			contentType = "application/pdf"
		case ".heic":
			contentType = "image/heic"
		case ".heif":
			contentType = "image/heif"
		default:
			contentType = "application/octet-stream"
		}
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	result := s.tracker.Scan(data, contentType)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleConfirm finalizes a reviewed form into a transaction
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var form ScanResult
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tx, delivery, err := s.tracker.Confirm(form)
	switch {
	case errors.Is(err, ErrSaveInProgress):
		jsonError(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	response := map[string]interface{}{
		"transaction": tx,
		"sync":        delivery,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleListTransactions returns the session list, newest first
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions := s.tracker.Transactions()

	// Ensure we always return an array, not nil
	if transactions == nil {
		transactions = []*Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(transactions); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleListCategories returns the fixed category vocabulary
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(CategoryLabels()); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetSettings returns the configured webhook URL
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	url, err := s.tracker.SheetURL()
	if err != nil {
		slog.Error("Error loading settings", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"sheetUrl": url}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleSaveSettings overwrites the configured webhook URL
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SheetURL string `json:"sheetUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.tracker.SetSheetURL(req.SheetURL); err != nil {
		slog.Error("Error saving settings", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleStaticCSS serves the CSS file
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/css")
	w.Write(appCSS)
}

// handleStaticJS serves the JavaScript file
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}
