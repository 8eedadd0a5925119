package response

import (
	"encoding/json"
	"net/http"

	"github.com/pep299/review-summarizer/internal/apperr"
)

// Summary is the body of a successful summarize response
type Summary struct {
	Summary string `json:"summary"`
}

// Detail is the body of every error response
type Detail struct {
	Detail string `json:"detail"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(body)
}

// WriteSummary writes a 200 response carrying the summary
func WriteSummary(w http.ResponseWriter, summary string) error {
	return WriteJSON(w, http.StatusOK, Summary{Summary: summary})
}

// WriteDetail writes an error response with a detail message
func WriteDetail(w http.ResponseWriter, statusCode int, detail string) error {
	return WriteJSON(w, statusCode, Detail{Detail: detail})
}

// WriteError maps err to a status code and detail and writes it.
// It returns the status code written.
func WriteError(w http.ResponseWriter, err error, legacy bool) int {
	statusCode, detail := apperr.Status(err, legacy)
	_ = WriteDetail(w, statusCode, detail)
	return statusCode
}

// WriteMethodNotAllowed writes a 405 Method Not Allowed error
func WriteMethodNotAllowed(w http.ResponseWriter) error {
	return WriteDetail(w, http.StatusMethodNotAllowed, apperr.MsgMethodNotAllowed)
}
