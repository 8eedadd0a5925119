package handler

import (
	"net/http"
	"time"

	"github.com/pep299/review-summarizer/internal/transport/response"
)

// Health serves GET /healthz
type Health struct {
	model   string
	version string
}

func NewHealth(model, version string) *Health {
	return &Health{model: model, version: version}
}

type healthResponse struct {
	Status    string `json:"status"`
	Model     string `json:"model"`
	Version   string `json:"version"`
	Timestamp int64  `json:"timestamp"`
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Model:     h.model,
		Version:   h.version,
		Timestamp: time.Now().Unix(),
	})
}
