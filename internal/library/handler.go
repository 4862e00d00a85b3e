package library

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/rig/internal/engine"
	"github.com/inamate/rig/internal/store"
)

type Handler struct {
	service   *Service
	maxUpload int64
}

func NewHandler(service *Service, maxUpload int64) *Handler {
	return &Handler{service: service, maxUpload: maxUpload}
}

// Routes registers the skeleton endpoints on r. Uploads and deletes go
// through requireAuth. Write routes also match OPTIONS so CORS preflights
// reach the router's middleware.
func (h *Handler) Routes(r *mux.Router, requireAuth mux.MiddlewareFunc) {
	r.HandleFunc("/skeletons", h.List).Methods(http.MethodGet)
	r.Handle("/skeletons", requireAuth(http.HandlerFunc(h.Create))).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/skeletons/{id}", h.Get).Methods(http.MethodGet)
	r.Handle("/skeletons/{id}", requireAuth(http.HandlerFunc(h.Delete))).Methods(http.MethodDelete, http.MethodOptions)
	r.HandleFunc("/skeletons/{id}/data", h.Data).Methods(http.MethodGet)
	r.HandleFunc("/skeletons/{id}/pose", h.Pose).Methods(http.MethodPost, http.MethodOptions)
}

// Create handles POST /skeletons?name=. The body is a binary or JSON
// skeleton.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "skeleton too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	summary, err := h.service.Create(r.Context(), r.URL.Query().Get("name"), data)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Data handles GET /skeletons/{id}/data, returning the uploaded bytes.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Raw(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	contentType := "application/octet-stream"
	if rec.Format == store.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Data)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Pose(w http.ResponseWriter, r *http.Request) {
	var req engine.Pose
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	frame, err := h.service.Pose(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, frame)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidSkeleton), errors.Is(err, ErrInvalidPose):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
