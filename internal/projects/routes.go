package projects

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innovation-earth/iepsite/internal/notify"
)

// RegisterRoutes mounts the projects API routes.
func RegisterRoutes(r chi.Router, repo *Repository) {
	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", handleList(repo))
		r.Post("/", handleCreate(repo))
		r.Post("/image", handleImage())
		r.Delete("/{id}", handleDelete(repo))
	})
}

type createResponse struct {
	Project *Project              `json:"project"`
	Notices []notify.Notification `json:"notices"`
}

type deleteResponse struct {
	Status  string                `json:"status"`
	Notices []notify.Notification `json:"notices"`
}

func handleList(repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := repo.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func handleCreate(repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f Fields
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var notices notify.Recorder
		ctx := notify.WithNotifier(r.Context(), &notices)
		created, err := repo.Create(ctx, f)
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, createResponse{Project: created, Notices: notices.Drain()})
	}
}

func handleDelete(repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var notices notify.Recorder
		ctx := notify.WithNotifier(r.Context(), &notices)
		err := repo.Delete(ctx, chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotDeleted) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, deleteResponse{Status: "deleted", Notices: notices.Drain()})
	}
}

func handleImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 2*MaxImageBytes)
		file, header, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "image file is required")
			return
		}
		defer file.Close()

		dataURL, err := ReadImage(file, header.Size, header.Header.Get("Content-Type"))
		if errors.Is(err, ErrImageTooLarge) || errors.Is(err, ErrImageType) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"imageUrl": dataURL})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
