package contact

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the contact and event registration routes.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/api/contact", handleSubmit(svc))
	r.Post("/api/events/register", handleRegister(svc))
}

type submitResponse struct {
	Submission *Submission `json:"submission"`
	Message    string      `json:"message"`
}

type registerResponse struct {
	Registration *Registration `json:"registration"`
	CalendarURL  string        `json:"calendarUrl,omitempty"`
}

func handleSubmit(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f SubmissionFields
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		sub, err := svc.Submit(r.Context(), f)
		var missing *MissingFieldsError
		if errors.As(err, &missing) {
			writeError(w, http.StatusBadRequest, missing.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, submitResponse{Submission: sub, Message: ThankYou(sub)})
	}
}

func handleRegister(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f RegistrationFields
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		reg, err := svc.Register(r.Context(), f)
		var missing *MissingFieldsError
		if errors.As(err, &missing) {
			writeError(w, http.StatusBadRequest, missing.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp := registerResponse{Registration: reg}
		if reg.Start != nil {
			resp.CalendarURL = CalendarURL(reg.Event, *reg.Start, reg.Location)
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// ThankYou is the confirmation shown after a contact submission.
func ThankYou(sub *Submission) string {
	return "Thank you, " + sub.Name + "! Your message has been sent. We'll get back to you at " + sub.Email + " soon."
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
