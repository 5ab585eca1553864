package contact

import (
	"strings"
	"time"
)

// Submission is a message sent through the contact form.
type Submission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// SubmissionFields are the raw contact form values.
type SubmissionFields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Registration records a sign-up for an event.
type Registration struct {
	ConfirmationID string     `json:"confirmationId"`
	Event          string     `json:"event"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Start          *time.Time `json:"start,omitempty"`
	Location       string     `json:"location,omitempty"`
	RegisteredAt   time.Time  `json:"registeredAt"`
}

// RegistrationFields are the raw registration form values. Start and
// Location describe the event and are optional.
type RegistrationFields struct {
	Event    string     `json:"event"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Notes    string     `json:"notes"`
	Start    *time.Time `json:"start,omitempty"`
	Location string     `json:"location"`
}

// MissingFieldsError names the required fields left empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "please fill in all fields: " + strings.Join(e.Fields, ", ")
}

func required(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
