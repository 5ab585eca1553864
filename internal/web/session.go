package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/innovation-earth/iepsite/internal/contact"
	"github.com/innovation-earth/iepsite/internal/logging"
	"github.com/innovation-earth/iepsite/internal/notify"
	"github.com/innovation-earth/iepsite/internal/projects"
	"github.com/innovation-earth/iepsite/internal/render"
	"github.com/innovation-earth/iepsite/internal/sections"
)

// maxMessageBytes bounds one inbound message: a 5MB image after base64
// encoding plus the JSON around it.
const maxMessageBytes = 7 << 20

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Region targets in the page.
const (
	regionProjects    = "projects-container"
	regionInitiatives = "initiatives-container"
)

// Inbound is a browser event sent over the session socket.
type Inbound struct {
	Type         string                      `json:"type"`
	Section      string                      `json:"section,omitempty"`
	Path         string                      `json:"path,omitempty"`
	Fragment     string                      `json:"fragment,omitempty"`
	ID           string                      `json:"id,omitempty"`
	Tag          string                      `json:"tag,omitempty"`
	Status       string                      `json:"status,omitempty"`
	Reason       string                      `json:"reason,omitempty"`
	Form         *FormInput                  `json:"form,omitempty"`
	Image        *ImageInput                 `json:"image,omitempty"`
	Contact      *contact.SubmissionFields   `json:"contact,omitempty"`
	Registration *contact.RegistrationFields `json:"registration,omitempty"`
}

// ImageInput is a file picked in the admin form, base64 encoded.
type ImageInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Data string `json:"data"`
}

// Directive is a page change sent back to the browser.
type Directive struct {
	Type      string     `json:"type"`
	Section   string     `json:"section,omitempty"`
	Highlight string     `json:"highlight,omitempty"`
	URL       string     `json:"url,omitempty"`
	History   string     `json:"history,omitempty"`
	Scroll    bool       `json:"scroll,omitempty"`
	Target    string     `json:"target,omitempty"`
	HTML      string     `json:"html,omitempty"`
	Message   string     `json:"message,omitempty"`
	Kind      string     `json:"kind,omitempty"`
	Open      *bool      `json:"open,omitempty"`
	Form      *FormState `json:"form,omitempty"`
	Reset     bool       `json:"reset,omitempty"`
	Value     string     `json:"value,omitempty"`
	Link      string     `json:"link,omitempty"`
}

type handlerFunc func(ctx context.Context, msg Inbound) error

// session is the server side of one open page. Messages are handled one at
// a time in arrival order; project list loads run in the background so a
// slow store never holds up later messages.
type session struct {
	id          string
	site        *Site
	send        func(Directive) error
	log         logging.Logger
	controller  *sections.Controller
	admin       *AdminPanel
	list        *render.ListRenderer
	handlers    map[string]handlerFunc
	initialized bool
	loads       sync.WaitGroup
}

func (s *Site) newSession(send func(Directive) error) *session {
	sess := &session{
		id:    uuid.NewString(),
		site:  s,
		send:  send,
		admin: NewAdminPanel(),
	}
	sess.log = s.log.With(logging.String("session", sess.id))

	var state sections.StateStore
	if s.opts.Local != nil {
		state = s.opts.Local
	}
	sess.list = render.NewListRenderer(s.opts.Projects, render.RegionFunc(sess.region(regionProjects)), s.opts.Views, sess.log)
	sess.controller = sections.NewController(state, sess.log,
		sections.WithNav(sections.Home, sections.About, sections.Projects, sections.Competitions, sections.Join, sections.Contact),
		sections.WithLoader(sections.Projects, sess.loadProjects),
		sections.WithLoader(sections.Initiatives, sess.loadInitiatives),
	)

	sess.handlers = map[string]handlerFunc{
		"init":          sess.onInit,
		"navigate":      sess.onNavigate,
		"popstate":      sess.onPopState,
		"admin_toggle":  sess.onAdminToggle,
		"admin_close":   sess.onAdminClose,
		"status_change": sess.onStatusChange,
		"tag_add":       sess.onTagAdd,
		"tag_remove":    sess.onTagRemove,
		"image_upload":  sess.onImageUpload,
		"image_remove":  sess.onImageRemove,
		"submit":        sess.onSubmit,
		"delete":        sess.onDelete,
		"contact":       sess.onContact,
		"register":      sess.onRegister,
	}
	return sess
}

// handle dispatches one message. Handler errors become error toasts; only a
// failed write is returned.
func (sess *session) handle(ctx context.Context, msg Inbound) error {
	ctx = notify.WithNotifier(ctx, notify.Func(func(message string, kind notify.Kind) {
		sess.toast(message, kind)
	}))

	h, ok := sess.handlers[msg.Type]
	if !ok {
		return sess.send(Directive{Type: "error", Message: "unknown message type: " + msg.Type})
	}
	if err := h(ctx, msg); err != nil {
		var werr *writeError
		if errors.As(err, &werr) {
			return werr.err
		}
		sess.log.Warn("handling message failed", logging.String("type", msg.Type), logging.Err(err))
		return sess.send(Directive{Type: "toast", Message: userMessage(err), Kind: string(notify.KindError)})
	}
	return nil
}

// writeError marks a failure to reach the browser.
type writeError struct{ err error }

func (e *writeError) Error() string { return "writing to session: " + e.err.Error() }
func (e *writeError) Unwrap() error { return e.err }

func (sess *session) emit(d Directive) error {
	if err := sess.send(d); err != nil {
		return &writeError{err: err}
	}
	return nil
}

func (sess *session) toast(message string, kind notify.Kind) {
	if err := sess.send(Directive{Type: "toast", Message: message, Kind: string(kind)}); err != nil {
		sess.log.Debug("dropping toast", logging.Err(err))
	}
}

func (sess *session) region(target string) func(ctx context.Context, html string) error {
	return func(ctx context.Context, html string) error {
		return sess.emit(Directive{Type: "region", Target: target, HTML: html})
	}
}

// loadProjects shows the loading state, then fetches and renders the list
// in the background. A newer load supersedes one still in flight.
func (sess *session) loadProjects(ctx context.Context) error {
	tok, err := sess.list.Begin(ctx)
	if err != nil {
		return err
	}
	sess.loads.Add(1)
	go func() {
		defer sess.loads.Done()
		if err := sess.list.Load(ctx, tok); err != nil {
			sess.log.Debug("project list load ended", logging.Err(err))
		}
	}()
	return nil
}

// wait blocks until background list loads have finished.
func (sess *session) wait() { sess.loads.Wait() }

func (sess *session) loadInitiatives(ctx context.Context) error {
	html, err := sess.site.opts.Views.Initiatives()
	if err != nil {
		return err
	}
	return sess.emit(Directive{Type: "region", Target: regionInitiatives, HTML: html})
}

func (sess *session) show(tr sections.Transition) error {
	if !tr.Shown() {
		return nil
	}
	return sess.emit(Directive{
		Type:      "show",
		Section:   string(tr.Section),
		Highlight: string(tr.Highlight),
		URL:       tr.URL,
		History:   string(tr.History),
		Scroll:    tr.ScrollTop,
	})
}

func location(msg Inbound) sections.Location {
	return sections.Location{Path: msg.Path, Fragment: msg.Fragment}
}

// onInit resolves the starting section. Repeated init messages are ignored
// so the page's listeners and loaders run once.
func (sess *session) onInit(ctx context.Context, msg Inbound) error {
	if sess.initialized {
		sess.log.Debug("ignoring repeated init")
		return nil
	}
	sess.initialized = true
	return sess.show(sess.controller.Init(ctx, location(msg)))
}

func (sess *session) onNavigate(ctx context.Context, msg Inbound) error {
	return sess.show(sess.controller.Show(ctx, msg.Section, sections.UserClick))
}

func (sess *session) onPopState(ctx context.Context, msg Inbound) error {
	return sess.show(sess.controller.PopState(ctx, location(msg)))
}

func (sess *session) adminState() error {
	open := sess.admin.IsOpen()
	return sess.emit(Directive{Type: "admin", Open: &open})
}

func (sess *session) onAdminToggle(ctx context.Context, msg Inbound) error {
	sess.admin.Toggle()
	return sess.adminState()
}

// onAdminClose handles outside clicks and Escape.
func (sess *session) onAdminClose(ctx context.Context, msg Inbound) error {
	if !sess.admin.Close() {
		return nil
	}
	return sess.adminState()
}

func (sess *session) form() error {
	f := sess.admin.Form()
	return sess.emit(Directive{Type: "form", Form: &f})
}

func (sess *session) onStatusChange(ctx context.Context, msg Inbound) error {
	if err := sess.admin.SetStatus(msg.Status); err != nil {
		return err
	}
	return sess.form()
}

func (sess *session) onTagAdd(ctx context.Context, msg Inbound) error {
	sess.admin.Tags.Add(msg.Tag)
	return sess.form()
}

func (sess *session) onTagRemove(ctx context.Context, msg Inbound) error {
	sess.admin.Tags.Remove(msg.Tag)
	return sess.form()
}

func (sess *session) onImageUpload(ctx context.Context, msg Inbound) error {
	if msg.Image == nil {
		return errors.New("no image selected")
	}
	data, err := base64.StdEncoding.DecodeString(msg.Image.Data)
	if err != nil {
		return errors.New("error loading image")
	}
	size := msg.Image.Size
	if size < int64(len(data)) {
		size = int64(len(data))
	}
	if err := sess.admin.Image.Load(bytes.NewReader(data), size, msg.Image.Type); err != nil {
		return err
	}
	return sess.form()
}

func (sess *session) onImageRemove(ctx context.Context, msg Inbound) error {
	sess.admin.Image.Remove()
	return sess.form()
}

// onSubmit creates a project from the admin form. On success the form is
// reset, the panel closed and the projects section shown, which refreshes
// the list. On a validation error the form is kept.
func (sess *session) onSubmit(ctx context.Context, msg Inbound) error {
	var in FormInput
	if msg.Form != nil {
		in = *msg.Form
	}
	p, err := sess.site.opts.Projects.Create(ctx, sess.admin.Fields(in))
	if err != nil {
		return err
	}
	sess.log.Info("project submitted", logging.String("id", p.ID))

	sess.admin.Reset()
	sess.admin.Close()
	f := sess.admin.Form()
	if err := sess.emit(Directive{Type: "form", Form: &f, Reset: true}); err != nil {
		return err
	}
	if err := sess.adminState(); err != nil {
		return err
	}
	sess.toast("Project added successfully!", notify.KindSuccess)
	return sess.show(sess.controller.Show(ctx, string(sections.Projects), sections.Programmatic))
}

func (sess *session) onDelete(ctx context.Context, msg Inbound) error {
	if strings.TrimSpace(msg.ID) == "" {
		return errors.New("no project selected")
	}
	if err := sess.site.opts.Projects.Delete(ctx, msg.ID); err != nil {
		return err
	}
	sess.toast("Project deleted.", notify.KindInfo)
	return sess.loadProjects(ctx)
}

func (sess *session) onContact(ctx context.Context, msg Inbound) error {
	if msg.Contact == nil {
		return &contact.MissingFieldsError{Fields: []string{"name", "email", "subject", "message"}}
	}
	sub, err := sess.site.opts.Contact.Submit(ctx, *msg.Contact)
	if err != nil {
		return err
	}
	if err := sess.emit(Directive{Type: "contact_sent"}); err != nil {
		return err
	}
	sess.toast(contact.ThankYou(sub), notify.KindSuccess)
	return nil
}

func (sess *session) onRegister(ctx context.Context, msg Inbound) error {
	if msg.Registration == nil {
		return &contact.MissingFieldsError{Fields: []string{"event", "name", "email"}}
	}
	reg, err := sess.site.opts.Contact.Register(ctx, *msg.Registration)
	if err != nil {
		return err
	}
	d := Directive{Type: "registered", Value: reg.ConfirmationID, Message: "Thank you " + reg.Name + " for registering for " + reg.Event + "!"}
	if reg.Start != nil {
		d.Link = contact.CalendarURL(reg.Event, *reg.Start, reg.Location)
	}
	return sess.emit(d)
}

// userMessage turns an error into toast text.
func userMessage(err error) string {
	var verr *projects.ValidationError
	var missing *contact.MissingFieldsError
	switch {
	case errors.As(err, &verr):
		return capitalize(verr.Error())
	case errors.As(err, &missing):
		return capitalize(missing.Error())
	case errors.Is(err, projects.ErrImageTooLarge):
		return "Image size must be less than 5MB"
	case errors.Is(err, projects.ErrImageType):
		return "Please select an image file"
	case errors.Is(err, projects.ErrNotDeleted):
		return "Could not delete the project: the remote store is unavailable. Please try again later."
	default:
		return capitalize(err.Error())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// handleSession upgrades the connection and serves one page session until
// the socket closes.
func (s *Site) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", logging.Err(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageBytes)

	var mu sync.Mutex
	sess := s.newSession(func(d Directive) error {
		mu.Lock()
		defer mu.Unlock()
		return conn.WriteJSON(d)
	})
	sess.log.Debug("session opened")
	defer sess.log.Debug("session closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		cancel()
		sess.wait()
	}()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				sess.log.Warn("websocket message too large", logging.Int("limit", maxMessageBytes))
				return
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.log.Warn("websocket read failed", logging.Err(err))
			}
			return
		}

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			if err := sess.send(Directive{Type: "error", Message: "invalid message format"}); err != nil {
				return
			}
			continue
		}
		if err := sess.handle(ctx, msg); err != nil {
			sess.log.Warn("websocket write failed", logging.Err(err))
			return
		}
	}
}
