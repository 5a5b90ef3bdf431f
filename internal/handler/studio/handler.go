package studio

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/model/order"
	"github.com/doyeonstory/backend/internal/model/session"
	"github.com/doyeonstory/backend/internal/observability"
	"github.com/doyeonstory/backend/internal/service/flow"
	sessionservice "github.com/doyeonstory/backend/internal/service/session"
	"github.com/doyeonstory/backend/pkg/utils"
)

const defaultMaxPhotoBytes = 5 << 20

// Handler exposes the session state machine over HTTP.
type Handler struct {
	store         sessionservice.Store
	machine       *flow.Machine
	logger        *zap.Logger
	metrics       *observability.Collector
	maxPhotoBytes int64
}

// Options tune a Handler. Zero values fall back to defaults.
type Options struct {
	Logger        *zap.Logger
	Metrics       *observability.Collector
	MaxPhotoBytes int64
}

// New creates the session handler.
func New(store sessionservice.Store, machine *flow.Machine, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxPhoto := opts.MaxPhotoBytes
	if maxPhoto <= 0 {
		maxPhoto = defaultMaxPhotoBytes
	}
	return &Handler{
		store:         store,
		machine:       machine,
		logger:        logger.Named("studio"),
		metrics:       opts.Metrics,
		maxPhotoBytes: maxPhoto,
	}
}

// RegisterRoutes mounts the session routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Delete("/", h.handleDelete)
			r.Post("/view", h.handleChooseView)
			r.Post("/story", h.handleSubmitStory)
			r.Post("/pick", h.handlePickDesign)
			r.Post("/order", h.handleSubmitOrder)
		})
	})
}

// errorBody is the error part of a page response.
type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  []flow.FieldError `json:"fields,omitempty"`
}

// pageResponse is the page plus whatever the last action produced.
type pageResponse struct {
	flow.Page
	Notice  string         `json:"notice,omitempty"`
	Receipt *order.Receipt `json:"receipt,omitempty"`
	Error   *errorBody     `json:"error,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Create(r.Context())
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	if h.metrics != nil {
		h.metrics.SessionsCreated.Inc()
	}
	utils.RespondJSON(w, http.StatusCreated, pageResponse{Page: h.machine.Render(sess, criteriaFrom(r))})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, pageResponse{Page: h.machine.Render(sess, criteriaFrom(r))})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleChooseView(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		View string `json:"view"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.dispatch(w, r, flow.ChooseView{View: session.View(payload.View)})
}

func (h *Handler) handleSubmitStory(w http.ResponseWriter, r *http.Request) {
	// base64 inflates the photo by a third; leave room for the text fields.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes*2+64<<10)
	var payload struct {
		Story    string `json:"story"`
		Color    string `json:"color"`
		Mood     string `json:"mood"`
		Elements string `json:"elements"`
		Photo    string `json:"photo"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(w, http.StatusRequestEntityTooLarge, "photo too large")
			return
		}
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	photo, err := decodePhoto(payload.Photo, h.maxPhotoBytes)
	if err != nil {
		h.respond(w, r, flow.Outcome{}, nil, &flow.ValidationError{Fields: []flow.FieldError{{Field: "photo", Message: err.Error()}}})
		return
	}

	h.dispatch(w, r, flow.SubmitStory{
		Story:    payload.Story,
		Color:    payload.Color,
		Mood:     payload.Mood,
		Elements: payload.Elements,
		Photo:    photo,
	})
}

func (h *Handler) handlePickDesign(w http.ResponseWriter, r *http.Request) {
	var ref design.Ref
	if err := utils.DecodeJSON(r, &ref); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.dispatch(w, r, flow.PickDesign{Ref: ref})
}

func (h *Handler) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var in order.Input
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.dispatch(w, r, flow.SubmitOrder{Input: in})
}

// dispatch runs action against the stored session and commits only on success.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, action flow.Action) {
	ctx := r.Context()
	id := chi.URLParam(r, "sessionID")

	var outcome flow.Outcome
	sess, err := h.store.Update(ctx, id, func(s *session.Session) error {
		next, out, err := h.machine.Dispatch(ctx, *s, action)
		if err != nil {
			return err
		}
		*s = next
		outcome = out
		return nil
	})
	if errors.Is(err, sessionservice.ErrSessionNotFound) {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, r, outcome, &sess, err)
}

// respond writes the page for sess, or for the stored session when sess is nil.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, outcome flow.Outcome, sess *session.Session, actionErr error) {
	if sess == nil {
		current, err := h.store.Get(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			h.respondStoreError(w, err)
			return
		}
		sess = &current
	}

	resp := pageResponse{
		Page:    h.machine.Render(*sess, criteriaFrom(r)),
		Notice:  outcome.Notice,
		Receipt: outcome.Receipt,
	}
	status := http.StatusOK
	if actionErr != nil {
		status = statusFor(actionErr)
		resp.Error = bodyFor(actionErr)
		if status >= http.StatusInternalServerError {
			h.logger.Error("action failed", zap.String("sessionID", sess.ID), zap.Error(actionErr))
		}
	}
	utils.RespondJSON(w, status, resp)
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, sessionservice.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	h.logger.Error("session store failure", zap.Error(err))
	utils.RespondError(w, http.StatusInternalServerError, "session unavailable")
}

func statusFor(err error) int {
	switch flow.Reason(err) {
	case "validation":
		return http.StatusUnprocessableEntity
	case "no_selection", "transition":
		return http.StatusConflict
	case "generation":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func bodyFor(err error) *errorBody {
	reason := flow.Reason(err)
	body := &errorBody{Code: reason, Message: err.Error()}

	var verr *flow.ValidationError
	switch {
	case errors.As(err, &verr):
		body.Fields = verr.Fields
		if len(verr.Fields) > 0 {
			body.Message = verr.Fields[0].Message
		}
	case reason == "no_selection":
		body.Message = flow.MsgNoSelection
	case reason == "generation":
		body.Message = flow.MsgGenerationFailed
	case reason == "internal":
		body.Message = "internal error"
	}
	return body
}

func criteriaFrom(r *http.Request) design.Criteria {
	q := r.URL.Query()
	return design.Criteria{
		Style: q.Get("style"),
		Theme: q.Get("theme"),
		Color: q.Get("color"),
	}
}

// decodePhoto accepts a base64 data URL such as "data:image/png;base64,....".
func decodePhoto(raw string, maxBytes int64) (*design.Photo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	header, data, ok := strings.Cut(raw, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, errors.New(flow.MsgUnsupportedPhoto)
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.New(flow.MsgUnsupportedPhoto)
	}
	if int64(len(decoded)) > maxBytes {
		return nil, errors.New("사진 용량이 너무 큽니다.")
	}
	return &design.Photo{MimeType: mime, Data: decoded}, nil
}
