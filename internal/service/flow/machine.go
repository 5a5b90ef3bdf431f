package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/model/order"
	"github.com/doyeonstory/backend/internal/model/session"
	"github.com/doyeonstory/backend/internal/observability"
	"github.com/doyeonstory/backend/internal/service/concept"
	"github.com/doyeonstory/backend/internal/service/imagery"
	orderservice "github.com/doyeonstory/backend/internal/service/order"
)

var errNoConcepts = errors.New("generator returned no concepts")

var allowedPhotoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// OrderDesk prices and confirms orders.
type OrderDesk interface {
	Place(ctx context.Context, sel *design.Selection, in order.Input) (order.Receipt, error)
	Quote(in order.Input) int
}

// Deps are the collaborators of a Machine. Logger and Metrics may be nil.
type Deps struct {
	Generator concept.Generator
	Images    imagery.Resolver
	Catalog   design.Catalog
	Orders    OrderDesk
	Logger    *zap.Logger
	Metrics   *observability.Collector
}

// Machine is the view state machine. It holds no session state: every call
// takes a Session value and returns the next one.
type Machine struct {
	generator concept.Generator
	images    imagery.Resolver
	catalog   design.Catalog
	orders    OrderDesk
	logger    *zap.Logger
	metrics   *observability.Collector
}

// NewMachine wires a Machine.
func NewMachine(deps Deps) *Machine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		generator: deps.Generator,
		images:    deps.Images,
		catalog:   deps.Catalog,
		orders:    deps.Orders,
		logger:    logger,
		metrics:   deps.Metrics,
	}
}

// Dispatch applies a to s. On error the returned session equals s and no
// transition has happened.
func (m *Machine) Dispatch(ctx context.Context, s session.Session, a Action) (session.Session, Outcome, error) {
	if a == nil {
		return s.Snapshot(), Outcome{}, errors.New("nil action")
	}
	next := s.Snapshot()

	var (
		out Outcome
		err error
	)
	switch act := a.(type) {
	case ChooseView:
		err = m.chooseView(&next, act)
	case SubmitStory:
		out, err = m.submitStory(ctx, &next, act)
	case PickDesign:
		err = m.pickDesign(&next, act)
	case SubmitOrder:
		out, err = m.submitOrder(ctx, &next, act)
	default:
		err = fmt.Errorf("unsupported action %T", a)
	}

	if err != nil {
		m.reject(s, a, err)
		return s.Snapshot(), Outcome{}, err
	}

	if m.metrics != nil {
		m.metrics.Transitions.WithLabelValues(string(s.View), string(next.View)).Inc()
	}
	m.logger.Debug("session transition",
		zap.String("sessionID", s.ID),
		zap.String("action", a.Name()),
		zap.String("from", string(s.View)),
		zap.String("to", string(next.View)),
	)
	return next, out, nil
}

func (m *Machine) chooseView(next *session.Session, act ChooseView) error {
	view, err := session.ParseView(string(act.View))
	if err != nil {
		return invalid("view", err.Error())
	}
	// A menu jump is never a pick, so any earlier selection is dropped.
	next.SetSelectedDesign(nil)
	next.SetView(view)
	return nil
}

func (m *Machine) submitStory(ctx context.Context, next *session.Session, act SubmitStory) (Outcome, error) {
	if next.View != session.StoryIntake {
		return Outcome{}, &TransitionError{From: next.View, Action: act.Name()}
	}
	if strings.TrimSpace(act.Story) == "" {
		return Outcome{}, invalid("story", MsgStoryRequired)
	}
	if act.Photo != nil && !allowedPhotoTypes[strings.ToLower(act.Photo.MimeType)] {
		return Outcome{}, invalid("photo", MsgUnsupportedPhoto)
	}

	concepts, err := m.generator.Generate(ctx, concept.Request{
		Story:    act.Story,
		Color:    act.Color,
		Mood:     act.Mood,
		Elements: act.Elements,
		Photo:    act.Photo,
	})
	if err != nil {
		return Outcome{}, &GenerationError{Err: err}
	}
	if len(concepts) == 0 {
		return Outcome{}, &GenerationError{Err: errNoConcepts}
	}

	resolved := make([]design.Concept, 0, len(concepts))
	for _, c := range concepts {
		imageURL, err := m.images.Resolve(ctx, c.ImagePrompt)
		if err != nil {
			return Outcome{}, &GenerationError{Err: fmt.Errorf("resolve image for %q: %w", c.Title, err)}
		}
		formats, err := m.images.FormatImages(ctx, c.FormatSuggestion)
		if err != nil {
			return Outcome{}, &GenerationError{Err: fmt.Errorf("resolve format images for %q: %w", c.Title, err)}
		}
		c.ImageURL = imageURL
		c.FormatImageURLs = formats
		resolved = append(resolved, c)
	}

	next.SetConcepts(resolved)
	if m.metrics != nil {
		m.metrics.ConceptsGenerated.Add(float64(len(resolved)))
	}
	m.logger.Info("concepts generated",
		zap.String("sessionID", next.ID),
		zap.Int("count", len(resolved)),
		zap.Bool("photo", act.Photo != nil),
	)
	return Outcome{Notice: MsgConceptsReady}, nil
}

func (m *Machine) pickDesign(next *session.Session, act PickDesign) error {
	ref := act.Ref

	var sel design.Selection
	switch ref.Source {
	case design.SourceConcept:
		if next.View != session.StoryIntake {
			return &TransitionError{From: next.View, Action: act.Name()}
		}
		if ref.Index < 0 || ref.Index >= len(next.Concepts) {
			return invalid("index", MsgUnknownDesign)
		}
		sel = design.SelectionFromConcept(next.Concepts[ref.Index])
	case design.SourceGallery, design.SourceStandard:
		if next.View != session.Gallery {
			return &TransitionError{From: next.View, Action: act.Name()}
		}
		item, ok := m.catalog.Find(ref.Source, ref.ID)
		if !ok {
			return invalid("id", MsgUnknownDesign)
		}
		sel = item.Selection()
	default:
		return invalid("source", fmt.Sprintf("unknown design source %q", ref.Source))
	}

	next.SetSelectedDesign(&sel)
	next.SetView(session.Order)
	return nil
}

func (m *Machine) submitOrder(ctx context.Context, next *session.Session, act SubmitOrder) (Outcome, error) {
	if next.View != session.Order {
		return Outcome{}, &TransitionError{From: next.View, Action: act.Name()}
	}
	if !next.HasSelection() {
		return Outcome{}, ErrNoSelection
	}

	receipt, err := m.orders.Place(ctx, next.SelectedDesign, act.Input)
	if err != nil {
		var verr *orderservice.ValidationError
		if errors.As(err, &verr) {
			out := &ValidationError{Fields: make([]FieldError, 0, len(verr.Fields))}
			for _, f := range verr.Fields {
				out.Fields = append(out.Fields, FieldError{Field: f.Field, Message: f.Message})
			}
			return Outcome{}, out
		}
		return Outcome{}, fmt.Errorf("place order: %w", err)
	}

	next.SetSelectedDesign(nil)
	next.SetView(session.Home)
	if m.metrics != nil {
		m.metrics.OrdersPlaced.Inc()
	}
	return Outcome{Notice: MsgOrderPlaced, Receipt: &receipt}, nil
}

func (m *Machine) reject(s session.Session, a Action, err error) {
	reason := Reason(err)
	if m.metrics != nil {
		m.metrics.RejectedActions.WithLabelValues(reason).Inc()
		if reason == "generation" {
			m.metrics.GenerationFailures.Inc()
		}
	}
	fields := []zap.Field{
		zap.String("sessionID", s.ID),
		zap.String("action", a.Name()),
		zap.String("view", string(s.View)),
		zap.String("reason", reason),
		zap.Error(err),
	}
	if reason == "generation" || reason == "internal" {
		m.logger.Warn("action failed", fields...)
		return
	}
	m.logger.Debug("action rejected", fields...)
}
