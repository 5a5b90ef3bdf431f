package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/model/order"
	"github.com/doyeonstory/backend/internal/model/session"
	"github.com/doyeonstory/backend/internal/observability"
	"github.com/doyeonstory/backend/internal/service/concept"
	"github.com/doyeonstory/backend/internal/service/imagery"
	orderservice "github.com/doyeonstory/backend/internal/service/order"
)

type countingGenerator struct {
	inner concept.Generator
	err   error
	calls int
}

func (g *countingGenerator) Generate(ctx context.Context, req concept.Request) ([]design.Concept, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.inner.Generate(ctx, req)
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string) (string, error) {
	return "", errors.New("image backend down")
}

func (failingResolver) FormatImages(context.Context, string) ([]string, error) {
	return nil, nil
}

type fixture struct {
	machine   *Machine
	generator *countingGenerator
	metrics   *observability.Collector
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gen := &countingGenerator{inner: concept.TemplateGenerator{}}
	metrics := observability.NewCollector("test")
	m := NewMachine(Deps{
		Generator: gen,
		Images:    imagery.NewPlaceholderResolver("", func(int) int { return 0 }),
		Catalog:   design.DefaultCatalog(),
		Orders:    orderservice.NewService(nil),
		Metrics:   metrics,
	})
	return fixture{machine: m, generator: gen, metrics: metrics}
}

func newSession() session.Session {
	return session.New("sess-1", time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC))
}

func validOrder() order.Input {
	return order.Input{
		Quantity: 150,
		Details:  order.Details{GroomName: "김철수", BrideName: "이영희"},
	}
}

func dispatch(t *testing.T, m *Machine, s session.Session, a Action) session.Session {
	t.Helper()
	next, _, err := m.Dispatch(context.Background(), s, a)
	require.NoError(t, err)
	return next
}

func TestChooseViewFromHome(t *testing.T) {
	f := newFixture(t)
	for _, v := range session.Views() {
		next := dispatch(t, f.machine, newSession(), ChooseView{View: v})
		assert.Equal(t, v, next.View)
		assert.Nil(t, next.SelectedDesign)
	}
}

func TestChooseViewRejectsUnknownView(t *testing.T) {
	f := newFixture(t)
	s := newSession()

	next, _, err := f.machine.Dispatch(context.Background(), s, ChooseView{View: "contact"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, session.Home, next.View)
}

func TestOrderWithoutSelectionRendersRecovery(t *testing.T) {
	f := newFixture(t)
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.Order})
	require.Equal(t, session.Order, s.View)
	require.Nil(t, s.SelectedDesign)

	page := f.machine.Render(s, design.Criteria{})

	require.NotNil(t, page.Recovery)
	assert.Nil(t, page.Order)
	assert.ErrorIs(t, page.Recovery.Err, ErrNoSelection)
	assert.Equal(t, session.Home, page.Recovery.Action)

	home := dispatch(t, f.machine, s, ChooseView{View: page.Recovery.Action})
	assert.Equal(t, session.Home, home.View)
}

func TestSubmitOrderWithoutSelection(t *testing.T) {
	f := newFixture(t)
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.Order})

	next, _, err := f.machine.Dispatch(context.Background(), s, SubmitOrder{Input: validOrder()})

	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, session.Order, next.View)
}

func TestSubmitStoryGeneratesConcepts(t *testing.T) {
	f := newFixture(t)
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.StoryIntake})

	next, out, err := f.machine.Dispatch(context.Background(), s, SubmitStory{Story: "우리는 벚꽃길에서 만났어요"})

	require.NoError(t, err)
	assert.Equal(t, session.StoryIntake, next.View)
	require.Len(t, next.Concepts, 3)
	assert.Equal(t, MsgConceptsReady, out.Notice)
	assert.Equal(t, "https://picsum.photos/seed/romantic/600/800", next.Concepts[0].ImageURL)
	assert.Len(t, next.Concepts[0].FormatImageURLs, 3)
	assert.Contains(t, next.Concepts[0].Description, "벚꽃을 모티브로")
	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.ConceptsGenerated))
}

func TestSubmitEmptyStoryDoesNotGenerate(t *testing.T) {
	f := newFixture(t)
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.StoryIntake})
	s = dispatch(t, f.machine, s, SubmitStory{Story: "여행을 좋아해요"})
	callsBefore := f.generator.calls
	before := s.Concepts

	next, _, err := f.machine.Dispatch(context.Background(), s, SubmitStory{Story: "   "})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "story", verr.Fields[0].Field)
	assert.Equal(t, MsgStoryRequired, verr.Fields[0].Message)
	assert.Equal(t, callsBefore, f.generator.calls)
	assert.Equal(t, before, next.Concepts)
	assert.Equal(t, session.StoryIntake, next.View)
}

func TestSubmitStoryGenerationFailureLeavesSession(t *testing.T) {
	f := newFixture(t)
	f.generator.err = errors.New("model offline")
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.StoryIntake})

	next, _, err := f.machine.Dispatch(context.Background(), s, SubmitStory{Story: "이야기"})

	var gerr *GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Empty(t, next.Concepts)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.GenerationFailures))
}

func TestSubmitStoryImageFailureIsGenerationError(t *testing.T) {
	m := NewMachine(Deps{
		Generator: concept.TemplateGenerator{},
		Images:    failingResolver{},
		Catalog:   design.DefaultCatalog(),
		Orders:    orderservice.NewService(nil),
	})
	s := newSession()
	s.SetView(session.StoryIntake)

	next, _, err := m.Dispatch(context.Background(), s, SubmitStory{Story: "이야기"})

	assert.Equal(t, "generation", Reason(err))
	assert.Empty(t, next.Concepts)
}

func TestSubmitStoryRejectsUnsupportedPhoto(t *testing.T) {
	f := newFixture(t)
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.StoryIntake})

	_, _, err := f.machine.Dispatch(context.Background(), s, SubmitStory{
		Story: "이야기",
		Photo: &design.Photo{MimeType: "image/gif", Data: []byte("GIF89a")},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "photo", verr.Fields[0].Field)
	assert.Zero(t, f.generator.calls)
}

func TestSubmitStoryOutsideStoryView(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.machine.Dispatch(context.Background(), newSession(), SubmitStory{Story: "이야기"})

	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, session.Home, terr.From)
}

func TestPickConceptMovesToOrder(t *testing.T) {
	f := newFixture(t)
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.StoryIntake})
	s = dispatch(t, f.machine, s, SubmitStory{Story: "고양이와 함께한 여행"})

	next := dispatch(t, f.machine, s, PickDesign{Ref: design.Ref{Source: design.SourceConcept, Index: 1}})

	assert.Equal(t, session.Order, next.View)
	require.NotNil(t, next.SelectedDesign)
	assert.Equal(t, s.Concepts[1].Title, next.SelectedDesign.Name)
	assert.Equal(t, s.Concepts[1].ImageURL, next.SelectedDesign.ImageURL)
	assert.Len(t, next.Concepts, 3)
}

func TestPickConceptOutOfRange(t *testing.T) {
	f := newFixture(t)
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.StoryIntake})

	next, _, err := f.machine.Dispatch(context.Background(), s, PickDesign{Ref: design.Ref{Source: design.SourceConcept, Index: 0}})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, session.StoryIntake, next.View)
	assert.Nil(t, next.SelectedDesign)
}

func TestPickGalleryIsAtomic(t *testing.T) {
	f := newFixture(t)
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.Gallery})

	next := dispatch(t, f.machine, s, PickDesign{Ref: design.Ref{Source: design.SourceGallery, ID: "d02"}})

	assert.Equal(t, session.Order, next.View)
	require.NotNil(t, next.SelectedDesign)
	assert.Equal(t, "숲속의 왈츠", next.SelectedDesign.Name)
	// the input value is untouched
	assert.Equal(t, session.Gallery, s.View)
	assert.Nil(t, s.SelectedDesign)
}

func TestPickUnknownOrMisplacedDesign(t *testing.T) {
	f := newFixture(t)
	gallery := dispatch(t, f.machine, newSession(), ChooseView{View: session.Gallery})

	_, _, err := f.machine.Dispatch(context.Background(), gallery, PickDesign{Ref: design.Ref{Source: design.SourceGallery, ID: "zz"}})
	assert.Equal(t, "validation", Reason(err))

	_, _, err = f.machine.Dispatch(context.Background(), gallery, PickDesign{Ref: design.Ref{Source: "poster"}})
	assert.Equal(t, "validation", Reason(err))

	_, _, err = f.machine.Dispatch(context.Background(), newSession(), PickDesign{Ref: design.Ref{Source: design.SourceStandard, ID: "s01"}})
	assert.Equal(t, "transition", Reason(err))
}

func TestSubmitOrderReturnsHomeAndForgetsInput(t *testing.T) {
	f := newFixture(t)
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.Gallery})
	s = dispatch(t, f.machine, s, PickDesign{Ref: design.Ref{Source: design.SourceStandard, ID: "s03"}})

	next, out, err := f.machine.Dispatch(context.Background(), s, SubmitOrder{Input: validOrder()})

	require.NoError(t, err)
	assert.Equal(t, session.Home, next.View)
	assert.Nil(t, next.SelectedDesign)
	require.NotNil(t, out.Receipt)
	assert.Equal(t, "단아한 매듭", out.Receipt.DesignName)
	assert.Equal(t, 82500, out.Receipt.Total)
	assert.Equal(t, MsgOrderPlaced, out.Notice)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.OrdersPlaced))
}

func TestSubmitOrderValidationStaysOnOrder(t *testing.T) {
	f := newFixture(t)
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.Gallery})
	s = dispatch(t, f.machine, s, PickDesign{Ref: design.Ref{Source: design.SourceGallery, ID: "d01"}})

	in := validOrder()
	in.Details.BrideName = ""
	next, _, err := f.machine.Dispatch(context.Background(), s, SubmitOrder{Input: in})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "details.brideName", verr.Fields[0].Field)
	assert.Equal(t, session.Order, next.View)
	require.NotNil(t, next.SelectedDesign)
	assert.Equal(t, "봄날의 속삭임", next.SelectedDesign.Name)
}

func TestMenuNavigationClearsSelection(t *testing.T) {
	f := newFixture(t)
	s := dispatch(t, f.machine, newSession(), ChooseView{View: session.Gallery})
	s = dispatch(t, f.machine, s, PickDesign{Ref: design.Ref{Source: design.SourceGallery, ID: "d04"}})
	require.NotNil(t, s.SelectedDesign)

	next := dispatch(t, f.machine, s, ChooseView{View: session.Order})

	assert.Equal(t, session.Order, next.View)
	assert.Nil(t, next.SelectedDesign)
}

func TestDispatchNilAction(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.machine.Dispatch(context.Background(), newSession(), nil)
	assert.Error(t, err)
}
