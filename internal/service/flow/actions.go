package flow

import (
	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/model/order"
	"github.com/doyeonstory/backend/internal/model/session"
)

// Action is a user event fed into Machine.Dispatch.
type Action interface {
	Name() string
}

// ChooseView is a menu or home-page navigation. It is always accepted.
type ChooseView struct {
	View session.View
}

// SubmitStory is the story form submission.
type SubmitStory struct {
	Story    string
	Color    string
	Mood     string
	Elements string
	Photo    *design.Photo
}

// PickDesign selects a concept or catalog design for ordering.
type PickDesign struct {
	Ref design.Ref
}

// SubmitOrder is the order form submission.
type SubmitOrder struct {
	Input order.Input
}

func (ChooseView) Name() string  { return "choose_view" }
func (SubmitStory) Name() string { return "submit_story" }
func (PickDesign) Name() string  { return "pick_design" }
func (SubmitOrder) Name() string { return "submit_order" }

// Outcome carries what an accepted action produced besides the new session.
type Outcome struct {
	Notice  string         `json:"notice,omitempty"`
	Receipt *order.Receipt `json:"receipt,omitempty"`
}
