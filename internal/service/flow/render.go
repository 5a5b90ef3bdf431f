package flow

import (
	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/model/order"
	"github.com/doyeonstory/backend/internal/model/session"
)

// MenuItem is one entry of the persistent navigation menu.
type MenuItem struct {
	View   session.View `json:"view"`
	Label  string       `json:"label"`
	Active bool         `json:"active"`
}

// Entry is a call to action on the home page.
type Entry struct {
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Target      session.View `json:"target"`
}

// HomePage is the landing view.
type HomePage struct {
	Headline string  `json:"headline"`
	Tagline  string  `json:"tagline"`
	Entries  []Entry `json:"entries"`
}

// StoryPage is the story form plus any concepts generated so far.
type StoryPage struct {
	Concepts []design.Concept `json:"concepts"`
}

// GalleryPage lists the filtered samples and the standard designs.
type GalleryPage struct {
	Criteria design.Criteria      `json:"criteria"`
	Options  design.FilterOptions `json:"options"`
	Designs  []design.PreMade     `json:"designs"`
	Standard []design.PreMade     `json:"standard"`
}

// OrderPage is the order form for the selected design.
type OrderPage struct {
	Design          design.Selection `json:"design"`
	DefaultQuantity int              `json:"defaultQuantity"`
	QuantityPresets []int            `json:"quantityPresets"`
	EstimatedTotal  int              `json:"estimatedTotal"`
}

// Recovery replaces a view that cannot be shown and offers a way out.
type Recovery struct {
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	Action      session.View `json:"action"`
	ActionLabel string       `json:"actionLabel"`
	Err         error        `json:"-"`
}

// Page is everything the UI needs to draw the current view.
type Page struct {
	SessionID string          `json:"sessionId"`
	View      session.View    `json:"view"`
	Menu      []MenuItem      `json:"menu"`
	Home      *HomePage       `json:"home,omitempty"`
	Story     *StoryPage      `json:"story,omitempty"`
	Gallery   *GalleryPage    `json:"gallery,omitempty"`
	Order     *OrderPage      `json:"order,omitempty"`
	Recovery  *Recovery       `json:"recovery,omitempty"`
	Session   session.Session `json:"session"`
}

var menuLabels = map[session.View]string{
	session.Home:        "🏠 홈",
	session.StoryIntake: "✨ 나만의 청첩장",
	session.Gallery:     "🎨 디자인 갤러리",
	session.Order:       "🛒 주문하기",
}

var homeEntries = []Entry{
	{Label: "✨ 나만의 청첩장 만들기", Description: "AI와 함께 당신의 이야기를 세상에 단 하나뿐인 디자인으로 만드세요.", Target: session.StoryIntake},
	{Label: "🎨 디자인 시안 둘러보기", Description: "다양한 테마와 스타일의 감성적인 디자인들을 만나보세요.", Target: session.Gallery},
	{Label: "💌 일반 청첩장", Description: "클래식하고 세련된, 기본에 충실한 디자인을 선택하세요.", Target: session.Order},
	{Label: "🛒 가격 안내 및 주문", Description: "옵션을 선택하고 간편하게 주문을 완료하세요.", Target: session.Order},
}

var quantityPresets = []int{50, 100, 150, 200}

// Render builds the page for the session's current view. criteria only
// affects the gallery.
func (m *Machine) Render(s session.Session, criteria design.Criteria) Page {
	snap := s.Snapshot()
	page := Page{
		SessionID: snap.ID,
		View:      snap.View,
		Menu:      menu(snap.View),
		Session:   snap,
	}

	switch snap.View {
	case session.StoryIntake:
		page.Story = &StoryPage{Concepts: snap.Concepts}
	case session.Gallery:
		page.Gallery = &GalleryPage{
			Criteria: criteria,
			Options:  design.Options(),
			Designs:  design.Filter(m.catalog.List(design.SourceGallery), criteria),
			Standard: m.catalog.List(design.SourceStandard),
		}
	case session.Order:
		if !snap.HasSelection() {
			page.Recovery = &Recovery{
				Code:        "no_selection",
				Message:     MsgNoSelection,
				Action:      session.Home,
				ActionLabel: "홈으로 돌아가기",
				Err:         ErrNoSelection,
			}
			break
		}
		page.Order = &OrderPage{
			Design:          snap.SelectedDesign.Clone(),
			DefaultQuantity: order.DefaultQuantity,
			QuantityPresets: append([]int(nil), quantityPresets...),
			EstimatedTotal:  m.orders.Quote(order.Input{}),
		}
	default:
		page.Home = &HomePage{
			Headline: "당신의 이야기가 청첩장이 됩니다",
			Tagline:  "도연 Story와 함께 가장 특별한 순간을 알려보세요.",
			Entries:  append([]Entry(nil), homeEntries...),
		}
	}
	return page
}

func menu(active session.View) []MenuItem {
	views := session.Views()
	items := make([]MenuItem, 0, len(views))
	for _, v := range views {
		items = append(items, MenuItem{View: v, Label: menuLabels[v], Active: v == active})
	}
	return items
}
