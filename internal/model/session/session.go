package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/doyeonstory/backend/internal/model/design"
)

// View는 사용자가 현재 보고 있는 화면입니다.
type View string

const (
	Home        View = "home"
	StoryIntake View = "story"
	Gallery     View = "gallery"
	Order       View = "order"
)

// Views lists the navigable views in menu order.
func Views() []View {
	return []View{Home, StoryIntake, Gallery, Order}
}

// ParseView maps a client-supplied identifier onto a View.
func ParseView(raw string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Views() {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", raw)
}

// Session captures one browser tab's in-progress design and order.
type Session struct {
	ID             string            `json:"id"`
	View           View              `json:"view"`
	Concepts       []design.Concept  `json:"concepts"`
	SelectedDesign *design.Selection `json:"selectedDesign,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// New returns a session parked on the home view.
func New(id string, now time.Time) Session {
	return Session{
		ID:        id,
		View:      Home,
		Concepts:  []design.Concept{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Snapshot returns a copy that shares no mutable state with s.
func (s *Session) Snapshot() Session {
	out := *s
	out.Concepts = append([]design.Concept(nil), s.Concepts...)
	if out.Concepts == nil {
		out.Concepts = []design.Concept{}
	}
	if s.SelectedDesign != nil {
		sel := s.SelectedDesign.Clone()
		out.SelectedDesign = &sel
	}
	return out
}

// SetView moves the session to v.
func (s *Session) SetView(v View) {
	s.View = v
}

// SetConcepts replaces the generated concepts.
func (s *Session) SetConcepts(concepts []design.Concept) {
	s.Concepts = append([]design.Concept(nil), concepts...)
}

// SetSelectedDesign records the design picked for ordering; nil clears it.
func (s *Session) SetSelectedDesign(sel *design.Selection) {
	if sel == nil {
		s.SelectedDesign = nil
		return
	}
	cp := sel.Clone()
	s.SelectedDesign = &cp
}

// HasSelection reports whether a design has been picked.
func (s *Session) HasSelection() bool {
	return s.SelectedDesign != nil
}
