package flow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doyeonstory/backend/internal/model/session"
)

// ErrNoSelection is reported when the order view is used without a picked design.
var ErrNoSelection = errors.New("no design selected")

// User-facing messages.
const (
	MsgStoryRequired    = "우리의 이야기를 들려주세요."
	MsgNoSelection      = "선택된 디자인이 없습니다."
	MsgGenerationFailed = "디자인 생성에 실패했습니다. 다시 시도해주세요."
	MsgConceptsReady    = "디자인 컨셉이 생성되었습니다!"
	MsgOrderPlaced      = "주문이 완료되었습니다! 곧 연락드리겠습니다."
	MsgUnknownDesign    = "존재하지 않는 디자인입니다."
	MsgUnsupportedPhoto = "PNG 또는 JPG 사진만 첨부할 수 있습니다."
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports missing or malformed input. No transition happens.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// TransitionError reports an action sent while its view is not active.
type TransitionError struct {
	From   session.View
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("action %s is not available on view %s", e.Action, e.From)
}

// GenerationError wraps a failure of the concept generator or image resolver.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("concept generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Reason classifies err for metrics and API responses.
func Reason(err error) string {
	var (
		verr *ValidationError
		terr *TransitionError
		gerr *GenerationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, ErrNoSelection):
		return "no_selection"
	case errors.As(err, &terr):
		return "transition"
	case errors.As(err, &gerr):
		return "generation"
	default:
		return "internal"
	}
}
