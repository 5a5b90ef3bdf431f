package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/doyeonstory/backend/internal/model/design"
)

const maxConcepts = 3

const conceptSchemaJSON = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["title", "description", "formatSuggestion", "imagePrompt"],
    "properties": {
      "title": {"type": "string", "minLength": 1},
      "description": {"type": "string", "minLength": 1},
      "formatSuggestion": {"type": "string"},
      "imagePrompt": {"type": "string", "minLength": 1}
    }
  }
}`

var conceptSchema = gojsonschema.NewStringLoader(conceptSchemaJSON)

// ErrMalformedReply marks model output that is not a usable concept list.
var ErrMalformedReply = errors.New("malformed concept reply")

type conceptPayload struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	FormatSuggestion string `json:"formatSuggestion"`
	ImagePrompt      string `json:"imagePrompt"`
}

// parseConcepts decodes a model reply into at most three concepts.
func parseConcepts(content string) ([]design.Concept, error) {
	body := stripFences(content)
	if body == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedReply)
	}

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	result, err := gojsonschema.Validate(conceptSchema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformedReply, strings.Join(msgs, "; "))
	}

	var payload []conceptPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if len(payload) > maxConcepts {
		payload = payload[:maxConcepts]
	}

	concepts := make([]design.Concept, 0, len(payload))
	for _, item := range payload {
		concepts = append(concepts, design.Concept{
			Title:            strings.TrimSpace(item.Title),
			Description:      strings.TrimSpace(item.Description),
			FormatSuggestion: strings.TrimSpace(item.FormatSuggestion),
			ImagePrompt:      strings.TrimSpace(item.ImagePrompt),
		})
	}
	return concepts, nil
}

// stripFences removes a surrounding markdown code block, if any.
func stripFences(content string) string {
	body := strings.TrimSpace(content)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}
