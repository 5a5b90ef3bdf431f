package concept

import (
	"context"
	"fmt"
	"strings"

	"github.com/doyeonstory/backend/internal/analysis/motif"
	"github.com/doyeonstory/backend/internal/model/design"
)

const (
	defaultColor = "로맨틱한"
	defaultMood  = "따뜻한"

	storyPreviewRunes = 50
)

// Format suggestions attached to the three template concepts.
const (
	FormatDieCut = "벚꽃 모양으로 따낸 다이컷 카드 형태의 청첩장"
	FormatPopUp  = "펼치면 입체적인 팝업이 나타나는 형식의 청첩장"
	FormatTicket = "여행 티켓 모양의 청첩장으로 커플의 여행 취향을 반영"
)

// Request carries one story submission.
type Request struct {
	Story    string
	Color    string
	Mood     string
	Elements string
	Photo    *design.Photo
}

// Generator turns a story submission into design concepts.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]design.Concept, error)
}

// TemplateGenerator fills fixed templates; it never fails.
type TemplateGenerator struct{}

// Generate implements Generator.
func (TemplateGenerator) Generate(_ context.Context, req Request) ([]design.Concept, error) {
	return Generate(req.Story, req.Color, req.Mood, req.Elements), nil
}

// Generate builds exactly three concepts from story and the optional
// preferences. Callers must reject an empty story beforehand. The output is a
// pure function of the inputs; elements is accepted for parity with the form
// but the templates do not use it.
func Generate(story, color, mood, elements string) []design.Concept {
	story = motif.Normalize(story)
	colorTheme := orDefault(color, defaultColor)
	moodTheme := orDefault(mood, defaultMood)
	found := motif.Detect(story)

	return []design.Concept{
		{
			Title: fmt.Sprintf("%s %s 이야기", moodTheme, colorTheme),
			Description: fmt.Sprintf("'%s...'의 이야기를 담은 %s 색조의 %s 분위기 청첩장입니다. %s%s 모티브로 한 우아한 디자인으로, 커플의 특별한 순간을 아름답게 표현합니다.",
				preview(story), colorTheme, moodTheme, found.Word, motif.ObjectParticle(found.Word)),
			ImagePrompt:      fmt.Sprintf("Wedding invitation design with %s colors, %s mood, romantic style, elegant typography, floral elements", colorTheme, moodTheme),
			FormatSuggestion: FormatDieCut,
		},
		{
			Title:            fmt.Sprintf("우리의 %s 순간", moodTheme),
			Description:      fmt.Sprintf("커플의 소중한 추억을 담은 %s 톤의 디자인입니다. 미니멀하면서도 감성적인 레이아웃으로, 결혼식의 특별함을 강조합니다.", colorTheme),
			ImagePrompt:      fmt.Sprintf("Minimalist wedding invitation, %s color palette, clean design, modern typography, elegant layout", colorTheme),
			FormatSuggestion: FormatPopUp,
		},
		{
			Title:            fmt.Sprintf("%s 꿈의 시작", colorTheme),
			Description:      fmt.Sprintf("커플만의 독특한 이야기를 반영한 %s 분위기의 청첩장입니다. 창의적인 레이아웃과 세심한 디테일로 특별한 순간을 더욱 빛나게 합니다.", moodTheme),
			ImagePrompt:      fmt.Sprintf("Creative wedding invitation design, %s tones, %s atmosphere, artistic layout, unique format", colorTheme, moodTheme),
			FormatSuggestion: FormatTicket,
		},
	}
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func preview(story string) string {
	runes := []rune(story)
	if len(runes) > storyPreviewRunes {
		runes = runes[:storyPreviewRunes]
	}
	return string(runes)
}
