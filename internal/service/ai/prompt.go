package ai

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/service/concept"
)

const designerPrompt = `당신은 상상력이 풍부한 고급 청첩장 디자이너입니다. 커플의 이야기, 선호도, 그리고 제공된 사진(있을 경우)을 바탕으로 청첩장을 위한 독창적이고 예술적인 디자인 컨셉 3가지를 생성해주세요. 각 컨셉은 단순한 사각형을 넘어선 창의적인 형태나 형식을 제안해야 합니다.

응답은 JSON 배열 하나만 출력하세요. 배열의 각 원소는 다음 네 개의 문자열 필드를 가진 객체입니다.
1. title: 짧고 감성적인 제목
2. description: 디자인이 이야기와 사진(있을 경우)을 어떻게 반영하는지 설명하는 한 문단 길이의 글
3. formatSuggestion: 청첩장의 창의적인 형태나 형식에 대한 제안 (예: 벚꽃 모양으로 따낸 다이컷 카드, 여행 티켓 모양의 청첩장, 펼치면 입체적인 팝업이 나타나는 형식 등)
4. imagePrompt: 이미지 생성기를 위한 매우 상세하고 시각적인 프롬프트. 스타일, 색상 팔레트, 핵심 요소, 전반적인 분위기를 포함하고 제공된 사진의 요소를 자연스럽게 통합해야 합니다.`

const photoNote = "- (고객이 제공한 사진이 다음에 첨부됩니다. 이 사진을 디자인 영감의 핵심 요소로 활용해주세요.)"

// buildBrief renders the customer section of the prompt.
func buildBrief(req concept.Request) string {
	var builder strings.Builder
	builder.WriteString("고객 정보:\n")
	builder.WriteString(fmt.Sprintf("- 우리의 이야기: %q\n", strings.TrimSpace(req.Story)))
	builder.WriteString(fmt.Sprintf("- 원하는 색상 계열: %q\n", strings.TrimSpace(req.Color)))
	builder.WriteString(fmt.Sprintf("- 선호하는 분위기: %q\n", strings.TrimSpace(req.Mood)))
	builder.WriteString(fmt.Sprintf("- 특별히 넣고 싶은 요소: %q", strings.TrimSpace(req.Elements)))
	if req.Photo != nil && len(req.Photo.Data) > 0 {
		builder.WriteString("\n")
		builder.WriteString(photoNote)
	}
	return builder.String()
}

// attachments returns the photo as an image message, if there is one.
func attachments(photo *design.Photo) []*schema.Message {
	if photo == nil || len(photo.Data) == 0 {
		return nil
	}
	dataURL := "data:" + photo.MimeType + ";base64," + base64.StdEncoding.EncodeToString(photo.Data)
	return []*schema.Message{{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{{
			Type: schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{
				URL:      dataURL,
				MIMEType: photo.MimeType,
			},
		}},
	}}
}
