package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/service/concept"
)

type fakeChain struct {
	reply  string
	err    error
	calls  int
	inputs []map[string]any
}

func (f *fakeChain) Invoke(ctx context.Context, input map[string]any, _ ...compose.Option) (*schema.Message, error) {
	f.calls++
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

const fourConcepts = `[
 {"title":"벚꽃 아래","description":"설명1","formatSuggestion":"다이컷","imagePrompt":"cherry blossom"},
 {"title":"둘","description":"설명2","formatSuggestion":"팝업","imagePrompt":"pop"},
 {"title":"셋","description":"설명3","formatSuggestion":"티켓","imagePrompt":"ticket"},
 {"title":"넷","description":"설명4","formatSuggestion":"","imagePrompt":"extra"}
]`

func TestGenerateParsesAndTruncates(t *testing.T) {
	chain := &fakeChain{reply: "```json\n" + fourConcepts + "\n```"}
	svc := newConceptService(chain, time.Second, nil)

	concepts, err := svc.Generate(context.Background(), concept.Request{Story: "벚꽃 길에서", Color: "파스텔"})
	require.NoError(t, err)
	require.Len(t, concepts, 3)
	assert.Equal(t, "벚꽃 아래", concepts[0].Title)
	assert.Equal(t, "cherry blossom", concepts[0].ImagePrompt)
	assert.Empty(t, concepts[0].ImageURL)

	brief, ok := chain.inputs[0]["brief"].(string)
	require.True(t, ok)
	assert.Contains(t, brief, "벚꽃 길에서")
	assert.Contains(t, brief, "파스텔")
	assert.NotContains(t, brief, photoNote)
	assert.Nil(t, chain.inputs[0]["attachments"])
}

func TestGenerateAttachesPhoto(t *testing.T) {
	chain := &fakeChain{reply: fourConcepts}
	svc := newConceptService(chain, 0, nil)

	photo := &design.Photo{MimeType: "image/png", Data: []byte{0x89, 0x50}}
	_, err := svc.Generate(context.Background(), concept.Request{Story: "s", Photo: photo})
	require.NoError(t, err)

	assert.Contains(t, chain.inputs[0]["brief"], photoNote)
	msgs, ok := chain.inputs[0]["attachments"].([]*schema.Message)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].MultiContent, 1)
	assert.True(t, strings.HasPrefix(msgs[0].MultiContent[0].ImageURL.URL, "data:image/png;base64,"))
}

func TestGenerateRejectsMalformedReplies(t *testing.T) {
	cases := map[string]string{
		"not json":      "죄송합니다",
		"object":        `{"title":"x"}`,
		"empty array":   `[]`,
		"missing field": `[{"title":"x","description":"y","formatSuggestion":"z"}]`,
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newConceptService(&fakeChain{reply: reply}, 0, nil)
			_, err := svc.Generate(context.Background(), concept.Request{Story: "s"})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedReply)
		})
	}
}

func TestGenerateOpensBreakerAfterRepeatedFailures(t *testing.T) {
	chain := &fakeChain{err: errors.New("upstream down")}
	svc := newConceptService(chain, 0, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Generate(context.Background(), concept.Request{Story: "s"})
		require.Error(t, err)
	}
	_, err := svc.Generate(context.Background(), concept.Request{Story: "s"})
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, chain.calls)
}

func TestGenerateFallsBackToTemplates(t *testing.T) {
	svc := newConceptService(&fakeChain{err: errors.New("boom")}, 0, nil)
	gen := concept.WithFallback(svc, concept.TemplateGenerator{}, nil)

	concepts, err := gen.Generate(context.Background(), concept.Request{Story: "강가에서 만났어요"})
	require.NoError(t, err)
	require.Len(t, concepts, 3)
	assert.Equal(t, concept.FormatDieCut, concepts[0].FormatSuggestion)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "[1]", stripFences("```json\n[1]\n```"))
	assert.Equal(t, "[1]", stripFences("  [1] "))
	assert.Equal(t, "[1]", stripFences("```\n[1]```"))
}
