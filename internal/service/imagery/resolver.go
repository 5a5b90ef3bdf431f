package imagery

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
)

// DefaultBaseURL is the placeholder image host.
const DefaultBaseURL = "https://picsum.photos"

// Resolver turns image prompts into displayable URLs.
type Resolver interface {
	Resolve(ctx context.Context, prompt string) (string, error)
	FormatImages(ctx context.Context, suggestion string) ([]string, error)
}

// Picker returns an index in [0, n).
type Picker func(n int) int

type seedRule struct {
	seed     string
	keywords []string
}

// Rules are evaluated in order against the lower-cased prompt.
var seedRules = []seedRule{
	{seed: "cherry", keywords: []string{"벚꽃", "cherry"}},
	{seed: "minimal", keywords: []string{"minimalist", "미니멀"}},
	{seed: "creative", keywords: []string{"creative", "창의"}},
	{seed: "romantic", keywords: []string{"romantic", "로맨틱"}},
}

var fallbackSeeds = []string{"wedding", "invitation", "elegant", "beautiful", "love"}

// PlaceholderResolver stands in for a real image model by mapping prompts onto
// seeded placeholder images.
type PlaceholderResolver struct {
	baseURL string
	pick    Picker
}

// NewPlaceholderResolver creates a resolver. A nil pick uses math/rand.
func NewPlaceholderResolver(baseURL string, pick Picker) *PlaceholderResolver {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pick == nil {
		pick = rand.IntN
	}
	return &PlaceholderResolver{baseURL: baseURL, pick: pick}
}

// Resolve implements Resolver.
func (r *PlaceholderResolver) Resolve(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/seed/%s/600/800", r.baseURL, r.seedFor(prompt)), nil
}

// FormatImages implements Resolver with three grayscale mock-up placeholders.
func (r *PlaceholderResolver) FormatImages(ctx context.Context, suggestion string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(suggestion) == "" {
		return nil, nil
	}
	seed := url.PathEscape(suggestion)
	urls := make([]string, 0, 3)
	for i := 1; i <= 3; i++ {
		urls = append(urls, fmt.Sprintf("%s/seed/%s%d/400/400?grayscale", r.baseURL, seed, i))
	}
	return urls, nil
}

func (r *PlaceholderResolver) seedFor(prompt string) string {
	lowered := strings.ToLower(prompt)
	for _, rule := range seedRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.seed
			}
		}
	}
	idx := r.pick(len(fallbackSeeds))
	if idx < 0 || idx >= len(fallbackSeeds) {
		idx = 0
	}
	return fallbackSeeds[idx]
}
