package design

import "strings"

// All is the sentinel filter value meaning "any".
const All = "전체"

// Criteria narrows the gallery along three independent dimensions.
type Criteria struct {
	Style string `json:"style,omitempty"`
	Theme string `json:"theme,omitempty"`
	Color string `json:"color,omitempty"`
}

// FilterOptions lists the selectable values of each gallery dimension.
type FilterOptions struct {
	Styles []string `json:"styles"`
	Themes []string `json:"themes"`
	Colors []string `json:"colors"`
}

// Options returns the filter choices, each led by the All sentinel.
func Options() FilterOptions {
	return FilterOptions{
		Styles: []string{All, "모던", "빈티지", "로맨틱", "미니멀", "전통", "캐주얼"},
		Themes: []string{All, "꽃", "자연", "일러스트", "사진", "캘리그라피"},
		Colors: []string{All, "웜톤", "쿨톤", "파스텔", "비비드"},
	}
}

// Filter returns the items matching every concrete criterion, order preserved.
func Filter(items []PreMade, c Criteria) []PreMade {
	out := make([]PreMade, 0, len(items))
	for _, item := range items {
		if matches(c.Style, item.Style) && matches(c.Theme, item.Theme) && matches(c.Color, item.Color) {
			out = append(out, item)
		}
	}
	return out
}

func matches(want, got string) bool {
	if isAny(want) {
		return true
	}
	return want == got
}

func isAny(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == All || strings.EqualFold(v, "all")
}
