package design

// PreMade is a ready-made design from one of the fixed catalogs.
type PreMade struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Style    string `json:"style"`
	Theme    string `json:"theme"`
	Color    string `json:"color"`
}

// Selection returns the order reference for d.
func (d PreMade) Selection() Selection {
	return Selection{Name: d.Name, ImageURL: d.ImageURL}
}

// Samples provides the gallery designs in display order.
func Samples() []PreMade {
	return []PreMade{
		{ID: "d01", Name: "봄날의 속삭임", ImageURL: "https://picsum.photos/id/1025/600/800", Style: "로맨틱", Theme: "꽃", Color: "파스텔"},
		{ID: "d02", Name: "숲속의 왈츠", ImageURL: "https://picsum.photos/id/1043/600/800", Style: "빈티지", Theme: "자연", Color: "웜톤"},
		{ID: "d03", Name: "도시의 야경", ImageURL: "https://picsum.photos/id/1050/600/800", Style: "모던", Theme: "사진", Color: "쿨톤"},
		{ID: "d04", Name: "순수한 서약", ImageURL: "https://picsum.photos/id/1060/600/800", Style: "미니멀", Theme: "캘리그라피", Color: "파스텔"},
		{ID: "d05", Name: "전통의 미", ImageURL: "https://picsum.photos/id/1080/600/800", Style: "전통", Theme: "일러스트", Color: "웜톤"},
		{ID: "d06", Name: "우리들의 파티", ImageURL: "https://picsum.photos/id/21/600/800", Style: "캐주얼", Theme: "일러스트", Color: "비비드"},
		{ID: "d07", Name: "가을 편지", ImageURL: "https://picsum.photos/id/211/600/800", Style: "빈티지", Theme: "자연", Color: "웜톤"},
		{ID: "d08", Name: "푸른 바다의 전설", ImageURL: "https://picsum.photos/id/219/600/800", Style: "모던", Theme: "사진", Color: "쿨톤"},
	}
}

// Standard provides the classic designs offered without customisation.
func Standard() []PreMade {
	return []PreMade{
		{ID: "s01", Name: "화이트 린넨", ImageURL: "https://picsum.photos/id/326/600/800", Style: "미니멀", Theme: "캘리그라피", Color: "파스텔"},
		{ID: "s02", Name: "골든 프레임", ImageURL: "https://picsum.photos/id/431/600/800", Style: "모던", Theme: "사진", Color: "웜톤"},
		{ID: "s03", Name: "단아한 매듭", ImageURL: "https://picsum.photos/id/435/600/800", Style: "전통", Theme: "일러스트", Color: "웜톤"},
		{ID: "s04", Name: "은은한 수채화", ImageURL: "https://picsum.photos/id/565/600/800", Style: "로맨틱", Theme: "꽃", Color: "쿨톤"},
		{ID: "s05", Name: "클래식 모노그램", ImageURL: "https://picsum.photos/id/659/600/800", Style: "미니멀", Theme: "캘리그라피", Color: "쿨톤"},
		{ID: "s06", Name: "싱그러운 잎사귀", ImageURL: "https://picsum.photos/id/200/600/800", Style: "캐주얼", Theme: "자연", Color: "파스텔"},
	}
}

// Catalog exposes the fixed design lists to the flow and HTTP handlers.
type Catalog interface {
	List(src Source) []PreMade
	Find(src Source, id string) (PreMade, bool)
}

// MemoryCatalog implements Catalog over in-memory slices.
type MemoryCatalog struct {
	items map[Source][]PreMade
}

// NewMemoryCatalog returns a catalog holding copies of the supplied lists.
func NewMemoryCatalog(gallery, standard []PreMade) *MemoryCatalog {
	return &MemoryCatalog{items: map[Source][]PreMade{
		SourceGallery:  append([]PreMade(nil), gallery...),
		SourceStandard: append([]PreMade(nil), standard...),
	}}
}

// DefaultCatalog is the catalog served in production.
func DefaultCatalog() *MemoryCatalog {
	return NewMemoryCatalog(Samples(), Standard())
}

// List returns the designs of src in display order.
func (c *MemoryCatalog) List(src Source) []PreMade {
	return append([]PreMade(nil), c.items[src]...)
}

// Find looks up a design by identifier within src.
func (c *MemoryCatalog) Find(src Source, id string) (PreMade, bool) {
	for _, item := range c.items[src] {
		if item.ID == id {
			return item, true
		}
	}
	return PreMade{}, false
}
