package order

import "time"

// Envelope is the envelope grade of an order.
type Envelope string

const (
	EnvelopeNone    Envelope = ""
	EnvelopeBasic   Envelope = "기본"
	EnvelopePremium Envelope = "고급"
)

// DefaultQuantity is the preselected card count of the order form.
const DefaultQuantity = 100

// Options holds the add-ons chosen on the order form.
type Options struct {
	Envelope   Envelope `json:"envelope" validate:"omitempty,oneof=기본 고급"`
	Sticker    bool     `json:"sticker"`
	MealTicket bool     `json:"mealTicket"`
	Map        bool     `json:"map"`
	Mobile     bool     `json:"mobile"`
}

// Details is the text printed on the invitation plus delivery info.
type Details struct {
	GroomName string `json:"groomName" validate:"required"`
	BrideName string `json:"brideName" validate:"required"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time      string `json:"time" validate:"omitempty,datetime=15:04"`
	Place     string `json:"place"`
	Message   string `json:"message" validate:"max=500"`
	Contact   string `json:"contact"`
	Address   string `json:"address"`
}

// Input is the submitted order form. It is consumed on submit and never stored.
type Input struct {
	Quantity       int     `json:"quantity" validate:"min=1,max=1000"`
	Options        Options `json:"options"`
	Details        Details `json:"details"`
	GalleryConsent bool    `json:"galleryConsent"`
}

// Normalized returns a copy with defaults applied.
func (in Input) Normalized() Input {
	if in.Quantity == 0 {
		in.Quantity = DefaultQuantity
	}
	return in
}

// Receipt confirms a submitted order.
type Receipt struct {
	OrderID    string    `json:"orderId"`
	DesignName string    `json:"designName"`
	Quantity   int       `json:"quantity"`
	Total      int       `json:"total"`
	PlacedAt   time.Time `json:"placedAt"`
}
