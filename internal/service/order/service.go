package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/model/order"
)

var ErrDesignRequired = errors.New("design selection is required")

// Per-card prices in KRW, keyed by the minimum quantity of each tier.
var priceTiers = []struct {
	minQuantity int
	perCard     int
}{
	{200, 500},
	{150, 550},
	{100, 600},
	{50, 700},
	{0, 800},
}

const (
	premiumEnvelopePerCard = 100
	mealTicketPerCard      = 50
	stickerFlat            = 10000
	mapFlat                = 30000
	mobileFlat             = 50000
)

// Service validates and prices orders. Orders are acknowledged, never stored.
type Service struct {
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

// NewService builds an order service.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		validate: newValidator(),
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// Validate checks the form after defaults are applied.
func (s *Service) Validate(in order.Input) error {
	in = trimDetails(in.Normalized())
	if err := s.validate.Struct(in); err != nil {
		return translate(err)
	}
	return nil
}

// Quote estimates the total price of in.
func (s *Service) Quote(in order.Input) int {
	in = in.Normalized()
	q := in.Quantity
	if q < 0 {
		q = 0
	}

	total := 0
	for _, tier := range priceTiers {
		if q >= tier.minQuantity {
			total = q * tier.perCard
			break
		}
	}

	opts := in.Options
	if opts.Envelope == order.EnvelopePremium {
		total += q * premiumEnvelopePerCard
	}
	if opts.Sticker {
		total += stickerFlat
	}
	if opts.MealTicket {
		total += q * mealTicketPerCard
	}
	if opts.Map {
		total += mapFlat
	}
	if opts.Mobile {
		total += mobileFlat
	}
	return total
}

// Place validates the order for sel and returns a receipt.
func (s *Service) Place(ctx context.Context, sel *design.Selection, in order.Input) (order.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return order.Receipt{}, err
	}
	if sel == nil {
		return order.Receipt{}, ErrDesignRequired
	}
	if err := s.Validate(in); err != nil {
		return order.Receipt{}, err
	}

	in = in.Normalized()
	receipt := order.Receipt{
		OrderID:    uuid.NewString(),
		DesignName: sel.Name,
		Quantity:   in.Quantity,
		Total:      s.Quote(in),
		PlacedAt:   s.now(),
	}

	s.logger.Info("order placed",
		zap.String("orderID", receipt.OrderID),
		zap.String("design", receipt.DesignName),
		zap.Int("quantity", receipt.Quantity),
		zap.Int("total", receipt.Total),
		zap.Bool("galleryConsent", in.GalleryConsent),
	)
	return receipt, nil
}

func trimDetails(in order.Input) order.Input {
	d := &in.Details
	d.GroomName = strings.TrimSpace(d.GroomName)
	d.BrideName = strings.TrimSpace(d.BrideName)
	d.Date = strings.TrimSpace(d.Date)
	d.Time = strings.TrimSpace(d.Time)
	return in
}
