package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/model/order"
)

func validInput() order.Input {
	return order.Input{
		Quantity: 100,
		Details: order.Details{
			GroomName: "김철수",
			BrideName: "이영희",
			Date:      "2026-05-16",
			Time:      "13:30",
			Place:     "서울 그랜드홀",
		},
	}
}

func TestQuoteTiers(t *testing.T) {
	svc := NewService(nil)
	cases := []struct {
		quantity int
		want     int
	}{
		{10, 8000},
		{50, 35000},
		{99, 69300},
		{100, 60000},
		{150, 82500},
		{200, 100000},
		{0, 60000},
	}
	for _, tc := range cases {
		got := svc.Quote(order.Input{Quantity: tc.quantity})
		assert.Equal(t, tc.want, got, "quantity %d", tc.quantity)
	}
}

func TestQuoteOptions(t *testing.T) {
	svc := NewService(nil)
	in := order.Input{
		Quantity: 100,
		Options: order.Options{
			Envelope:   order.EnvelopePremium,
			Sticker:    true,
			MealTicket: true,
			Map:        true,
			Mobile:     true,
		},
	}
	// 60000 + 10000 + 10000 + 5000 + 30000 + 50000
	assert.Equal(t, 165000, svc.Quote(in))

	in.Options = order.Options{Envelope: order.EnvelopeBasic}
	assert.Equal(t, 60000, svc.Quote(in))
}

func TestValidateAcceptsCompleteForm(t *testing.T) {
	svc := NewService(nil)
	require.NoError(t, svc.Validate(validInput()))
}

func TestValidateReportsMissingNames(t *testing.T) {
	svc := NewService(nil)
	in := validInput()
	in.Details.GroomName = "  "
	in.Details.BrideName = ""

	err := svc.Validate(in)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["details.groomName"])
	assert.True(t, fields["details.brideName"])
	assert.Contains(t, err.Error(), "details.groomName is required")
}

func TestValidateRejectsBadValues(t *testing.T) {
	svc := NewService(nil)
	in := validInput()
	in.Quantity = 5000
	in.Options.Envelope = "금박"
	in.Details.Date = "16/05/2026"
	in.Details.Time = "1pm"

	err := svc.Validate(in)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 4)
}

func TestPlaceReturnsReceipt(t *testing.T) {
	svc := NewService(nil)
	fixed := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	sel := &design.Selection{Name: "봄날의 속삭임", ImageURL: "https://picsum.photos/id/1025/600/800"}
	receipt, err := svc.Place(context.Background(), sel, validInput())

	require.NoError(t, err)
	assert.NotEmpty(t, receipt.OrderID)
	assert.Equal(t, "봄날의 속삭임", receipt.DesignName)
	assert.Equal(t, 100, receipt.Quantity)
	assert.Equal(t, 60000, receipt.Total)
	assert.Equal(t, fixed, receipt.PlacedAt)
}

func TestPlaceRequiresSelection(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Place(context.Background(), nil, validInput())
	assert.ErrorIs(t, err, ErrDesignRequired)
}
