package services

import (
	"context"
	"testing"

	"lumen/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBookingConfirmation(t *testing.T) {
	body, err := RenderBookingConfirmation(BookingConfirmation{
		To:           "ada@example.com",
		GuestName:    "Ada <Lovelace>",
		BookingKey:   "KEY-101-ABCD1234",
		RoomType:     "SUITE",
		CheckInDate:  "2026-01-10",
		CheckOutDate: "2026-01-12",
		CheckInLink:  "http://localhost:5173/guest/stay/0190b6a4-6f1e-7c3a-9a55-3c1f2d7e8b90",
	})

	require.NoError(t, err)
	assert.Contains(t, body, "KEY-101-ABCD1234")
	assert.Contains(t, body, "SUITE")
	assert.Contains(t, body, `href="http://localhost:5173/guest/stay/0190b6a4-6f1e-7c3a-9a55-3c1f2d7e8b90"`)
	assert.Contains(t, body, "Ada &lt;Lovelace&gt;")
}

func TestConfirmationSubject(t *testing.T) {
	assert.Equal(t, "Your Booking is Confirmed! #KEY-101-ABCD1234", ConfirmationSubject("KEY-101-ABCD1234"))
}

func TestEmailService_DisabledIsNoop(t *testing.T) {
	service := NewEmailService(config.Config{SMTPHost: "smtp.sendgrid.net", SMTPPort: 587})

	assert.False(t, service.Enabled())
	assert.NoError(t, service.SendBookingConfirmation(context.Background(), BookingConfirmation{To: "a@b.c"}))
}
