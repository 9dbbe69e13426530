package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"

	"lumen/config"
	"lumen/internal/metrics"

	logger "github.com/Bparsons0904/goLogger"
	gomail "gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var emailTemplates embed.FS

var confirmationTemplate = template.Must(
	template.ParseFS(emailTemplates, "templates/booking_confirmation.html"),
)

type BookingConfirmation struct {
	To           string
	GuestName    string
	BookingKey   string
	RoomType     string
	CheckInDate  string
	CheckOutDate string
	CheckInLink  string
}

type Mailer interface {
	SendBookingConfirmation(ctx context.Context, confirmation BookingConfirmation) error
}

// EmailService delivers transactional mail through an SMTP relay. When no
// credentials are configured every send is a logged no-op.
type EmailService struct {
	dialer *gomail.Dialer
	sender string
	log    logger.Logger
}

func NewEmailService(config config.Config) *EmailService {
	service := &EmailService{
		sender: config.SendGridSenderEmail,
		log:    logger.New("EmailService"),
	}

	if config.EmailEnabled() {
		dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SendGridAPIKey)
		dialer.TLSConfig = &tls.Config{ServerName: config.SMTPHost}
		service.dialer = dialer
	}

	return service
}

func (s *EmailService) Enabled() bool {
	return s.dialer != nil
}

func ConfirmationSubject(bookingKey string) string {
	return fmt.Sprintf("Your Booking is Confirmed! #%s", bookingKey)
}

func RenderBookingConfirmation(confirmation BookingConfirmation) (string, error) {
	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, confirmation); err != nil {
		return "", err
	}
	return body.String(), nil
}

func (s *EmailService) SendBookingConfirmation(
	ctx context.Context,
	confirmation BookingConfirmation,
) error {
	log := s.log.TraceFromContext(ctx).Function("SendBookingConfirmation")

	if !s.Enabled() {
		log.Info("Email delivery disabled, skipping confirmation", "to", confirmation.To)
		metrics.EmailsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	body, err := RenderBookingConfirmation(confirmation)
	if err != nil {
		metrics.EmailsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return log.Err("failed to render confirmation email", err)
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.sender)
	message.SetHeader("To", confirmation.To)
	message.SetHeader("Subject", ConfirmationSubject(confirmation.BookingKey))
	message.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(message); err != nil {
		metrics.EmailsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return log.Err("failed to send confirmation email", err, "to", confirmation.To)
	}

	metrics.EmailsTotal.WithLabelValues("sent").Inc()
	log.Info("Confirmation email sent", "to", confirmation.To, "bookingKey", confirmation.BookingKey)
	return nil
}
