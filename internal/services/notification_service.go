package services

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/skyetechdotio/Club-Key-sub001/internal/config"
	"github.com/skyetechdotio/Club-Key-sub001/internal/constants"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

// BookingEmailData carries everything the booking email templates render.
type BookingEmailData struct {
	GuestName  string
	HostName   string
	ClubName   string
	TeeTime    string
	Players    int
	Total      float64
	HostPayout float64
}

// NotificationService sends transactional booking emails. Sends are
// best-effort: callers log failures and move on, a booking never fails
// because an email did.
type NotificationService interface {
	SendBookingConfirmedGuest(ctx context.Context, toEmail string, data BookingEmailData) error
	SendBookingConfirmedHost(ctx context.Context, toEmail string, data BookingEmailData) error
	SendPaymentFailedGuest(ctx context.Context, toEmail string, data BookingEmailData) error
	SendBookingRefundedGuest(ctx context.Context, toEmail string, data BookingEmailData) error
}

type sendgridNotificationService struct {
	cfg *config.Config
}

func NewNotificationService(cfg *config.Config) NotificationService {
	return &sendgridNotificationService{cfg: cfg}
}

func (s *sendgridNotificationService) SendBookingConfirmedGuest(ctx context.Context, toEmail string, data BookingEmailData) error {
	plain := fmt.Sprintf(
		"Hi %s,\n\nYour tee time at %s on %s is confirmed for %d player(s).\nTotal charged: $%.2f.\n\nSee you on the course!",
		data.GuestName, data.ClubName, data.TeeTime, data.Players, data.Total,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your tee time at <strong>%s</strong> on %s is confirmed for %d player(s).</p><p>Total charged: <strong>$%.2f</strong>.</p><p>See you on the course!</p>",
		data.GuestName, data.ClubName, data.TeeTime, data.Players, data.Total,
	)
	return s.send(ctx, toEmail, constants.EmailSubjectBookingConfirmedGuest, plain, html)
}

func (s *sendgridNotificationService) SendBookingConfirmedHost(ctx context.Context, toEmail string, data BookingEmailData) error {
	plain := fmt.Sprintf(
		"Hi %s,\n\n%s booked your tee time at %s on %s for %d player(s).\nYour payout after fees: $%.2f.",
		data.HostName, data.GuestName, data.ClubName, data.TeeTime, data.Players, data.HostPayout,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s booked your tee time at <strong>%s</strong> on %s for %d player(s).</p><p>Your payout after fees: <strong>$%.2f</strong>.</p>",
		data.HostName, data.GuestName, data.ClubName, data.TeeTime, data.Players, data.HostPayout,
	)
	return s.send(ctx, toEmail, constants.EmailSubjectBookingConfirmedHost, plain, html)
}

func (s *sendgridNotificationService) SendPaymentFailedGuest(ctx context.Context, toEmail string, data BookingEmailData) error {
	plain := fmt.Sprintf(
		"Hi %s,\n\nYour payment for the tee time at %s on %s did not go through. The tee time has been released; you can try booking again.",
		data.GuestName, data.ClubName, data.TeeTime,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your payment for the tee time at <strong>%s</strong> on %s did not go through. The tee time has been released; you can try booking again.</p>",
		data.GuestName, data.ClubName, data.TeeTime,
	)
	return s.send(ctx, toEmail, constants.EmailSubjectPaymentFailedGuest, plain, html)
}

func (s *sendgridNotificationService) SendBookingRefundedGuest(ctx context.Context, toEmail string, data BookingEmailData) error {
	plain := fmt.Sprintf(
		"Hi %s,\n\nYour booking at %s on %s has been refunded. $%.2f is on its way back to your payment method.",
		data.GuestName, data.ClubName, data.TeeTime, data.Total,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your booking at <strong>%s</strong> on %s has been refunded. <strong>$%.2f</strong> is on its way back to your payment method.</p>",
		data.GuestName, data.ClubName, data.TeeTime, data.Total,
	)
	return s.send(ctx, toEmail, constants.EmailSubjectBookingRefundedGuest, plain, html)
}

func (s *sendgridNotificationService) send(ctx context.Context, toEmail, subject, plain, html string) error {
	if s.cfg.SendgridAPIKey == "" {
		utils.Logger.Debugf("SendGrid disabled; skipping email %q to %s", subject, toEmail)
		return nil
	}

	from := mail.NewEmail("ClubKey", s.cfg.LDFlag_SendgridFromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	if s.cfg.LDFlag_SendgridSandboxMode {
		setting := mail.NewSetting(true)
		mailSettings := mail.NewMailSettings()
		mailSettings.SetSandboxMode(setting)
		message.SetMailSettings(mailSettings)
	}

	client := sendgrid.NewSendClient(s.cfg.SendgridAPIKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
