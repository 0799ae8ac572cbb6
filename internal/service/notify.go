package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// NotifyService sends finalization emails to participants who opted in.
// Development mode logs instead of sending.
type NotifyService struct {
	client    *resend.Client
	fromEmail string
	appName   string
	isDev     bool
}

func NewNotifyService(apiKey, fromEmail, appName string, isDev bool) *NotifyService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &NotifyService{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		isDev:     isDev,
	}
}

func (s *NotifyService) SendGoalCompleted(email, goalAddress string, stakeReturned int64, daysCompleted int) error {
	subject := fmt.Sprintf("%s: goal completed, stake returned", s.appName)
	body := fmt.Sprintf(
		"You did it. Your goal %s finished with %d compliant days and your stake of %d units is back in your vault.",
		goalAddress, daysCompleted, stakeReturned,
	)
	return s.send("goal_completed", email, subject, body)
}

func (s *NotifyService) SendGoalFailed(email, goalAddress string, stakeForfeited int64, daysCompleted int) error {
	subject := fmt.Sprintf("%s: goal not met", s.appName)
	body := fmt.Sprintf(
		"Your goal %s ended with %d compliant days, below the 80%% threshold. Your stake of %d units went to the wellness pool.",
		goalAddress, daysCompleted, stakeForfeited,
	)
	return s.send("goal_failed", email, subject, body)
}

func (s *NotifyService) send(kind, email, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", email, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", email)
	}
	return err
}
