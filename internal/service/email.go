package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
	"github.com/templui/goalkeeper/internal/model"
)

// EmailService sends transactional mail through Resend. In development, or without an
// API key, emails are logged instead of sent.
type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, user *model.User) error {
	subject, body := welcomeEmailTemplate(user.Name, s.appURL+"/goals", s.appName)
	return s.send(ctx, "welcome", user.Email, subject, body)
}

// GoalCompleted implements GoalNotifier.
func (s *EmailService) GoalCompleted(ctx context.Context, user *model.User, goal *model.Goal) error {
	subject, body := goalCompletedEmailTemplate(user.Name, goal, s.appURL+"/goals/"+goal.ID, s.appName)
	return s.send(ctx, "goal_completed", user.Email, subject, body)
}

// GroupGoalAssigned implements GroupNotifier.
func (s *EmailService) GroupGoalAssigned(ctx context.Context, user *model.User, group *model.Group, goal *model.Goal) error {
	subject, body := groupGoalEmailTemplate(user.Name, group.Name, goal, s.appURL+"/goals/"+goal.ID, s.appName)
	return s.send(ctx, "group_goal", user.Email, subject, body)
}

// GroupInvite implements GroupNotifier.
func (s *EmailService) GroupInvite(ctx context.Context, user *model.User, group *model.Group, secret string) error {
	subject, body := groupInviteEmailTemplate(user.Name, group.Name, s.appURL+"/groups/invites/accept?token="+secret, s.appName)
	return s.send(ctx, "group_invite", user.Email, subject, body)
}

// GroupGoalReached implements GroupNotifier.
func (s *EmailService) GroupGoalReached(ctx context.Context, recipient *model.User, group *model.Group, achiever *model.User, goal *model.Goal) error {
	subject, body := groupGoalReachedEmailTemplate(recipient.Name, group.Name, achiever.Name, goal, s.appURL+"/groups/"+group.ID, s.appName)
	return s.send(ctx, "group_goal_reached", recipient.Email, subject, body)
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, user *model.User, secret string) error {
	subject, body := passwordResetEmailTemplate(user.Name, s.appURL+"/reset-password?token="+secret, s.appName)
	return s.send(ctx, "password_reset", user.Email, subject, body)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}
