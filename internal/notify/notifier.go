package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"jobboard-backend/internal/model"
)

// Notifier reports application status changes to the applicant and to
// event subscribers. Failures are logged and never returned.
type Notifier struct {
	Sender    Sender
	Publisher Publisher
	Logger    *zap.Logger
}

// NewNotifier creates a Notifier. A nil publisher disables events.
func NewNotifier(sender Sender, publisher Publisher, logger *zap.Logger) *Notifier {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{Sender: sender, Publisher: publisher, Logger: logger}
}

// StatusMessage returns the subject and body of the email for status.
// ok is false for statuses that do not notify.
func StatusMessage(status model.ApplicationStatus, name, jobID string) (subject, body string, ok bool) {
	switch status {
	case model.ApplicationStatusShortlisted:
		return "Your Application has been Shortlisted!",
			fmt.Sprintf("Hello %s,\n\nCongratulations! Your application for job ID %s has been shortlisted.\n\nBest regards,\nJob Board Team", name, jobID),
			true
	case model.ApplicationStatusRejected:
		return "Your Application has been Rejected",
			fmt.Sprintf("Hello %s,\n\nWe regret to inform you that your application for job ID %s has been rejected.\n\nBest wishes,\nJob Board Team", name, jobID),
			true
	}
	return "", "", false
}

// StatusChanged sends one email to applicant and publishes a StatusEvent for app.
func (n *Notifier) StatusChanged(ctx context.Context, app model.Application, applicant model.User) {
	logger := n.Logger.With(
		zap.String("application_id", app.ID.String()),
		zap.String("status", string(app.Status)))

	if subject, body, ok := StatusMessage(app.Status, applicant.Name, app.JobID.String()); ok {
		if err := n.Sender.SendEmail(ctx, applicant.Email, subject, body); err != nil {
			logger.Error("failed to send status email", zap.String("to", applicant.Email), zap.Error(err))
		}
	}

	event := StatusEvent{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		ApplicantID:   app.ApplicantID,
		Status:        app.Status,
	}
	if err := n.Publisher.PublishStatusChange(ctx, event); err != nil {
		logger.Error("failed to publish status event", zap.Error(err))
	}
}
