package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"jobboard-backend/internal/model"
)

const (
	// StatusSubject is the NATS subject of application status events.
	StatusSubject  = "applications.status"
	connectTimeout = 10 * time.Second
)

// StatusEvent is published whenever an application is shortlisted or rejected.
type StatusEvent struct {
	ApplicationID uuid.UUID               `json:"application_id"`
	JobID         uuid.UUID               `json:"job_id"`
	ApplicantID   uuid.UUID               `json:"applicant_id"`
	Status        model.ApplicationStatus `json:"status"`
}

// Publisher emits application status events.
type Publisher interface {
	PublishStatusChange(ctx context.Context, event StatusEvent) error
	Close() error
}

// NewPublisher connects to NATS when url is set and returns a no-op publisher otherwise.
func NewPublisher(url string, logger *zap.Logger) (Publisher, error) {
	if url == "" {
		return NopPublisher{}, nil
	}
	return NewNATSPublisher(url, logger)
}

type natsConn interface {
	Publish(subj string, data []byte) error
	Close()
}

// NATSPublisher publishes StatusEvents as JSON.
type NATSPublisher struct {
	nc     natsConn
	logger *zap.Logger
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string, logger *zap.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("jobboard-api"),
		nats.Timeout(connectTimeout),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return &NATSPublisher{nc: nc, logger: logger}, nil
}

func (p *NATSPublisher) PublishStatusChange(_ context.Context, event StatusEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	if err := p.nc.Publish(StatusSubject, data); err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}

	p.logger.Debug("published application status event",
		zap.String("application_id", event.ApplicationID.String()),
		zap.String("status", string(event.Status)))
	return nil
}

func (p *NATSPublisher) Close() error {
	if p.nc != nil {
		p.nc.Close()
	}
	return nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishStatusChange(context.Context, StatusEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
