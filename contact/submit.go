package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSubmitFailed is returned when a valid message could not be delivered.
// The caller should keep the user's input so it can be resubmitted.
var ErrSubmitFailed = errors.New("contact: submission failed")

// Message is an accepted contact request.
type Message struct {
	ID        string
	Name      string
	Email     string
	Body      string
	CreatedAt time.Time
}

// NewMessage builds a Message from a validated form.
func NewMessage(f Form) Message {
	f = f.Normalize()
	return Message{
		ID:        uuid.NewString(),
		Name:      f.Name,
		Email:     f.Email,
		Body:      f.Message,
		CreatedAt: time.Now().UTC(),
	}
}

// Submitter delivers a message to the firm.
type Submitter interface {
	Submit(ctx context.Context, m Message) error
}

// SimulatedSubmitter stands in for a real delivery backend: it waits Delay
// and then succeeds unless Fail reports otherwise.
type SimulatedSubmitter struct {
	Delay time.Duration
	Fail  func(Message) bool
}

// Submit implements Submitter.
func (s SimulatedSubmitter) Submit(ctx context.Context, m Message) error {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrSubmitFailed, ctx.Err())
		case <-t.C:
		}
	}
	if s.Fail != nil && s.Fail(m) {
		return ErrSubmitFailed
	}
	return nil
}

// MessageStore persists accepted messages.
type MessageStore interface {
	SaveMessage(m Message) error
}

// Service validates, delivers and stores contact messages.
type Service struct {
	submitter Submitter
	store     MessageStore
}

// NewService returns a Service. store may be nil.
func NewService(submitter Submitter, store MessageStore) *Service {
	return &Service{submitter: submitter, store: store}
}

// Submit validates f and delivers it. Invalid input yields field errors and
// no error; delivery problems yield an error wrapping ErrSubmitFailed.
func (s *Service) Submit(ctx context.Context, f Form) (Message, FieldErrors, error) {
	if errs := Validate(f); errs != nil {
		return Message{}, errs, nil
	}
	m := NewMessage(f)
	if err := s.submitter.Submit(ctx, m); err != nil {
		if !errors.Is(err, ErrSubmitFailed) {
			err = fmt.Errorf("%w: %v", ErrSubmitFailed, err)
		}
		return Message{}, nil, err
	}
	if s.store != nil {
		if err := s.store.SaveMessage(m); err != nil {
			return Message{}, nil, fmt.Errorf("%w: store: %v", ErrSubmitFailed, err)
		}
	}
	return m, nil, nil
}
