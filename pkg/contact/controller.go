package contact

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrInFlight is returned when a submission is attempted while one is pending.
var ErrInFlight = errors.New("a submission is already in progress")

// Status is the submission state of a form.
type Status int

const (
	// StatusIdle means nothing has been submitted yet.
	StatusIdle Status = iota
	// StatusSending means a submission is in flight.
	StatusSending
	// StatusSuccess means the last submission was relayed.
	StatusSuccess
	// StatusError means the last submission failed validation or relaying.
	StatusError
)

// String returns the status name.
func (s Status) String() (name string) {
	switch s {
	case StatusIdle:
		name = "idle"
	case StatusSending:
		name = "sending"
	case StatusSuccess:
		name = "success"
	case StatusError:
		name = "error"
	default:
		name = "unknown"
	}
	return name
}

// Controller holds the state of one contact form.
type Controller struct {
	relay Relay

	mu      sync.Mutex
	form    Form
	status  Status
	message string
}

// NewController creates a form controller that submits through relay.
func NewController(relay Relay) (controller *Controller) {
	controller = &Controller{
		relay:  relay,
		status: StatusIdle,
	}
	return controller
}

// Set assigns a form field.
func (c *Controller) Set(field, value string) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.form.Set(field, value)
	return err
}

// Fill replaces every field.
func (c *Controller) Fill(form Form) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = form
}

// Form returns the current field values.
func (c *Controller) Form() (form Form) {
	c.mu.Lock()
	defer c.mu.Unlock()

	form = c.form
	return form
}

// Status returns the submission state.
func (c *Controller) Status() (status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	status = c.status
	return status
}

// Message returns the text shown for the current state.
func (c *Controller) Message() (message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	message = c.message
	return message
}

// Submit validates and relays the form. A validation failure never reaches the
// relay. Success clears the fields; failure keeps them for resubmission.
func (c *Controller) Submit(ctx context.Context) (err error) {
	c.mu.Lock()

	if c.status == StatusSending {
		c.mu.Unlock()
		err = ErrInFlight
		return err
	}

	form := c.form
	err = form.Validate()
	if err != nil {
		c.status = StatusError
		c.message = err.Error()
		c.mu.Unlock()
		return err
	}

	c.status = StatusSending
	c.message = ""
	c.mu.Unlock()

	sendErr := c.relay.Send(ctx, form)

	c.mu.Lock()
	defer c.mu.Unlock()

	if sendErr != nil {
		c.status = StatusError
		c.message = FailureMessage
		err = errors.Wrap(sendErr, "failed to relay contact form")
		return err
	}

	c.form = Form{}
	c.status = StatusSuccess
	c.message = SuccessMessage
	return err
}
