// Package controller implements the submission controller: it binds the
// occupancy counter and the submit action to injected page elements, and runs
// each submission through a busy/idle cycle around one prediction request.
package controller

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-rentcast/pkg/counter"
	"github.com/goliatone/go-rentcast/pkg/display"
	"github.com/goliatone/go-rentcast/pkg/logging"
	"github.com/goliatone/go-rentcast/pkg/predict"
)

const (
	// WorkingLabel replaces the submit label while a request is in flight.
	WorkingLabel = "Calculating..."
	// ErrorToken is written to the price display when the request fails.
	ErrorToken = "Err"
	// DefaultAnimationDuration is how long the price takes to count up.
	DefaultAnimationDuration = time.Second
)

var (
	// ErrAlreadyBound is returned by a second call to Bind.
	ErrAlreadyBound = errors.New("controller: already bound")
	// ErrIncompletePage is returned when Bind is missing a required element.
	ErrIncompletePage = errors.New("controller: page is missing elements")
)

// Trigger is a user action a handler can be attached to (a button, a key
// binding, a menu entry).
type Trigger interface {
	OnActivate(handler func(ctx context.Context))
}

// Form is the submittable set of fields.
type Form interface {
	Trigger
	Serialize() map[string]string
}

// Page holds the element references the controller is wired against.
type Page struct {
	DecrementButton Trigger
	IncrementButton Trigger
	Occupancy       counter.Field
	Form            Form
	Submit          display.Control
	Price           display.Element
	Confidence      display.Element
	Alerter         display.Alerter

	// CounterOptions configure the occupancy counter, for example its bounds.
	CounterOptions []counter.Option
	// OnSubmitted, when set, receives every submission after the control
	// has returned to idle.
	OnSubmitted func(Submission)
}

func (p Page) validate() error {
	switch {
	case p.DecrementButton == nil, p.IncrementButton == nil, p.Occupancy == nil:
		return errors.Join(ErrIncompletePage, errors.New("counter elements are required"))
	case p.Form == nil, p.Submit == nil:
		return errors.Join(ErrIncompletePage, errors.New("form and submit control are required"))
	case p.Price == nil, p.Confidence == nil, p.Alerter == nil:
		return errors.Join(ErrIncompletePage, errors.New("price, confidence and alerter are required"))
	}
	return nil
}

// Outcome classifies how a submission ended.
type Outcome int

const (
	// OutcomePriced means a price was received and the animation started.
	OutcomePriced Outcome = iota
	// OutcomeRejected means the collaborator answered with an error message.
	OutcomeRejected
	// OutcomeFailed means the request or its decoding failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePriced:
		return "priced"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Submission reports what one submit did.
type Submission struct {
	RequestID string
	Outcome   Outcome
	Result    predict.Result
	Err       error
	// Animation is set for OutcomePriced.
	Animation *display.Animation
}

// Controller orchestrates form capture, the prediction request and the
// display updates.
type Controller struct {
	predictor   predict.Predictor
	animator    *display.Animator
	logger      logging.Logger
	duration    time.Duration
	newID       func() string
	counterOpts []counter.Option

	page    Page
	counter *counter.Counter
	bound   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithAnimator overrides the animator, typically to inject a frame source.
func WithAnimator(animator *display.Animator) Option {
	return func(c *Controller) {
		if animator != nil {
			c.animator = animator
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAnimationDuration sets how long the price counts up.
func WithAnimationDuration(d time.Duration) Option {
	return func(c *Controller) {
		c.duration = d
	}
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithCounterOptions configures the occupancy counter created by Bind.
func WithCounterOptions(opts ...counter.Option) Option {
	return func(c *Controller) {
		c.counterOpts = append(c.counterOpts, opts...)
	}
}

// New constructs a controller around predictor.
func New(predictor predict.Predictor, options ...Option) (*Controller, error) {
	if predictor == nil {
		return nil, errors.New("controller: predictor is nil")
	}
	c := &Controller{
		predictor: predictor,
		duration:  DefaultAnimationDuration,
		newID:     uuid.NewString,
		logger:    logging.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.animator == nil {
		c.animator = display.NewAnimator(nil)
	}
	return c, nil
}

// Bind registers the counter and submit handlers against page. It runs once;
// there is no unbinding.
func (c *Controller) Bind(page Page) error {
	if c.bound {
		return ErrAlreadyBound
	}
	if err := page.validate(); err != nil {
		return err
	}
	opts := append(append([]counter.Option(nil), c.counterOpts...), page.CounterOptions...)
	cnt, err := counter.New(page.Occupancy, opts...)
	if err != nil {
		return err
	}

	c.page = page
	c.counter = cnt
	c.bound = true

	page.DecrementButton.OnActivate(func(context.Context) { cnt.Decrement() })
	page.IncrementButton.OnActivate(func(context.Context) { cnt.Increment() })
	page.Form.OnActivate(func(ctx context.Context) { c.Submit(ctx) })
	return nil
}

// Counter exposes the occupancy counter created by Bind.
func (c *Controller) Counter() *counter.Counter {
	return c.counter
}

// Submit runs one submission: busy state, serialize, request, display update
// or error report, then an unconditional return to idle. Submit on an
// unbound controller is a no-op reporting OutcomeFailed.
func (c *Controller) Submit(ctx context.Context) Submission {
	if !c.bound {
		return Submission{Outcome: OutcomeFailed, Err: errors.New("controller: not bound")}
	}
	page := c.page
	sub := Submission{RequestID: c.newID()}
	if page.OnSubmitted != nil {
		defer func() { page.OnSubmitted(sub) }()
	}

	label := page.Submit.Label()
	page.Submit.SetLabel(WorkingLabel)
	page.Submit.SetEnabled(false)
	defer func() {
		page.Submit.SetLabel(label)
		page.Submit.SetEnabled(true)
	}()

	fields := page.Form.Serialize()
	c.logger.Debugw("submitting form", "request_id", sub.RequestID, "fields", fields)

	res, err := c.predictor.Predict(ctx, predict.Request{ID: sub.RequestID, Fields: fields})
	if err != nil {
		c.logger.Errorw("prediction request failed", "request_id", sub.RequestID, "error", err)
		page.Price.SetText(ErrorToken)
		sub.Outcome = OutcomeFailed
		sub.Err = err
		return sub
	}
	sub.Result = res

	if res.Rejected() {
		sub.Outcome = OutcomeRejected
		c.logger.Infow("prediction rejected", "request_id", sub.RequestID, "reason", res.Error)
		if err := page.Alerter.Alert(ctx, "Error: "+sanitizeMessage(res.Error)); err != nil {
			c.logger.Warnw("alert failed", "request_id", sub.RequestID, "error", err)
		}
		return sub
	}

	sub.Outcome = OutcomePriced
	// The count-up outlives this call; stop it with Animation.Cancel.
	sub.Animation = c.animator.Animate(context.WithoutCancel(ctx), page.Price, 0, res.Price, c.duration)
	page.Confidence.SetText(FormatConfidence(res.Confidence))
	c.logger.Infow("prediction received", "request_id", sub.RequestID, "price", res.Price, "confidence", res.Confidence)
	return sub
}

// FormatConfidence renders a percentage with the shortest exact decimal form.
func FormatConfidence(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
