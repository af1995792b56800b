package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/igreview/internal/services"
	"github.com/desertthunder/igreview/internal/shared"
)

// ContainerError is returned when a status check reports ERROR. The full
// provider status payload is preserved for display.
type ContainerError struct {
	Raw []byte
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("%v: %s", shared.ErrContainer, string(e.Raw))
}

func (e *ContainerError) Unwrap() error {
	return shared.ErrContainer
}

// Payload returns the raw status payload for rendering.
func (e *ContainerError) Payload() string {
	return string(e.Raw)
}

// TimeoutError is returned when the polling budget is exhausted without the
// container reaching a terminal status. Distinct from [ContainerError]: the
// user can simply try again.
type TimeoutError struct {
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%v (%d status checks)", shared.ErrMediaNotReady, e.Attempts)
}

func (e *TimeoutError) Unwrap() error {
	return shared.ErrMediaNotReady
}

// PollPolicy controls the readiness polling loop.
type PollPolicy struct {
	MaxAttempts int           // number of status checks before giving up
	Interval    time.Duration // fixed wait between checks

	// Ready reports whether a status means the container can be published.
	Ready func(services.ContainerStatus) bool

	// Failed reports whether a status is a terminal failure.
	Failed func(services.ContainerStatus) bool
}

// DefaultPollPolicy returns the stock policy: 15 checks, 2 seconds apart,
// FINISHED is ready and ERROR is failed. Every other status (including
// EXPIRED and PUBLISHED) keeps polling until the budget runs out.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		MaxAttempts: 15,
		Interval:    2 * time.Second,
		Ready:       func(code services.ContainerStatus) bool { return code == services.ContainerFinished },
		Failed:      func(code services.ContainerStatus) bool { return code == services.ContainerFailed },
	}
}

// Sleeper waits out one polling interval. Implementations return early with
// the context's error when it is cancelled.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PublishEngine runs the container → poll → publish workflow against a [services.MediaAPI].
type PublishEngine struct {
	api    services.MediaAPI
	policy PollPolicy
	sleep  Sleeper
	logger *log.Logger
}

// NewPublishEngine creates an engine with the default polling policy.
func NewPublishEngine(api services.MediaAPI, logger *log.Logger) *PublishEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &PublishEngine{
		api:    api,
		policy: DefaultPollPolicy(),
		sleep:  sleepWithContext,
		logger: shared.WithLogger(logger, "component", "publish"),
	}
}

// SetPolicy replaces the polling policy. Zero or negative fields fall back to defaults.
func (e *PublishEngine) SetPolicy(policy PollPolicy) {
	defaults := DefaultPollPolicy()
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaults.MaxAttempts
	}
	if policy.Interval <= 0 {
		policy.Interval = defaults.Interval
	}
	if policy.Ready == nil {
		policy.Ready = defaults.Ready
	}
	if policy.Failed == nil {
		policy.Failed = defaults.Failed
	}
	e.policy = policy
}

// SetSleeper replaces the interval sleep, used by tests to avoid real delays.
func (e *PublishEngine) SetSleeper(sleep Sleeper) {
	if sleep != nil {
		e.sleep = sleep
	}
}

// Publish creates a media container, waits for it to become ready, and
// publishes it. Returns both the container's creation ID and the published
// media ID.
func (e *PublishEngine) Publish(ctx context.Context, accessToken, accountID string, req services.PublishRequest) (*services.PublishResult, error) {
	if req.ImageURL == "" {
		return nil, fmt.Errorf("%w: image_url", shared.ErrMissingArgument)
	}

	creationID, err := e.api.CreateContainer(ctx, accessToken, accountID, req)
	if err != nil {
		return nil, err
	}
	e.logger.Info("media container created", "creation_id", creationID)

	if err := e.waitForContainer(ctx, accessToken, creationID); err != nil {
		return nil, err
	}

	mediaID, err := e.api.PublishContainer(ctx, accessToken, accountID, creationID)
	if err != nil {
		return nil, err
	}
	e.logger.Info("media published", "creation_id", creationID, "media_id", mediaID)

	return &services.PublishResult{CreationID: creationID, MediaID: mediaID}, nil
}

// waitForContainer polls the container status until ready, failed, or the
// attempt budget runs out. The interval sleep is skipped after the final
// check since no further poll follows it.
func (e *PublishEngine) waitForContainer(ctx context.Context, accessToken, creationID string) error {
	for attempt := 1; attempt <= e.policy.MaxAttempts; attempt++ {
		state, err := e.api.ContainerStatus(ctx, accessToken, creationID)
		if err != nil {
			return err
		}

		if e.policy.Ready(state.Code) {
			return nil
		}
		if e.policy.Failed(state.Code) {
			return &ContainerError{Raw: state.Raw}
		}

		e.logger.Debug("container not ready", "creation_id", creationID, "attempt", attempt, "status", state.Code)

		if attempt < e.policy.MaxAttempts {
			if err := e.sleep(ctx, e.policy.Interval); err != nil {
				return err
			}
		}
	}

	return &TimeoutError{Attempts: e.policy.MaxAttempts}
}
