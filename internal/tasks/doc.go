// Package tasks orchestrates the asynchronous media publish workflow.
//
// # Workflow
//
// [PublishEngine.Publish] runs the three-step publish sequence:
//
//  1. Create a media container for the image URL and caption
//  2. Poll the container's status until it reports FINISHED
//  3. Publish the container and return both identifiers
//
// # Readiness Polling
//
// The provider processes images asynchronously; publishing before the
// container reaches FINISHED fails with a "media not ready" provider error.
// Polling is fixed-interval and fixed-count, governed by [PollPolicy]
// (default 15 attempts, 2s apart):
//
//   - FINISHED stops polling immediately and proceeds to publish
//   - ERROR aborts immediately with [*ContainerError] carrying the full
//     status payload, without exhausting remaining attempts
//   - any other status (IN_PROGRESS, EXPIRED, PUBLISHED, unknown) waits out
//     the interval and polls again
//   - an exhausted budget fails with [*TimeoutError]
//
// The sleep between attempts is injected via [Sleeper] so the loop is testable
// without real delays, and it observes context cancellation.
//
// # State
//
// The engine keeps no state between calls; each Publish invocation is an
// independent sequence of outbound requests.
package tasks
