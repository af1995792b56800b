package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// OAuth errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrMissingCode  = fmt.Errorf("missing authorization code")
	ErrInvalidState = fmt.Errorf("invalid state parameter")
	ErrNotConnected = fmt.Errorf("no connected account")

	// Graph API and publish errors
	ErrUpstream      = fmt.Errorf("graph API request failed")
	ErrContainer     = fmt.Errorf("media container reported an error")
	ErrMediaNotReady = fmt.Errorf("media not ready after waiting")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
