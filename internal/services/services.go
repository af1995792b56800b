package services

import (
	"context"
)

// Authenticator drives the OAuth2 authorization-code flow against a provider.
type Authenticator interface {
	// AuthURL returns the provider authorization URL carrying the given CSRF state.
	AuthURL(state string) string

	// ExchangeCode trades an authorization code for an access token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// Profile fetches the connected account's identity using the access token.
	Profile(ctx context.Context, accessToken string) (*Profile, error)

	// Name returns the provider name (e.g. "Instagram")
	Name() string
}

// MediaAPI covers the three outbound calls of the media publish workflow.
type MediaAPI interface {
	// CreateContainer registers a new media container and returns its creation ID.
	CreateContainer(ctx context.Context, accessToken, accountID string, req PublishRequest) (string, error)

	// ContainerStatus fetches the container's current status_code.
	ContainerStatus(ctx context.Context, accessToken, creationID string) (*ContainerState, error)

	// PublishContainer publishes a FINISHED container and returns the media ID.
	PublishContainer(ctx context.Context, accessToken, accountID, creationID string) (string, error)
}

// CommentAPI covers media browsing and comment moderation.
type CommentAPI interface {
	// ListMedia returns the account's most recent media, up to limit items.
	ListMedia(ctx context.Context, accessToken, accountID string, limit int) ([]MediaItem, error)

	// ListComments returns the comments on a media item. An empty list is not an error.
	ListComments(ctx context.Context, accessToken, mediaID string) ([]Comment, error)

	// Reply posts a reply to a comment and returns the reply ID.
	Reply(ctx context.Context, accessToken, commentID, message string) (string, error)
}

// Profile identifies the connected Instagram account.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PublishRequest is the user's publish intent: a hosted image and an optional caption.
type PublishRequest struct {
	ImageURL string
	Caption  string
}

// PublishResult holds both identifiers produced by a successful publish.
type PublishResult struct {
	CreationID string
	MediaID    string
}

// ContainerStatus is the provider-reported processing state of a media container.
type ContainerStatus string

const (
	ContainerInProgress ContainerStatus = "IN_PROGRESS"
	ContainerFinished   ContainerStatus = "FINISHED"
	ContainerFailed     ContainerStatus = "ERROR"
	ContainerExpired    ContainerStatus = "EXPIRED"
	ContainerPublished  ContainerStatus = "PUBLISHED"
)

// ContainerState is a container status check result. Raw preserves the full
// provider payload for diagnostics when the container reports an error.
type ContainerState struct {
	ID   string
	Code ContainerStatus
	Raw  []byte
}

// MediaItem is a published media entry as listed by the comments view.
type MediaItem struct {
	ID        string `json:"id"`
	Caption   string `json:"caption"`
	Timestamp string `json:"timestamp"`
}

// Comment is a read-only projection of a comment on a media item.
type Comment struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}
