// Instagram Business Graph API implementation of [Authenticator], [MediaAPI] and [CommentAPI]
//
// Endpoint shapes based on https://developers.facebook.com/docs/instagram-platform
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/igreview/internal/shared"
	"golang.org/x/oauth2"
)

const (
	igAuthURL      = "https://www.instagram.com/oauth/authorize"
	igTokenURL     = "https://api.instagram.com/oauth/access_token"
	igGraphBaseURL = "https://graph.instagram.com"
	igAPIVersion   = "v19.0"
)

var igScopes = []string{
	"instagram_business_basic",
	"instagram_business_content_publish",
	"instagram_business_manage_comments",
}

// UpstreamError is returned when the Graph API rejects a request or the
// transport fails with a response. The provider's error payload is kept
// verbatim for display.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%v: status %d: %s", shared.ErrUpstream, e.StatusCode, string(e.Body))
}

func (e *UpstreamError) Unwrap() error {
	return shared.ErrUpstream
}

// Payload returns the raw provider error body for rendering.
func (e *UpstreamError) Payload() string {
	return string(e.Body)
}

// InstagramService implements the Graph API calls for an Instagram Business account.
// Uses [oauth2] for the authorization-code exchange; Graph calls carry the
// access token as a query parameter per the provider's convention.
type InstagramService struct {
	config     *oauth2.Config
	httpClient *http.Client
	graphURL   string
}

// NewInstagramService creates a new Instagram service with the given app credentials.
func NewInstagramService(credentials map[string]string) (*InstagramService, error) {
	appID, ok := credentials["app_id"]
	if !ok || appID == "" {
		return nil, fmt.Errorf("missing app_id in credentials")
	}

	appSecret, ok := credentials["app_secret"]
	if !ok || appSecret == "" {
		return nil, fmt.Errorf("missing app_secret in credentials")
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/auth/callback"
	}

	config := &oauth2.Config{
		ClientID:     appID,
		ClientSecret: appSecret,
		RedirectURL:  redirectURI,
		Scopes:       igScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  igAuthURL,
			TokenURL: igTokenURL,
		},
	}

	return &InstagramService{
		config:     config,
		httpClient: http.DefaultClient,
		graphURL:   igGraphBaseURL,
	}, nil
}

func (s *InstagramService) Name() string {
	return "Instagram"
}

// AuthURL returns the provider authorization URL for user login.
func (s *InstagramService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// ExchangeCode trades the authorization code for an access token via a
// server-to-server form POST to the token endpoint.
func (s *InstagramService) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", &UpstreamError{
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       retrieveErr.Body,
			}
		}
		return "", fmt.Errorf("token exchange failed: %w", err)
	}

	return token.AccessToken, nil
}

// Profile fetches the connected account's id and username.
func (s *InstagramService) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	params := url.Values{}
	params.Set("fields", "id,username")

	body, err := s.get(ctx, s.graphURL+"/me", accessToken, params)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("profile response missing id: %s", string(body))
	}

	return &profile, nil
}

// CreateContainer registers a media container for the image and caption,
// returning the container's creation ID.
func (s *InstagramService) CreateContainer(ctx context.Context, accessToken, accountID string, req PublishRequest) (string, error) {
	params := url.Values{}
	params.Set("image_url", req.ImageURL)
	if req.Caption != "" {
		params.Set("caption", req.Caption)
	}

	body, err := s.post(ctx, s.versionedURL(accountID, "media"), accessToken, params)
	if err != nil {
		return "", err
	}

	var handle igHandle
	if err := json.Unmarshal(body, &handle); err != nil {
		return "", fmt.Errorf("failed to decode container response: %w", err)
	}
	if handle.ID == "" {
		return "", fmt.Errorf("container response missing id: %s", string(body))
	}

	return handle.ID, nil
}

// ContainerStatus queries the container's status_code field.
func (s *InstagramService) ContainerStatus(ctx context.Context, accessToken, creationID string) (*ContainerState, error) {
	params := url.Values{}
	params.Set("fields", "status_code")

	body, err := s.get(ctx, s.versionedURL(creationID), accessToken, params)
	if err != nil {
		return nil, err
	}

	var status igContainerStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode container status: %w", err)
	}

	return &ContainerState{
		ID:   status.ID,
		Code: ContainerStatus(status.StatusCode),
		Raw:  body,
	}, nil
}

// PublishContainer publishes the container and returns the resulting media ID.
func (s *InstagramService) PublishContainer(ctx context.Context, accessToken, accountID, creationID string) (string, error) {
	params := url.Values{}
	params.Set("creation_id", creationID)

	body, err := s.post(ctx, s.versionedURL(accountID, "media_publish"), accessToken, params)
	if err != nil {
		return "", err
	}

	var handle igHandle
	if err := json.Unmarshal(body, &handle); err != nil {
		return "", fmt.Errorf("failed to decode publish response: %w", err)
	}
	if handle.ID == "" {
		return "", fmt.Errorf("publish response missing id: %s", string(body))
	}

	return handle.ID, nil
}

// ListMedia returns the account's recent media with id, caption and timestamp.
func (s *InstagramService) ListMedia(ctx context.Context, accessToken, accountID string, limit int) ([]MediaItem, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("fields", "id,caption,timestamp")
	params.Set("limit", strconv.Itoa(limit))

	body, err := s.get(ctx, s.versionedURL(accountID, "media"), accessToken, params)
	if err != nil {
		return nil, err
	}

	var envelope igMediaList
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode media list: %w", err)
	}

	if envelope.Data == nil {
		return []MediaItem{}, nil
	}
	return envelope.Data, nil
}

// ListComments returns the comments on a media item. A media with no comments
// yields an empty slice, not an error.
func (s *InstagramService) ListComments(ctx context.Context, accessToken, mediaID string) ([]Comment, error) {
	params := url.Values{}
	params.Set("fields", "id,text,username,timestamp")

	body, err := s.get(ctx, s.versionedURL(mediaID, "comments"), accessToken, params)
	if err != nil {
		return nil, err
	}

	var envelope igCommentList
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode comment list: %w", err)
	}

	if envelope.Data == nil {
		return []Comment{}, nil
	}
	return envelope.Data, nil
}

// Reply posts a reply under the given comment.
func (s *InstagramService) Reply(ctx context.Context, accessToken, commentID, message string) (string, error) {
	params := url.Values{}
	params.Set("message", message)

	body, err := s.post(ctx, s.versionedURL(commentID, "replies"), accessToken, params)
	if err != nil {
		return "", err
	}

	var handle igHandle
	if err := json.Unmarshal(body, &handle); err != nil {
		return "", fmt.Errorf("failed to decode reply response: %w", err)
	}

	return handle.ID, nil
}

// versionedURL builds a Graph URL under the pinned API version.
func (s *InstagramService) versionedURL(parts ...string) string {
	return s.graphURL + "/" + igAPIVersion + "/" + strings.Join(parts, "/")
}

func (s *InstagramService) get(ctx context.Context, rawURL, accessToken string, params url.Values) ([]byte, error) {
	return s.request(ctx, http.MethodGet, rawURL, accessToken, params)
}

func (s *InstagramService) post(ctx context.Context, rawURL, accessToken string, params url.Values) ([]byte, error) {
	return s.request(ctx, http.MethodPost, rawURL, accessToken, params)
}

// request performs a Graph API call with the access token and parameters in
// the query string, returning the raw response body on 2xx and an
// [*UpstreamError] carrying the body otherwise.
func (s *InstagramService) request(ctx context.Context, method, rawURL, accessToken string, params url.Values) ([]byte, error) {
	if accessToken == "" {
		return nil, shared.ErrNotConnected
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, method, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}

	return body, nil
}

type igHandle struct {
	ID string `json:"id"`
}

type igContainerStatus struct {
	ID         string `json:"id"`
	StatusCode string `json:"status_code"`
}

type igMediaList struct {
	Data []MediaItem `json:"data"`
}

type igCommentList struct {
	Data []Comment `json:"data"`
}
