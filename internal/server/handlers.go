package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/desertthunder/igreview/internal/services"
	"github.com/desertthunder/igreview/internal/shared"
	"github.com/desertthunder/igreview/internal/tasks"
)

type homeView struct {
	Connected   bool
	Username    string
	ProfileJSON string
	Missing     []string
}

type commentsView struct {
	Media    []services.MediaItem
	Selected string
	Loaded   bool
	Comments []services.Comment
}

type publishResultView struct {
	CreationID string
	MediaID    string
}

type replyResultView struct {
	ReplyID string
}

// connected guards a handler behind the session invariant: access token and
// profile must both be present, otherwise the caller goes back to the entry page.
func (s *Server) connected(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFrom(r.Context()).Connected() {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next(w, r)
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())

	view := homeView{
		Connected: sess.Connected(),
		Missing:   s.config.MissingCredentials(),
	}
	if sess.Profile != nil {
		view.Username = sess.Profile.Username
		if pretty, err := json.MarshalIndent(sess.Profile, "", "  "); err == nil {
			view.ProfileJSON = string(pretty)
		}
	}

	s.render(w, s.templates.Home, http.StatusOK, "Instagram Business Login Review", view)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())

	state := shared.GenerateState()
	if err := s.sessions.Update(sess.ID, func(stored *Session) {
		stored.CSRFState = state
	}); err != nil {
		s.renderError(w, http.StatusInternalServerError, "Auth Error", err.Error())
		return
	}

	http.Redirect(w, r, s.auth.AuthURL(state), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	if code == "" {
		s.renderError(w, http.StatusBadRequest, "Auth Error", "Missing code")
		return
	}
	if sess.CSRFState == "" || state != sess.CSRFState {
		s.renderError(w, http.StatusBadRequest, "Auth Error", "Invalid state")
		return
	}

	accessToken, err := s.auth.ExchangeCode(r.Context(), code)
	if err != nil {
		s.logger.Error("token exchange failed", "error", err)
		s.renderError(w, http.StatusInternalServerError, "Auth Error", errorDetail(err))
		return
	}

	profile, err := s.auth.Profile(r.Context(), accessToken)
	if err != nil {
		s.logger.Error("profile fetch failed", "error", err)
		s.renderError(w, http.StatusInternalServerError, "Auth Error", errorDetail(err))
		return
	}

	if err := s.sessions.Update(sess.ID, func(stored *Session) {
		stored.AccessToken = accessToken
		stored.Profile = profile
		stored.CSRFState = ""
	}); err != nil {
		s.renderError(w, http.StatusInternalServerError, "Auth Error", err.Error())
		return
	}

	s.logger.Info("account connected", "username", profile.Username)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handlePublishForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, s.templates.Publish, http.StatusOK, "Publish Media", nil)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Publish Error", "Invalid form submission")
		return
	}

	imageURL := r.PostFormValue("image_url")
	if !validImageURL(imageURL) {
		s.renderError(w, http.StatusBadRequest, "Publish Error", "image_url must be an absolute http(s) URL")
		return
	}

	result, err := s.publisher.Publish(r.Context(), sess.AccessToken, sess.Profile.ID, services.PublishRequest{
		ImageURL: imageURL,
		Caption:  r.PostFormValue("caption"),
	})
	if err != nil {
		s.logger.Error("publish failed", "error", err)
		s.renderError(w, http.StatusInternalServerError, "Publish Error", errorDetail(err))
		return
	}

	s.render(w, s.templates.PublishResult, http.StatusOK, "Publish Success", publishResultView{
		CreationID: result.CreationID,
		MediaID:    result.MediaID,
	})
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())

	media, err := s.comments.ListMedia(r.Context(), sess.AccessToken, sess.Profile.ID, 10)
	if err != nil {
		s.logger.Error("media list failed", "error", err)
		s.renderError(w, http.StatusInternalServerError, "Comments Error", errorDetail(err))
		return
	}

	view := commentsView{Media: media, Selected: r.URL.Query().Get("media_id")}
	if view.Selected != "" {
		comments, err := s.comments.ListComments(r.Context(), sess.AccessToken, view.Selected)
		if err != nil {
			s.logger.Error("comment list failed", "error", err)
			s.renderError(w, http.StatusInternalServerError, "Comments Error", errorDetail(err))
			return
		}
		view.Loaded = true
		view.Comments = comments
	}

	s.render(w, s.templates.Comments, http.StatusOK, "Comments", view)
}

func (s *Server) handleReply(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Reply Error", "Invalid form submission")
		return
	}

	commentID := r.PostFormValue("comment_id")
	message := r.PostFormValue("message")
	if commentID == "" || message == "" {
		s.renderError(w, http.StatusBadRequest, "Reply Error", "comment_id and message are required")
		return
	}

	replyID, err := s.comments.Reply(r.Context(), sess.AccessToken, commentID, message)
	if err != nil {
		s.logger.Error("reply failed", "error", err)
		s.renderError(w, http.StatusInternalServerError, "Reply Error", errorDetail(err))
		return
	}

	s.render(w, s.templates.ReplyResult, http.StatusOK, "Reply Success", replyResultView{ReplyID: replyID})
}

func validImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// errorDetail extracts the richest diagnostic available: the raw provider
// payload when one was preserved, the error message otherwise.
func errorDetail(err error) string {
	var upstream *services.UpstreamError
	if errors.As(err, &upstream) && len(upstream.Body) > 0 {
		return upstream.Payload()
	}

	var container *tasks.ContainerError
	if errors.As(err, &container) {
		return container.Payload()
	}

	return err.Error()
}
