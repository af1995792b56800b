// Package services implements the Instagram Graph API client used by the web app.
//
// # Interfaces
//
// Consumers depend on three narrow interfaces rather than the concrete client:
//   - [Authenticator] : login URL construction, code exchange, profile fetch
//   - [MediaAPI] : media container creation, status checks, publish confirmation
//   - [CommentAPI] : media listing, comment listing, replies
//
// [InstagramService] implements all three.
//
// # Response Types
//
// Every Graph payload the app consumes is decoded into a typed record
// ([Profile], [ContainerState], [MediaItem], [Comment]) before use. Raw bodies
// are never passed through to rendering.
//
// # Error Handling
//
// Transport and API failures surface as [*UpstreamError], which wraps
// [shared.ErrUpstream] and preserves the provider's raw error payload verbatim
// so the handler layer can display it.
package services
