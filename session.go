// ABOUTME: Authenticated session facade over the client
// ABOUTME: Exposes create, edit, share, and delete post operations

package chost

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Session is an authenticated handle to the API. Obtain one with Login or
// Client.Login; every method assumes login has completed.
type Session struct {
	client *Client
}

// Login creates a default client and logs in with an email and password.
func Login(ctx context.Context, email, password string) (*Session, error) {
	return NewClient().Login(ctx, email, password)
}

// Client returns the underlying client, for unauthenticated reads like
// GetPostsPage.
func (s *Session) Client() *Client {
	return s.client
}

// CreatePost publishes a new post to the given project and returns the
// server-assigned post ID.
//
// If the post has pending attachments, publish happens in two phases: the
// post is created as a draft, attachments upload concurrently, and a
// finalize request restores the post's own draft flag. A failure after the
// first phase leaves the post in draft state server-side, possibly with
// some attachments uploaded; there is no automatic rollback. Calling
// EditPost with the same Post retries cleanly because uploaded attachments
// are not re-uploaded.
func (s *Session) CreatePost(ctx context.Context, project string, post *Post) (PostID, error) {
	if project == "" {
		return 0, ErrNoProject
	}
	path := fmt.Sprintf("project/%s/posts", url.PathEscape(project))
	return post.send(ctx, s, http.MethodPost, path, project, nil)
}

// EditPost replaces the contents of an existing post. The partial-failure
// behavior of CreatePost applies here too.
func (s *Session) EditPost(ctx context.Context, project string, id PostID, post *Post) (PostID, error) {
	if project == "" {
		return 0, ErrNoProject
	}
	path := fmt.Sprintf("project/%s/posts/%d", url.PathEscape(project), id)
	return post.send(ctx, s, http.MethodPut, path, project, nil)
}

// SharePost publishes post as a share of another post. The shared post may
// be empty; sharing with no added commentary is valid.
func (s *Session) SharePost(ctx context.Context, project string, shareOf PostID, post *Post) (PostID, error) {
	if project == "" {
		return 0, ErrNoProject
	}
	path := fmt.Sprintf("project/%s/posts", url.PathEscape(project))
	return post.send(ctx, s, http.MethodPost, path, project, &shareOf)
}

// DeletePost deletes a post. Success iff the server responds 2xx.
func (s *Session) DeletePost(ctx context.Context, project string, id PostID) error {
	if project == "" {
		return ErrNoProject
	}
	path := fmt.Sprintf("project/%s/posts/%d", url.PathEscape(project), id)
	return s.client.do(ctx, http.MethodDelete, path, nil, nil)
}
