// ABOUTME: Post contents and the two-phase publish protocol
// ABOUTME: Builds the wire payload and fans out attachment uploads

package chost

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PostID is a server-assigned post identifier. The server is the only
// party that assigns these; a zero PostID means "not yet created".
type PostID uint64

func (id PostID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParsePostID parses the decimal form of a post ID.
func ParsePostID(s string) (PostID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid post ID %q: %w", s, err)
	}
	return PostID(n), nil
}

// Post describes a post's contents.
//
// Sending a Post with Session.CreatePost, EditPost, or SharePost mutates it
// in place: each attachment records the ID and URL the server assigns. The
// caller must not share or reuse a Post across concurrent publish calls.
type Post struct {
	// AdultContent marks the post as adult content.
	AdultContent bool
	// Headline is displayed above attachments and markdown.
	Headline string
	// Attachments are displayed between the headline and markdown.
	Attachments []*Attachment
	// Markdown is the post body. Paragraphs separated by a blank line
	// become independent blocks server-side, which is what makes
	// "read more" breaks render.
	Markdown string
	// Tags is the list of tags.
	Tags []string
	// ContentWarnings is the list of content warnings.
	ContentWarnings []string
	// Draft keeps the post visible only via its draft link.
	Draft bool
}

// IsEmpty returns true if the post has no headline, attachments, or
// markdown. An empty post is only sendable as a share of another post.
func (p *Post) IsEmpty() bool {
	return len(p.Attachments) == 0 && p.Headline == "" && p.Markdown == ""
}

// send runs the publish protocol: validate, create-or-edit with pending
// attachments as empty IDs and the post forced into draft, upload every
// pending attachment concurrently, then finalize with the assigned IDs and
// the caller's draft flag.
//
// The two-request sequence has a documented partial-failure mode: if an
// upload or the finalize request fails, the post is left in draft state
// server-side with whatever attachments made it. There is no rollback; the
// caller recovers by editing the post again.
func (p *Post) send(ctx context.Context, s *Session, method, path, project string, shareOf *PostID) (PostID, error) {
	if p.IsEmpty() && shareOf == nil {
		return 0, ErrEmptyPost
	}
	for _, att := range p.Attachments {
		if att.IsFailed() {
			return 0, ErrFailedAttachment
		}
	}

	needUpload := false
	for _, att := range p.Attachments {
		if att.IsPending() {
			needUpload = true
			break
		}
	}

	var resp struct {
		PostID PostID `json:"postId"`
	}
	if err := s.client.do(ctx, method, path, p.api(needUpload, shareOf), &resp); err != nil {
		return 0, err
	}
	s.client.log.Info("post sent", "postId", resp.PostID, "needUpload", needUpload)

	if needUpload {
		g, gctx := errgroup.WithContext(ctx)
		for _, att := range p.Attachments {
			g.Go(func() error {
				return att.upload(gctx, s.client, project, resp.PostID)
			})
		}
		if err := g.Wait(); err != nil {
			return 0, err
		}

		finalizePath := fmt.Sprintf("project/%s/posts/%d", url.PathEscape(project), resp.PostID)
		if err := s.client.do(ctx, http.MethodPut, finalizePath, p.api(false, shareOf), nil); err != nil {
			return 0, err
		}
	}

	return resp.PostID, nil
}

// api builds the wire payload. While uploads are pending the post is forced
// into draft state so it is never publicly visible with missing media.
func (p *Post) api(forceDraft bool, shareOf *PostID) apiPost {
	blocks := make([]apiBlock, 0, len(p.Attachments)+1)
	for _, att := range p.Attachments {
		blocks = append(blocks, apiBlock{
			Type: "attachment",
			Attachment: &apiAttachment{
				AltText:      att.AltText,
				AttachmentID: att.idString(),
			},
		})
	}
	if p.Markdown != "" {
		for _, paragraph := range strings.Split(p.Markdown, "\n\n") {
			blocks = append(blocks, apiBlock{
				Type:     "markdown",
				Markdown: &apiMarkdown{Content: paragraph},
			})
		}
	}

	state := 1
	if forceDraft || p.Draft {
		state = 0
	}

	return apiPost{
		AdultContent:  p.AdultContent,
		Blocks:        blocks,
		CWs:           orEmpty(p.ContentWarnings),
		Headline:      p.Headline,
		PostState:     state,
		ShareOfPostID: shareOf,
		Tags:          orEmpty(p.Tags),
	}
}

// orEmpty keeps nil slices serializing as [], never null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type apiPost struct {
	AdultContent  bool       `json:"adultContent"`
	Blocks        []apiBlock `json:"blocks"`
	CWs           []string   `json:"cws"`
	Headline      string     `json:"headline"`
	PostState     int        `json:"postState"`
	ShareOfPostID *PostID    `json:"shareOfPostId,omitempty"`
	Tags          []string   `json:"tags"`
}

type apiBlock struct {
	Type       string         `json:"type"`
	Attachment *apiAttachment `json:"attachment,omitempty"`
	Markdown   *apiMarkdown   `json:"markdown,omitempty"`
}

type apiAttachment struct {
	AltText      string `json:"altText"`
	AttachmentID string `json:"attachmentId"`
}

type apiMarkdown struct {
	Content string `json:"content"`
}

// PublishedPost is a post read back from the server.
type PublishedPost struct {
	ID PostID
	Post
}

type postPage struct {
	Items []readPost `json:"items"`
}

type readPost struct {
	PostID       PostID      `json:"postId"`
	Headline     string      `json:"headline"`
	State        int         `json:"state"`
	AdultContent bool        `json:"adultContent"`
	CWs          []string    `json:"cws"`
	Tags         []string    `json:"tags"`
	Blocks       []readBlock `json:"blocks"`
}

type readBlock struct {
	Type       string          `json:"type"`
	Markdown   *apiMarkdown    `json:"markdown"`
	Attachment *readAttachment `json:"attachment"`
}

type readAttachment struct {
	AttachmentID string `json:"attachmentId"`
	FileURL      string `json:"fileURL"`
	AltText      string `json:"altText"`
}

func (rp readPost) published() PublishedPost {
	post := Post{
		AdultContent:    rp.AdultContent,
		Headline:        rp.Headline,
		Tags:            rp.Tags,
		ContentWarnings: rp.CWs,
		Draft:           rp.State == 0,
	}
	var paragraphs []string
	for _, block := range rp.Blocks {
		switch {
		case block.Markdown != nil:
			paragraphs = append(paragraphs, block.Markdown.Content)
		case block.Attachment != nil:
			id, err := uuid.Parse(block.Attachment.AttachmentID)
			if err != nil {
				continue
			}
			post.Attachments = append(post.Attachments,
				uploadedAttachment(id, block.Attachment.FileURL, block.Attachment.AltText))
		}
	}
	post.Markdown = strings.Join(paragraphs, "\n\n")
	return PublishedPost{ID: rp.PostID, Post: post}
}
