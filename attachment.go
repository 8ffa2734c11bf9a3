// ABOUTME: Attachment lifecycle and the three-step upload sub-protocol
// ABOUTME: Pending attachments are consumed destructively on upload

package chost

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

type attachmentState int

const (
	attachmentPending attachmentState = iota
	attachmentUploaded
	attachmentFailed
)

// MediaMetadata carries optional metadata sent with an attachment upload:
// pixel dimensions for images, artist/title tags for audio.
type MediaMetadata struct {
	Width  int
	Height int
	Artist string
	Title  string
}

// Attachment is one piece of media belonging to a Post.
//
// Attachments start pending. When the post containing them is created or
// edited, the client uploads each pending attachment; success moves it to
// uploaded, failure to failed. A failed upload consumes the byte stream,
// so a failed attachment can never be retried; create a new one instead.
// An uploaded attachment is safe to send again: re-upload is a no-op.
type Attachment struct {
	// AltText is sent with the attachment's post block.
	AltText string

	state         attachmentState
	stream        io.Reader
	closer        io.Closer
	filename      string
	contentType   string
	contentLength int64
	metadata      *MediaMetadata

	id  uuid.UUID
	url string
}

// NewAttachment creates a pending attachment from an in-memory buffer.
// The byte length is captured here; the upload protocol requires it before
// the stream is read.
func NewAttachment(content []byte, filename, contentType string, metadata *MediaMetadata) *Attachment {
	return &Attachment{
		state:         attachmentPending,
		stream:        bytes.NewReader(content),
		filename:      filename,
		contentType:   contentType,
		contentLength: int64(len(content)),
		metadata:      metadata,
	}
}

// NewAttachmentFromFile creates a pending attachment that streams from a
// file on disk. The filename is taken from the path. For image content
// types the pixel dimensions are probed best-effort; for audio content
// types empty tags are attached. Probing failure is not an error.
func NewAttachmentFromFile(path, contentType string) (*Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	a := &Attachment{
		state:         attachmentPending,
		stream:        f,
		closer:        f,
		filename:      filepath.Base(path),
		contentType:   contentType,
		contentLength: info.Size(),
	}
	switch {
	case strings.HasPrefix(contentType, "image/"):
		a.metadata = probeImage(path)
	case strings.HasPrefix(contentType, "audio/"):
		a.metadata = &MediaMetadata{}
	}
	return a, nil
}

// WithAltText sets the alt text, builder style.
func (a *Attachment) WithAltText(altText string) *Attachment {
	a.AltText = altText
	return a
}

// IsPending returns true if the attachment has not yet been uploaded.
func (a *Attachment) IsPending() bool { return a.state == attachmentPending }

// IsUploaded returns true if the attachment has been uploaded.
func (a *Attachment) IsUploaded() bool { return a.state == attachmentUploaded }

// IsFailed returns true if the attachment failed to upload. Failed
// attachments cannot be recovered.
func (a *Attachment) IsFailed() bool { return a.state == attachmentFailed }

// ID returns the server-assigned attachment ID, or uuid.Nil before upload.
func (a *Attachment) ID() uuid.UUID {
	if a.state != attachmentUploaded {
		return uuid.Nil
	}
	return a.id
}

// URL returns the CDN URL of an uploaded attachment, or "".
func (a *Attachment) URL() string {
	if a.state != attachmentUploaded {
		return ""
	}
	return a.url
}

// idString is the wire form of the attachment ID: the canonical UUID once
// uploaded, the empty string (never null) while pending.
func (a *Attachment) idString() string {
	if a.state == attachmentUploaded {
		return a.id.String()
	}
	return ""
}

// uploadedAttachment reconstructs an uploaded attachment from wire data.
func uploadedAttachment(id uuid.UUID, fileURL, altText string) *Attachment {
	return &Attachment{
		AltText: altText,
		state:   attachmentUploaded,
		id:      id,
		url:     fileURL,
	}
}

type attachStartRequest struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
	Width         *int   `json:"width,omitempty"`
	Height        *int   `json:"height,omitempty"`
	Artist        string `json:"artist,omitempty"`
	Title         string `json:"title,omitempty"`
}

type attachStartResponse struct {
	AttachmentID   uuid.UUID         `json:"attachmentId"`
	URL            string            `json:"url"`
	RequiredFields map[string]string `json:"requiredFields"`
}

type attachFinishResponse struct {
	AttachmentID uuid.UUID `json:"attachmentId"`
	URL          string    `json:"url"`
}

// upload runs the start → form upload → finish sub-protocol against the
// given post. It is idempotent on an uploaded attachment and always errors
// on a failed one. The pending stream is taken before the first request:
// any failure from that point on leaves the attachment permanently failed.
func (a *Attachment) upload(ctx context.Context, c *Client, project string, postID PostID) error {
	switch a.state {
	case attachmentUploaded:
		return nil
	case attachmentFailed:
		return ErrFailedAttachment
	}

	stream := a.stream
	a.stream = nil
	a.state = attachmentFailed
	if a.closer != nil {
		closer := a.closer
		a.closer = nil
		defer func() { _ = closer.Close() }()
	}

	req := attachStartRequest{
		Filename:      a.filename,
		ContentType:   a.contentType,
		ContentLength: a.contentLength,
	}
	if m := a.metadata; m != nil {
		if m.Width > 0 && m.Height > 0 {
			w, h := m.Width, m.Height
			req.Width, req.Height = &w, &h
		}
		req.Artist = m.Artist
		req.Title = m.Title
	}

	var start attachStartResponse
	startPath := fmt.Sprintf("project/%s/posts/%d/attach/start", url.PathEscape(project), postID)
	if err := c.do(ctx, http.MethodPost, startPath, req, &start); err != nil {
		return err
	}
	c.log.Info("attachment upload started", "attachmentId", start.AttachmentID, "filename", a.filename)

	if err := c.uploadForm(ctx, start.URL, start.RequiredFields, a.filename, a.contentType, stream); err != nil {
		return err
	}

	var finish attachFinishResponse
	finishPath := fmt.Sprintf("project/%s/posts/%d/attach/finish/%s", url.PathEscape(project), postID, start.AttachmentID)
	if err := c.do(ctx, http.MethodPost, finishPath, nil, &finish); err != nil {
		return err
	}

	a.id = finish.AttachmentID
	a.url = finish.URL
	a.state = attachmentUploaded
	return nil
}

// uploadForm submits the storage backend's multipart form: every field the
// start response requires, then the file part, streamed without buffering
// the whole file. The target URL is absolute, not relative to the API base.
func (c *Client) uploadForm(ctx context.Context, target string, fields map[string]string, filename, contentType string, stream io.Reader) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := func() error {
			for name, value := range fields {
				if err := mw.WriteField(name, value); err != nil {
					return err
				}
			}
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
			header.Set("Content-Type", contentType)
			part, err := mw.CreatePart(header)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, stream); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, pr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: http.MethodPost, Path: target, StatusCode: resp.StatusCode}
	}
	return nil
}

// probeImage reads just enough of the file to learn its pixel dimensions.
// Returns nil if the format is unrecognized.
func probeImage(path string) *MediaMetadata {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil
	}
	return &MediaMetadata{Width: cfg.Width, Height: cfg.Height}
}
