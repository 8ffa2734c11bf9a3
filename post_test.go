// ABOUTME: Tests for post validation and wire payload construction
// ABOUTME: Verifies markdown segmentation and attachment ID rendering

package chost

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestPostIsEmpty(t *testing.T) {
	p := &Post{}
	if !p.IsEmpty() {
		t.Error("zero post should be empty")
	}
	if (&Post{Headline: "t"}).IsEmpty() {
		t.Error("post with headline should not be empty")
	}
	if (&Post{Markdown: "body"}).IsEmpty() {
		t.Error("post with markdown should not be empty")
	}
	att := NewAttachment([]byte("x"), "x.png", "image/png", nil)
	if (&Post{Attachments: []*Attachment{att}}).IsEmpty() {
		t.Error("post with attachment should not be empty")
	}
}

func TestParsePostID(t *testing.T) {
	id, err := ParsePostID("59547")
	if err != nil {
		t.Fatalf("ParsePostID failed: %v", err)
	}
	if id != 59547 {
		t.Errorf("expected 59547, got %d", id)
	}
	if id.String() != "59547" {
		t.Errorf("expected '59547', got %q", id.String())
	}
	if _, err := ParsePostID("not-a-number"); err == nil {
		t.Error("expected error for invalid post ID")
	}
}

func TestMarkdownBlocks(t *testing.T) {
	p := &Post{Markdown: "a\n\nb\n\nc"}
	api := p.api(false, nil)

	if len(api.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(api.Blocks))
	}
	want := []string{"a", "b", "c"}
	for i, block := range api.Blocks {
		if block.Type != "markdown" {
			t.Errorf("block %d: expected type markdown, got %q", i, block.Type)
		}
		if block.Markdown == nil || block.Markdown.Content != want[i] {
			t.Errorf("block %d: expected content %q", i, want[i])
		}
	}
}

func TestAttachmentBlockWire(t *testing.T) {
	id := uuid.MustParse("92bfaa11-8e42-4f60-acf4-6fd714b5678b")
	uploaded := uploadedAttachment(id, "https://cdn.example/x.png", "alt")
	pending := NewAttachment([]byte("x"), "x.png", "image/png", nil)

	p := &Post{Attachments: []*Attachment{uploaded, pending}}
	data, err := json.Marshal(p.api(false, nil))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		Blocks []struct {
			Type       string `json:"type"`
			Attachment struct {
				AltText      string `json:"altText"`
				AttachmentID string `json:"attachmentId"`
			} `json:"attachment"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Blocks[0].Attachment.AttachmentID != "92bfaa11-8e42-4f60-acf4-6fd714b5678b" {
		t.Errorf("uploaded attachment should render canonical ID, got %q",
			decoded.Blocks[0].Attachment.AttachmentID)
	}
	if decoded.Blocks[0].Attachment.AltText != "alt" {
		t.Errorf("expected alt text, got %q", decoded.Blocks[0].Attachment.AltText)
	}
	// Pending attachments render an empty string, never null or omitted.
	if decoded.Blocks[1].Attachment.AttachmentID != "" {
		t.Errorf("pending attachment should render empty ID, got %q",
			decoded.Blocks[1].Attachment.AttachmentID)
	}
}

func TestEmptySlicesSerializeAsArrays(t *testing.T) {
	p := &Post{Headline: "t"}
	data, err := json.Marshal(p.api(false, nil))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if string(decoded["cws"]) != "[]" {
		t.Errorf("expected cws to serialize as [], got %s", decoded["cws"])
	}
	if string(decoded["tags"]) != "[]" {
		t.Errorf("expected tags to serialize as [], got %s", decoded["tags"])
	}
}

func TestForcedDraftState(t *testing.T) {
	p := &Post{Headline: "t"}
	if got := p.api(true, nil).PostState; got != 0 {
		t.Errorf("forced draft should give postState 0, got %d", got)
	}
	if got := p.api(false, nil).PostState; got != 1 {
		t.Errorf("publishable post should give postState 1, got %d", got)
	}
	p.Draft = true
	if got := p.api(false, nil).PostState; got != 0 {
		t.Errorf("draft post should give postState 0, got %d", got)
	}
}

func TestShareOfPostID(t *testing.T) {
	p := &Post{}
	share := PostID(59547)
	data, err := json.Marshal(p.api(false, &share))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if string(decoded["shareOfPostId"]) != "59547" {
		t.Errorf("expected shareOfPostId 59547, got %s", decoded["shareOfPostId"])
	}

	// Without a share reference the field is omitted entirely.
	data, _ = json.Marshal(p.api(false, nil))
	if _, ok := decodedField(data, "shareOfPostId"); ok {
		t.Error("expected shareOfPostId to be omitted without a share")
	}
}

func decodedField(data []byte, field string) (json.RawMessage, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	v, ok := m[field]
	return v, ok
}

func TestSendEmptyPost(t *testing.T) {
	s := &Session{client: NewClient()}
	p := &Post{}
	_, err := s.CreatePost(context.Background(), "egg", p)
	if !errors.Is(err, ErrEmptyPost) {
		t.Errorf("expected ErrEmptyPost, got %v", err)
	}
}

func TestSendFailedAttachment(t *testing.T) {
	s := &Session{client: NewClient()}
	p := &Post{
		Headline:    "has content, still rejected",
		Attachments: []*Attachment{{state: attachmentFailed}},
	}
	_, err := s.CreatePost(context.Background(), "egg", p)
	if !errors.Is(err, ErrFailedAttachment) {
		t.Errorf("expected ErrFailedAttachment, got %v", err)
	}
}

func TestPublishedPostFromRead(t *testing.T) {
	rp := readPost{
		PostID:   7,
		Headline: "h",
		State:    0,
		Blocks: []readBlock{
			{Type: "attachment", Attachment: &readAttachment{
				AttachmentID: "92bfaa11-8e42-4f60-acf4-6fd714b5678b",
				FileURL:      "https://cdn.example/a.png",
				AltText:      "a",
			}},
			{Type: "markdown", Markdown: &apiMarkdown{Content: "first"}},
			{Type: "markdown", Markdown: &apiMarkdown{Content: "second"}},
		},
	}
	pub := rp.published()
	if pub.ID != 7 {
		t.Errorf("expected ID 7, got %d", pub.ID)
	}
	if !pub.Draft {
		t.Error("state 0 should map to draft")
	}
	if pub.Markdown != "first\n\nsecond" {
		t.Errorf("expected joined markdown, got %q", pub.Markdown)
	}
	if len(pub.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(pub.Attachments))
	}
	if !pub.Attachments[0].IsUploaded() {
		t.Error("read attachment should be uploaded")
	}
	if pub.Attachments[0].URL() != "https://cdn.example/a.png" {
		t.Errorf("unexpected attachment URL %q", pub.Attachments[0].URL())
	}
}
