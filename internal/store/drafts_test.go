// ABOUTME: Tests for the offline draft queue
// ABOUTME: Verifies queue order and delete-after-publish

package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestQueueAndListDrafts(t *testing.T) {
	db := setupTestDB(t)

	first := NewDraft("egg", "first", "body")
	first.Attachments = []string{"/tmp/pic.png"}
	if err := QueueDraft(db, first); err != nil {
		t.Fatalf("QueueDraft failed: %v", err)
	}
	second := NewDraft("egg", "second", "body")
	if err := QueueDraft(db, second); err != nil {
		t.Fatalf("QueueDraft failed: %v", err)
	}

	drafts, err := ListDrafts(db, "egg")
	if err != nil {
		t.Fatalf("ListDrafts failed: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[0].Headline != "first" {
		t.Errorf("expected oldest first, got '%s'", drafts[0].Headline)
	}
	if len(drafts[0].Attachments) != 1 || drafts[0].Attachments[0] != "/tmp/pic.png" {
		t.Errorf("expected attachment path round-trip, got %v", drafts[0].Attachments)
	}
}

func TestListDraftsScopedToProject(t *testing.T) {
	db := setupTestDB(t)

	_ = QueueDraft(db, NewDraft("egg", "mine", ""))
	_ = QueueDraft(db, NewDraft("other", "not mine", ""))

	drafts, err := ListDrafts(db, "egg")
	if err != nil {
		t.Fatalf("ListDrafts failed: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Headline != "mine" {
		t.Errorf("expected only project drafts, got %v", drafts)
	}
}

func TestDeleteDraft(t *testing.T) {
	db := setupTestDB(t)

	draft := NewDraft("egg", "h", "m")
	if err := QueueDraft(db, draft); err != nil {
		t.Fatalf("QueueDraft failed: %v", err)
	}
	if err := DeleteDraft(db, draft.ID); err != nil {
		t.Fatalf("DeleteDraft failed: %v", err)
	}
	if err := DeleteDraft(db, uuid.New()); err == nil {
		t.Error("expected error deleting missing draft")
	}

	drafts, err := ListDrafts(db, "egg")
	if err != nil {
		t.Fatalf("ListDrafts failed: %v", err)
	}
	if len(drafts) != 0 {
		t.Errorf("expected empty queue, got %d drafts", len(drafts))
	}
}
