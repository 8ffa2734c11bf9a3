// ABOUTME: Offline draft queue database operations
// ABOUTME: Drafts wait locally until a publish run sends them to the API

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Draft is a queued post waiting to be published. Attachment files are
// referenced by path and opened at publish time so the queue survives
// restarts without holding file handles.
type Draft struct {
	ID           uuid.UUID
	Project      string
	Headline     string
	Markdown     string
	Tags         []string
	CWs          []string
	AdultContent bool
	Attachments  []string
	QueuedAt     time.Time
}

// NewDraft creates a draft with a generated UUID and timestamp.
func NewDraft(project, headline, markdown string) *Draft {
	return &Draft{
		ID:       uuid.New(),
		Project:  project,
		Headline: headline,
		Markdown: markdown,
		QueuedAt: time.Now(),
	}
}

// QueueDraft inserts a draft into the queue.
func QueueDraft(db *sql.DB, draft *Draft) error {
	tags, err := json.Marshal(orEmpty(draft.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	cws, err := json.Marshal(orEmpty(draft.CWs))
	if err != nil {
		return fmt.Errorf("marshal cws: %w", err)
	}
	attachments, err := json.Marshal(orEmpty(draft.Attachments))
	if err != nil {
		return fmt.Errorf("marshal attachments: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO drafts (id, project, headline, markdown, tags, cws, adult_content, attachments, queued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.ID.String(), draft.Project, draft.Headline, draft.Markdown,
		string(tags), string(cws), draft.AdultContent, string(attachments), draft.QueuedAt)
	return err
}

// ListDrafts returns a project's queued drafts, oldest first.
func ListDrafts(db *sql.DB, project string) ([]*Draft, error) {
	rows, err := db.Query(`
		SELECT id, project, headline, markdown, tags, cws, adult_content, attachments, queued_at
		FROM drafts WHERE project = ? ORDER BY queued_at`, project)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*Draft
	for rows.Next() {
		draft, err := scanDraft(rows.Scan)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}

// DeleteDraft removes a draft from the queue, normally after it publishes.
func DeleteDraft(db *sql.DB, id uuid.UUID) error {
	result, err := db.Exec(`DELETE FROM drafts WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("draft not found: %s", id)
	}
	return nil
}

func scanDraft(scan func(...any) error) (*Draft, error) {
	var draft Draft
	var id, tags, cws, attachments string
	err := scan(&id, &draft.Project, &draft.Headline, &draft.Markdown,
		&tags, &cws, &draft.AdultContent, &attachments, &draft.QueuedAt)
	if err != nil {
		return nil, err
	}
	draft.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid draft ID %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(tags), &draft.Tags); err != nil {
		return nil, fmt.Errorf("invalid tags for draft %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(cws), &draft.CWs); err != nil {
		return nil, fmt.Errorf("invalid cws for draft %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(attachments), &draft.Attachments); err != nil {
		return nil, fmt.Errorf("invalid attachments for draft %s: %w", id, err)
	}
	return &draft, nil
}
