// ABOUTME: Post archive database operations
// ABOUTME: Records posts this client created or pulled from the API

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Post is one archived post: something this client created, edited, or
// pulled from the server. The archive is a local record, never the source
// of truth; the server is.
type Post struct {
	ID           uint64
	Project      string
	Headline     string
	Markdown     string
	State        int
	AdultContent bool
	Tags         []string
	CWs          []string
	RecordedAt   time.Time
}

// RecordPost inserts or replaces an archived post.
func RecordPost(db *sql.DB, post *Post) error {
	if post.RecordedAt.IsZero() {
		post.RecordedAt = time.Now()
	}
	tags, err := json.Marshal(orEmpty(post.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	cws, err := json.Marshal(orEmpty(post.CWs))
	if err != nil {
		return fmt.Errorf("marshal cws: %w", err)
	}

	_, err = db.Exec(`
		INSERT OR REPLACE INTO posts (id, project, headline, markdown, state, adult_content, tags, cws, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Project, post.Headline, post.Markdown, post.State,
		post.AdultContent, string(tags), string(cws), post.RecordedAt)
	return err
}

// GetPost retrieves an archived post by project and ID.
func GetPost(db *sql.DB, project string, id uint64) (*Post, error) {
	row := db.QueryRow(`
		SELECT id, project, headline, markdown, state, adult_content, tags, cws, recorded_at
		FROM posts WHERE project = ? AND id = ?`, project, id)
	return scanPost(row.Scan)
}

// ListPosts returns a project's archived posts, newest first.
func ListPosts(db *sql.DB, project string) ([]*Post, error) {
	rows, err := db.Query(`
		SELECT id, project, headline, markdown, state, adult_content, tags, cws, recorded_at
		FROM posts WHERE project = ? ORDER BY id DESC`, project)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// ListProjects returns every project with at least one archived post.
func ListProjects(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT project FROM posts ORDER BY project`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ResolvePostID finds an archived post by ID or decimal ID prefix,
// returning the full ID.
func ResolvePostID(db *sql.DB, project, idPrefix string) (uint64, error) {
	rows, err := db.Query(`
		SELECT id FROM posts
		WHERE project = ? AND CAST(id AS TEXT) LIKE ?
		ORDER BY id`, project, idPrefix+"%")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var matches []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("post not found: %s", idPrefix)
	case 1:
		return matches[0], nil
	default:
		return 0, fmt.Errorf("ambiguous post ID prefix '%s' matches %d posts", idPrefix, len(matches))
	}
}

// DeletePost removes an archived post.
func DeletePost(db *sql.DB, project string, id uint64) error {
	result, err := db.Exec(`DELETE FROM posts WHERE project = ? AND id = ?`, project, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("post not found: %d", id)
	}
	return nil
}

func scanPost(scan func(...any) error) (*Post, error) {
	var post Post
	var tags, cws string
	err := scan(&post.ID, &post.Project, &post.Headline, &post.Markdown,
		&post.State, &post.AdultContent, &tags, &cws, &post.RecordedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &post.Tags); err != nil {
		return nil, fmt.Errorf("invalid tags for post %d: %w", post.ID, err)
	}
	if err := json.Unmarshal([]byte(cws), &post.CWs); err != nil {
		return nil, fmt.Errorf("invalid cws for post %d: %w", post.ID, err)
	}
	return &post, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
