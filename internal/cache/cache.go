// ABOUTME: Charm KV client wrapper for cloud-synced post archive replica
// ABOUTME: Provides automatic sync via SSH keys using Charm Cloud

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	badger "github.com/dgraph-io/badger/v3"

	"github.com/harper/chost/internal/store"
)

// PostPrefix namespaces archived posts in the KV store. Keys are
// post:<project>:<post id>.
const PostPrefix = "post:"

// DefaultCharmHost is the default Charm server
const DefaultCharmHost = "charm.2389.dev"

// DBName is the name of the chost key-value store
const DBName = "chost"

var (
	globalKV   *kv.KV
	globalOnce sync.Once
	initErr    error
)

// Client wraps charm/kv.KV with post archive operations
type Client struct {
	kv *kv.KV
}

// InitGlobal initializes the global Charm KV client.
// This is thread-safe and will only initialize once.
// Automatically falls back to read-only mode if another process holds the lock.
func InitGlobal() error {
	globalOnce.Do(func() {
		if os.Getenv("CHARM_HOST") == "" {
			os.Setenv("CHARM_HOST", DefaultCharmHost)
		}

		globalKV, initErr = kv.OpenWithDefaultsFallback(DBName)
		if initErr != nil {
			return
		}

		// Sync on startup to pull remote changes (skip in read-only mode)
		if !globalKV.IsReadOnly() {
			initErr = globalKV.Sync()
		}
	})
	return initErr
}

// Global returns the global Charm client.
// Must call InitGlobal first.
func Global() (*Client, error) {
	if globalKV == nil {
		return nil, fmt.Errorf("charm not initialized - call InitGlobal first")
	}
	return &Client{kv: globalKV}, nil
}

// NewClient creates a new Charm client with the given KV store.
func NewClient(db *kv.KV) *Client {
	return &Client{kv: db}
}

// Close closes the underlying KV store.
func (c *Client) Close() error {
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// ID returns the current user's Charm ID.
func (c *Client) ID() (string, error) {
	cc := c.kv.Client()
	return cc.ID()
}

// IsLinked returns true if the user has linked their account.
func (c *Client) IsLinked() bool {
	_, err := c.ID()
	return err == nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync pulls remote changes from Charm Cloud.
func (c *Client) Sync() error {
	return c.kv.Sync()
}

// Reset wipes local data and re-syncs from Charm Cloud.
func (c *Client) Reset() error {
	return c.kv.Reset()
}

// KV returns the underlying kv.KV instance for direct access.
func (c *Client) KV() *kv.KV {
	return c.kv
}

// CharmClient returns the underlying charm client for auth operations.
func (c *Client) CharmClient() *client.Client {
	return c.kv.Client()
}

func postKey(project string, id uint64) []byte {
	return []byte(PostPrefix + project + ":" + strconv.FormatUint(id, 10))
}

// PutPost stores an archived post and pushes the change to Charm Cloud.
func (c *Client) PutPost(p *store.Post) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}
	if err := c.kv.Set(postKey(p.Project, p.ID), data); err != nil {
		return err
	}
	return c.kv.Sync()
}

// GetPost retrieves an archived post by project and ID.
func (c *Client) GetPost(project string, id uint64) (*store.Post, error) {
	data, err := c.kv.Get(postKey(project, id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("post not found: %d", id)
		}
		return nil, err
	}
	var post store.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("unmarshal post: %w", err)
	}
	return &post, nil
}

// DeletePost removes an archived post from the replica.
func (c *Client) DeletePost(project string, id uint64) error {
	return c.kv.Delete(postKey(project, id))
}

// ListPosts returns all archived posts for a project.
func (c *Client) ListPosts(project string) ([]*store.Post, error) {
	var posts []*store.Post
	prefix := []byte(PostPrefix + project + ":")

	err := c.kv.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var post store.Post
				if err := json.Unmarshal(val, &post); err != nil {
					return err
				}
				posts = append(posts, &post)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return posts, err
}

// ListProjects returns every project with at least one replicated post.
func (c *Client) ListProjects() ([]string, error) {
	seen := map[string]bool{}
	prefix := []byte(PostPrefix)

	err := c.kv.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			rest := strings.TrimPrefix(key, PostPrefix)
			if idx := strings.LastIndex(rest, ":"); idx > 0 {
				seen[rest[:idx]] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	projects := make([]string, 0, len(seen))
	for p := range seen {
		projects = append(projects, p)
	}
	return projects, nil
}

// ResolvePost finds a post by ID or decimal ID prefix.
func (c *Client) ResolvePost(project, idPrefix string) (*store.Post, error) {
	if id, err := strconv.ParseUint(idPrefix, 10, 64); err == nil {
		if post, err := c.GetPost(project, id); err == nil {
			return post, nil
		}
	}

	posts, err := c.ListPosts(project)
	if err != nil {
		return nil, err
	}

	var matches []*store.Post
	for _, p := range posts {
		if strings.HasPrefix(strconv.FormatUint(p.ID, 10), idPrefix) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("post not found: %s", idPrefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous post ID prefix '%s' matches %d posts", idPrefix, len(matches))
	}
}
