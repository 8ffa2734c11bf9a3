// ABOUTME: Tests for the attachment state machine and upload protocol
// ABOUTME: Covers idempotency, destructive failure, and metadata probing

package chost

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
)

// tinyGIF is a 2x3 GIF header, enough for image.DecodeConfig.
var tinyGIF = []byte{'G', 'I', 'F', '8', '9', 'a', 2, 0, 3, 0, 0, 0, 0}

func TestNewAttachment(t *testing.T) {
	a := NewAttachment([]byte("hello"), "hello.txt", "text/plain", nil)
	if !a.IsPending() {
		t.Error("new attachment should be pending")
	}
	if a.contentLength != 5 {
		t.Errorf("expected content length 5, got %d", a.contentLength)
	}
	if a.ID() != uuid.Nil {
		t.Error("pending attachment should have nil ID")
	}
	if a.URL() != "" {
		t.Error("pending attachment should have empty URL")
	}
}

func TestNewAttachmentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.gif")
	if err := os.WriteFile(path, tinyGIF, 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	a, err := NewAttachmentFromFile(path, "image/gif")
	if err != nil {
		t.Fatalf("NewAttachmentFromFile failed: %v", err)
	}
	if a.filename != "pic.gif" {
		t.Errorf("expected filename from path, got %q", a.filename)
	}
	if a.contentLength != int64(len(tinyGIF)) {
		t.Errorf("expected length %d, got %d", len(tinyGIF), a.contentLength)
	}
	if a.metadata == nil || a.metadata.Width != 2 || a.metadata.Height != 3 {
		t.Errorf("expected probed 2x3 dimensions, got %+v", a.metadata)
	}
}

func TestNewAttachmentFromFileBadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.png")
	if err := os.WriteFile(path, []byte("plain text"), 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	// Probe failure degrades to no metadata, never an error.
	a, err := NewAttachmentFromFile(path, "image/png")
	if err != nil {
		t.Fatalf("NewAttachmentFromFile failed: %v", err)
	}
	if a.metadata != nil {
		t.Errorf("expected nil metadata after failed probe, got %+v", a.metadata)
	}
}

func TestNewAttachmentFromFileAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, []byte("mp3ish"), 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	a, err := NewAttachmentFromFile(path, "audio/mpeg")
	if err != nil {
		t.Fatalf("NewAttachmentFromFile failed: %v", err)
	}
	if a.metadata == nil {
		t.Fatal("audio attachment should carry default empty tags")
	}
	if a.metadata.Artist != "" || a.metadata.Title != "" {
		t.Errorf("expected empty tags, got %+v", a.metadata)
	}
}

func TestUploadIdempotentWhenUploaded(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL + "/")
	a := uploadedAttachment(uuid.New(), "https://cdn.example/x.png", "")

	for range 2 {
		if err := a.upload(context.Background(), c, "egg", 1); err != nil {
			t.Fatalf("upload on uploaded attachment should be a no-op, got %v", err)
		}
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("expected no network requests, got %d", n)
	}
}

func TestUploadFailureIsPermanent(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL + "/")
	a := NewAttachment([]byte("data"), "x.png", "image/png", nil)

	if err := a.upload(context.Background(), c, "egg", 1); err == nil {
		t.Fatal("expected upload to fail")
	}
	if !a.IsFailed() {
		t.Error("attachment should be failed after a failed attempt")
	}

	// The stream is consumed; a second attempt errors without any network.
	before := requests.Load()
	if err := a.upload(context.Background(), c, "egg", 1); !errors.Is(err, ErrFailedAttachment) {
		t.Errorf("expected ErrFailedAttachment, got %v", err)
	}
	if requests.Load() != before {
		t.Error("failed attachment should not touch the network")
	}
}

func TestUploadProtocol(t *testing.T) {
	attachmentID := uuid.MustParse("92bfaa11-8e42-4f60-acf4-6fd714b5678b")
	var sawStart, sawForm, sawFinish bool

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("POST /api/v1/project/egg/posts/7/attach/start", func(w http.ResponseWriter, r *http.Request) {
		sawStart = true
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode start body: %v", err)
		}
		if string(body["filename"]) != `"pic.gif"` {
			t.Errorf("unexpected filename %s", body["filename"])
		}
		if string(body["content_type"]) != `"image/gif"` {
			t.Errorf("unexpected content_type %s", body["content_type"])
		}
		if string(body["content_length"]) != "13" {
			t.Errorf("unexpected content_length %s", body["content_length"])
		}
		if string(body["width"]) != "2" || string(body["height"]) != "3" {
			t.Errorf("expected probed dimensions, got width=%s height=%s", body["width"], body["height"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"attachmentId":   attachmentID,
			"url":            srv.URL + "/upload",
			"requiredFields": map[string]string{"policy": "signed"},
		})
	})
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		sawForm = true
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Fatalf("expected multipart form, got %q", r.Header.Get("Content-Type"))
		}
		reader, err := r.MultipartReader()
		if err != nil {
			t.Fatalf("expected multipart body: %v", err)
		}
		fields := map[string]string{}
		var fileContent string
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("read part: %v", err)
			}
			data, _ := io.ReadAll(part)
			if part.FormName() == "file" {
				fileContent = string(data)
				if part.FileName() != "pic.gif" {
					t.Errorf("expected file part name pic.gif, got %q", part.FileName())
				}
			} else {
				fields[part.FormName()] = string(data)
			}
		}
		if fields["policy"] != "signed" {
			t.Errorf("expected required field to be submitted, got %v", fields)
		}
		if fileContent != string(tinyGIF) {
			t.Errorf("file part content mismatch")
		}
	})
	mux.HandleFunc("POST /api/v1/project/egg/posts/7/attach/finish/"+attachmentID.String(), func(w http.ResponseWriter, r *http.Request) {
		sawFinish = true
		_ = json.NewEncoder(w).Encode(map[string]any{
			"attachmentId": attachmentID,
			"url":          "https://cdn.example/pic.gif",
		})
	})

	path := filepath.Join(t.TempDir(), "pic.gif")
	if err := os.WriteFile(path, tinyGIF, 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	a, err := NewAttachmentFromFile(path, "image/gif")
	if err != nil {
		t.Fatalf("NewAttachmentFromFile failed: %v", err)
	}

	c := NewClient().WithBaseURL(srv.URL + "/api/v1/")
	if err := a.upload(context.Background(), c, "egg", 7); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if !sawStart || !sawForm || !sawFinish {
		t.Errorf("expected start/form/finish sequence, got start=%v form=%v finish=%v",
			sawStart, sawForm, sawFinish)
	}
	if !a.IsUploaded() {
		t.Error("attachment should be uploaded")
	}
	if a.ID() != attachmentID {
		t.Errorf("expected assigned ID %s, got %s", attachmentID, a.ID())
	}
	if a.URL() != "https://cdn.example/pic.gif" {
		t.Errorf("unexpected URL %q", a.URL())
	}
}
