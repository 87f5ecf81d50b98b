// Package storage keeps document attachments in an S3-compatible object store.
// Objects are streamed; nothing touches local disk.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 to let the
// backend stream in parts.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store used for attachments.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get returns a streaming reader; the caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL that needs no credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

const attachmentPrefix = "attachments"

// AttachmentKey builds the object key of an attachment. Keys are grouped by
// document and keep only the extension of the uploaded file name.
func AttachmentKey(documentID, attachmentID, originalFilename string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(originalFilename, `\`, "/")))
	return path.Join(attachmentPrefix, documentID, attachmentID+ext)
}
