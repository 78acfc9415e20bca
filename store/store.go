// Package store defines the backing object-store interface the gateway
// forwards to, plus its S3-compatible implementation.
//
// The gateway never reimplements storage: every operation here is a single
// forward-and-report against the backing service, and multipart session
// state is addressed purely by (key, uploadID) with nothing cached locally.
package store

import (
	"context"
	"io"

	"github.com/tollgate/tollgate"
)

// Object is an open read of stored content. Size is the number of bytes in
// Body: the span length for ranged reads, the full object size otherwise.
//
// The caller is responsible for closing Body.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ETag        string
	ContentType string
}

// ObjectStore is the set of backing-store primitives the gateway mediates.
//
// All methods accept a context for cancellation and timeout control, and
// report failures using the tollgate error taxonomy: absent objects map to
// KindNotFound, everything else the store rejects maps to KindUpstream with
// the store's own status preserved.
type ObjectStore interface {
	// List returns every object in the store. Implementations paginate
	// internally and return the full flat listing.
	List(ctx context.Context) ([]tollgate.ObjectInfo, error)

	// Head returns an object's metadata without its content.
	Head(ctx context.Context, key string) (tollgate.ObjectMeta, error)

	// Get opens an object for reading. A nil rng reads the whole object;
	// otherwise exactly the inclusive span [rng.Start, rng.End] is fetched.
	Get(ctx context.Context, key string, rng *tollgate.ByteRange) (*Object, error)

	// Put writes a whole object and returns the integrity tag the store
	// assigned. size < 0 means the length is unknown.
	Put(ctx context.Context, key, contentType string, size int64, body io.Reader) (etag string, err error)

	// Delete removes an object.
	Delete(ctx context.Context, key string) error

	// CreateMultipart opens a multipart session for key and returns its
	// opaque upload id. Session state lives entirely in the store.
	CreateMultipart(ctx context.Context, key, contentType string) (uploadID string, err error)

	// UploadPart streams one numbered part into an open session and returns
	// the integrity tag proving what was written.
	UploadPart(ctx context.Context, key, uploadID string, partNumber int, size int64, body io.Reader) (etag string, err error)

	// CompleteMultipart assembles the final object from the client-supplied
	// part list. The store is responsible for verifying the list is
	// complete and contiguous; the gateway forwards it untouched.
	CompleteMultipart(ctx context.Context, key, uploadID string, parts []tollgate.Part) error

	// AbortMultipart cancels a session and discards its uploaded parts.
	AbortMultipart(ctx context.Context, key, uploadID string) error
}
