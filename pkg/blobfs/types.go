// Standard datatypes for the blobfs provider.
// Terms:
//   "tenant"    : An isolated caller identity with its own root directory.
//   "container" : A named grouping of objects, realized as a directory.
//   "object"    : A named blob of bytes, realized as a file.
//   "chunk"     : A contiguous byte range of an object transmitted in one call.
package blobfs

import "time"

// TenantConfig is the per-tenant registration record. It is created on
// registration and read on every subsequent operation for that tenant.
type TenantConfig struct {
	TenantID string
	Root     string
}

// A Chunk carries a contiguous byte range of an object's content. Offsets are
// absolute byte positions within the object. IsLast marks the final chunk of
// an upload or download.
type Chunk struct {
	ContainerID string
	ObjectID    string
	Bytes       []byte
	Offset      uint64
	IsLast      bool
}

type ContainerMetadata struct {
	ContainerID string
	// CreatedAt is derived from the directory modification time. It is only
	// filled in by ContainerInfo; bulk listings leave it nil.
	CreatedAt *time.Time
}

type ObjectMetadata struct {
	ContainerID   string
	ObjectID      string
	ContentLength uint64
	LastModified  *time.Time
	// ContentType and ContentEncoding are not tracked by this store and are
	// always empty.
	ContentType     string
	ContentEncoding string
}

// ItemResult reports the outcome of one item in a bulk removal. An empty
// result list means every removal succeeded.
type ItemResult struct {
	Key     string
	Success bool
	Error   string
}

// ListObjectsRequest carries optional pagination bounds. This provider always
// returns the full listing in one page, so the bounds are accepted but not
// honored.
type ListObjectsRequest struct {
	ContainerID  string
	Continuation string
	StartWith    string
	EndWith      string
	MaxItems     uint32
}

type ListObjectsResponse struct {
	Objects      []ObjectMetadata
	Continuation string
	IsLast       bool
}

type PutObjectRequest struct {
	Chunk Chunk
	// Advisory only; this store does not persist them.
	ContentType     string
	ContentEncoding string
}

type PutObjectResponse struct {
	// StreamID identifies the upload session for subsequent PutChunk calls.
	// Empty when the put completed in a single chunk.
	StreamID string
}

type PutChunkRequest struct {
	Chunk    Chunk
	StreamID string
	// CancelAndRemove aborts the upload and deletes the partial file.
	CancelAndRemove bool
}

type GetObjectRequest struct {
	ContainerID string
	ObjectID    string
	// Inclusive byte range bounds. Nil means "from the start" / "to the end".
	RangeStart *uint64
	RangeEnd   *uint64
}

type GetObjectResponse struct {
	ContentLength uint64
	InitialChunk  Chunk
}
