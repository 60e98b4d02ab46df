// The chunked upload state machine. A multi-chunk upload is keyed by a
// synthetic stream id and tracked as the next byte offset the stream must
// deliver. Offsets must arrive strictly in order; there is no
// idempotent-resume support, so a failed upload starts over from offset 0.
package blobfs

import (
	"context"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// StreamID derives the synthetic upload key for one in-progress object.
// Exactly one session may exist per stream id at a time.
func StreamID(tenantID, containerID, objectID string) string {
	return tenantID + "+" + containerID + "+" + objectID
}

// uploadSession tracks one in-flight chunked upload. The mutex serializes
// validate-offset, file append, and advance-offset as a single critical
// section, so two chunks claiming the same offset can never both pass
// validation or interleave their disk writes.
type uploadSession struct {
	mu         sync.Mutex
	nextOffset uint64
	closed     bool
}

type sessionTable struct {
	mu       sync.Mutex
	sessions map[string]*uploadSession
}

func newSessionTable() *sessionTable {
	return &sessionTable{sessions: make(map[string]*uploadSession)}
}

// begin opens (or restarts) the session for a stream and returns it locked
// with the expected offset reset to 0.
func (t *sessionTable) begin(id string) *uploadSession {
	t.mu.Lock()
	s, ok := t.sessions[id]
	if !ok {
		s = &uploadSession{}
		t.sessions[id] = s
	}
	t.mu.Unlock()

	s.mu.Lock()
	s.nextOffset = 0
	s.closed = false
	return s
}

// lookup returns the stream's session locked, or nil if no upload is active.
// A session another goroutine completed while we waited on its lock counts
// as absent.
func (t *sessionTable) lookup(id string) *uploadSession {
	t.mu.Lock()
	s := t.sessions[id]
	t.mu.Unlock()
	if s == nil {
		return nil
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	return s
}

// evict drops the stream's session. Callers holding the session lock mark it
// closed first so concurrent waiters see the termination.
func (t *sessionTable) evict(id string) {
	t.mu.Lock()
	delete(t.sessions, id)
	t.mu.Unlock()
}

// PutObject starts (or completes) an object upload from the first chunk. A
// single complete chunk with IsLast set is the fast path and touches no
// session state; otherwise a session is opened under a derived stream id,
// returned to the caller for the follow-up PutChunk calls.
func (p *FsProvider) PutObject(ctx context.Context, tenantID string, req PutObjectRequest) (PutObjectResponse, error) {
	var streamID string
	if !req.Chunk.IsLast {
		streamID = StreamID(tenantID, req.Chunk.ContainerID, req.Chunk.ObjectID)
	}
	if err := p.storeChunk(ctx, tenantID, req.Chunk, streamID); err != nil {
		return PutObjectResponse{}, err
	}
	return PutObjectResponse{StreamID: streamID}, nil
}

// PutChunk delivers a follow-up chunk of a multi-chunk upload, or cancels
// the upload when CancelAndRemove is set. Cancellation deletes the partial
// file and evicts the session so a fresh offset-0 upload is accepted
// immediately.
func (p *FsProvider) PutChunk(ctx context.Context, tenantID string, req PutChunkRequest) error {
	if req.CancelAndRemove {
		return p.cancelUpload(ctx, tenantID, req)
	}
	return p.storeChunk(ctx, tenantID, req.Chunk, req.StreamID)
}

func (p *FsProvider) cancelUpload(ctx context.Context, tenantID string, req PutChunkRequest) error {
	root, err := p.root(tenantID)
	if err != nil {
		return err
	}
	opath, err := objectPath(root, req.Chunk.ContainerID, req.Chunk.ObjectID)
	if err != nil {
		return err
	}

	if req.StreamID != "" {
		p.uploads.evict(req.StreamID)
	}
	p.uploads.evict(StreamID(tenantID, req.Chunk.ContainerID, req.Chunk.ObjectID))

	err = p.withIO(ctx, func() error {
		if err := os.Remove(opath); err != nil {
			return invalidf("could not cancel and remove %s/%s: %v",
				req.Chunk.ContainerID, req.Chunk.ObjectID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.log.WithFields(logrus.Fields{
		"tenant":    tenantID,
		"container": req.Chunk.ContainerID,
		"object":    req.Chunk.ObjectID,
	}).Info("Canceled upload, partial file removed")
	return nil
}

// storeChunk validates a chunk against the stream's session and appends its
// bytes to the target file. The session stays locked for the whole
// validate/append/advance sequence.
func (p *FsProvider) storeChunk(ctx context.Context, tenantID string, chunk Chunk, streamID string) error {
	if len(chunk.Bytes) == 0 {
		return invalidf("cannot put zero-length objects")
	}

	root, err := p.root(tenantID)
	if err != nil {
		return err
	}
	opath, err := objectPath(root, chunk.ContainerID, chunk.ObjectID)
	if err != nil {
		return err
	}

	if streamID == "" {
		// Only a complete single-chunk put may skip session tracking.
		if chunk.Offset != 0 || !chunk.IsLast {
			return invalidf("chunked upload of %s/%s requires a stream id", chunk.ContainerID, chunk.ObjectID)
		}
		if err := p.createObject(ctx, opath); err != nil {
			return err
		}
		return p.appendChunk(ctx, tenantID, opath, chunk)
	}

	var sess *uploadSession
	if chunk.Offset == 0 {
		// First chunk: open (or restart) the session, then truncate-create
		// under its lock so a concurrent restart cannot interleave with an
		// append for the same stream.
		sess = p.uploads.begin(streamID)
		if err := p.createObject(ctx, opath); err != nil {
			sess.closed = true
			sess.mu.Unlock()
			p.uploads.evict(streamID)
			return err
		}
	} else {
		sess = p.uploads.lookup(streamID)
		if sess == nil {
			return invalidf("no active upload session for stream %q", streamID)
		}
	}
	defer sess.mu.Unlock()

	if chunk.Offset != sess.nextOffset {
		return invalidf("chunk offset %d does not match the expected offset %d for stream %q",
			chunk.Offset, sess.nextOffset, streamID)
	}

	if err := p.appendChunk(ctx, tenantID, opath, chunk); err != nil {
		return err
	}

	if chunk.IsLast {
		sess.closed = true
		p.uploads.evict(streamID)
	} else {
		sess.nextOffset = chunk.Offset + uint64(len(chunk.Bytes))
	}
	return nil
}

// createObject truncate-creates the target file. This is the only moment an
// upload may truncate; later chunks append.
func (p *FsProvider) createObject(ctx context.Context, opath string) error {
	return p.withIO(ctx, func() error {
		f, err := os.Create(opath)
		if err != nil {
			return iof("creating object file %s: %v", opath, err)
		}
		return f.Close()
	})
}

// appendChunk opens the file append-only and writes the chunk's full
// payload. A short write is fatal for the call and never retried; the bytes
// already on disk stay in place for caller inspection or explicit cancel.
func (p *FsProvider) appendChunk(ctx context.Context, tenantID string, opath string, chunk Chunk) error {
	err := p.withIO(ctx, func() error {
		f, err := os.OpenFile(opath, os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return iof("opening %s for append: %v", opath, err)
		}
		defer f.Close()

		n, err := f.Write(chunk.Bytes)
		if err != nil {
			return iof("writing chunk to %s: %v", opath, err)
		}
		if n != len(chunk.Bytes) {
			return iof("short write to %s: %d of %d bytes", opath, n, len(chunk.Bytes))
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.log.WithFields(logrus.Fields{
		"tenant":    tenantID,
		"container": chunk.ContainerID,
		"object":    chunk.ObjectID,
		"offset":    chunk.Offset,
		"size":      len(chunk.Bytes),
	}).Info("Stored chunk")
	return nil
}
