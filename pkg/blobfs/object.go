package blobfs

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

// ObjectExists reports whether the object opens for read. Any open failure
// reads as "does not exist"; no distinction is made between a missing file
// and a permission problem.
func (p *FsProvider) ObjectExists(ctx context.Context, tenantID, containerID, objectID string) bool {
	root, err := p.root(tenantID)
	if err != nil {
		return false
	}
	opath, err := objectPath(root, containerID, objectID)
	if err != nil {
		return false
	}
	exists := false
	_ = p.withIO(ctx, func() error {
		f, err := os.Open(opath)
		if err == nil {
			f.Close()
			exists = true
		}
		return nil
	})
	return exists
}

// ObjectInfo returns the object's metadata. ContentType and ContentEncoding
// are always empty; this store does not track them.
func (p *FsProvider) ObjectInfo(ctx context.Context, tenantID, containerID, objectID string) (ObjectMetadata, error) {
	root, err := p.root(tenantID)
	if err != nil {
		return ObjectMetadata{}, err
	}
	opath, err := objectPath(root, containerID, objectID)
	if err != nil {
		return ObjectMetadata{}, err
	}

	var meta ObjectMetadata
	err = p.withIO(ctx, func() error {
		info, err := os.Stat(opath)
		if err != nil {
			return classify(err)
		}
		modified := info.ModTime()
		meta = ObjectMetadata{
			ContainerID:   containerID,
			ObjectID:      objectID,
			ContentLength: uint64(info.Size()),
			LastModified:  &modified,
		}
		return nil
	})
	return meta, err
}

// ListObjects enumerates the non-directory entries directly inside the
// container. The request's pagination bounds are accepted but not honored:
// the full listing always comes back in one page with IsLast set.
func (p *FsProvider) ListObjects(ctx context.Context, tenantID string, req ListObjectsRequest) (ListObjectsResponse, error) {
	root, err := p.root(tenantID)
	if err != nil {
		return ListObjectsResponse{}, err
	}
	cdir, err := containerPath(root, req.ContainerID)
	if err != nil {
		return ListObjectsResponse{}, err
	}

	objects := []ObjectMetadata{}
	err = p.withIO(ctx, func() error {
		entries, err := os.ReadDir(cdir)
		if err != nil {
			return classify(err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				return classify(err)
			}
			modified := info.ModTime()
			objects = append(objects, ObjectMetadata{
				ContainerID:   req.ContainerID,
				ObjectID:      entry.Name(),
				ContentLength: uint64(info.Size()),
				LastModified:  &modified,
			})
		}
		return nil
	})
	if err != nil {
		return ListObjectsResponse{}, err
	}
	return ListObjectsResponse{Objects: objects, IsLast: true}, nil
}

// RemoveObjects deletes each listed object independently, continuing past
// per-item failures. Every object that failed to delete gets a result entry;
// unlike container removal there is no existence re-check.
func (p *FsProvider) RemoveObjects(ctx context.Context, tenantID, containerID string, objectIDs []string) ([]ItemResult, error) {
	root, err := p.root(tenantID)
	if err != nil {
		return nil, err
	}

	results := []ItemResult{}
	for _, oid := range objectIDs {
		opath, err := objectPath(root, containerID, oid)
		if err != nil {
			results = append(results, ItemResult{Key: oid, Success: false, Error: err.Error()})
			continue
		}
		_ = p.withIO(ctx, func() error {
			if err := os.Remove(opath); err != nil {
				results = append(results, ItemResult{Key: oid, Success: false, Error: err.Error()})
				p.log.WithFields(logrus.Fields{
					"tenant":    tenantID,
					"container": containerID,
					"object":    oid,
				}).WithError(err).Error("Object removal failed")
			}
			return nil
		})
	}
	return results, nil
}
