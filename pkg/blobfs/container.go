package blobfs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

func mkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return iof("creating directory %s: %v", dir, err)
	}
	return nil
}

// ContainerExists reports whether a readable directory exists for the
// container. It never fails: any error, including an unresolvable tenant or
// an invalid id, reads as "does not exist".
func (p *FsProvider) ContainerExists(ctx context.Context, tenantID, containerID string) bool {
	root, err := p.root(tenantID)
	if err != nil {
		return false
	}
	cdir, err := containerPath(root, containerID)
	if err != nil {
		return false
	}
	exists := false
	_ = p.withIO(ctx, func() error {
		_, err := os.ReadDir(cdir)
		exists = err == nil
		return nil
	})
	return exists
}

// CreateContainer recursively creates the container directory. Creating an
// existing container succeeds.
func (p *FsProvider) CreateContainer(ctx context.Context, tenantID, containerID string) error {
	root, err := p.root(tenantID)
	if err != nil {
		return err
	}
	cdir, err := containerPath(root, containerID)
	if err != nil {
		return err
	}
	if err := p.withIO(ctx, func() error { return mkdirAll(cdir) }); err != nil {
		return err
	}
	p.log.WithFields(logrus.Fields{
		"tenant":    tenantID,
		"container": containerID,
	}).Info("Created container")
	return nil
}

// ContainerInfo returns the container's metadata. CreatedAt is derived from
// the directory modification time, the closest thing the filesystem records.
func (p *FsProvider) ContainerInfo(ctx context.Context, tenantID, containerID string) (ContainerMetadata, error) {
	root, err := p.root(tenantID)
	if err != nil {
		return ContainerMetadata{}, err
	}
	cdir, err := containerPath(root, containerID)
	if err != nil {
		return ContainerMetadata{}, err
	}

	var meta ContainerMetadata
	err = p.withIO(ctx, func() error {
		info, err := os.Stat(cdir)
		if err != nil {
			return classify(err)
		}
		if !info.IsDir() {
			return invalidf("%q is not a container", containerID)
		}
		created := info.ModTime()
		meta = ContainerMetadata{ContainerID: containerID, CreatedAt: &created}
		return nil
	})
	return meta, err
}

// ListContainers enumerates every directory under the tenant root,
// recursively, reporting each with its root-relative path as the container
// id. CreatedAt is not computed for bulk listings.
func (p *FsProvider) ListContainers(ctx context.Context, tenantID string) ([]ContainerMetadata, error) {
	root, err := p.root(tenantID)
	if err != nil {
		return nil, err
	}

	var containers []ContainerMetadata
	err = p.withIO(ctx, func() error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return classify(err)
			}
			if !d.IsDir() || path == root {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return iof("relativizing %s: %v", path, err)
			}
			containers = append(containers, ContainerMetadata{ContainerID: rel})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return containers, nil
}

// RemoveContainers deletes each listed container tree, continuing past
// individual failures. The result list holds one entry per container that
// still exists after a failed removal attempt; a container whose removal
// errored but that is gone anyway (removed concurrently, say) counts as
// success and is omitted. An empty list means full success.
//
// An entry for a still-present container carries Success set to true with
// the removal error alongside it. That shape is odd but long-standing wire
// behavior, so callers must key off list emptiness, not the flag.
func (p *FsProvider) RemoveContainers(ctx context.Context, tenantID string, containerIDs []string) ([]ItemResult, error) {
	root, err := p.root(tenantID)
	if err != nil {
		return nil, err
	}

	results := []ItemResult{}
	for _, cid := range containerIDs {
		cdir, err := containerPath(root, cid)
		if err != nil {
			results = append(results, ItemResult{Key: cid, Success: false, Error: err.Error()})
			continue
		}
		_ = p.withIO(ctx, func() error {
			if err := os.RemoveAll(cdir); err != nil {
				if _, statErr := os.ReadDir(cdir); statErr == nil {
					results = append(results, ItemResult{Key: cid, Success: true, Error: err.Error()})
				}
				p.log.WithFields(logrus.Fields{
					"tenant":    tenantID,
					"container": cid,
				}).WithError(err).Error("Container removal failed")
			}
			return nil
		})
	}
	return results, nil
}
