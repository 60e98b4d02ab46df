// The filesystem blobstore provider. Containers are directories, objects are
// files, and every tenant is confined to its own subdirectory of a
// configured root.
package blobfs

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// DefaultRoot is used when a tenant registers without a ROOT option.
const DefaultRoot = "/tmp"

// RootOption is the recognized registration option naming the backing
// directory for a tenant.
const RootOption = "ROOT"

// DefaultIOConcurrency bounds in-flight filesystem calls when the caller
// does not choose a limit.
const DefaultIOConcurrency = 64

// FsProvider implements container/object storage on a local filesystem. All
// methods are safe for concurrent use; the tenant table and the upload
// session table are the only shared state.
type FsProvider struct {
	log logrus.FieldLogger

	mu      sync.RWMutex
	tenants map[string]TenantConfig

	uploads *sessionTable

	// ioLane bounds concurrent filesystem work so disk latency cannot
	// starve unrelated requests.
	ioLane *semaphore.Weighted
}

func NewProvider(logger logrus.FieldLogger, ioConcurrency int64) *FsProvider {
	if ioConcurrency <= 0 {
		ioConcurrency = DefaultIOConcurrency
	}
	return &FsProvider{
		log:     logger,
		tenants: make(map[string]TenantConfig),
		uploads: newSessionTable(),
		ioLane:  semaphore.NewWeighted(ioConcurrency),
	}
}

// RegisterTenant stores the tenant's configuration and creates its isolated
// directory `root/<tenantID>` on disk. Registration is idempotent;
// re-registering replaces the stored root. A leading "~" in the ROOT option
// is expanded to the caller's home directory.
func (p *FsProvider) RegisterTenant(ctx context.Context, tenantID string, options map[string]string) error {
	if tenantID == "" {
		return invalidf("tenant id must not be empty")
	}

	root := options[RootOption]
	if root == "" {
		root = DefaultRoot
	}
	root, err := homedir.Expand(root)
	if err != nil {
		return invalidf("bad %s option %q: %v", RootOption, options[RootOption], err)
	}

	p.mu.Lock()
	p.tenants[tenantID] = TenantConfig{TenantID: tenantID, Root: root}
	p.mu.Unlock()

	dir := filepath.Join(root, tenantID)
	if err := p.withIO(ctx, func() error { return mkdirAll(dir) }); err != nil {
		return err
	}

	p.log.WithFields(logrus.Fields{
		"tenant": tenantID,
		"root":   root,
	}).Info("Registered tenant")
	return nil
}

// root resolves the tenant's isolated directory. All operations address this
// per-tenant subdirectory, never the configured root itself.
func (p *FsProvider) root(tenantID string) (string, error) {
	p.mu.RLock()
	cfg, ok := p.tenants[tenantID]
	p.mu.RUnlock()
	if !ok {
		return "", errors.Wrapf(ErrNotConfigured, "tenant %q", tenantID)
	}
	return filepath.Join(cfg.Root, tenantID), nil
}

// containerPath joins a container id onto the tenant root, rejecting ids that
// would escape it. Container ids may contain nested path components.
func containerPath(root, containerID string) (string, error) {
	if containerID == "" {
		return "", invalidf("container id must not be empty")
	}
	cleaned := filepath.Clean(containerID)
	if !filepath.IsLocal(cleaned) {
		return "", invalidf("container id %q escapes the tenant root", containerID)
	}
	return filepath.Join(root, cleaned), nil
}

// objectPath joins a container id and an object id onto the tenant root.
// Object ids are single path segments.
func objectPath(root, containerID, objectID string) (string, error) {
	cdir, err := containerPath(root, containerID)
	if err != nil {
		return "", err
	}
	if objectID == "" {
		return "", invalidf("object id must not be empty")
	}
	if objectID == "." || objectID == ".." ||
		objectID != filepath.Base(objectID) || strings.ContainsRune(objectID, '\x00') {
		return "", invalidf("object id %q is not a single path segment", objectID)
	}
	return filepath.Join(cdir, objectID), nil
}

// withIO runs fn on the bounded filesystem lane. Acquisition fails only when
// the caller's context ends first.
func (p *FsProvider) withIO(ctx context.Context, fn func() error) error {
	if err := p.ioLane.Acquire(ctx, 1); err != nil {
		return iof("waiting for i/o slot: %v", err)
	}
	defer p.ioLane.Release(1)
	return fn()
}
