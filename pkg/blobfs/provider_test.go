package blobfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTenant = "tenant-a"

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestProvider returns a provider with one registered tenant backed by a
// fresh temporary root.
func newTestProvider(t *testing.T) (*FsProvider, string) {
	t.Helper()
	root := t.TempDir()
	p := NewProvider(testLogger(), 8)
	err := p.RegisterTenant(context.Background(), testTenant, map[string]string{RootOption: root})
	require.NoError(t, err)
	return p, root
}

// mustPut stores an object through the single-chunk fast path.
func mustPut(t *testing.T, p *FsProvider, container, object string, content []byte) {
	t.Helper()
	_, err := p.PutObject(context.Background(), testTenant, PutObjectRequest{Chunk: Chunk{
		ContainerID: container,
		ObjectID:    object,
		Bytes:       content,
		Offset:      0,
		IsLast:      true,
	}})
	require.NoError(t, err)
}

func TestRegisterTenantCreatesDirectory(t *testing.T) {
	root := t.TempDir()
	p := NewProvider(testLogger(), 8)

	err := p.RegisterTenant(context.Background(), "acct-1", map[string]string{RootOption: root})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "acct-1"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRegisterTenantEmptyIdentity(t *testing.T) {
	p := NewProvider(testLogger(), 8)
	err := p.RegisterTenant(context.Background(), "", nil)
	assert.True(t, IsInvalidRequest(err))
}

func TestUnregisteredTenant(t *testing.T) {
	p := NewProvider(testLogger(), 8)
	ctx := context.Background()

	err := p.CreateContainer(ctx, "ghost", "c1")
	assert.True(t, IsNotConfigured(err))

	_, err = p.ListContainers(ctx, "ghost")
	assert.True(t, IsNotConfigured(err))

	// The existence checks never error, they just say no.
	assert.False(t, p.ContainerExists(ctx, "ghost", "c1"))
	assert.False(t, p.ObjectExists(ctx, "ghost", "c1", "o1"))
}

func TestTenantIsolation(t *testing.T) {
	root := t.TempDir()
	p := NewProvider(testLogger(), 8)
	ctx := context.Background()

	require.NoError(t, p.RegisterTenant(ctx, "alice", map[string]string{RootOption: root}))
	require.NoError(t, p.RegisterTenant(ctx, "bob", map[string]string{RootOption: root}))

	require.NoError(t, p.CreateContainer(ctx, "alice", "photos"))
	_, err := p.PutObject(ctx, "alice", PutObjectRequest{Chunk: Chunk{
		ContainerID: "photos", ObjectID: "cat.jpg", Bytes: []byte("meow"), IsLast: true,
	}})
	require.NoError(t, err)

	// Bob sees none of it under the same relative ids.
	assert.False(t, p.ContainerExists(ctx, "bob", "photos"))
	assert.False(t, p.ObjectExists(ctx, "bob", "photos", "cat.jpg"))

	containers, err := p.ListContainers(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, containers)
}

func TestIdentifierValidation(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	for _, cid := range []string{"", "..", "../escape", "/abs"} {
		err := p.CreateContainer(ctx, testTenant, cid)
		assert.True(t, IsInvalidRequest(err), "container id %q should be rejected", cid)
	}

	require.NoError(t, p.CreateContainer(ctx, testTenant, "c1"))
	for _, oid := range []string{"", "..", "nested/object", "/abs"} {
		_, err := p.ObjectInfo(ctx, testTenant, "c1", oid)
		assert.True(t, IsInvalidRequest(err), "object id %q should be rejected", oid)
	}

	// Nested container ids are legitimate.
	require.NoError(t, p.CreateContainer(ctx, testTenant, "c1/sub/deeper"))
}

func TestReRegisterReplacesRoot(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, p.CreateContainer(ctx, testTenant, "c1"))

	otherRoot := t.TempDir()
	require.NoError(t, p.RegisterTenant(ctx, testTenant, map[string]string{RootOption: otherRoot}))

	// The container lives under the old root, invisible through the new one.
	assert.False(t, p.ContainerExists(ctx, testTenant, "c1"))
}
