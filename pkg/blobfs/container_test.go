package blobfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContainerIdempotent(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, p.CreateContainer(ctx, testTenant, "mybucket"))
	// second call must not error
	require.NoError(t, p.CreateContainer(ctx, testTenant, "mybucket"))
	assert.True(t, p.ContainerExists(ctx, testTenant, "mybucket"))
}

func TestContainerExistsNonExistent(t *testing.T) {
	p, _ := newTestProvider(t)
	assert.False(t, p.ContainerExists(context.Background(), testTenant, "ghost"))
	assert.False(t, p.ContainerExists(context.Background(), testTenant, "../outside"))
}

func TestContainerInfo(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, p.CreateContainer(ctx, testTenant, "c1"))

	meta, err := p.ContainerInfo(ctx, testTenant, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", meta.ContainerID)
	require.NotNil(t, meta.CreatedAt)
	assert.False(t, meta.CreatedAt.IsZero())

	_, err = p.ContainerInfo(ctx, testTenant, "missing")
	assert.True(t, IsNotFound(err))
}

func TestListContainersRecursive(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	for _, cid := range []string{"a", "a/inner", "b"} {
		require.NoError(t, p.CreateContainer(ctx, testTenant, cid))
	}

	containers, err := p.ListContainers(ctx, testTenant)
	require.NoError(t, err)

	ids := make([]string, len(containers))
	for i, c := range containers {
		ids[i] = c.ContainerID
		// CreatedAt is not computed for bulk listings.
		assert.Nil(t, c.CreatedAt)
	}
	assert.ElementsMatch(t, []string{"a", "a/inner", "b"}, ids)
}

func TestRemoveContainers(t *testing.T) {
	p, root := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, p.CreateContainer(ctx, testTenant, "keepme"))
	require.NoError(t, p.CreateContainer(ctx, testTenant, "doomed"))
	mustPut(t, p, "doomed", "data.bin", []byte("payload"))

	// One existing, one absent: both disappear from the result list.
	results, err := p.RemoveContainers(ctx, testTenant, []string{"doomed", "never-was"})
	require.NoError(t, err)
	assert.Empty(t, results)

	assert.False(t, p.ContainerExists(ctx, testTenant, "doomed"))
	assert.True(t, p.ContainerExists(ctx, testTenant, "keepme"))
	_, err = os.Stat(filepath.Join(root, testTenant, "doomed"))
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveContainersBadID(t *testing.T) {
	p, _ := newTestProvider(t)

	results, err := p.RemoveContainers(context.Background(), testTenant, []string{"../escape"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "../escape", results[0].Key)
	assert.False(t, results[0].Success)
	assert.NotEmpty(t, results[0].Error)
}
