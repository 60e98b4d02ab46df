package blobmgr

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerDefaults(t *testing.T) {
	mgr, err := NewManager(map[string]interface{}{})
	require.NoError(t, err)

	assert.NotNil(t, mgr.Provider)
	assert.NotNil(t, mgr.Logger)
	assert.Equal(t, "/tmp", mgr.Cfg.GetString("root"))
	assert.Equal(t, "default", mgr.Cfg.GetString("tenant"))
}

func TestNewManagerExternalLogger(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mgr, err := NewManager(map[string]interface{}{"logger": logger})
	require.NoError(t, err)
	assert.Equal(t, logrus.FieldLogger(logger), mgr.Logger)
}

func TestNewManagerBadOptions(t *testing.T) {
	_, err := NewManager(map[string]interface{}{"logger": "not a logger"})
	assert.Error(t, err)

	_, err = NewManager(map[string]interface{}{"config-file": 42})
	assert.Error(t, err)

	// An explicitly requested config file must exist.
	_, err = NewManager(map[string]interface{}{"config-file": "/does/not/exist.yaml"})
	assert.Error(t, err)
}
