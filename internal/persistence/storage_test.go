package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/spec-kit/fooddash/internal/config"
)

// backendSuite runs the same contract against every local backend.
type backendSuite struct {
	suite.Suite
	newBackend func() Backend
	backend    Backend
	ctx        context.Context
}

func (s *backendSuite) SetupTest() {
	s.backend = s.newBackend()
	s.ctx = context.Background()
}

func (s *backendSuite) TestMissingKeyIsAbsent() {
	val, ok, err := s.backend.Get(s.ctx, config.DefaultTokenKey)
	s.Require().NoError(err)
	s.False(ok)
	s.Empty(val)
}

func (s *backendSuite) TestSetGetReplaceRemove() {
	s.Require().NoError(s.backend.Set(s.ctx, config.DefaultTokenKey, "first"))
	s.Require().NoError(s.backend.Set(s.ctx, config.DefaultTokenKey, "second"))

	val, ok, err := s.backend.Get(s.ctx, config.DefaultTokenKey)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("second", val)

	s.Require().NoError(s.backend.Remove(s.ctx, config.DefaultTokenKey))
	_, ok, err = s.backend.Get(s.ctx, config.DefaultTokenKey)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *backendSuite) TestRemoveMissingKeyIsNoop() {
	s.Require().NoError(s.backend.Remove(s.ctx, "never-set"))
	s.NoError(s.backend.Ping(s.ctx))
}

func TestMemoryStorage(t *testing.T) {
	suite.Run(t, &backendSuite{newBackend: func() Backend { return NewMemoryStorage() }})
}

func TestFileStorage(t *testing.T) {
	dir := t.TempDir()
	n := 0
	suite.Run(t, &backendSuite{newBackend: func() Backend {
		n++
		return NewFileStorage(filepath.Join(dir, fmt.Sprintf("run-%d", n), "session.json"))
	}})
}

type FileStorageSuite struct {
	suite.Suite
	path string
}

func TestFileStorageSuite(t *testing.T) {
	suite.Run(t, new(FileStorageSuite))
}

func (s *FileStorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "state", "session.json")
}

func (s *FileStorageSuite) TestValueSurvivesNewInstance() {
	ctx := context.Background()
	s.Require().NoError(NewFileStorage(s.path).Set(ctx, "auth_token", "tok"))

	val, ok, err := NewFileStorage(s.path).Get(ctx, "auth_token")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("tok", val)

	info, err := os.Stat(s.path)
	s.Require().NoError(err)
	s.Equal(os.FileMode(0o600), info.Mode().Perm())
}

func (s *FileStorageSuite) TestCorruptFileIsAnError() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0o700))
	s.Require().NoError(os.WriteFile(s.path, []byte("{not json"), 0o600))

	_, _, err := NewFileStorage(s.path).Get(context.Background(), "auth_token")
	s.Error(err)
}

func (s *FileStorageSuite) TestPathIsFile() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0o700))
	s.Require().NoError(os.WriteFile(s.path, nil, 0o600))

	nested := NewFileStorage(filepath.Join(s.path, "session.json"))
	s.Error(nested.Ping(context.Background()))
	s.Error(nested.Set(context.Background(), "auth_token", "x"))
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	cfg := config.Config{Session: config.SessionConfig{Storage: config.StorageMemory}}
	backend, closeFn, err := Open(ctx, cfg, logger)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &MemoryStorage{}, backend)

	cfg = config.Config{Session: config.SessionConfig{
		Storage:  config.StorageFile,
		FilePath: filepath.Join(t.TempDir(), "s.json"),
	}}
	backend, _, err = Open(ctx, cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &FileStorage{}, backend)

	cfg = config.Config{Session: config.SessionConfig{Storage: config.StoragePostgres}}
	_, _, err = Open(ctx, cfg, logger)
	assert.Error(t, err, "postgres storage needs a DSN")

	cfg = config.Config{Session: config.SessionConfig{Storage: "cookie"}}
	_, _, err = Open(ctx, cfg, logger)
	assert.Error(t, err)
}
