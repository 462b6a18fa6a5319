package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"portfolio-admin/internal/cache"
)

// Persister keeps the session token across process restarts, the way a
// browser keeps it in local storage across reloads. Load returns "" when
// nothing is stored.
type Persister interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type fileState struct {
	Token string `json:"token"`
}

type FilePersister struct {
	path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

func (p *FilePersister) Load(context.Context) (string, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session file: %w", err)
	}

	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return "", fmt.Errorf("parsing session file: %w", err)
	}
	return st.Token, nil
}

func (p *FilePersister) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := json.Marshal(fileState{Token: token})
	if err != nil {
		return err
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return os.Rename(tmp, p.path)
}

func (p *FilePersister) Clear(context.Context) error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

type RedisPersister struct {
	client *cache.Client
	key    string
}

func NewRedisPersister(client *cache.Client, key string) *RedisPersister {
	return &RedisPersister{client: client, key: key}
}

func (p *RedisPersister) Load(ctx context.Context) (string, error) {
	data, err := p.client.Get(ctx, p.key)
	if errors.Is(err, cache.ErrMiss) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading session from redis: %w", err)
	}
	return string(data), nil
}

func (p *RedisPersister) Save(ctx context.Context, token string) error {
	return p.client.Set(ctx, p.key, []byte(token), 0)
}

func (p *RedisPersister) Clear(ctx context.Context) error {
	return p.client.Delete(ctx, p.key)
}

// MemoryPersister keeps nothing beyond the process; used by tests and by
// callers that want a session that dies with the process.
type MemoryPersister struct {
	token string
}

func (p *MemoryPersister) Load(context.Context) (string, error) {
	return p.token, nil
}

func (p *MemoryPersister) Save(_ context.Context, token string) error {
	p.token = token
	return nil
}

func (p *MemoryPersister) Clear(context.Context) error {
	p.token = ""
	return nil
}
