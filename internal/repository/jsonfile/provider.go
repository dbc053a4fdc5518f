package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository"
	"github.com/jwalitptl/provider-directory/pkg/errors"
)

const indent = "    "

type providerRepository struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// NewProviderRepository returns a repository persisted as a single JSON
// object (provider id -> record) at path. Every call reads the whole file;
// every mutation rewrites it through a temp file and a rename. A missing
// file is an empty collection.
func NewProviderRepository(fs afero.Fs, path string) repository.ProviderRepository {
	return &providerRepository{fs: fs, path: path}
}

func (r *providerRepository) Get(ctx context.Context, id string) (*model.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.read()
	if err != nil {
		return nil, err
	}
	p, ok := items[id]
	if !ok {
		return nil, errors.NotFound("providerID not found")
	}
	return p, nil
}

func (r *providerRepository) List(ctx context.Context) (map[string]*model.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.read()
}

func (r *providerRepository) Put(ctx context.Context, provider *model.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.read()
	if err != nil {
		return err
	}
	items[provider.ProviderID] = provider.Clone()
	return r.write(items)
}

func (r *providerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := items[id]; !ok {
		return errors.NotFound("providerID not found")
	}
	delete(items, id)
	return r.write(items)
}

func (r *providerRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.read()
	if err != nil {
		return false, err
	}
	_, ok := items[id]
	return ok, nil
}

func (r *providerRepository) read() (map[string]*model.Provider, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*model.Provider), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	items := make(map[string]*model.Provider)
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.path, err)
	}
	// A literal null decodes to a nil map.
	if items == nil {
		items = make(map[string]*model.Provider)
	}
	return items, nil
}

func (r *providerRepository) write(items map[string]*model.Provider) error {
	data, err := json.MarshalIndent(items, "", indent)
	if err != nil {
		return fmt.Errorf("failed to encode providers: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(r.fs, dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := r.fs.Rename(tmpName, r.path); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}
