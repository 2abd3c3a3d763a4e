// Package cache provides a persistent file cache of non-secret tenant
// connection parameters, letting the registry credential strategy degrade
// gracefully when the control plane is unreachable. Passwords are never
// written here; only a secret-store reference is kept.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/eatwithme/etm-core/sdk/pkg/json"
)

// TenantRecord is the cacheable, non-secret slice of a registry record.
type TenantRecord struct {
	RestaurantID string `json:"restaurant_id"`
	DBName       string `json:"db_name"`
	Username     string `json:"username"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	SSLMode      string `json:"ssl_mode,omitempty"`
	PasswordRef  string `json:"password_ref,omitempty"`
}

// Snapshot is the full cache contents keyed by restaurant id.
type Snapshot struct {
	Records map[string]TenantRecord `json:"records"`
}

// Codec defines the encoding/decoding interface for cache data.
type Codec interface {
	Encode(data interface{}) ([]byte, error)
	Decode(bytes []byte, dest interface{}) error
}

// JSONCodec implements Codec with human-readable JSON.
type JSONCodec struct{}

func (JSONCodec) Encode(data interface{}) ([]byte, error) {
	return json.JSON.MarshalIndent(data, "", "  ")
}

func (JSONCodec) Decode(bytes []byte, dest interface{}) error {
	return json.Unmarshal(bytes, dest)
}

// FileCache persists tenant records across restarts.
// Writes are atomic (temp file + rename).
type FileCache struct {
	mu       sync.RWMutex
	filePath string
	codec    Codec
}

// NewFileCache creates a cache under the path from TENANT_CACHE_PATH,
// defaulting to ./cache.
func NewFileCache() *FileCache {
	cachePath := os.Getenv("TENANT_CACHE_PATH")
	if cachePath == "" {
		cachePath = "./cache"
	}
	return &FileCache{
		filePath: filepath.Join(cachePath, "tenant_records.json"),
		codec:    JSONCodec{},
	}
}

// NewFileCacheWithPath creates a cache with a specific file path.
func NewFileCacheWithPath(path string) *FileCache {
	return &FileCache{
		filePath: path,
		codec:    JSONCodec{},
	}
}

// Load reads the cached snapshot. Returns os.ErrNotExist when the cache file
// is absent.
func (f *FileCache) Load() (*Snapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.load()
}

func (f *FileCache) load() (*Snapshot, error) {
	bytes, err := os.ReadFile(f.filePath)
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := f.codec.Decode(bytes, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode cache: %w", err)
	}
	if snapshot.Records == nil {
		snapshot.Records = make(map[string]TenantRecord)
	}

	return &snapshot, nil
}

// Get returns the cached record for one tenant.
func (f *FileCache) Get(restaurantID string) (TenantRecord, bool) {
	snapshot, err := f.Load()
	if err != nil {
		return TenantRecord{}, false
	}
	rec, ok := snapshot.Records[restaurantID]
	return rec, ok
}

// Put merges one record into the snapshot and persists it. The write lock is
// held across load, merge and save so concurrent writers cannot lose records.
func (f *FileCache) Put(rec TenantRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot, err := f.load()
	if err != nil {
		snapshot = &Snapshot{Records: make(map[string]TenantRecord)}
	}
	snapshot.Records[rec.RestaurantID] = rec
	return f.save(snapshot)
}

// Delete removes one record and persists the snapshot.
func (f *FileCache) Delete(restaurantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot, err := f.load()
	if err != nil {
		return nil
	}
	delete(snapshot.Records, restaurantID)
	return f.save(snapshot)
}

// Save writes the snapshot atomically.
func (f *FileCache) Save(data *Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(data)
}

func (f *FileCache) save(data *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(f.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	bytes, err := f.codec.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmpPath := f.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, bytes, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, f.filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	return nil
}

// Clear removes the cache file.
func (f *FileCache) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return os.Remove(f.filePath)
}
