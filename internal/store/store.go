package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"isomesh/internal/meshing"
	"isomesh/internal/profiling"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by Get when no chunk is stored under a key.
var ErrNotFound = errors.New("store: chunk not found")

// Key identifies a meshed chunk: everything that changes its buffers.
type Key struct {
	Field       string
	Seed        int64
	X, Y, Z     int32
	Resolution  uint32
	Scale       float32
	Compression uint32
	Colors      string
}

// ID is the primary key of the chunk row.
func (k Key) ID() string {
	return fmt.Sprintf("%s/%d/%d_%d_%d/r%d/s%g/k%d/%s",
		k.Field, k.Seed, k.X, k.Y, k.Z, k.Resolution, k.Scale, k.Compression, k.Colors)
}

// chunkModel is the database row of one chunk.
type chunkModel struct {
	ID        string `gorm:"primaryKey"`
	Field     string `gorm:"index:idx_field"`
	Seed      int64  `gorm:"index:idx_field"`
	X, Y, Z   int32  `gorm:"index:idx_pos"`
	Record    []byte
	Vertices  uint32
	UpdatedAt time.Time
}

func (chunkModel) TableName() string { return "chunks" }

// metadataModel holds store-wide key/value pairs.
type metadataModel struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func (metadataModel) TableName() string { return "metadata" }

// Store is a SQLite cache of meshed chunks. It is safe for concurrent use.
type Store struct {
	db   *gorm.DB
	path string
}

// Open opens (or creates) the database at path and migrates its tables.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// sqlite allows one writer; concurrent generators queue on the pool instead of failing with SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&chunkModel{}, &metadataModel{}); err != nil {
		return nil, fmt.Errorf("store: migrate %s: %w", path, err)
	}
	if err := db.Save(&metadataModel{Key: "FormatVersion", Value: fmt.Sprint(recordVersion)}).Error; err != nil {
		return nil, fmt.Errorf("store: write metadata: %w", err)
	}

	log.Printf("store: opened %s", path)
	return &Store{db: db, path: path}, nil
}

// Get loads the chunk stored under key.
func (s *Store) Get(ctx context.Context, key Key) (*meshing.Chunk, error) {
	defer profiling.Track("store.Get")()

	var m chunkModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", key.ID()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key.ID())
	}
	if err != nil {
		return nil, fmt.Errorf("store: load %s: %w", key.ID(), err)
	}

	c, err := decodeRecord(m.Record, key.ID())
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key.ID(), err)
	}
	return c, nil
}

// Put stores c under key, replacing any previous chunk.
func (s *Store) Put(ctx context.Context, key Key, c *meshing.Chunk) error {
	defer profiling.Track("store.Put")()

	rec, err := encodeRecord(c, key.ID())
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key.ID(), err)
	}
	m := chunkModel{
		ID:       key.ID(),
		Field:    key.Field,
		Seed:     key.Seed,
		X:        key.X,
		Y:        key.Y,
		Z:        key.Z,
		Record:   rec,
		Vertices: uint32(c.VertexCount()),
	}
	if err := s.db.WithContext(ctx).Save(&m).Error; err != nil {
		return fmt.Errorf("store: save %s: %w", key.ID(), err)
	}
	return nil
}

// Delete removes the chunk stored under key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key Key) error {
	if err := s.db.WithContext(ctx).Delete(&chunkModel{}, "id = ?", key.ID()).Error; err != nil {
		return fmt.Errorf("store: delete %s: %w", key.ID(), err)
	}
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&chunkModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("store: close %s: %w", s.path, err)
	}
	return sqlDB.Close()
}
