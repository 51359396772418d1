// Package loader opens OBJ files, decodes their text and parses them into models.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/scop/pkg/encoding"
	"github.com/Faultbox/scop/pkg/formats"
)

// Result is a parsed model with its load statistics.
type Result struct {
	Path     string
	Model    *formats.Model
	Stats    formats.OBJStats
	Duration time.Duration
}

// Manager loads models and caches them by cleaned path.
// Parsed models are never mutated, so a cached *formats.Model may be shared.
type Manager struct {
	encoding string
	log      *zap.Logger
	cache    *Cache
}

// NewManager creates a manager decoding files with the given charset.
// A nil logger discards all output.
func NewManager(charset string, log *zap.Logger) (*Manager, error) {
	if err := encoding.Check(charset); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		encoding: charset,
		log:      log,
		cache:    NewCache(),
	}, nil
}

// Load returns the model at path, parsing it on first use.
func (m *Manager) Load(path string) (*Result, error) {
	key := filepath.Clean(path)
	if res, ok := m.cache.Get(key); ok {
		m.log.Debug("model cache hit", zap.String("path", key))
		return res, nil
	}

	res, err := m.load(key)
	if err != nil {
		return nil, err
	}
	m.cache.Set(key, res)
	return res, nil
}

// Reload drops any cached copy of path and parses it again.
func (m *Manager) Reload(path string) (*Result, error) {
	m.cache.Delete(filepath.Clean(path))
	return m.Load(path)
}

// Cache exposes the manager's model cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close drops all cached models.
func (m *Manager) Close() {
	m.cache.Clear()
}

func (m *Manager) load(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	defer f.Close()

	res, err := m.decode(f, path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return res, nil
}

// LoadReader parses OBJ text from r without caching. name is used for logging.
func (m *Manager) LoadReader(r io.Reader, name string) (*Result, error) {
	return m.decode(r, name)
}

func (m *Manager) decode(r io.Reader, name string) (*Result, error) {
	text, err := encoding.NewReader(r, m.encoding)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{Path: name}
	model, err := formats.ParseOBJ(text,
		formats.WithLogger(m.log.Named("obj").With(zap.String("file", name))),
		formats.WithStats(&res.Stats),
	)
	if err != nil {
		return nil, err
	}
	res.Model = model
	res.Duration = time.Since(start)

	lo, hi := model.Bounds()
	m.log.Info("model loaded",
		zap.String("path", name),
		zap.Int("vertices", len(model.Vertices)),
		zap.Int("triangles", model.TriangleCount()),
		zap.Int("positions", res.Stats.Positions),
		zap.Int("texcoords", res.Stats.TexCoords),
		zap.Int("normals", res.Stats.Normals),
		zap.Int("warnings", res.Stats.Warnings),
		zap.Float32s("min", []float32{lo.X, lo.Y, lo.Z}),
		zap.Float32s("max", []float32{hi.X, hi.Y, hi.Z}),
		zap.Duration("took", res.Duration),
	)
	return res, nil
}

// ErrorMessage returns the text shown to users for a Load failure: the
// bare "line_no:line : message" form for parse errors, err.Error() otherwise.
func ErrorMessage(err error) string {
	var perr *formats.ParseError
	if errors.As(err, &perr) {
		return perr.Error()
	}
	return err.Error()
}
