package grammar

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	ristretto "github.com/dgraph-io/ristretto/v2"
	"github.com/on-the-ground/packrat_ive_go/atoms"
	"github.com/on-the-ground/packrat_ive_go/optimizer"
	"go.uber.org/zap"
)

// Cache keeps compiled grammars keyed by their text and start production.
// Compiled grammars are immutable and safe to share between parsers.
type Cache struct {
	cache    *ristretto.Cache[uint64, atoms.Atom]
	optimize bool
	logger   *zap.Logger
}

type CacheOption func(*Cache)

// WithCacheOptimizer stores grammars after running the optimizer on them.
func WithCacheOptimizer() CacheOption {
	return func(c *Cache) {
		c.optimize = true
	}
}

func WithCacheLogger(logger *zap.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache holds up to maxGrammars compiled grammars.
func NewCache(maxGrammars int64, opts ...CacheOption) (*Cache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, atoms.Atom]{
		NumCounters: maxGrammars * 10,
		MaxCost:     maxGrammars,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	c := &Cache{cache: cache, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func cacheKey(text, start string) uint64 {
	return xxhash.Sum64String(start + "\x00" + text)
}

// GetOrCompile returns the grammar for text and start, building it on first
// use. filename is only used in error positions.
func (c *Cache) GetOrCompile(filename, text, start string) (atoms.Atom, error) {
	key := cacheKey(text, start)
	if root, ok := c.cache.Get(key); ok {
		c.logger.Debug("grammar cache hit", zap.String("file", filename), zap.String("start", start))
		return root, nil
	}

	root, err := Load(filename, strings.NewReader(text), start)
	if err != nil {
		return nil, err
	}
	if c.optimize {
		root = optimizer.Optimize(root)
	}
	c.cache.Set(key, root, 1)
	c.cache.Wait()
	c.logger.Debug("compiled grammar",
		zap.String("file", filename),
		zap.String("start", start),
		zap.Uint64("key", key),
		zap.Bool("optimized", c.optimize),
	)
	return root, nil
}

func (c *Cache) Close() {
	c.cache.Close()
}
