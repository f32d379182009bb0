package inference

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached memoizes non-empty completions per backend and prompt, so identical files
// shared across repositories reach the model once.
type Cached struct {
	next  Service
	cache *lru.Cache[string, string]
}

// NewCached wraps next with an LRU cache of the given size. A size below 1 returns next unchanged.
func NewCached(next Service, size int) (Service, error) {
	if size < 1 {
		return next, nil
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Generate(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(c.next.Name(), prompt)
	if completion, ok := c.cache.Get(key); ok {
		return completion, nil
	}

	completion, err := c.next.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(completion) != "" {
		c.cache.Add(key, completion)
	}
	return completion, nil
}

// Len returns the number of cached completions.
func (c *Cached) Len() int { return c.cache.Len() }

func cacheKey(name, prompt string) string {
	sum := sha256.Sum256([]byte(name + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
