package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookshelf/bookshelf/internal/model"
)

// Cache key prefix and TTL.
const (
	bookKeyPrefix = "book:"

	// DefaultBookTTL is the TTL for cached book data.
	DefaultBookTTL = 24 * time.Hour
)

// ErrCacheMiss is returned when a key is not in the cache.
var ErrCacheMiss = errors.New("cache miss")

// GetBook retrieves a book from cache by identifier.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetBook(ctx context.Context, id string) (*model.CachedBook, error) {
	key := bookKey(id)

	result, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	return &model.CachedBook{
		Title: result["title"],
		Pages: result["pages"],
	}, nil
}

// SetBook stores a book in cache.
func (c *Cache) SetBook(ctx context.Context, id string, book *model.Book) error {
	key := bookKey(id)
	cached := book.ToCachedBook()

	fields := map[string]any{
		"title": cached.Title,
		"pages": cached.Pages,
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, DefaultBookTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache book: %w", err)
	}

	return nil
}

// DeleteBook removes a book from cache.
func (c *Cache) DeleteBook(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, bookKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete book from cache: %w", err)
	}

	return nil
}

func bookKey(id string) string {
	return bookKeyPrefix + id
}
