package memory

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sheikh-saqib/haulage-ledger/internal/interfaces"
)

// DefaultSize bounds the number of memoized reports.
const DefaultSize = 64

// Cache is an in-process LRU report cache. Values are shared between
// readers and must be treated as read-only.
type Cache struct {
	lru *lru.Cache[string, any]
}

func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, any](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &Cache{lru: c}, nil
}

// Get copies the cached value into dst, which must be a non-nil pointer to
// a type the value is assignable to.
func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := c.lru.Get(key)
	if !ok {
		return false, nil
	}

	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, errors.New("cache destination must be a non-nil pointer")
	}
	value := reflect.ValueOf(v)
	if !value.Type().AssignableTo(target.Elem().Type()) {
		return false, fmt.Errorf("cached %s is not assignable to %s", value.Type(), target.Elem().Type())
	}
	target.Elem().Set(value)
	return true, nil
}

func (c *Cache) Set(_ context.Context, key string, value any) error {
	c.lru.Add(key, value)
	return nil
}

func (c *Cache) Len() int {
	return c.lru.Len()
}

var _ interfaces.ReportCache = (*Cache)(nil)
