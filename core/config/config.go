package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNotPointer is returned when Load receives a non-pointer or nil pointer.
var ErrNotPointer = errors.New("config: target must be a non-nil pointer to a struct")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> reflect.Value (struct copy)
	loadMu     sync.Mutex
)

// Load fills cfg from the environment. cfg must be a pointer to a struct.
// The first successful load of a type is cached and copied into later targets.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNotPointer
	}
	t := reflect.TypeOf(cfg).Elem()
	if t.Kind() != reflect.Struct {
		return ErrNotPointer
	}

	dotenvOnce.Do(func() {
		// A missing .env file is the normal production case.
		_ = godotenv.Load()
	})

	if v, ok := cache.Load(t); ok {
		*cfg = v.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	if v, ok := cache.Load(t); ok {
		*cfg = v.(T)
		return nil
	}

	var fresh T
	if err := env.Parse(&fresh); err != nil {
		return fmt.Errorf("config: parse %s: %w", t.Name(), err)
	}
	cache.Store(t, fresh)
	*cfg = fresh
	return nil
}

// MustLoad is like Load but panics on failure.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Parse fills cfg from the environment without touching the cache.
func Parse[T any](cfg *T) error {
	if cfg == nil {
		return ErrNotPointer
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse: %w", err)
	}
	return nil
}
