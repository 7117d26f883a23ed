// Package skin stores named NPC skins in Redis so presets and operators can
// refer to a skin by name instead of pasting texture blobs.
package skin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Auriosi/AuriNPC/internal/model"
)

// ErrNotFound is returned when no skin is stored under a name.
var ErrNotFound = errors.New("skin not found")

// ErrEmptyName is returned for operations on an empty skin name.
var ErrEmptyName = errors.New("empty skin name")

const (
	fieldTextures  = "textures"
	fieldSignature = "signature"
)

// Catalog is a Redis-backed skin store. Each skin is a hash at
// <prefix>skin:<name> with fields textures and signature.
type Catalog struct {
	client *redis.Client
	prefix string
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewCatalog creates a catalog using keys under prefix.
func NewCatalog(client *redis.Client, prefix string) *Catalog {
	return &Catalog{client: client, prefix: prefix}
}

func (c *Catalog) key(name string) string {
	return c.prefix + "skin:" + name
}

// Get returns the skin stored under name.
func (c *Catalog) Get(ctx context.Context, name string) (model.Skin, error) {
	if name == "" {
		return model.Skin{}, ErrEmptyName
	}

	vals, err := c.client.HGetAll(ctx, c.key(name)).Result()
	if err != nil {
		return model.Skin{}, fmt.Errorf("redis hgetall %q: %w", name, err)
	}
	if len(vals) == 0 {
		return model.Skin{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	slog.Debug("skin loaded", "name", name, "textures_length", len(vals[fieldTextures]))
	return model.NewSkin(vals[fieldTextures], vals[fieldSignature]), nil
}

// Put stores skin under name, replacing any previous value.
func (c *Catalog) Put(ctx context.Context, name string, skin model.Skin) error {
	if name == "" {
		return ErrEmptyName
	}

	key := c.key(name)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldTextures, skin.Textures, fieldSignature, skin.Signature)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put skin %q: %w", name, err)
	}

	slog.Debug("skin stored", "name", name)
	return nil
}

// Delete removes a skin. Returns ErrNotFound if nothing was stored.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	n, err := c.client.Del(ctx, c.key(name)).Result()
	if err != nil {
		return fmt.Errorf("redis del skin %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Names lists every stored skin name, sorted.
func (c *Catalog) Names(ctx context.Context) ([]string, error) {
	pattern := c.key("*")
	prefix := c.key("")

	var names []string
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan skins: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Seed stores every skin in skins. Used to load skins declared in config.
func (c *Catalog) Seed(ctx context.Context, skins map[string]model.Skin) error {
	for name, s := range skins {
		if err := c.Put(ctx, name, s); err != nil {
			return err
		}
	}
	return nil
}
