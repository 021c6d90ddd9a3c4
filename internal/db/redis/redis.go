package redis

import (
	"context"
	"strings"

	"github.com/mediocregopher/radix/v4"

	"ely.by/appearance/internal/db"
)

const uuidToAppearanceKey = "hash:uuid-to-appearance"

type Redis struct {
	client     radix.Client
	serializer db.AppearanceSerializer
}

func New(ctx context.Context, serializer db.AppearanceSerializer, addr string, poolSize int) (*Redis, error) {
	client, err := (radix.PoolConfig{Size: poolSize}).New(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Redis{
		client:     client,
		serializer: serializer,
	}, nil
}

func (r *Redis) FindAppearanceByUuid(ctx context.Context, uuid string) (*db.Appearance, error) {
	var encodedResult []byte
	err := r.client.Do(ctx, radix.Cmd(&encodedResult, "HGET", uuidToAppearanceKey, normalizeUuid(uuid)))
	if err != nil {
		return nil, err
	}

	if len(encodedResult) == 0 {
		return nil, nil
	}

	return r.serializer.Deserialize(encodedResult)
}

func (r *Redis) SaveAppearance(ctx context.Context, appearance *db.Appearance) error {
	serializedAppearance, err := r.serializer.Serialize(appearance)
	if err != nil {
		return err
	}

	return r.client.Do(ctx, radix.FlatCmd(nil, "HSET", uuidToAppearanceKey, normalizeUuid(appearance.Uuid), serializedAppearance))
}

// RemoveAppearanceByUuid reports whether the appearance existed before the call
func (r *Redis) RemoveAppearanceByUuid(ctx context.Context, uuid string) (bool, error) {
	var removed int
	err := r.client.Do(ctx, radix.Cmd(&removed, "HDEL", uuidToAppearanceKey, normalizeUuid(uuid)))
	if err != nil {
		return false, err
	}

	return removed > 0, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Do(ctx, radix.Cmd(nil, "PING"))
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func normalizeUuid(uuid string) string {
	return strings.ToLower(strings.ReplaceAll(uuid, "-", ""))
}
