package world

import "errors"

// Sentinel errors for the in-memory host.
var (
	ErrDisconnected  = errors.New("player disconnected")
	ErrEntityExists  = errors.New("entity already in shard")
	ErrShardClosed   = errors.New("shard is closed")
	ErrShardNotFound = errors.New("shard not found")
	ErrNilShard      = errors.New("nil shard")
)
