// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package redis

import (
	goerrors "errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v7"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
)

// ErrKeyNotFound is a standard error for when a key is not found in the storage engine.
var ErrKeyNotFound = errors.New("key not found")

// Store is a prefixed key value view over a redis client.
type Store interface {
	GetKey(string) (string, error)
	SetKey(string, string, time.Duration) error
	GetExp(string) (time.Duration, error) // Returns expiry of a key
	SetExp(string, time.Duration) error   // Set key expiration
	DeleteKey(string) bool
	Exists(string) (bool, error)
	Publish(channel, message string) error
	GetKeyPrefix() string
}

type store struct {
	keyPrefix string
	keyHash   bool

	cli redis.UniversalClient
}

// Option config redis store.
type Option func(*store)

// WithKeyPrefix sets the key-prefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *store) {
		s.keyPrefix = prefix
	}
}

// WithKeyHash enables key hashing.
func WithKeyHash() Option {
	return func(s *store) {
		s.keyHash = true
	}
}

// NewStore returns a store over cli.
func NewStore(cli redis.UniversalClient, opts ...Option) Store {
	s := &store{cli: cli}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *store) hashKey(in string) string {
	if !s.keyHash {
		// Return raw key if no need hash
		return in
	}

	return HashStr(in)
}

func (s *store) fixKey(keyName string) string {
	return s.keyPrefix + s.hashKey(keyName)
}

func (s *store) cleanKey(keyName string) string {
	return strings.Replace(keyName, s.keyPrefix, "", 1)
}

// GetKey will retrieve a key from the database.
func (s *store) GetKey(keyName string) (string, error) {
	value, err := s.cli.Get(s.fixKey(keyName)).Result()
	if goerrors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		log.Debugf("Error trying to get value: %s", err.Error())

		return "", errors.Wrap(err, "get key")
	}

	return value, nil
}

// SetKey will create (or update) a key value in the store.
func (s *store) SetKey(keyName, value string, timeout time.Duration) error {
	log.Debugf("[STORE] Setting key: %s", s.fixKey(keyName))

	if err := s.cli.Set(s.fixKey(keyName), value, timeout).Err(); err != nil {
		log.Errorf("Error trying to set value: %s", err.Error())

		return errors.Wrap(err, "set key")
	}

	return nil
}

// GetExp return the expiry of the given key.
func (s *store) GetExp(keyName string) (time.Duration, error) {
	value, err := s.cli.TTL(s.fixKey(keyName)).Result()
	if err != nil {
		log.Errorf("Error trying to get TTL: %s", err.Error())

		return 0, ErrKeyNotFound
	}

	return value, nil
}

// SetExp set expiry of the given key.
func (s *store) SetExp(keyName string, timeout time.Duration) error {
	err := s.cli.Expire(s.fixKey(keyName), timeout).Err()
	if err != nil {
		log.Errorf("Could not EXPIRE key: %s", err.Error())
	}

	return err
}

// DeleteKey will remove a key from the database.
func (s *store) DeleteKey(keyName string) bool {
	log.Debugf("DEL Key became: %s", s.fixKey(keyName))
	n, err := s.cli.Del(s.fixKey(keyName)).Result()
	if err != nil {
		log.Errorf("Error trying to delete key: %s", err.Error())
	}

	return n > 0
}

// Exists reports whether the key is present.
func (s *store) Exists(keyName string) (bool, error) {
	fixedKey := s.fixKey(keyName)
	log.Debug("Checking if exists", "keyName", fixedKey)

	exists, err := s.cli.Exists(fixedKey).Result()
	if err != nil {
		log.Errorf("Error trying to check if key exists: %s", err.Error())

		return false, err
	}

	return exists == 1, nil
}

// Publish publishes a message to the specify channel.
func (s *store) Publish(channel, message string) error {
	err := s.cli.Publish(s.keyPrefix+channel, message).Err()
	if err != nil {
		log.Errorf("Error trying to publish: %s", err.Error())

		return err
	}

	return nil
}

// GetKeyPrefix returns the prefix of every key of the store.
func (s *store) GetKeyPrefix() string {
	return s.keyPrefix
}
