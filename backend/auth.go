// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/wangtaoking1/shopdesk/backend/store"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/model"
)

var errBadCredentials = errors.New("invalid email or password")

// HashPassword hashes a password for model.User.PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}

	return string(hash), nil
}

// authenticate returns the user owning email when password matches.
func authenticate(ctx context.Context, s store.Store, email, password string) (*model.User, error) {
	user, err := s.UserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errBadCredentials
	}

	return user, nil
}
