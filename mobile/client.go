// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package mobile is the REST client of the consumer and delivery partner app.
package mobile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/session"
)

// APIError is a non 2xx answer of the api.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is an api answer rejecting the token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client calls the mobile api. Every call is attempted exactly once.
type Client struct {
	opts   *Options
	base   *url.URL
	http   *http.Client
	tokens session.Store
}

// NewClient creates a client keeping its bearer token in tokens.
func NewClient(opts *Options, tokens session.Store) (*Client, error) {
	if opts == nil {
		opts = NewOptions()
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, errors.NewAggregate(errs)
	}
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if tokens == nil {
		tokens = session.NewMemory()
	}

	return &Client{
		opts:   opts,
		base:   base,
		http:   &http.Client{Timeout: opts.Timeout},
		tokens: tokens,
	}, nil
}

// Tokens returns the store holding the bearer token.
func (c *Client) Tokens() session.Store {
	return c.tokens
}

// endpoint resolves an escaped relative path against the base url.
func (c *Client) endpoint(path string, query url.Values) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", errors.Wrapf(err, "parse path %q", path)
	}
	u := c.base.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return u.String(), nil
}

// do performs one call. A nil out discards the answer body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		body = bytes.NewReader(data)
	}

	endpoint, err := c.endpoint(path, query)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s %s", method, path)
	}
	log.From(ctx).Debugw("Api call", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	return errors.Wrapf(json.Unmarshal(data, out), "decode %s %s", method, path)
}

// newAPIError picks the message from the "message" field, then "detail",
// then the status text.
func newAPIError(status int, body []byte) *APIError {
	for _, key := range []string{"message", "detail"} {
		if msg, err := jsonparser.GetString(body, key); err == nil && msg != "" {
			return &APIError{Status: status, Message: msg}
		}
	}

	return &APIError{Status: status, Message: http.StatusText(status)}
}
