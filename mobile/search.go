// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package mobile

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/utils/debounce"
)

// Geocoder resolves an address query.
type Geocoder interface {
	SearchAddress(ctx context.Context, query string) ([]model.Address, error)
}

// SearchOptions tunes an AddressSearcher.
type SearchOptions struct {
	// Wait is the quiet period before a query goes out.
	Wait time.Duration
	// MinLength is the shortest query worth sending, in characters.
	MinLength int
}

// DefaultSearchOptions returns the options of the address field.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{Wait: 500 * time.Millisecond, MinLength: 3}
}

// AddressSearcher debounces address lookups as the user types. Only the
// answer to the latest query is delivered; a newer query cancels the call in
// flight.
type AddressSearcher struct {
	geocoder  Geocoder
	opts      SearchOptions
	onResult  func(results []model.Address, err error)
	debouncer *debounce.Debouncer

	mtx    sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool
}

// NewAddressSearcher creates a searcher delivering answers to onResult.
// onResult runs with the searcher locked and must not call back into it.
func NewAddressSearcher(geocoder Geocoder, opts SearchOptions, onResult func([]model.Address, error)) *AddressSearcher {
	return &AddressSearcher{
		geocoder:  geocoder,
		opts:      opts,
		onResult:  onResult,
		debouncer: debounce.New(opts.Wait),
	}
}

// Query records the current text of the address field.
func (s *AddressSearcher) Query(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	s.mtx.Lock()
	if s.closed {
		s.mtx.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	s.stopInFlight()
	if utf8.RuneCountInString(query) < s.opts.MinLength {
		s.debouncer.Cancel()
		s.onResult(nil, nil)
		s.mtx.Unlock()
		return
	}
	s.mtx.Unlock()

	s.debouncer.Do(func() {
		s.search(ctx, seq, query)
	})
}

func (s *AddressSearcher) search(ctx context.Context, seq uint64, query string) {
	s.mtx.Lock()
	if seq != s.seq || s.closed {
		s.mtx.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mtx.Unlock()
	defer cancel()

	results, err := s.geocoder.SearchAddress(ctx, query)

	s.mtx.Lock()
	defer s.mtx.Unlock()
	if seq != s.seq || s.closed {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		log.From(ctx).Errorw("Address search failed", "query", query, "error", err)
	}
	s.onResult(results, err)
}

// stopInFlight must be called with mtx held.
func (s *AddressSearcher) stopInFlight() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Close drops the pending query and cancels the one in flight.
func (s *AddressSearcher) Close() {
	s.debouncer.Cancel()

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.closed = true
	s.stopInFlight()
}
