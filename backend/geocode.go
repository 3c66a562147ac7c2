// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"strings"

	"github.com/wangtaoking1/shopdesk/model"
)

const maxGeocodeResults = 5

// AddressBook geocodes queries against a fixed list of known addresses.
type AddressBook struct {
	addresses []model.Address
}

// NewAddressBook creates a geocoder over addresses.
func NewAddressBook(addresses []model.Address) *AddressBook {
	return &AddressBook{addresses: addresses}
}

// Search returns the addresses whose label or line contains every word of
// query, ignoring case.
func (b *AddressBook) Search(_ context.Context, query string) ([]model.Address, error) {
	words := strings.Fields(strings.ToLower(query))
	results := make([]model.Address, 0, maxGeocodeResults)
	if len(words) == 0 {
		return results, nil
	}

	for _, addr := range b.addresses {
		text := strings.ToLower(addr.Label + " " + addr.Line)
		if containsAll(text, words) {
			results = append(results, addr)
			if len(results) == maxGeocodeResults {
				break
			}
		}
	}

	return results, nil
}

func containsAll(text string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}
