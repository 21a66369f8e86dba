// SPDX-License-Identifier: BUSL-1.1
//
// Copyright (C) 2025, NASD Inc. All rights reserved.
// Use of this software is governed by the Business Source License included
// in the LICENSE file of this repository and at www.mariadb.com/bsl11.
//
// ANY USE OF THE LICENSED WORK IN VIOLATION OF THIS LICENSE WILL AUTOMATICALLY
// TERMINATE YOUR RIGHTS UNDER THIS LICENSE FOR THE CURRENT AND ALL OTHER
// VERSIONS OF THE LICENSED WORK.
//
// THIS LICENSE DOES NOT GRANT YOU ANY RIGHT IN ANY TRADEMARK OR LOGO OF
// LICENSOR OR ITS AFFILIATES (PROVIDED THAT YOU MAY USE A TRADEMARK OR LOGO OF
// LICENSOR AS EXPRESSLY REQUIRED BY THIS LICENSE).
//
// TO THE EXTENT PERMITTED BY APPLICABLE LAW, THE LICENSED WORK IS PROVIDED ON
// AN "AS IS" BASIS. LICENSOR HEREBY DISCLAIMS ALL WARRANTIES AND CONDITIONS,
// EXPRESS OR IMPLIED, INCLUDING (WITHOUT LIMITATION) WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE, NON-INFRINGEMENT, AND
// TITLE.

package mocks

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"cosmossdk.io/core/store"
)

var _ store.KVStoreService = &StoreService{}

// StoreService is an in-memory store.KVStoreService. All contexts share the
// same backing map, matching how a keeper sees one committed store.
type StoreService struct {
	store *memoryStore
}

func NewStoreService() *StoreService {
	return &StoreService{store: &memoryStore{data: make(map[string][]byte)}}
}

func (s *StoreService) OpenKVStore(_ context.Context) store.KVStore {
	return s.store
}

type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func (m *memoryStore) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (m *memoryStore) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.data[string(key)]
	return ok, nil
}

func (m *memoryStore) Set(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *memoryStore) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, string(key))
	return nil
}

func (m *memoryStore) Iterator(start, end []byte) (store.Iterator, error) {
	return m.iterator(start, end, false), nil
}

func (m *memoryStore) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return m.iterator(start, end, true), nil
}

// iterator snapshots the matching keys so mutations during a walk do not
// invalidate it.
func (m *memoryStore) iterator(start, end []byte, reverse bool) store.Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.data {
		bz := []byte(key)
		if start != nil && bytes.Compare(bz, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(bz, end) >= 0 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if reverse {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}

	values := make([][]byte, len(keys))
	for i, key := range keys {
		values[i] = append([]byte(nil), m.data[key]...)
	}

	return &memoryIterator{start: start, end: end, keys: keys, values: values}
}

type memoryIterator struct {
	start, end []byte
	keys       []string
	values     [][]byte
	index      int
}

func (i *memoryIterator) Domain() ([]byte, []byte) { return i.start, i.end }

func (i *memoryIterator) Valid() bool { return i.index < len(i.keys) }

func (i *memoryIterator) Next() { i.index++ }

func (i *memoryIterator) Key() []byte { return []byte(i.keys[i.index]) }

func (i *memoryIterator) Value() []byte { return i.values[i.index] }

func (i *memoryIterator) Error() error { return nil }

func (i *memoryIterator) Close() error { return nil }
