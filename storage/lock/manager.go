/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package lock

import (
	"context"
	"sync"

	libctx "github.com/nabbar/golib/context"
)

// entry is one path's reader/writer lock plus the number of goroutines
// currently holding a reference to it (either blocked waiting, or
// holding the lock itself).
type entry struct {
	mu  sync.RWMutex
	ref int
}

// InMemoryManager is the in-process Manager: a map[path]*entry backed by
// libctx.Config, ref-counted so an idle path's entry is torn down
// instead of growing the map without bound.
//
// acquire/release each take registryMu only long enough to look up,
// create or delete the *entry and adjust its ref count; the actual
// Lock/RLock/Unlock/RUnlock calls that may block run outside that
// critical section, so one goroutine holding a path's write lock never
// blocks unrelated paths from being acquired or released.
type InMemoryManager struct {
	registry  libctx.Config[string]
	registryMu sync.Mutex
}

// NewInMemoryManager builds an InMemoryManager. ctx is only used to scope
// the backing libctx.Config; it does not bound individual lock holds.
func NewInMemoryManager(ctx context.Context) *InMemoryManager {
	if ctx == nil {
		ctx = context.Background()
	}
	return &InMemoryManager{registry: libctx.New[string](ctx)}
}

func (m *InMemoryManager) acquireEntry(path string) *entry {
	m.registryMu.Lock()
	defer m.registryMu.Unlock()

	if v, ok := m.registry.Load(path); ok {
		e := v.(*entry)
		e.ref++
		return e
	}
	e := &entry{ref: 1}
	m.registry.Store(path, e)
	return e
}

func (m *InMemoryManager) releaseEntry(path string, e *entry) {
	m.registryMu.Lock()
	defer m.registryMu.Unlock()

	e.ref--
	if e.ref <= 0 {
		m.registry.Delete(path)
	}
}

// RLock acquires a shared lock on path.
func (m *InMemoryManager) RLock(path string) func() {
	e := m.acquireEntry(path)
	e.mu.RLock()
	return func() {
		e.mu.RUnlock()
		m.releaseEntry(path, e)
	}
}

// Lock acquires an exclusive lock on path.
func (m *InMemoryManager) Lock(path string) func() {
	e := m.acquireEntry(path)
	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		m.releaseEntry(path, e)
	}
}

// Len reports the number of paths currently tracked (held or contended).
// Exposed for tests verifying entries are torn down after release.
func (m *InMemoryManager) Len() int {
	n := 0
	m.registry.Walk(func(_ string, _ interface{}) bool {
		n++
		return true
	})
	return n
}

var _ Manager = (*InMemoryManager)(nil)
