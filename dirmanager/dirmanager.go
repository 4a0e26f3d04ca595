// SPDX-License-Identifier: EPL-2.0

// Package dirmanager implements the process-wide, per-project block file
// registry and the hierarchical hex directory pool blocks are named into.
package dirmanager

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/ik5/wavecore/blockfile"
	"github.com/ik5/wavecore/sampleformat"
)

// entry is a registry slot: a weak reference to a BlockFile plus the
// explicit reference count that stands in for "weak reference" in a
// garbage-collected host — the Manager does not keep the block alive by
// itself, BlockRef.Release marks it eligible for the next lazy sweep.
type entry struct {
	ref      blockfile.Ref
	refCount int
}

// Manager is a process-wide per-project registry: a weak-reference mapping
// from base file name to BlockFile, plus the four counters of the
// hierarchical directory pool.
type Manager struct {
	mu      sync.Mutex
	dataDir string

	registry map[string]*entry

	topFill map[int]int
	topPool map[int]struct{}
	topFull map[int]struct{}

	midFill map[dirKey]int
	midPool map[dirKey]struct{}
	midFull map[dirKey]struct{}

	destroyCounter int64
	lastSweptAt    int64

	rng *rand.Rand
}

// NewManager creates a DirManager rooted at dataDir (created if absent).
func NewManager(dataDir string) (*Manager, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &Manager{
		dataDir:  dataDir,
		registry: make(map[string]*entry),
		topFill:  make(map[int]int),
		topPool:  make(map[int]struct{}),
		topFull:  make(map[int]struct{}),
		midFill:  make(map[dirKey]int),
		midPool:  make(map[dirKey]struct{}),
		midFull:  make(map[dirKey]struct{}),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// BlockRef is the shared handle a Sequence holds. It wraps a blockfile.Ref
// with explicit AddRef/Release so the Manager's registry sweep knows when a
// block becomes eligible for on-disk deletion.
type BlockRef struct {
	name    string
	manager *Manager
	blockfile.Ref
}

// Name is the registry key this reference was allocated under.
func (b *BlockRef) Name() string { return b.name }

// AddRef increments the shared reference count.
func (b *BlockRef) AddRef() {
	b.manager.mu.Lock()
	defer b.manager.mu.Unlock()
	if e, ok := b.manager.registry[b.name]; ok {
		e.refCount++
	}
}

// Release decrements the shared reference count. The block is not deleted
// synchronously; Manager.releaseUnusedLocked (invoked lazily before the next
// allocation, and by ReleaseUnused) sweeps dead entries and removes their
// on-disk files.
func (b *BlockRef) Release() {
	b.manager.mu.Lock()
	defer b.manager.mu.Unlock()
	if e, ok := b.manager.registry[b.name]; ok {
		e.refCount--
	}
	b.manager.destroyCounter++
}

// NewSimpleBlock allocates a name, writes a Simple block file containing
// samples, and records a weak reference in the registry. deferredWrite is
// accepted for interface parity but has no effect: writes are always
// immediate, write-through rather than journaled.
func (m *Manager) NewSimpleBlock(samples []float32, f sampleformat.Format, deferredWrite bool) (*BlockRef, error) {
	_ = deferredWrite
	m.mu.Lock()
	name := m.makeName()
	path, err := m.pathFor(name, "au")
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	ref, err := blockfile.NewSimple(path, samples, f)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.registry[name] = &entry{ref: ref, refCount: 1}
	m.mu.Unlock()

	return &BlockRef{name: name, manager: m, Ref: ref}, nil
}

// NewAliasBlock allocates a name for the ".auf" summary-only file of an
// Alias block pointing at an external, not-owned sample file.
func (m *Manager) NewAliasBlock(aliasPath string, aliasOff int64, samples []float32, f sampleformat.Format) (*BlockRef, error) {
	m.mu.Lock()
	name := m.makeName()
	path, err := m.pathFor(name, "auf")
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	ref, err := blockfile.NewAlias(path, aliasPath, aliasOff, samples, f)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.registry[name] = &entry{ref: ref, refCount: 1}
	m.mu.Unlock()

	return &BlockRef{name: name, manager: m, Ref: ref}, nil
}

// CopyBlock shares b copy-on-write: if b is unlocked, bump its reference
// count and return it unchanged; otherwise copy the on-disk file to a new
// name and return a fresh BlockRef.
func (m *Manager) CopyBlock(b *BlockRef) (*BlockRef, error) {
	if !b.Locked() {
		b.AddRef()
		return b, nil
	}

	m.mu.Lock()
	name := m.makeName()
	ext := "au"
	path, err := m.pathFor(name, ext)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	newRef, err := b.Ref.Copy(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.registry[name] = &entry{ref: newRef, refCount: 1}
	m.mu.Unlock()

	return &BlockRef{name: name, manager: m, Ref: newRef}, nil
}

// ReleaseUnused walks the weak-reference registry, removes dead entries,
// decrements the directory counters, and removes any subdirectory whose
// fill drops to zero.
func (m *Manager) ReleaseUnused() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseUnusedLocked()
}

func (m *Manager) releaseUnusedLocked() {
	if m.destroyCounter == m.lastSweptAt {
		return
	}
	m.lastSweptAt = m.destroyCounter

	for name, e := range m.registry {
		if e.refCount > 0 {
			continue
		}
		delete(m.registry, name)
		if e.ref.Locked() {
			continue
		}
		_ = e.ref.Close()

		top, mid, ok := parseTopMid(name)
		if !ok {
			continue
		}
		key := makeDirKey(top, mid)
		if m.midFill[key] > 0 {
			m.midFill[key]--
		}
		if m.midFill[key] < maxFilesPerMid {
			// Room again: a previously-full mid level rejoins the pool.
			delete(m.midFull, key)
			m.midPool[key] = struct{}{}
		}
		if m.midFill[key] == 0 {
			// Empty subdirectory: remove it from disk. The key stays in the
			// pool; pathFor recreates the directory on demand.
			_ = os.Remove(m.dirFor(name))
		}
	}
}

func parseHexByte(s string) (int, error) {
	var v int
	_, err := fmt.Sscanf(s, "%x", &v)
	return v, err
}

func parseTopMid(name string) (top, mid int, ok bool) {
	if len(name) < 5 || name[0] != 'e' {
		return 0, 0, false
	}
	t, err1 := parseHexByte(name[1:3])
	mdl, err2 := parseHexByte(name[3:5])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return t, mdl, true
}
