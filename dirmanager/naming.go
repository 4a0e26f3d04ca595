// SPDX-License-Identifier: EPL-2.0

package dirmanager

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirKey packs (top, mid) into a single comparable value.
type dirKey uint16

func makeDirKey(top, mid int) dirKey   { return dirKey(top<<8 | mid) }
func (k dirKey) split() (top, mid int) { return int(k >> 8), int(k & 0xFF) }

const (
	maxTopLevels   = 256
	maxMidPerTop   = 256
	maxFilesPerMid = 256
	fileNumRange   = 4096
	// fallbackFileNumRange is used once the entire 256x256 directory pool
	// is exhausted and placement falls back to extended random names.
	fallbackFileNumRange = 1 << 20
)

// Balance reports the four fill-pool counters, for diagnostics.
type Balance struct {
	TopPool, TopFull, MidPool, MidFull int
}

// Balance returns a snapshot of the directory pool's fill state.
func (m *Manager) Balance() Balance {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseUnusedLocked()
	return Balance{
		TopPool: len(m.topPool),
		TopFull: len(m.topFull),
		MidPool: len(m.midPool),
		MidFull: len(m.midFull),
	}
}

// ensureTopSeed seeds the top-pool with top level 0 the first time makeName
// runs, so step 1 of the naming algorithm has somewhere to start.
func (m *Manager) ensureTopSeed() {
	if len(m.topPool) == 0 && len(m.topFull) == 0 {
		m.topPool[0] = struct{}{}
		m.topFill[0] = 0
	}
}

// refillMidPool claims a top level with room and adds up to 32 new
// mid-levels from it into the mid-pool.
func (m *Manager) refillMidPool() {
	for len(m.midPool) == 0 && len(m.topPool) > 0 {
		var top int
		for t := range m.topPool {
			top = t
			break
		}
		added := 0
		for added < 32 && m.topFill[top] < maxMidPerTop {
			mid := m.topFill[top]
			m.topFill[top]++
			key := makeDirKey(top, mid)
			m.midPool[key] = struct{}{}
			m.midFill[key] = 0
			added++
		}
		if m.topFill[top] >= maxMidPerTop {
			delete(m.topPool, top)
			m.topFull[top] = struct{}{}
		}
		if added == 0 {
			// Defensive: a top claimed to have room but didn't; avoid an
			// infinite loop by retiring it even though it isn't full.
			delete(m.topPool, top)
			m.topFull[top] = struct{}{}
		}
	}
}

// makeName allocates a fresh base file name in the directory pool. Only
// one caller may be inside makeName at a time; callers are expected to
// hold m.mu.
func (m *Manager) makeName() string {
	m.releaseUnusedLocked()
	m.ensureTopSeed()

	for attempt := 0; attempt < 1000; attempt++ {
		m.refillMidPool()

		if len(m.midPool) == 0 {
			// Entire 256x256 pool exhausted: fall back to randomized
			// placement with an extended filenum range. This path admits
			// directory overfill.
			top := m.rng.Intn(maxTopLevels)
			mid := m.rng.Intn(maxMidPerTop)
			filenum := m.rng.Intn(fallbackFileNumRange)
			name := fmt.Sprintf("e%02x%02x%05x", top, mid, filenum)
			if m.nameFree(name) {
				key := makeDirKey(top, mid)
				m.midFill[key]++
				return name
			}
			continue
		}

		// Step 3: pick the first mid-pool entry.
		var key dirKey
		for k := range m.midPool {
			key = k
			break
		}
		top, mid := key.split()
		filenum := m.rng.Intn(fileNumRange)
		name := fmt.Sprintf("e%02x%02x%03x", top, mid, filenum)

		// Step 4: collision check.
		if !m.nameFree(name) {
			m.midFill[key]++
			if m.midFill[key] >= maxFilesPerMid {
				delete(m.midPool, key)
				m.midFull[key] = struct{}{}
			}
			continue
		}

		// Step 5: success.
		m.midFill[key]++
		if m.midFill[key] >= maxFilesPerMid {
			delete(m.midPool, key)
			m.midFull[key] = struct{}{}
		}
		return name
	}
	// Practically unreachable: 1000 collisions in a row.
	panic("dirmanager: makeName exhausted retry budget")
}

// nameFree reports whether name is absent from the registry and no file on
// disk shares this base name with any extension, defending against orphan
// files left by crashes.
func (m *Manager) nameFree(name string) bool {
	if _, ok := m.registry[name]; ok {
		return false
	}
	dir := m.dirFor(name)
	matches, err := filepath.Glob(filepath.Join(dir, name+".*"))
	if err != nil {
		return true
	}
	return len(matches) == 0
}

// dirFor returns the containing directory for a block file name of the form
// eTTMMFFF (or the extended fallback form).
func (m *Manager) dirFor(name string) string {
	top := name[1:3]
	mid := name[3:5]
	return filepath.Join(m.dataDir, "e"+top, "d"+mid)
}

// pathFor returns the full path for name with the given extension (without
// the leading dot), creating the containing directory if needed.
func (m *Manager) pathFor(name, ext string) (string, error) {
	dir := m.dirFor(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, name+"."+ext), nil
}
