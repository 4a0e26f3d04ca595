// SPDX-License-Identifier: EPL-2.0

package dirmanager

import (
	"testing"

	"github.com/ik5/wavecore/sampleformat"
)

func TestNewSimpleBlockAndRelease(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	samples := make([]float32, 100)
	ref, err := m.NewSimpleBlock(samples, sampleformat.Int16, false)
	if err != nil {
		t.Fatalf("NewSimpleBlock: %v", err)
	}
	if ref.Path() == "" {
		t.Fatalf("expected non-empty path")
	}

	bal := m.Balance()
	if bal.MidPool == 0 && bal.MidFull == 0 {
		t.Fatalf("expected at least one mid-level tracked")
	}

	ref.Release()
	m.ReleaseUnused()

	if _, ok := m.registry[ref.Name()]; ok {
		t.Fatalf("expected registry entry to be swept after release")
	}
}

func TestCopyBlockUnlockedSharesRef(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	samples := make([]float32, 10)
	ref, err := m.NewSimpleBlock(samples, sampleformat.Int16, false)
	if err != nil {
		t.Fatalf("NewSimpleBlock: %v", err)
	}

	copied, err := m.CopyBlock(ref)
	if err != nil {
		t.Fatalf("CopyBlock: %v", err)
	}
	if copied.Name() != ref.Name() {
		t.Fatalf("expected unlocked copy to share the same name, got %s vs %s", copied.Name(), ref.Name())
	}
	if m.registry[ref.Name()].refCount != 2 {
		t.Fatalf("expected refCount 2, got %d", m.registry[ref.Name()].refCount)
	}
}

func TestCopyBlockLockedCopiesFile(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	samples := make([]float32, 10)
	ref, err := m.NewSimpleBlock(samples, sampleformat.Int16, false)
	if err != nil {
		t.Fatalf("NewSimpleBlock: %v", err)
	}
	ref.Lock()

	copied, err := m.CopyBlock(ref)
	if err != nil {
		t.Fatalf("CopyBlock: %v", err)
	}
	if copied.Name() == ref.Name() {
		t.Fatalf("expected a distinct name for a locked block copy")
	}
	if copied.Path() == ref.Path() {
		t.Fatalf("expected a distinct path")
	}
}

func TestMakeNameFallbackWhenPoolExhausted(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	// Mark every top level full so refillMidPool has nothing to hand out,
	// forcing the extended-range randomized fallback.
	for top := 0; top < maxTopLevels; top++ {
		m.topFull[top] = struct{}{}
		m.topFill[top] = maxMidPerTop
	}

	m.mu.Lock()
	name := m.makeName()
	m.mu.Unlock()

	if len(name) != 10 {
		t.Fatalf("expected extended fallback name eTTMMFFFFF, got %q", name)
	}
	if name[0] != 'e' {
		t.Fatalf("fallback name %q does not start with 'e'", name)
	}
}

func TestMakeNameUniqueAcrossManyAllocations(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		ref, err := m.NewSimpleBlock(make([]float32, 4), sampleformat.Int16, false)
		if err != nil {
			t.Fatalf("NewSimpleBlock %d: %v", i, err)
		}
		if seen[ref.Name()] {
			t.Fatalf("duplicate name allocated: %s", ref.Name())
		}
		seen[ref.Name()] = true
	}
}
