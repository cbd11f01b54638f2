// Package pagestore implements the buffer-manager hook SortCore's MERGE
// state calls to go external: a fixed-size page cache backed by an
// anonymous memory mapping, with pages evicted to per-manager spill files
// once the configured budget is exhausted. The free/pinned bookkeeping
// takes the fixed-size-page allocator idea of the engine's own VM memory
// pool, kept as a LIFO list of free slots rather than a bitmap, and adds
// explicit pin counts and spill-to-disk instead of a single fixed
// anonymous region.
package pagestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/vectorlattice/vecql/compr"
	"github.com/vectorlattice/vecql/coreerr"
	"github.com/vectorlattice/vecql/corelog"
	"github.com/vectorlattice/vecql/engineconf"
)

// spillCompressor/spillDecompressor are the codec evicted pages are
// written through and read back with. s2 is
// chosen over zstd here for its much lower per-page compress/decompress
// latency, since eviction happens synchronously on the hot Pin path.
var (
	spillCompressor   = compr.Compression("s2")
	spillDecompressor = compr.Decompression("s2")
)

// PageID identifies a page for the lifetime of its owning Manager.
type PageID uint64

// PageSize is the fixed granularity of every page a Manager hands out.
const PageSize = 1 << 20 // 1 MiB

var log = corelog.New("pagestore")

// page tracks one allocated page's location: either resident in the mmap'd
// arena (slot >= 0) or spilled to the backing file (offset >= 0). Spilled
// bytes are s2-compressed, so spillLen (the compressed size on disk) can
// be smaller than PageSize.
type page struct {
	slot     int   // index into the arena, -1 if not resident
	pinCount int32
	dirty    bool
	spillOff int64 // byte offset in the spill file, -1 if never spilled
	spillLen int64 // compressed length at spillOff
}

// Manager is the buffer-manager hook of spec.md §6: `pin`, `unpin`,
// `allocate_page`, `destroy_page`, plus teardown. A Manager owns one
// anonymous mmap'd arena sized to the configured memory budget and one
// backing spill file, created lazily the first time a page must be
// evicted.
type Manager struct {
	mu sync.Mutex

	arena     []byte // anonymous mmap, len == capacity pages * PageSize
	freeSlots []int32 // LIFO free list of arena slot indices, mirrors the
	// engine's bitmap-of-free-pages idea but keeps O(1) allocation without
	// a bitmap scan since Manager's arena is typically much smaller than
	// the engine's fixed 4GiB VM reservation.

	pages  map[PageID]*page
	nextID PageID

	spillDir  string
	spillFile *os.File
	spillSize int64
}

// New builds a Manager whose resident-page arena is sized from cfg's
// memory budget (rounded down to a whole number of pages, at least one).
func New(cfg engineconf.Config) (*Manager, error) {
	cfg = cfg.Normalize()
	capPages := int(cfg.MemoryBudgetBytes / PageSize)
	if capPages < 1 {
		capPages = 1
	}
	arena, err := unix.Mmap(-1, 0, capPages*PageSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, coreerr.Wrap(coreerr.Resource, err, "pagestore: mmap %d bytes", capPages*PageSize)
	}
	m := &Manager{
		arena:    arena,
		pages:    make(map[PageID]*page),
		spillDir: cfg.SpillDir,
	}
	m.freeSlots = make([]int32, capPages)
	for i := range m.freeSlots {
		m.freeSlots[i] = int32(capPages - 1 - i)
	}
	return m, nil
}

// Capacity returns the number of resident page slots the arena holds.
func (m *Manager) Capacity() int { return len(m.arena) / PageSize }

// AllocatePage reserves a new page, resident if a free arena slot exists,
// otherwise non-resident until its first Pin, which zero-fills it. The
// page starts unpinned (pin count 0); the caller must Pin before touching
// its bytes.
func (m *Manager) AllocatePage() PageID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	p := &page{slot: -1, spillOff: -1}
	if n := len(m.freeSlots); n > 0 {
		p.slot = int(m.freeSlots[n-1])
		m.freeSlots = m.freeSlots[:n-1]
	}
	m.pages[id] = p
	return id
}

// Pin returns the page's bytes, loading them from the spill file first if
// the page is not currently resident, evicting an unpinned victim page if
// the arena is full. The returned slice aliases Manager-owned memory and
// is only valid until the matching Unpin.
func (m *Manager) Pin(id PageID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pages[id]
	if !ok {
		return nil, coreerr.New(coreerr.Internal, "pagestore: pin of unknown page %d", id)
	}
	if p.slot < 0 {
		if err := m.residentLocked(p); err != nil {
			return nil, err
		}
	}
	p.pinCount++
	return m.arena[p.slot*PageSize : (p.slot+1)*PageSize], nil
}

// Unpin releases a pin acquired by Pin. dirty marks the page's bytes as
// modified since the matching Pin, so they are written back to the spill
// file if the page is evicted later.
func (m *Manager) Unpin(id PageID, dirty bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pages[id]
	if !ok {
		return
	}
	if dirty {
		p.dirty = true
	}
	if p.pinCount > 0 {
		p.pinCount--
	}
}

// DestroyPage releases a page: its arena slot, if resident, returns to the
// free list. A spill-file region it occupied is abandoned, not reused
// (see evictLocked). The PageID must not be pinned.
func (m *Manager) DestroyPage(id PageID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pages[id]
	if !ok {
		return
	}
	if p.slot >= 0 {
		m.freeSlots = append(m.freeSlots, int32(p.slot))
	}
	delete(m.pages, id)
}

// residentLocked ensures p has an arena slot, evicting a victim and
// reading p's bytes back from the spill file if necessary. Caller holds
// m.mu.
func (m *Manager) residentLocked(p *page) error {
	slot, err := m.acquireSlotLocked()
	if err != nil {
		return err
	}
	p.slot = slot
	buf := m.arena[slot*PageSize : (slot+1)*PageSize]
	if p.spillOff >= 0 {
		compressed := make([]byte, p.spillLen)
		if _, err := m.spillFile.ReadAt(compressed, p.spillOff); err != nil {
			return coreerr.Wrap(coreerr.Resource, err, "pagestore: reading spilled page back")
		}
		if err := spillDecompressor.Decompress(compressed, buf); err != nil {
			return coreerr.Wrap(coreerr.Resource, err, "pagestore: decompressing spilled page")
		}
	} else {
		for i := range buf {
			buf[i] = 0
		}
	}
	return nil
}

// acquireSlotLocked returns a free arena slot, evicting the first unpinned
// resident page it finds if the free list is empty. Caller holds m.mu.
func (m *Manager) acquireSlotLocked() (int, error) {
	if n := len(m.freeSlots); n > 0 {
		slot := int(m.freeSlots[n-1])
		m.freeSlots = m.freeSlots[:n-1]
		return slot, nil
	}
	for _, victim := range m.pages {
		if victim.slot < 0 || victim.pinCount > 0 {
			continue
		}
		if err := m.evictLocked(victim); err != nil {
			return 0, err
		}
		slot := victim.slot
		victim.slot = -1
		return slot, nil
	}
	return 0, coreerr.New(coreerr.Resource, "pagestore: arena exhausted, all %d resident pages pinned", m.Capacity())
}

// evictLocked writes victim's bytes to the spill file if dirty (or never
// spilled before), freeing it to be reused by residentLocked's caller.
// Every write goes to a freshly appended offset: compressed length varies
// page to page, so a dirty page re-evicted after modification cannot
// reuse its previous region in place. The previous region, if any, is
// simply abandoned (the spill file is temporary and removed on Close, so
// this trades file-size compactness for simplicity). Caller holds m.mu.
func (m *Manager) evictLocked(victim *page) error {
	if !victim.dirty && victim.spillOff >= 0 {
		return nil
	}
	if err := m.ensureSpillFileLocked(); err != nil {
		return err
	}
	buf := m.arena[victim.slot*PageSize : (victim.slot+1)*PageSize]
	compressed := spillCompressor.Compress(buf, nil)
	victim.spillOff = m.spillSize
	victim.spillLen = int64(len(compressed))
	m.spillSize += victim.spillLen
	if _, err := m.spillFile.WriteAt(compressed, victim.spillOff); err != nil {
		return coreerr.Wrap(coreerr.Resource, err, "pagestore: spilling page")
	}
	victim.dirty = false
	log.Debugf("spilled page to offset %d (%d -> %d bytes)", victim.spillOff, PageSize, len(compressed))
	return nil
}

func (m *Manager) ensureSpillFileLocked() error {
	if m.spillFile != nil {
		return nil
	}
	name := filepath.Join(m.spillDir, fmt.Sprintf("vecql-sort-%s.spill", uuid.NewString()))
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return coreerr.Wrap(coreerr.Resource, err, "pagestore: creating spill file")
	}
	m.spillFile = f
	log.Infof("opened spill file %s", name)
	return nil
}

// Close unmaps the arena and removes the backing spill file, if any.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	if m.arena != nil {
		if err := unix.Munmap(m.arena); err != nil && firstErr == nil {
			firstErr = err
		}
		m.arena = nil
	}
	if m.spillFile != nil {
		name := m.spillFile.Name()
		if err := m.spillFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := os.Remove(name); err != nil && firstErr == nil && !os.IsNotExist(err) {
			firstErr = err
		}
		m.spillFile = nil
	}
	if firstErr != nil {
		return coreerr.Wrap(coreerr.Resource, firstErr, "pagestore: close")
	}
	return nil
}

// residentCount reports how many pages are currently mapped into the
// arena; used by tests to check the spill policy actually spills once the
// budget is exceeded.
func (m *Manager) residentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.pages {
		if p.slot >= 0 {
			n++
		}
	}
	return n
}
