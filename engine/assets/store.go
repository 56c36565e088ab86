package assets

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spaghettifunk/screenwipe/engine/core"
)

// MaxLumpNameLength is the size of a lump name in a wad directory entry.
const MaxLumpNameLength = 8

/**
 * @brief A named, length-addressable store of binary lumps.
 * Implementations must be safe to query from the frame loop while
 * their backing storage changes underneath.
 */
type LumpStore interface {
	/** @brief Reports whether a lump with the given name exists. */
	Exists(name string) bool
	/** @brief Returns the byte length of the lump, or -1 when it does not exist. */
	Length(name string) int
	/** @brief Returns a copy of the lump payload. */
	Read(name string) ([]byte, error)
}

// NormalizeLumpName upper-cases a lump name the way wad directories store them.
func NormalizeLumpName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func validateLumpName(name string) error {
	if name == "" {
		return fmt.Errorf("lump name cannot be empty")
	}
	if len(name) > MaxLumpNameLength {
		return fmt.Errorf("lump name '%s' is longer than %d characters", name, MaxLumpNameLength)
	}
	return nil
}

// MemoryStore keeps lumps in memory. Used for generated assets and tests.
type MemoryStore struct {
	mutex sync.RWMutex
	lumps map[string][]byte
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lumps: make(map[string][]byte),
	}
}

// Put adds or replaces a lump. The payload is copied.
func (ms *MemoryStore) Put(name string, data []byte) error {
	name = NormalizeLumpName(name)
	if err := validateLumpName(name); err != nil {
		return err
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if _, ok := ms.lumps[name]; !ok {
		ms.order = append(ms.order, name)
	}
	ms.lumps[name] = buf
	return nil
}

func (ms *MemoryStore) Delete(name string) {
	name = NormalizeLumpName(name)
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if _, ok := ms.lumps[name]; !ok {
		return
	}
	delete(ms.lumps, name)
	for i, n := range ms.order {
		if n == name {
			ms.order = append(ms.order[:i], ms.order[i+1:]...)
			break
		}
	}
}

func (ms *MemoryStore) Exists(name string) bool {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()
	_, ok := ms.lumps[NormalizeLumpName(name)]
	return ok
}

func (ms *MemoryStore) Length(name string) int {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()
	data, ok := ms.lumps[NormalizeLumpName(name)]
	if !ok {
		return -1
	}
	return len(data)
}

func (ms *MemoryStore) Read(name string) ([]byte, error) {
	name = NormalizeLumpName(name)
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()
	data, ok := ms.lumps[name]
	if !ok {
		return nil, fmt.Errorf("memory store read '%s': %w", name, core.ErrLumpNotFound)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Lumps returns the stored lumps in insertion order, ready for WriteWad.
func (ms *MemoryStore) Lumps() []Lump {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()
	out := make([]Lump, 0, len(ms.order))
	for _, name := range ms.order {
		out = append(out, Lump{Name: name, Data: ms.lumps[name]})
	}
	return out
}

/**
 * @brief Searches several stores, the last one added first, so that
 * patch containers loaded later override the base container.
 */
type StoreChain struct {
	stores []LumpStore
}

func NewStoreChain(stores ...LumpStore) *StoreChain {
	return &StoreChain{stores: stores}
}

func (sc *StoreChain) Add(store LumpStore) {
	sc.stores = append(sc.stores, store)
}

func (sc *StoreChain) find(name string) LumpStore {
	for i := len(sc.stores) - 1; i >= 0; i-- {
		if sc.stores[i].Exists(name) {
			return sc.stores[i]
		}
	}
	return nil
}

func (sc *StoreChain) Exists(name string) bool {
	return sc.find(name) != nil
}

func (sc *StoreChain) Length(name string) int {
	if s := sc.find(name); s != nil {
		return s.Length(name)
	}
	return -1
}

func (sc *StoreChain) Read(name string) ([]byte, error) {
	if s := sc.find(name); s != nil {
		return s.Read(name)
	}
	return nil, fmt.Errorf("store chain read '%s': %w", NormalizeLumpName(name), core.ErrLumpNotFound)
}
