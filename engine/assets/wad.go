package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/spaghettifunk/screenwipe/engine/core"
)

const (
	wadHeaderSize   = 12
	wadDirEntrySize = 16
	wadIdentIWAD    = "IWAD"
	wadIdentPWAD    = "PWAD"
	wadMaxLumpCount = 1 << 20
)

type wadHeader struct {
	Identification [4]byte
	NumLumps       int32
	InfoTableOfs   int32
}

type wadDirEntry struct {
	FilePos int32
	Size    int32
	Name    [MaxLumpNameLength]byte
}

type wadLump struct {
	offset uint32
	size   uint32
}

// Lump is a named payload, the unit WriteWad serializes.
type Lump struct {
	Name string
	Data []byte
}

/**
 * @brief A read-only lump store backed by an in-memory IWAD/PWAD container.
 * When the directory holds the same name more than once the last entry wins.
 */
type WadStore struct {
	Path  string
	IWAD  bool
	data  []byte
	lumps map[string]wadLump
	names []string
}

// OpenWad reads the whole container at path.
func OpenWad(path string) (*WadStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ws, err := NewWadStore(data)
	if err != nil {
		return nil, fmt.Errorf("open wad '%s': %w", path, err)
	}
	ws.Path = path
	core.LogInfo("loaded wad '%s' with %d lumps", path, len(ws.names))
	return ws, nil
}

func NewWadStore(data []byte) (*WadStore, error) {
	if len(data) < wadHeaderSize {
		return nil, fmt.Errorf("container is %d bytes, shorter than a header: %w", len(data), core.ErrInvalidWad)
	}

	var header wadHeader
	if err := binary.Read(bytes.NewReader(data[:wadHeaderSize]), binary.LittleEndian, &header); err != nil {
		return nil, err
	}

	ident := string(header.Identification[:])
	if ident != wadIdentIWAD && ident != wadIdentPWAD {
		return nil, fmt.Errorf("unknown identification '%s': %w", ident, core.ErrInvalidWad)
	}
	if header.NumLumps < 0 || header.NumLumps > wadMaxLumpCount {
		return nil, fmt.Errorf("lump count %d out of range: %w", header.NumLumps, core.ErrInvalidWad)
	}
	dirStart := int64(header.InfoTableOfs)
	dirEnd := dirStart + int64(header.NumLumps)*wadDirEntrySize
	if dirStart < wadHeaderSize || dirEnd > int64(len(data)) {
		return nil, fmt.Errorf("directory [%d, %d) outside container of %d bytes: %w", dirStart, dirEnd, len(data), core.ErrInvalidWad)
	}

	ws := &WadStore{
		IWAD:  ident == wadIdentIWAD,
		data:  data,
		lumps: make(map[string]wadLump, header.NumLumps),
		names: make([]string, 0, header.NumLumps),
	}

	entries := make([]wadDirEntry, header.NumLumps)
	if err := binary.Read(bytes.NewReader(data[dirStart:dirEnd]), binary.LittleEndian, entries); err != nil {
		return nil, err
	}
	for i, e := range entries {
		name := NormalizeLumpName(string(bytes.TrimRight(e.Name[:], "\x00")))
		if e.FilePos < 0 || e.Size < 0 || int64(e.FilePos)+int64(e.Size) > int64(len(data)) {
			return nil, fmt.Errorf("lump %d '%s' [%d+%d] outside container: %w", i, name, e.FilePos, e.Size, core.ErrInvalidWad)
		}
		if _, ok := ws.lumps[name]; !ok {
			ws.names = append(ws.names, name)
		}
		ws.lumps[name] = wadLump{offset: uint32(e.FilePos), size: uint32(e.Size)}
	}
	return ws, nil
}

func (ws *WadStore) Exists(name string) bool {
	_, ok := ws.lumps[NormalizeLumpName(name)]
	return ok
}

func (ws *WadStore) Length(name string) int {
	l, ok := ws.lumps[NormalizeLumpName(name)]
	if !ok {
		return -1
	}
	return int(l.size)
}

func (ws *WadStore) Read(name string) ([]byte, error) {
	name = NormalizeLumpName(name)
	l, ok := ws.lumps[name]
	if !ok {
		return nil, fmt.Errorf("wad read '%s': %w", name, core.ErrLumpNotFound)
	}
	out := make([]byte, l.size)
	copy(out, ws.data[l.offset:l.offset+l.size])
	return out, nil
}

// Names lists the unique lump names in directory order.
func (ws *WadStore) Names() []string {
	out := make([]string, len(ws.names))
	copy(out, ws.names)
	return out
}

/**
 * @brief Serializes lumps as a PWAD: header, lump payloads, then the directory.
 */
func WriteWad(w io.Writer, lumps []Lump) error {
	dataSize := 0
	for _, l := range lumps {
		name := NormalizeLumpName(l.Name)
		if err := validateLumpName(name); err != nil {
			return err
		}
		dataSize += len(l.Data)
	}

	header := wadHeader{
		NumLumps:     int32(len(lumps)),
		InfoTableOfs: int32(wadHeaderSize + dataSize),
	}
	copy(header.Identification[:], wadIdentPWAD)
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}

	entries := make([]wadDirEntry, len(lumps))
	offset := int32(wadHeaderSize)
	for i, l := range lumps {
		if _, err := w.Write(l.Data); err != nil {
			return err
		}
		entries[i] = wadDirEntry{FilePos: offset, Size: int32(len(l.Data))}
		copy(entries[i].Name[:], NormalizeLumpName(l.Name))
		offset += int32(len(l.Data))
	}
	return binary.Write(w, binary.LittleEndian, entries)
}

// SaveWad writes lumps to a PWAD file at path.
func SaveWad(path string, lumps []Lump) error {
	var buf bytes.Buffer
	if err := WriteWad(&buf, lumps); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
