// Package container reads named entries out of a ZIP container.
//
// Only what a workbook needs is supported: a single-disk archive without
// ZIP64 records, holding stored or deflated entries that are not encrypted.
package container

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Record signatures and fixed sizes (PKWARE APPNOTE, section 4.3).
const (
	endSignature     = 0x06054b50
	centralSignature = 0x02014b50
	localSignature   = 0x04034b50

	endRecordSize     = 22
	centralHeaderSize = 46
	localHeaderSize   = 30

	maxCommentSize = 1<<16 - 1
)

// Method is the compression method of an entry.
type Method uint16

const (
	// Stored entries hold their content verbatim.
	Stored Method = 0
	// Deflated entries hold a raw DEFLATE stream.
	Deflated Method = 8
)

func (m Method) String() string {
	switch m {
	case Stored:
		return "stored"
	case Deflated:
		return "deflated"
	default:
		return fmt.Sprintf("method(%d)", uint16(m))
	}
}

// Entry describes one file of the container as recorded in the central directory.
type Entry struct {
	// Name is the entry path inside the container, e.g. "xl/workbook.xml".
	Name string
	// Method is the compression method.
	Method Method
	// Flags is the general purpose bit flag.
	Flags uint16
	// CRC32 is the checksum of the uncompressed content.
	CRC32 uint32
	// CompressedSize is the number of payload bytes following the local header.
	CompressedSize int64
	// UncompressedSize is the size of the decoded content.
	UncompressedSize int64
	// HeaderOffset is the position of the entry's local header.
	HeaderOffset int64
}

// Encrypted reports whether the entry has the encryption flag set.
func (e Entry) Encrypted() bool {
	return e.Flags&0x1 != 0
}

// Options configures how a container is indexed.
type Options struct {
	// Strict turns a central directory record with a bad signature into a
	// FormatError. When false the record is logged and loading continues,
	// trusting the record's length fields.
	Strict bool
	// Logger receives structural warnings. Nil disables logging.
	Logger *zap.Logger
}

// Index holds the central directory of an open container.
type Index struct {
	path    string
	r       io.ReaderAt
	size    int64
	closer  io.Closer
	entries []Entry
	strict  bool
	logger  *zap.Logger
}

// endRecord is the decoded end of central directory record.
type endRecord struct {
	disk         uint16
	dirDisk      uint16
	diskEntries  uint16
	totalEntries uint16
	dirSize      uint32
	dirOffset    uint32
	commentLen   uint16
	// offset is where the record itself starts.
	offset int64
}

// Open opens the container at path and loads its central directory.
// The returned Index keeps the file open until Close is called.
func Open(path string, opts Options) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat container: %w", err)
	}

	x := newIndex(f, fi.Size(), opts)
	x.path = path
	x.closer = f
	if err := x.load(); err != nil {
		f.Close()
		return nil, err
	}
	return x, nil
}

// NewIndex loads the central directory of a container held in r.
func NewIndex(r io.ReaderAt, size int64, opts Options) (*Index, error) {
	x := newIndex(r, size, opts)
	if err := x.load(); err != nil {
		return nil, err
	}
	return x, nil
}

func newIndex(r io.ReaderAt, size int64, opts Options) *Index {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{
		r:      r,
		size:   size,
		strict: opts.Strict,
		logger: logger,
	}
}

// Close releases the underlying file, if the Index owns one.
func (x *Index) Close() error {
	if x.closer == nil {
		return nil
	}
	err := x.closer.Close()
	x.closer = nil
	return err
}

// Entries returns a copy of the loaded entries in directory order.
func (x *Index) Entries() []Entry {
	out := make([]Entry, len(x.entries))
	copy(out, x.entries)
	return out
}

// Locate returns the entry whose name matches exactly.
// Matching is case-sensitive and performs no path normalization.
func (x *Index) Locate(name string) (Entry, error) {
	for _, e := range x.entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
}

func (x *Index) load() error {
	end, err := x.readEnd()
	if err != nil {
		return err
	}
	if end.disk != 0 || end.dirDisk != 0 || end.diskEntries != end.totalEntries {
		return NewFormatError(x.path, "multi-disk archives are not supported", nil)
	}
	if end.totalEntries == 0xffff || end.dirSize == 0xffffffff || end.dirOffset == 0xffffffff {
		return NewFormatError(x.path, "zip64 archives are not supported", nil)
	}
	if int64(end.dirOffset)+int64(end.dirSize) > end.offset {
		return NewFormatError(x.path, "central directory overlaps end record", nil)
	}

	dir := make([]byte, end.dirSize)
	if err := readFullAt(x.r, dir, int64(end.dirOffset)); err != nil {
		return NewFormatError(x.path, "central directory truncated", err)
	}
	return x.loadDirectory(dir, int64(end.dirOffset), int(end.totalEntries))
}

// readEnd finds the end of central directory record. The fixed-size record
// at the very end of the file is tried first; otherwise the trailing comment
// window is searched backwards for a record whose comment length lands
// exactly on end of file.
func (x *Index) readEnd() (*endRecord, error) {
	if x.size < endRecordSize {
		return nil, NewFormatError(x.path, "file too small for an end of central directory record", nil)
	}

	buf := make([]byte, endRecordSize)
	if err := readFullAt(x.r, buf, x.size-endRecordSize); err != nil {
		return nil, NewFormatError(x.path, "cannot read end of central directory record", err)
	}
	if le32(buf) == endSignature {
		end := parseEnd(buf, x.size-endRecordSize)
		if end.commentLen == 0 {
			return end, nil
		}
	}

	start := x.size - endRecordSize - maxCommentSize
	if start < 0 {
		start = 0
	}
	window := make([]byte, x.size-start)
	if err := readFullAt(x.r, window, start); err != nil {
		return nil, NewFormatError(x.path, "cannot read archive comment window", err)
	}
	for i := len(window) - endRecordSize; i >= 0; i-- {
		if le32(window[i:]) != endSignature {
			continue
		}
		end := parseEnd(window[i:i+endRecordSize], start+int64(i))
		if i+endRecordSize+int(end.commentLen) == len(window) {
			return end, nil
		}
	}
	return nil, NewFormatError(x.path, "end of central directory signature not found", nil)
}

func parseEnd(b []byte, offset int64) *endRecord {
	return &endRecord{
		disk:         le16(b[4:]),
		dirDisk:      le16(b[6:]),
		diskEntries:  le16(b[8:]),
		totalEntries: le16(b[10:]),
		dirSize:      le32(b[12:]),
		dirOffset:    le32(b[16:]),
		commentLen:   le16(b[20:]),
		offset:       offset,
	}
}

// loadDirectory walks count central directory records held in dir.
// A record with a bad signature is still decoded from its length fields
// unless the index is strict; every later offset depends on those fields.
func (x *Index) loadDirectory(dir []byte, base int64, count int) error {
	x.entries = make([]Entry, 0, count)
	pos := 0
	for i := 0; i < count; i++ {
		rec := dir[pos:]
		if len(rec) < centralHeaderSize {
			return NewFormatError(x.path, fmt.Sprintf("central directory truncated at entry %d", i), nil)
		}
		if sig := le32(rec); sig != centralSignature {
			if x.strict {
				return NewFormatError(x.path, fmt.Sprintf("bad central directory signature at entry %d", i), nil)
			}
			x.logger.Warn("central directory record has a bad signature",
				zap.Int("entry", i),
				zap.Int64("offset", base+int64(pos)),
				zap.Uint32("signature", sig),
			)
		}

		nameLen := int(le16(rec[28:]))
		extraLen := int(le16(rec[30:]))
		commentLen := int(le16(rec[32:]))
		recLen := centralHeaderSize + nameLen + extraLen + commentLen
		if len(rec) < recLen {
			return NewFormatError(x.path, fmt.Sprintf("central directory truncated at entry %d", i), nil)
		}

		e := Entry{
			Name:             string(rec[centralHeaderSize : centralHeaderSize+nameLen]),
			Flags:            le16(rec[8:]),
			Method:           Method(le16(rec[10:])),
			CRC32:            le32(rec[16:]),
			CompressedSize:   int64(le32(rec[20:])),
			UncompressedSize: int64(le32(rec[24:])),
			HeaderOffset:     int64(le32(rec[42:])),
		}
		x.entries = append(x.entries, e)
		x.logger.Debug("central directory entry",
			zap.String("name", e.Name),
			zap.Stringer("method", e.Method),
			zap.Int64("compressed", e.CompressedSize),
			zap.Int64("uncompressed", e.UncompressedSize),
		)
		pos += recLen
	}
	return nil
}

// readFullAt reads exactly len(buf) bytes at off.
func readFullAt(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func le16(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

func le32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}
