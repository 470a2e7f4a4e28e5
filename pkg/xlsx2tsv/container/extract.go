package container

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"
)

// Extract returns the full decompressed content of e.
//
// The local header is re-read to find where the payload starts, since its
// name and extra field lengths may differ from the central directory copy.
// On failure an *ExtractionError is returned and no content.
func (x *Index) Extract(e Entry) ([]byte, error) {
	if e.Encrypted() {
		return nil, NewExtractionError(e.Name, KindEncrypted, nil)
	}
	if e.Method != Stored && e.Method != Deflated {
		return nil, NewExtractionError(e.Name, KindUnsupportedMethod, fmt.Errorf("compression %s", e.Method))
	}

	var hdr [localHeaderSize]byte
	if err := readFullAt(x.r, hdr[:], e.HeaderOffset); err != nil {
		return nil, NewExtractionError(e.Name, KindShortRead, fmt.Errorf("local header: %w", err))
	}
	if le32(hdr[:]) != localSignature {
		return nil, NewExtractionError(e.Name, KindCorrupt, errors.New("bad local header signature"))
	}
	dataOffset := e.HeaderOffset + localHeaderSize + int64(le16(hdr[26:])) + int64(le16(hdr[28:]))
	if e.CompressedSize < 0 || dataOffset+e.CompressedSize > x.size {
		return nil, NewExtractionError(e.Name, KindShortRead,
			fmt.Errorf("payload of %d bytes at offset %d exceeds container size %d", e.CompressedSize, dataOffset, x.size))
	}

	payload := make([]byte, e.CompressedSize)
	if err := readFullAt(x.r, payload, dataOffset); err != nil {
		return nil, NewExtractionError(e.Name, KindShortRead, err)
	}

	var content []byte
	switch e.Method {
	case Stored:
		if e.CompressedSize != e.UncompressedSize {
			return nil, NewExtractionError(e.Name, KindCorrupt,
				fmt.Errorf("stored size %d differs from uncompressed size %d", e.CompressedSize, e.UncompressedSize))
		}
		content = payload
	case Deflated:
		out, err := inflate(payload, e.UncompressedSize)
		if err != nil {
			return nil, NewExtractionError(e.Name, KindCorrupt, err)
		}
		content = out
	}

	if sum := crc32.ChecksumIEEE(content); sum != e.CRC32 {
		return nil, NewExtractionError(e.Name, KindChecksum,
			fmt.Errorf("crc32 %08x, want %08x", sum, e.CRC32))
	}
	return content, nil
}

// ExtractName locates name and extracts it.
func (x *Index) ExtractName(name string) ([]byte, error) {
	e, err := x.Locate(name)
	if err != nil {
		return nil, err
	}
	return x.Extract(e)
}

// maxDeflateRatio bounds how far a DEFLATE stream can expand: a 258-byte
// match costs at least two bits, so one input byte yields at most 1032
// output bytes.
const maxDeflateRatio = 1032

// inflate decodes a raw DEFLATE stream that must produce exactly size bytes
// and then end.
func inflate(payload []byte, size int64) ([]byte, error) {
	if size < 0 || size > int64(len(payload))*maxDeflateRatio {
		return nil, fmt.Errorf("declared size %d is impossible for %d compressed bytes", size, len(payload))
	}
	fr := flate.NewReader(bytes.NewReader(payload))
	defer fr.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(fr, out); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, fmt.Errorf("stream ended before %d bytes", size)
		}
		return nil, err
	}

	var probe [1]byte
	n, err := io.ReadFull(fr, probe[:])
	switch {
	case n > 0:
		return nil, fmt.Errorf("stream continues past %d bytes", size)
	case err == io.EOF:
		return out, nil
	default:
		return nil, err
	}
}
