package utils

import (
	"hash"
	"io"
	"os"

	"golang.org/x/crypto/sha3"
)

// Sha3 returns the legacy Keccak-256 digest of the concatenated inputs, as used by Ethereum.
func Sha3(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Sha3String returns the 0x-prefixed Keccak-256 digest of s.
func Sha3String(s string) string {
	return ToHex(Sha3([]byte(s)))
}

// Sha3Reader hashes r with an adaptive read buffer sized from sizeHint
// (pass <= 0 when the size is unknown).
func Sha3Reader(r io.Reader, sizeHint int64) ([]byte, error) {
	return hashReader(sha3.NewLegacyKeccak256(), r, chunkSizeFor(sizeHint))
}

// Sha3File returns the Keccak-256 digest of the file at path.
func Sha3File(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return hashReader(sha3.NewLegacyKeccak256(), f, chunkSizeFor(fi.Size()))
}

// hashReader uses a manual read loop rather than io.Copy so large files are
// read in chunks matched to their size.
func hashReader(h hash.Hash, r io.Reader, chunk int64) ([]byte, error) {
	buf := make([]byte, chunk)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return nil, werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, rerr
		}
	}
	return h.Sum(nil), nil
}

// chunkSizeFor returns the read chunk size based on total input size.
func chunkSizeFor(total int64) int64 {
	if total <= 0 {
		return 512 << 10 // 512 KiB default when total size is unknown
	}
	switch {
	case total <= 4<<20: // ≤ 4 MiB
		return 512 << 10
	case total <= 32<<20: // ≤ 32 MiB
		return 1 << 20
	case total <= 2<<30: // ≤ 2 GiB
		return 2 << 20
	default:
		return 4 << 20
	}
}
