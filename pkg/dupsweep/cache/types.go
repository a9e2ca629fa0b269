package cache

import (
	"bytes"
	"encoding/gob"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// keySeparator separates the algorithm from the file path in cache keys.
const keySeparator = '\x00'

// CachedDigest is the stored digest of one file, valid while the file's
// stamp is unchanged.
type CachedDigest struct {
	Size   int64  // File size in bytes
	Mtime  int64  // Modification time as UnixNano
	Ctime  int64  // Status change time as UnixNano
	Inode  uint64 // Inode number
	Head   string // Digest of the leading bytes
	Digest string // Hex digest
}

func newCachedDigest(stamp types.FileStamp, digest string) *CachedDigest {
	return &CachedDigest{
		Size:   stamp.Size,
		Mtime:  stamp.Mtime,
		Ctime:  stamp.Ctime,
		Inode:  stamp.Inode,
		Head:   stamp.Head,
		Digest: digest,
	}
}

// Encode serializes the entry to bytes using gob.
func (e *CachedDigest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes bytes into the entry using gob.
func (e *CachedDigest) Decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(e)
}

// Matches reports whether the entry is still valid for a file with the
// given stamp. Entries written without a head digest never match.
func (e *CachedDigest) Matches(stamp types.FileStamp) bool {
	return e.Digest != "" && e.Head != "" &&
		e.Size == stamp.Size &&
		e.Mtime == stamp.Mtime &&
		e.Ctime == stamp.Ctime &&
		e.Inode == stamp.Inode &&
		e.Head == stamp.Head
}

// makeKey creates a cache key. Format: <algorithm>\x00<path>
// Digests from different algorithms never collide.
func makeKey(algorithm, path string) []byte {
	return []byte(algorithm + string(keySeparator) + path)
}
