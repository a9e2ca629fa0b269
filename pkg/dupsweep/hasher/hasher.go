// Package hasher computes content digests of files for duplicate grouping.
// Files are streamed through the hash in bounded chunks so memory use does
// not depend on file size.
//
// A digest is treated as a content identity: two files with equal digests
// are assumed to hold equal bytes. Collisions are an accepted risk of the
// chosen algorithm.
package hasher

import (
	"crypto/md5" //nolint:gosec // content addressing, not integrity
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// DefaultBatchSize is the default read chunk size.
const DefaultBatchSize = 1 * types.MiB

// HeadSize is the number of leading bytes covered by HashHead.
const HeadSize = 64 * types.KiB

// Algorithm names a supported digest function.
type Algorithm string

// Supported algorithms.
const (
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
	XXHash Algorithm = "xxhash"
)

// DefaultAlgorithm is used when none is configured.
const DefaultAlgorithm = MD5

// ErrUnknownAlgorithm is returned for unsupported algorithm names.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// ParseAlgorithm parses an algorithm name (case-insensitive).
// An empty name yields DefaultAlgorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultAlgorithm, nil
	case "md5":
		return MD5, nil
	case "sha256", "sha-256":
		return SHA256, nil
	case "xxhash", "xxh64":
		return XXHash, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownAlgorithm, s)
	}
}

// Algorithms returns all supported algorithm names.
func Algorithms() []Algorithm {
	return []Algorithm{MD5, SHA256, XXHash}
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New()
	case XXHash:
		return xxhash.New()
	default:
		return md5.New() //nolint:gosec // content addressing, not integrity
	}
}

// ScanIOError reports a file that could not be opened or read while hashing.
// It is fatal to a scan.
type ScanIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *ScanIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ScanIOError) Unwrap() error {
	return e.Err
}

// Hasher computes file digests.
type Hasher struct {
	algorithm Algorithm
	batchSize int64
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithAlgorithm selects the digest function.
func WithAlgorithm(a Algorithm) Option {
	return func(h *Hasher) {
		h.algorithm = a
	}
}

// WithBatchSize sets the read chunk size. Values below 1 keep the default.
func WithBatchSize(n int64) Option {
	return func(h *Hasher) {
		if n > 0 {
			h.batchSize = n
		}
	}
}

// New creates a Hasher. Without options it uses MD5 and 1 MiB chunks.
func New(opts ...Option) *Hasher {
	h := &Hasher{
		algorithm: DefaultAlgorithm,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.algorithm == "" {
		h.algorithm = DefaultAlgorithm
	}
	return h
}

// Algorithm returns the configured digest function.
func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

// BatchSize returns the configured read chunk size.
func (h *Hasher) BatchSize() int64 {
	return h.batchSize
}

// HashFile returns the hex digest of the file at path.
// The file is closed before returning on every path.
func (h *Hasher) HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &ScanIOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	digest, err := h.HashReader(f)
	if err != nil {
		return "", &ScanIOError{Op: "read", Path: path, Err: err}
	}
	return digest, nil
}

// HashReader returns the hex digest of everything read from r.
func (h *Hasher) HashReader(r io.Reader) (string, error) {
	sum := h.algorithm.newHash()
	buf := make([]byte, h.batchSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			sum.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(sum.Sum(nil)), nil
}

// HashHead returns a quick xxhash digest of the first HeadSize bytes of the
// file at path. Files no larger than HeadSize are covered entirely. It fails
// exactly where HashFile would fail to open or start reading the file.
func (h *Hasher) HashHead(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &ScanIOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	d := xxhash.New()
	if _, err := io.CopyN(d, f, HeadSize); err != nil && !errors.Is(err, io.EOF) {
		return "", &ScanIOError{Op: "read", Path: path, Err: err}
	}
	return strconv.FormatUint(d.Sum64(), 16), nil
}
