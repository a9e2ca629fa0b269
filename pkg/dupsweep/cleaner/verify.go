package cleaner

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/hasher"
)

// ErrContentChanged reports a file whose content no longer matches the
// digest it was grouped under.
var ErrContentChanged = errors.New("content changed since scan")

// Verifier confirms a file still holds the content the scan recorded.
type Verifier interface {
	Verify(path, digest string) error
}

// ContentVerifier re-hashes the whole file, bypassing any digest cache.
type ContentVerifier struct {
	Hasher *hasher.Hasher
}

// Verify returns nil when path hashes to digest, ErrContentChanged when it
// hashes to something else, and the read error when it cannot be hashed.
func (v ContentVerifier) Verify(path, digest string) error {
	got, err := v.Hasher.HashFile(path)
	if err != nil {
		return err
	}
	if got != digest {
		return fmt.Errorf("%s: %w", path, ErrContentChanged)
	}
	return nil
}

// verifierFor returns a ContentVerifier using the algorithm that produced
// the digests of a scan.
func verifierFor(algorithm string) (Verifier, error) {
	alg, err := hasher.ParseAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	return ContentVerifier{Hasher: hasher.New(hasher.WithAlgorithm(alg))}, nil
}
