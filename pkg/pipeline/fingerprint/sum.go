// Package fingerprint deduplicates module and datasource registrations by content hash.
//
// A fingerprint is an opaque string. Callers may supply their own; otherwise Sum derives one
// from the creation record the definition translates to. Lookups are exact-match only.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
)

// Sum returns the hex sha256 of the JSON encoding of v. Struct fields encode in declaration
// order, so equal values always produce the same sum.
func Sum(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "unable to encode value for fingerprint")
	}

	sum := sha256.Sum256(b)

	return hex.EncodeToString(sum[:]), nil
}
