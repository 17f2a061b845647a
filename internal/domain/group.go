package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// Hash128 is an unsigned 128-bit content hash as written by the duplicate
// finder. It is encoded in JSON as a bare decimal number.
type Hash128 struct {
	Hi uint64
	Lo uint64
}

var maxUint64 = new(big.Int).SetUint64(^uint64(0))

// ParseHash128 parses a base-10 unsigned integer that fits in 128 bits.
func ParseHash128(s string) (Hash128, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Hash128{}, fmt.Errorf("hash %q is not a decimal integer", s)
	}
	if n.Sign() < 0 {
		return Hash128{}, fmt.Errorf("hash %q is negative", s)
	}
	if n.BitLen() > 128 {
		return Hash128{}, fmt.Errorf("hash %q overflows 128 bits", s)
	}
	lo := new(big.Int).And(n, maxUint64)
	hi := new(big.Int).Rsh(n, 64)
	return Hash128{Hi: hi.Uint64(), Lo: lo.Uint64()}, nil
}

// String returns the decimal representation.
func (h Hash128) String() string {
	n := new(big.Int).SetUint64(h.Hi)
	n.Lsh(n, 64)
	n.Or(n, new(big.Int).SetUint64(h.Lo))
	return n.String()
}

// MarshalJSON writes the hash as a bare JSON number.
func (h Hash128) MarshalJSON() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalJSON reads a bare JSON number. Strings, fractions and exponents
// are rejected.
func (h *Hash128) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '"' {
		return fmt.Errorf("hash must be a JSON number, got %s", b)
	}
	v, err := ParseHash128(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// DuplicateGroup is one record of a duplicate report: paths believed to have
// identical content. It is immutable once decoded.
type DuplicateGroup struct {
	Length      uint64   `json:"file_length"`
	Paths       []string `json:"file_paths"`
	FullHash    *Hash128 `json:"full_hash"`
	PartialHash *Hash128 `json:"partial_hash"`
}

// UnmarshalJSON requires file_length and file_paths to be present.
func (g *DuplicateGroup) UnmarshalJSON(b []byte) error {
	var raw struct {
		Length      *uint64   `json:"file_length"`
		Paths       *[]string `json:"file_paths"`
		FullHash    *Hash128  `json:"full_hash"`
		PartialHash *Hash128  `json:"partial_hash"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Length == nil {
		return fmt.Errorf("missing field file_length")
	}
	if raw.Paths == nil {
		return fmt.Errorf("missing field file_paths")
	}
	*g = DuplicateGroup{
		Length:      *raw.Length,
		Paths:       *raw.Paths,
		FullHash:    raw.FullHash,
		PartialHash: raw.PartialHash,
	}
	return nil
}

// HasHash reports whether the group was hash-confirmed upstream.
func (g DuplicateGroup) HasHash() bool {
	return g.FullHash != nil || g.PartialHash != nil
}

// Skip reasons for groups that are never disposed.
const (
	SkipSinglePath = "single_path"
	SkipNoHash     = "no_hash"
	SkipCanceled   = "canceled"
)

// Eligibility returns whether the group may be disposed and, if not, why.
func (g DuplicateGroup) Eligibility() (ok bool, reason string) {
	if len(g.Paths) < 2 {
		return false, SkipSinglePath
	}
	if !g.HasHash() {
		return false, SkipNoHash
	}
	return true, ""
}

// Eligible reports whether the group has at least two paths and a hash.
func (g DuplicateGroup) Eligible() bool {
	ok, _ := g.Eligibility()
	return ok
}
