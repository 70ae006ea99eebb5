package worker

import (
	"fmt"
	"strconv"

	"github.com/screa/seedvanity/pkg/types"
)

// alnumChars is the seed table for the alnum style: base58 letters first, then all digits.
const alnumChars = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz0123456789"

const (
	alnumSeedLen = 16
	goldenRatio  = 0x9E3779B97F4A7C15
)

// SeedStream produces a private sequence of candidate seeds.
// Next writes the seed into dst[:0] and returns it; the result is only valid until the next call.
type SeedStream interface {
	Next(dst []byte) []byte
}

// NewSeedStream returns a stream starting at offset.
func NewSeedStream(style types.SeedStyle, offset uint64) (SeedStream, error) {
	switch style {
	case "", types.SeedStyleDecimal:
		return &decimalStream{next: offset}, nil
	case types.SeedStyleAlnum:
		return &alnumStream{next: offset}, nil
	default:
		return nil, fmt.Errorf("unknown seed style %q", style)
	}
}

// decimalStream yields offset, offset+1, ... as decimal strings (at most 20 bytes).
type decimalStream struct {
	next uint64
}

func (s *decimalStream) Next(dst []byte) []byte {
	seed := strconv.AppendUint(dst[:0], s.next, 10)
	s.next++
	return seed
}

// alnumStream mixes the counter into a fixed 16-character seed.
type alnumStream struct {
	next uint64
}

func (s *alnumStream) Next(dst []byte) []byte {
	if cap(dst) < alnumSeedLen {
		dst = make([]byte, alnumSeedLen)
	}
	seed := dst[:alnumSeedLen]
	alnumSeed(s.next, seed)
	s.next++
	return seed
}

func alnumSeed(counter uint64, seed []byte) {
	state1 := counter
	state2 := counter * goldenRatio
	n := uint64(len(alnumChars))
	for i := 0; i < alnumSeedLen/2; i++ {
		seed[i] = alnumChars[state1%n]
		seed[i+alnumSeedLen/2] = alnumChars[state2%n]
		state1 >>= 8
		state2 >>= 8
	}
}
