// Package random supplies die faces for dealing.
//
// Source is the production source: a PCG generator seeded from crypto/rand and
// guarded by a mutex so concurrent rounds can share one instance. Fixed replays
// a scripted sequence for tests.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/gamerbot/gamerbot/engine"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Source is a FaceSource safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Source seeded from crypto/rand.
func New() (*Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSeeded(seed), nil
}

// NewSeeded returns a Source with a fixed seed.
func NewSeeded(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NextFace returns a uniformly distributed face.
func (s *Source) NextFace() engine.Face {
	s.mu.Lock()
	n := s.rng.IntN(engine.NumFaces)
	s.mu.Unlock()
	return engine.Face(n + 1)
}

// Fixed cycles through a scripted list of faces.
type Fixed struct {
	mu    sync.Mutex
	faces []engine.Face
	next  int
}

// NewFixed returns a source that yields faces in order, wrapping around.
// It panics if faces is empty.
func NewFixed(faces ...engine.Face) *Fixed {
	if len(faces) == 0 {
		panic("random: NewFixed with no faces")
	}
	return &Fixed{faces: append([]engine.Face(nil), faces...)}
}

// NewFixedHands returns a source that deals exactly the given hands,
// challenger first.
func NewFixedHands(h0, h1 engine.Hand) *Fixed {
	faces := make([]engine.Face, 0, 2*engine.HandSize)
	faces = append(faces, h0[:]...)
	faces = append(faces, h1[:]...)
	return NewFixed(faces...)
}

// NextFace returns the next scripted face.
func (f *Fixed) NextFace() engine.Face {
	f.mu.Lock()
	defer f.mu.Unlock()
	face := f.faces[f.next%len(f.faces)]
	f.next++
	return face
}
