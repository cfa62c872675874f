package service

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"antibias-assessment/internal/model"
)

// NewSeed returns a random seed for a session's presentation order.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Permutation returns the indices 0..n-1 in an order fully determined by seed.
func Permutation(n int, seed uint64) []int {
	if n <= 0 {
		return []int{}
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.Perm(n)
}

// ShuffleQuestions returns a copy of questions in seed order.
func ShuffleQuestions(questions []model.Question, seed uint64) []model.Question {
	out := make([]model.Question, len(questions))
	for i, idx := range Permutation(len(questions), seed) {
		out[i] = questions[idx]
	}
	return out
}
