package service

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antibias-assessment/internal/model"
	"antibias-assessment/internal/repository"
)

func TestPermutationIsPermutation(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 47, 60} {
		for seed := uint64(0); seed < 50; seed++ {
			perm := Permutation(n, seed)
			require.Len(t, perm, n)

			sorted := append([]int(nil), perm...)
			sort.Ints(sorted)
			for i, v := range sorted {
				require.Equal(t, i, v, "n=%d seed=%d", n, seed)
			}
		}
	}
}

func TestPermutationStableForSeed(t *testing.T) {
	a := Permutation(47, 12345)
	b := Permutation(47, 12345)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different orders (-first +second):\n%s", diff)
	}

	c := Permutation(47, 54321)
	assert.NotEqual(t, a, c)
}

func TestShuffleQuestionsKeepsCanonicalSet(t *testing.T) {
	repo := repository.DefaultQuestions()
	canonical := repo.GetAllQuestions()

	shuffled := ShuffleQuestions(canonical, 99)
	require.Len(t, shuffled, len(canonical))

	seen := make(map[int]model.Question, len(shuffled))
	for _, q := range shuffled {
		_, dup := seen[q.ID]
		require.False(t, dup, "question %d appears twice", q.ID)
		seen[q.ID] = q
	}
	for _, q := range canonical {
		got, ok := seen[q.ID]
		require.True(t, ok, "question %d missing", q.ID)
		assert.Equal(t, q, got)
	}

	// The input slice is left untouched.
	assert.Equal(t, repo.GetAllQuestions(), canonical)
}

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
