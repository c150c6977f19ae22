package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePair(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	f1, s1 := NormalizePair(a, b)
	f2, s2 := NormalizePair(b, a)

	assert.Equal(t, f1, f2, "pair order must not depend on argument order")
	assert.Equal(t, s1, s2)
	assert.Equal(t, a, f1)
	assert.Equal(t, b, s1)
}

func TestNormalizePairSameID(t *testing.T) {
	a := uuid.New()
	f, s := NormalizePair(a, a)
	assert.Equal(t, a, f)
	assert.Equal(t, a, s)
}
