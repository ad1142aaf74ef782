package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchSignatureDeterministicHash(t *testing.T) {
	a := NewSession()
	a.CanonicalKeywords = []string{"go", "backend"}
	a.Filters.Location = StringFilter{Enabled: true, Value: "1"}

	b := NewSession()
	b.CanonicalKeywords = []string{"go", "backend"}
	b.Filters.Location = StringFilter{Enabled: true, Value: "1"}

	sigA := ComputeSearchSignature(a)
	sigB := ComputeSearchSignature(b)

	// Tokens differ (salt), hashes agree.
	assert.Equal(t, SignatureHash(sigA), SignatureHash(sigB))
}

func TestSearchSignatureSaltMakesTokensUnique(t *testing.T) {
	s := NewSession()
	sigA := ComputeSearchSignature(s)
	sigB := ComputeSearchSignature(s)
	assert.Equal(t, SignatureHash(sigA), SignatureHash(sigB))
	assert.Contains(t, sigA, ":")
}

func TestSearchSignatureDisabledValueIgnored(t *testing.T) {
	a := NewSession()
	a.Filters.Location = StringFilter{Enabled: false, Value: "1"}

	b := NewSession()
	b.Filters.Location = StringFilter{Enabled: false, Value: "2"}

	// A disabled dimension's value does not participate.
	assert.Equal(t,
		SignatureHash(ComputeSearchSignature(a)),
		SignatureHash(ComputeSearchSignature(b)))

	// The enabled flag itself does.
	b.Filters.Location.Enabled = true
	assert.NotEqual(t,
		SignatureHash(ComputeSearchSignature(a)),
		SignatureHash(ComputeSearchSignature(b)))
}

func TestSearchSignatureListOrderInsensitive(t *testing.T) {
	a := NewSession()
	a.Filters.Employment = ListFilter{Enabled: true, Values: []string{"full", "part"}}

	b := NewSession()
	b.Filters.Employment = ListFilter{Enabled: true, Values: []string{"part", "full"}}

	assert.Equal(t,
		SignatureHash(ComputeSearchSignature(a)),
		SignatureHash(ComputeSearchSignature(b)))
}

func TestSearchSignatureKeywordNormalization(t *testing.T) {
	a := NewSession()
	a.CanonicalKeywords = []string{" Go ", "Backend"}

	b := NewSession()
	b.CanonicalKeywords = []string{"backend", "go"}

	assert.Equal(t,
		SignatureHash(ComputeSearchSignature(a)),
		SignatureHash(ComputeSearchSignature(b)))
}

func TestSaveSignatureStable(t *testing.T) {
	a := NewSession()
	a.CanonicalKeywords = []string{"go"}
	a.Step = StepResults
	a.Results.Index = 3

	b := NewSession()
	b.CanonicalKeywords = []string{"go"}
	b.Step = StepResults
	b.Results.Index = 3

	// Byte-identical for equal input, no salt.
	assert.Equal(t, ComputeSaveSignature(a), ComputeSaveSignature(b))

	b.Results.Index = 4
	assert.NotEqual(t, ComputeSaveSignature(a), ComputeSaveSignature(b))
}

func TestSignatureHashStripsSalt(t *testing.T) {
	require.Equal(t, "-12345", SignatureHash("-12345:999999"))
	require.Equal(t, "12345", SignatureHash("12345"))
}

func TestHash32Wraps(t *testing.T) {
	// A long input must wrap within 32 bits rather than grow unbounded.
	long := make([]byte, 0, 4096)
	for i := 0; i < 4096; i++ {
		long = append(long, byte('a'+i%26))
	}
	h := hash32(string(long))
	assert.Equal(t, h, hash32(string(long)))
}
