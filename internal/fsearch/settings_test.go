package fsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_CompileRejectsEmptyPatterns(t *testing.T) {
	s := DefaultSettings()
	s.Roots = []string{t.TempDir()}
	_, err := s.compile()
	assert.ErrorIs(t, err, ErrNoPatterns)
}

func TestSettings_CompileRejectsEmptyRoots(t *testing.T) {
	s := DefaultSettings()
	s.Patterns = []string{"foo"}
	_, err := s.compile()
	assert.ErrorIs(t, err, ErrNoRoots)
}

func TestSettings_CompileRejectsMissingRoot(t *testing.T) {
	s := DefaultSettings()
	s.Patterns = []string{"foo"}
	s.Roots = []string{"/no/such/directory"}
	_, err := s.compile()
	assert.ErrorIs(t, err, ErrInvalidRoot)
}

func TestSettings_CompileDefaultsFilterToMatchAll(t *testing.T) {
	s := DefaultSettings()
	s.Patterns = []string{"foo"}
	s.Roots = []string{t.TempDir()}
	s.Filter = ""

	c, err := s.compile()
	require.NoError(t, err)
	assert.True(t, c.filter.MatchString("anything.txt"))
}

func TestSettings_CompileRejectsInvalidRegex(t *testing.T) {
	s := DefaultSettings()
	s.Roots = []string{t.TempDir()}
	s.Patterns = []string{"(unclosed"}
	_, err := s.compile()
	assert.Error(t, err)
}
