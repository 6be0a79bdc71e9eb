package bankdir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectory_Lookup(t *testing.T) {
	dir := New()

	assert.Equal(t, "MIDLAND BANK", dir.Lookup("MDBL"))
	assert.Equal(t, "MIDLAND BANK", dir.Lookup("mdbl"))
	assert.Equal(t, "BRAC BANK", dir.Lookup("BBL"))
	assert.Equal(t, "ONE BANK", dir.Lookup("OBL"))
}

func TestDirectory_UnknownCodePassesThrough(t *testing.T) {
	dir := New()

	assert.Equal(t, "XYZ", dir.Lookup("XYZ"))
}

func TestDirectory_EmptyCode(t *testing.T) {
	dir := New()

	assert.Equal(t, "", dir.Lookup(""))
}

func TestDirectory_Overrides(t *testing.T) {
	dir := NewWithOverrides(map[string]string{"ABCL": "ABC Bank"})

	assert.Equal(t, "ABC BANK", dir.Lookup("abcl"))
	// Defaults survive overrides
	assert.Equal(t, "PRIME BANK", dir.Lookup("PBL"))
}
