package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExtension(t *testing.T) {
	assert.Equal(t, ExtXCI, ParseExtension(".xci"))
	assert.Equal(t, ExtNSZ, ParseExtension(".NSZ"))
	assert.False(t, ParseExtension(".txt").Recognized())
	assert.False(t, ParseExtension("").Recognized())
}

func TestExtension_Predicates(t *testing.T) {
	assert.True(t, ExtXCZ.Compressed())
	assert.True(t, ExtNSZ.Compressed())
	assert.False(t, ExtXCI.Compressed())
	assert.False(t, ExtNSP.Compressed())

	assert.True(t, ExtXCI.BaseImage())
	assert.True(t, ExtXCZ.BaseImage())
	assert.False(t, ExtNSP.BaseImage())
}

func TestExtension_Uncompressed(t *testing.T) {
	assert.Equal(t, ExtXCI, ExtXCZ.Uncompressed())
	assert.Equal(t, ExtNSP, ExtNSZ.Uncompressed())
	assert.Equal(t, ExtXCI, ExtXCI.Uncompressed())
	assert.Equal(t, ExtNSP, ExtNSP.Uncompressed())
}
