package class

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestGenerateCodeFormat(t *testing.T) {
	never := func(string) bool { return false }
	for i := 0; i < 1000; i++ {
		code := GenerateCode(never)
		assert.Regexp(t, codePattern, code)
	}
}

func TestGenerateCodeAvoidsExistingCodes(t *testing.T) {
	taken := make(map[string]bool)
	never := func(string) bool { return false }
	for len(taken) < 100 {
		taken[GenerateCode(never)] = true
	}

	exists := func(code string) bool { return taken[code] }
	for i := 0; i < 10000; i++ {
		code := GenerateCode(exists)
		require.False(t, taken[code], "generated a code already in use: %s", code)
	}
}

func TestGenerateCodeRetriesUntilFree(t *testing.T) {
	// Force a few collisions by rejecting the first three candidates outright.
	rejections := 0
	exists := func(string) bool {
		if rejections < 3 {
			rejections++
			return true
		}
		return false
	}

	code := GenerateCode(exists)
	assert.Regexp(t, codePattern, code)
	assert.Equal(t, 3, rejections)
}
