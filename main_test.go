package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMainRunsCLI(t *testing.T) {
	orig := execute
	t.Cleanup(func() { execute = orig })

	calls := 0
	execute = func() { calls++ }
	main()

	assert.Equal(t, 1, calls)
}
