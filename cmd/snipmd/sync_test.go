package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncCommitMessage(t *testing.T) {
	assert.Equal(t, "Sync snippets: 1 change(s)", syncCommitMessage(1))
	assert.Equal(t, "Sync snippets: 12 change(s)", syncCommitMessage(12))
}
