package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProposalStatusTerminal(t *testing.T) {
	assert.False(t, ProposalPending.Terminal())
	assert.True(t, ProposalAccepted.Terminal())
	assert.True(t, ProposalRejected.Terminal())
}
