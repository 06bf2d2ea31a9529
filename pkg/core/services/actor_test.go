package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorIsElevated(t *testing.T) {
	assert.True(t, Actor{ID: "a", Role: RoleAdmin}.IsElevated())
	assert.True(t, Actor{ID: "s", Role: RoleSupervisor}.IsElevated())
	assert.False(t, Actor{ID: "e", Role: "evaluator"}.IsElevated())
	assert.False(t, Actor{ID: "x", Role: ""}.IsElevated())
}
