package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTempID(t *testing.T) {
	id := NewTempID()

	require.True(t, IsTempID(id))
	assert.Regexp(t, regexp.MustCompile(`^temp_[0-9a-f-]{36}$`), id)
	assert.NotEqual(t, id, NewTempID(), "temp ids must be unique")
}

func TestIsTempID(t *testing.T) {
	assert.True(t, IsTempID("temp_abc"))
	assert.False(t, IsTempID("5f2d"))
	assert.False(t, IsTempID(""))
}

func TestContact_EntityPlumbing(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	c := &Contact{FirstName: "Ada", LastName: "Lovelace"}
	c.SetEntityID("c1")
	c.StampCreated(now)
	c.Touch(now.Add(time.Hour))

	assert.Equal(t, "c1", c.EntityID())
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, now.Add(time.Hour), c.UpdatedAt)
	assert.Equal(t, "Ada Lovelace", c.Name())

	c.LastName = ""
	assert.Equal(t, "Ada", c.Name())
}
