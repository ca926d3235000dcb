package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatusCheck(t *testing.T) {
	before := time.Now().UTC()
	sc := NewStatusCheck("web")

	_, err := uuid.Parse(sc.ID)
	require.NoError(t, err)
	assert.Equal(t, "web", sc.ClientName)
	assert.Equal(t, time.UTC, sc.Timestamp.Location())
	assert.False(t, sc.Timestamp.Before(before))

	other := NewStatusCheck("web")
	assert.NotEqual(t, sc.ID, other.ID)
}

func TestStatusCheck_JSONFieldNames(t *testing.T) {
	sc := &StatusCheck{ID: "abc", ClientName: "web", Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	data, err := json.Marshal(sc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","client_name":"web","timestamp":"2024-01-02T03:04:05Z"}`, string(data))
}
