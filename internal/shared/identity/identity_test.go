package identity

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_DefaultsToAnonymous(t *testing.T) {
	assert.True(t, FromContext(context.Background()).IsAnonymous())
}

func TestWithPrincipal(t *testing.T) {
	p := New()
	ctx := WithPrincipal(context.Background(), p)

	got := FromContext(ctx)
	assert.Equal(t, p, got)
	assert.False(t, got.IsAnonymous())
}

func TestParse(t *testing.T) {
	p := New()

	got, err := Parse(p.String())
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = Parse("not-a-uuid")
	assert.Error(t, err)
}

func TestPrincipal_JSON(t *testing.T) {
	p := New()

	data, err := json.Marshal(struct {
		Originator Principal `json:"originator"`
	}{p})
	require.NoError(t, err)
	assert.JSONEq(t, `{"originator":"`+p.String()+`"}`, string(data))

	var out struct {
		Originator Principal `json:"originator"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, p, out.Originator)
}
