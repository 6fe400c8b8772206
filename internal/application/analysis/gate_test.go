package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type mapCache map[string]bool

func (m mapCache) Get(path string) (bool, bool) {
	v, ok := m[path]
	return v, ok
}

func (m mapCache) Set(path string, isUI bool) { m[path] = isUI }

func TestGate_Verdicts(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  bool
	}{
		{name: "yes", reply: "YES", want: true},
		{name: "lowercase yes", reply: "yes, this is a login form", want: true},
		{name: "no", reply: "NO", want: false},
		{name: "model error", err: errModel, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{respond: func(string) (string, error) { return tt.reply, tt.err }}
			g := NewGate(client, &fakeCodec{}, mapCache{}, zaptest.NewLogger(t))

			assert.Equal(t, tt.want, g.IsUIImage(context.Background(), "uploads/1_a.png"))
		})
	}
}

func TestGate_CachesSuccessOnly(t *testing.T) {
	cache := mapCache{}
	client := &fakeClient{respond: func(string) (string, error) { return "YES", nil }}
	g := NewGate(client, &fakeCodec{}, cache, zaptest.NewLogger(t))

	assert.True(t, g.IsUIImage(context.Background(), "a.png"))
	assert.True(t, g.IsUIImage(context.Background(), "a.png"))
	assert.Equal(t, int32(1), client.calls.Load())

	failing := &fakeClient{respond: func(string) (string, error) { return "", errModel }}
	g.Client = failing
	assert.False(t, g.IsUIImage(context.Background(), "b.png"))
	assert.False(t, g.IsUIImage(context.Background(), "b.png"))
	assert.Equal(t, int32(2), failing.calls.Load())
	_, cached := cache["b.png"]
	assert.False(t, cached)
}

func TestGate_LoadFailure(t *testing.T) {
	client := &fakeClient{respond: func(string) (string, error) { return "YES", nil }}
	g := NewGate(client, &fakeCodec{loadErr: errors.New("corrupt")}, nil, zaptest.NewLogger(t))

	assert.False(t, g.IsUIImage(context.Background(), "broken.png"))
	assert.Zero(t, client.calls.Load())
}
