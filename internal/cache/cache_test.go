package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is an in-process Cache for exercising Fetch.
type memCache struct {
	data   map[string][]byte
	getErr error
	sets   int
}

func (m *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (m *memCache) Set(_ context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	m.sets++
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestKey(t *testing.T) {
	assert.Equal(t, "cricmetrics:12.40.run:leaders:runs:2024", Key("12.40.run", "leaders", "runs", "2024"))
	assert.NotEqual(t, Key("1.1.a", "x"), Key("2.2.b", "x"))
}

func TestFetchLoadsOnceThenHits(t *testing.T) {
	c := &memCache{data: map[string][]byte{}}
	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"Kohli", "Rohit"}, nil
	}
	ctx := context.Background()

	got, err := Fetch(ctx, c, quietLogger(), "k", load)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kohli", "Rohit"}, got)

	got, err = Fetch(ctx, c, quietLogger(), "k", load)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kohli", "Rohit"}, got)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.sets)
}

func TestFetchLoadErrorNotCached(t *testing.T) {
	c := &memCache{data: map[string][]byte{}}
	_, err := Fetch(context.Background(), c, quietLogger(), "k", func() (int, error) {
		return 0, errors.New("db closed")
	})
	assert.Error(t, err)
	assert.Empty(t, c.data)
}

func TestFetchSurvivesBrokenCache(t *testing.T) {
	c := &memCache{data: map[string][]byte{}, getErr: errors.New("conn reset")}
	got, err := Fetch(context.Background(), c, quietLogger(), "k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestNop(t *testing.T) {
	var n Nop
	var dest int
	hit, err := n.Get(context.Background(), "k", &dest)
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, n.Set(context.Background(), "k", 1))
}

func TestRedisUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := New(client, time.Minute, nil)
	defer r.Close()

	var dest int
	hit, err := r.Get(context.Background(), "k", &dest)
	assert.False(t, hit)
	assert.Error(t, err)
	assert.Error(t, r.Set(context.Background(), "k", 1))
}

func TestDialBadURL(t *testing.T) {
	_, err := Dial(context.Background(), "not-a-url", time.Minute, nil)
	assert.ErrorContains(t, err, "parse redis url")
}
