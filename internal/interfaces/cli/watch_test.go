package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/refsign-check/internal/testutil"
)

func TestWatchLoop_SubmitsTargetWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "draft.txt")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))

	fw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.Add(dir))

	var (
		mu   sync.Mutex
		seen []string
	)
	submit := func(text string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, text)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchLoop(ctx, fw, target, submit, testutil.NewMockLogger()) }()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("v2"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == "v2"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, seen, "ignored")
}

func TestWatchLoop_StopsWhenWatcherCloses(t *testing.T) {
	fw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	err = watchLoop(context.Background(), fw, "/nonexistent", func(string) {}, testutil.NewMockLogger())
	assert.NoError(t, err)
}

//Personal.AI order the ending
