package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// The watcher owns an fsnotify goroutine; every test must stop it.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type result struct {
	backlog *domain.ProjectBacklog
	err     error
}

func next(t *testing.T, ch <-chan result) result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return result{}
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backlog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"project":"v1","backlog":[]}`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan result, 8)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, path, DefaultDebounce, func(b *domain.ProjectBacklog, err error) {
			ch <- result{b, err}
		})
	}()

	first := next(t, ch)
	require.NoError(t, first.err)
	assert.Equal(t, "v1", first.backlog.Project)

	require.NoError(t, os.WriteFile(path, []byte(`{"project":"v2","backlog":[{"id":1}]}`), 0o644))
	second := next(t, ch)
	require.NoError(t, second.err)
	assert.Equal(t, "v2", second.backlog.Project)
	assert.Len(t, second.backlog.Backlog, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))
	select {
	case r := <-ch:
		t.Fatalf("unexpected reload for sibling file: %+v", r)
	case <-time.After(3 * DefaultDebounce):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_ReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project: [unclosed"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan result, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = watch(ctx, path, 20*time.Millisecond, func(b *domain.ProjectBacklog, err error) {
			ch <- result{b, err}
			cancel()
		})
	}()

	r := next(t, ch)
	assert.Error(t, r.err)
	assert.Nil(t, r.backlog)
	<-done
}

func TestWatch_RejectsUnknownExtension(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "notes.txt"), func(*domain.ProjectBacklog, error) {
		t.Fatal("handler must not run")
	})
	assert.Error(t, err)
}
