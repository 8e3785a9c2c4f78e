package watcher

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiforge/catalyze/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestKitFilter(t *testing.T) {
	assert.True(t, KitFilter("vendor-kit/button.tsx"))
	assert.True(t, KitFilter("vendor-kit/util.ts"))
	assert.True(t, KitFilter("vendor-kit/theme.css"))
	assert.False(t, KitFilter("vendor-kit/readme.md"))
	assert.False(t, KitFilter("vendor-kit/manifest.json"))
}

func TestNoHiddenFilter(t *testing.T) {
	assert.True(t, NoHiddenFilter("vendor-kit/button.tsx"))
	assert.False(t, NoHiddenFilter("vendor-kit/.button.tsx.swp"))
	assert.False(t, NoHiddenFilter("vendor-kit/button.tsx~"))
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
}

func TestDebouncerBatchesAndDeduplicates(t *testing.T) {
	d := &Debouncer{
		delay:   20 * time.Millisecond,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make([]ChangeEvent, 0),
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.start(ctx)

	d.events <- ChangeEvent{Type: EventTypeCreated, Path: "button.tsx"}
	d.events <- ChangeEvent{Type: EventTypeModified, Path: "button.tsx"}
	d.events <- ChangeEvent{Type: EventTypeModified, Path: "icon.tsx"}

	select {
	case batch := <-d.output:
		require.Len(t, batch, 2, "events for the same path collapse")
		byPath := map[string]EventType{}
		for _, ev := range batch {
			byPath[ev.Path] = ev.Type
		}
		assert.Equal(t, EventTypeModified, byPath["button.tsx"], "last event wins")
		assert.Equal(t, EventTypeModified, byPath["icon.tsx"])
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never flushed")
	}
}

func TestDebouncerResetsOnNewEvents(t *testing.T) {
	d := &Debouncer{
		delay:   50 * time.Millisecond,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make([]ChangeEvent, 0),
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.start(ctx)

	for i := 0; i < 3; i++ {
		d.events <- ChangeEvent{Type: EventTypeModified, Path: "button.tsx"}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case batch := <-d.output:
		assert.Len(t, batch, 1, "rapid saves produce one batch")
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never flushed")
	}
}

func TestAddPathRejectsTraversal(t *testing.T) {
	logger := logging.NewLogger(nil)
	fw, err := NewFileWatcher(50*time.Millisecond, logger)
	require.NoError(t, err)
	defer fw.Stop()

	err = fw.AddPath("../outside")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "traversal")
}

func TestWatcherDeliversFilteredEvents(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewLogger(nil)
	fw, err := NewFileWatcher(30*time.Millisecond, logger)
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(KitFilter)
	fw.AddFilter(NoHiddenFilter)

	received := make(chan []ChangeEvent, 10)
	fw.AddHandler(func(events []ChangeEvent) error {
		received <- events
		return nil
	})

	require.NoError(t, fw.AddPath(dir))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	// give the watch loop a beat to come up
	time.Sleep(50 * time.Millisecond)

	writeFile(t, dir+"/button.tsx", "export const Button = 1;\n")
	writeFile(t, dir+"/notes.md", "ignored\n")

	select {
	case events := <-received:
		require.NotEmpty(t, events)
		for _, ev := range events {
			assert.NotContains(t, ev.Path, "notes.md")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no events delivered")
	}
}
