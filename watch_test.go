package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	file := writeFile(t, "test.c8s", []byte("  CLS\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	roms := make(chan []byte, 8)
	require.NoError(t, Watch(ctx, file, func(rom []byte) { roms <- rom }))

	require.NoError(t, os.WriteFile(file, []byte("  RET\n"), 0o644))

	select {
	case rom := <-roms:
		assert.Equal(t, []byte{0x00, 0xEE}, rom)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}
}

func TestWatch_BadSource(t *testing.T) {
	file := writeFile(t, "test.c8s", []byte("  CLS\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	roms := make(chan []byte, 8)
	require.NoError(t, Watch(ctx, file, func(rom []byte) { roms <- rom }))

	// a broken build is not swapped in
	require.NoError(t, os.WriteFile(file, []byte("  NOPE\n"), 0o644))

	select {
	case <-roms:
		t.Fatal("swapped a broken build")
	case <-time.After(5 * Debounce):
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), "/no/such/dir/test.ch8", func([]byte) {})
	assert.Error(t, err)
}
