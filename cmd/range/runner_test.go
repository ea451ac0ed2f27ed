package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/ballistics/internal/application/replay"
)

func TestParseFlags(t *testing.T) {
	var out bytes.Buffer

	o, err := parseFlags([]string{"-headless", "-ticks", "90", "-journal", "none"}, &out)
	require.NoError(t, err)
	assert.True(t, o.headless)
	assert.Equal(t, 90, o.ticks)
	assert.Equal(t, -1, o.workers)
	assert.Equal(t, "none", o.journal)

	_, err = parseFlags([]string{"-bogus"}, &out)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-record", "a.json", "-replay", "b.json"}, &out)
	assert.Error(t, err)
}

func TestRun_HeadlessRecordThenReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	ctx := context.Background()

	var logs bytes.Buffer
	err := run(ctx, []string{"-headless", "-ticks", "240", "-journal", "sqlite", "-dsn", "file::memory:", "-record", path, "-log", "info"}, &logs)
	require.NoError(t, err, logs.String())
	assert.Contains(t, logs.String(), "run finished")
	assert.Contains(t, logs.String(), "journal summary")
	assert.Contains(t, logs.String(), "recording saved")

	data, err := replay.LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, "proving-ground", data.Range)
	assert.NotEmpty(t, data.Frames)

	logs.Reset()
	err = run(ctx, []string{"-headless", "-ticks", "240", "-journal", "none", "-replay", path}, &logs)
	require.NoError(t, err, logs.String())
	assert.Contains(t, logs.String(), "replaying")
	assert.NotContains(t, logs.String(), "journal summary")
}

func TestRun_UnknownRange(t *testing.T) {
	var logs bytes.Buffer
	err := run(context.Background(), []string{"-headless", "-journal", "none", "-range", "moon-base"}, &logs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moon-base")
}

func TestRun_ConfigDir(t *testing.T) {
	var logs bytes.Buffer
	err := run(context.Background(), []string{"-headless", "-config", "configs", "-ticks", "30", "-journal", "none"}, &logs)
	assert.NoError(t, err, logs.String())
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var logs bytes.Buffer
	err := run(ctx, []string{"-headless", "-journal", "none"}, &logs)
	assert.ErrorIs(t, err, context.Canceled)
}
