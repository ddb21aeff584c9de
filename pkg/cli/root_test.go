package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_StartsAndStops(t *testing.T) {
	t.Chdir(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"-Urls", "http://127.0.0.1:0", "-StartAdminInterface=false"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "mockd server settings {")
	assert.Contains(t, stdout.String(), `"startAdminInterface": false`)
	assert.Regexp(t, `mockd server listening at http://127\.0\.0\.1:\d+\n`, stdout.String())
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-help"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Usage: mockd-standalone [flags]")
	assert.Empty(t, stderr.String())
}

func TestRun_ParseError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-Port", "abc"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Usage: mockd-standalone [flags]")
	assert.Equal(t, 1, strings.Count(stdout.String()+stderr.String(), "not an integer"), "message is reported once")
	assert.NotContains(t, stderr.String(), "Error:")
	assert.NotContains(t, stdout.String(), "mockd server settings")
}

func TestRun_HelpIsNotASubcommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"help"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), `unexpected argument "help"`)
	assert.Contains(t, stdout.String(), "Usage: mockd-standalone [flags]")
}

func TestRun_StartError(t *testing.T) {
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-Urls", "ftp://localhost:21"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "mockd server settings")
	assert.NotContains(t, stdout.String(), "listening at")
	assert.Contains(t, stderr.String(), "Error: validation error on urls[0]")
}

func TestVersionJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"version", "--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var out VersionOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.NotEmpty(t, out.Go)
	assert.NotEmpty(t, out.OS)
}
