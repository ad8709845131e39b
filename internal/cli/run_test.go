package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSuite writes a suite YAML file into a temp dir.
func writeSuite(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const passingSuite = `
description: crud smoke
data:
  - { _id: 1, x: 11 }
  - { _id: 2, x: 22 }
  - { _id: 3, x: 11 }
tests:
  - name: deleteOne
    arguments:
      filter: { _id: 1 }
    result:
      deletedCount: 1
  - name: deleteMany
    arguments:
      filter: { x: 11 }
    result:
      deletedCount: 2
  - name: insertOne
    arguments:
      document: { _id: 9, x: 99 }
    result:
      insertedId: 9
  - name: updateOne
    arguments:
      filter: { _id: 2 }
      update: { $set: { x: 23 } }
    result:
      matchedCount: 1
      modifiedCount: 1
      upsertedCount: 0
  - name: replaceOne
    arguments:
      filter: { _id: 3 }
      replacement: { _id: 3, fresh: true }
    result:
      matchedCount: 1
      modifiedCount: 1
`

func TestRunPassingSuite(t *testing.T) {
	path := writeSuite(t, passingSuite)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "suite: crud smoke")
	assert.Contains(t, output, "pass deleteOne [sync]")
	assert.Contains(t, output, "5 run, 5 passed, 0 failed")
}

func TestRunAsyncMode(t *testing.T) {
	path := writeSuite(t, passingSuite)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--async", path})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "pass deleteOne [async]")
}

func TestRunSessionScopedTest(t *testing.T) {
	// A session-scoped insert succeeds in its own transaction; the
	// session is discarded with the per-test store afterwards.
	path := writeSuite(t, `
description: session binding
tests:
  - name: insertOne
    arguments:
      document: { _id: 1 }
      session: session0
    result:
      insertedId: 1
`)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 run, 1 passed, 0 failed")
}

func TestRunFailingSuiteExitsOne(t *testing.T) {
	path := writeSuite(t, `
description: doomed
data:
  - { _id: 1 }
tests:
  - name: deleteOne
    arguments:
      filter: { _id: 1 }
    result:
      deletedCount: 3
`)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "fail deleteOne [sync]")
	assert.Contains(t, output, "expected 3, actual 1")
}

func TestRunTestsAreIsolated(t *testing.T) {
	// Both tests delete the same seeded document; each gets a fresh store
	path := writeSuite(t, `
description: isolation
data:
  - { _id: 1 }
tests:
  - name: deleteOne
    arguments:
      filter: { _id: 1 }
    result:
      deletedCount: 1
  - name: deleteOne
    arguments:
      filter: { _id: 1 }
    result:
      deletedCount: 1
`)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "2 run, 2 passed, 0 failed")
}

func TestRunMalformedSuiteExitsTwo(t *testing.T) {
	path := writeSuite(t, `
description: broken
test:
  - name: deleteOne
`)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunMissingFileExitsTwo(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunJSONOutput(t *testing.T) {
	path := writeSuite(t, passingSuite)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	suites, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, suites, 1)
	first, ok := suites[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "crud smoke", first["description"])
	assert.Equal(t, float64(5), first["passed"])
	assert.Equal(t, float64(0), first["failed"])
}
