package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	dir string
}

func newCLI(t *testing.T) *cli {
	return &cli{dir: t.TempDir()}
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--file", filepath.Join(c.dir, "tasks.json"),
		"--settings", filepath.Join(c.dir, "settings.yaml"),
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(t *testing.T, args ...string) string {
	out, err := c.run(t, args...)
	require.NoError(t, err)
	return out
}

func TestTasks(t *testing.T) {
	c := newCLI(t)

	root := strings.TrimSpace(c.mustRun(t, "add", "write", "report"))
	require.NotEmpty(t, root)
	child := strings.TrimSpace(c.mustRun(t, "add", "--parent", root, "outline"))
	c.mustRun(t, "add", "answer mail")

	assert.Equal(t,
		"[ ] answer mail ("+lastID(t, c, "answer mail")+")\n"+
			"[ ] write report ("+root+")\n"+
			"  [ ] outline ("+child+")\n",
		c.mustRun(t, "tree"))

	c.mustRun(t, "done", child)
	assert.Contains(t, c.mustRun(t, "tree"), "  [x] outline")

	c.mustRun(t, "settings", "set", "taskviewer", "hidecompletedtasks", "True")
	assert.NotContains(t, c.mustRun(t, "tree"), "outline")
	assert.Contains(t, c.mustRun(t, "tree", "--all"), "outline")

	c.mustRun(t, "done", "--reopen", child)
	c.mustRun(t, "delete", root)
	tree := c.mustRun(t, "tree")
	assert.NotContains(t, tree, "write report")
	assert.NotContains(t, tree, "outline")

	_, err := c.run(t, "done", "missing")
	assert.EqualError(t, err, "no task missing")
	_, err = c.run(t, "add", "--parent", "missing", "orphan")
	assert.Error(t, err)
}

func lastID(t *testing.T, c *cli, subject string) string {
	for _, line := range strings.Split(c.mustRun(t, "tree", "--all"), "\n") {
		if strings.Contains(line, subject) {
			open := strings.LastIndex(line, "(")
			return line[open+1 : len(line)-1]
		}
	}
	t.Fatalf("no task %q", subject)
	return ""
}

func TestSettings(t *testing.T) {
	c := newCLI(t)

	assert.Equal(t, "127.0.0.1:7780\n", c.mustRun(t, "settings", "get", "server", "address"))
	c.mustRun(t, "settings", "set", "server", "address", "127.0.0.1:9000")
	assert.Equal(t, "127.0.0.1:9000\n", c.mustRun(t, "settings", "get", "server", "address"))
	assert.Contains(t, c.mustRun(t, "settings", "list", "server"), "server.address = 127.0.0.1:9000\n")

	_, err := c.run(t, "settings", "get", "server", "nope")
	assert.Error(t, err)
}
