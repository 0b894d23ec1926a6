package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// cliEnv is an isolated set of pitlane directories with one game layout on disk
type cliEnv struct {
	config  string
	data    string
	install string
	mods    string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	root := t.TempDir()
	e := &cliEnv{
		config:  filepath.Join(root, "config"),
		data:    filepath.Join(root, "data"),
		install: filepath.Join(root, "game"),
		mods:    filepath.Join(root, "mods"),
	}
	require.NoError(t, os.MkdirAll(e.install, 0755))
	require.NoError(t, os.MkdirAll(e.mods, 0755))
	return e
}

// resetFlags puts every flag in the command tree back to its default, since the
// command globals outlive a single Execute
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func (e *cliEnv) runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	noColor = true

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(append([]string{"--config", e.config, "--data", e.data}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, out)
	return out
}

// addGame registers f1_23 with copy deploys so tests can read deployed content
func (e *cliEnv) addGame(t *testing.T) {
	t.Helper()
	e.mustRun(t, "game", "add", "f1_23", "--name", "F1 23", "--install", e.install, "--mods", e.mods, "--link", "copy")
}

func manifest(name string) string {
	return `{"name": "` + name + `", "game": "F1 23", "version": "1.0", "author": "pitcrew"}`
}

// writeMod creates a folder mod in the mods folder; files maps paths under files/ to content
func (e *cliEnv) writeMod(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	folder := filepath.Join(e.mods, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(folder, "files"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "mod.json"), []byte(manifest(name)), 0644))
	for rel, content := range files {
		p := filepath.Join(folder, "files", filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return folder
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
