package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"blueprint/internal/project"
)

// copyDocument puts the encoded project on the system clipboard.
func copyDocument(doc *project.Document) tea.Cmd {
	return func() tea.Msg {
		data, err := project.Encode(doc)
		if err != nil {
			return errMsg{err}
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			return errMsg{err}
		}
		return copiedMsg{}
	}
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// firstLine trims pasted text down to a single label line.
func firstLine(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// scanProjectFiles lists project files in dir, sorted by name.
func scanProjectFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), projectExt) {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files
}

func withExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}

func stripExt(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}

func insertAt(s string, pos int, text string) (string, int) {
	r := []rune(s)
	if pos < 0 || pos > len(r) {
		pos = len(r)
	}
	ins := []rune(text)
	out := append(append(append([]rune{}, r[:pos]...), ins...), r[pos:]...)
	return string(out), pos + len(ins)
}

func deleteBefore(s string, pos int) (string, int) {
	r := []rune(s)
	if pos <= 0 || pos > len(r) {
		return s, pos
	}
	return string(append(r[:pos-1:pos-1], r[pos:]...)), pos - 1
}
