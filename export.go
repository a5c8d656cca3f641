package main

import (
	"fmt"
	"image"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fogleman/gg"

	"blueprint/internal/project"
)

// saveProject writes doc to path and, when a store is open, records it under
// name as well.
func saveProject(path string, doc *project.Document, store *project.Store, name string) tea.Cmd {
	return func() tea.Msg {
		if err := project.SaveFile(path, doc); err != nil {
			return errMsg{err}
		}
		if store != nil && name != "" {
			if _, err := store.Save(name, doc); err != nil {
				return errMsg{fmt.Errorf("store project: %w", err)}
			}
		}
		return savedMsg{path: path}
	}
}

// exportPNG writes an image rendered on the update loop.
func exportPNG(path string, img image.Image) tea.Cmd {
	return func() tea.Msg {
		if err := gg.SavePNG(path, img); err != nil {
			return errMsg{fmt.Errorf("export png: %w", err)}
		}
		return exportedMsg{path: path}
	}
}

func loadProject(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := project.LoadFile(path)
		if err != nil {
			return errMsg{err}
		}
		return loadedMsg{filename: path, doc: doc}
	}
}
