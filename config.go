package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"blueprint/internal/grid"
	"blueprint/internal/history"
	"blueprint/internal/shape"
	"blueprint/internal/units"
)

type Config struct {
	SaveDirectory  string
	StoreDirectory string
	GridSize       float64
	Snap           bool
	History        int
	Scale          units.Scale
	Style          shape.Style
}

func defaultConfig() *Config {
	return &Config{
		GridSize: grid.DefaultSize,
		Snap:     true,
		History:  history.DefaultCapacity,
		Scale:    units.DefaultScale,
	}
}

func loadConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig()
	}
	return loadConfigFrom(filepath.Join(homeDir, ".blueprintrc"))
}

// loadConfigFrom reads key=value lines from path. Unknown keys and bad values
// are ignored; a missing file yields the defaults.
func loadConfigFrom(path string) *Config {
	config := defaultConfig()

	file, err := os.Open(path)
	if err != nil {
		return config
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value)
		case "storedirectory", "store_directory", "storedir":
			config.StoreDirectory = expandPath(value)
		case "gridsize", "grid_size", "grid":
			if v, err := strconv.ParseFloat(value, 64); err == nil && v >= 1 {
				config.GridSize = v
			}
		case "snap":
			config.Snap = strings.ToLower(value) == "true"
		case "history", "undolevels":
			if v, err := strconv.Atoi(value); err == nil && v > 0 {
				config.History = v
			}
		case "scale":
			config.Scale = units.Parse(value)
		case "stroke", "strokecolor":
			if shape.ValidColor(value) {
				config.Style.Stroke = value
			}
		case "fill", "fillcolor":
			if shape.ValidColor(value) || strings.EqualFold(value, "none") {
				config.Style.Fill = value
			}
		case "strokewidth", "stroke_width":
			if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 {
				config.Style.StrokeWidth = v
			}
		}
	}

	return config
}

func expandPath(value string) string {
	if strings.HasPrefix(value, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

// GetStoreDirectory returns where the project database lives, falling back to
// the save directory and then the working directory.
func (c *Config) GetStoreDirectory() string {
	switch {
	case c.StoreDirectory != "":
		return c.StoreDirectory
	case c.SaveDirectory != "":
		return c.SaveDirectory
	}
	return "."
}
