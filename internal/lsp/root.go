package lsp

import (
	"os"
	"path/filepath"

	"gocst/internal/project"
)

// resolveConfig finds the gocst.toml governing docPath. The document's own
// directory wins over the workspace root; without either, defaults apply and
// the returned path is empty.
func resolveConfig(workspaceRoot, docPath string) (project.Config, string, error) {
	for _, start := range []string{resolveStartDir(docPath), resolveStartDir(workspaceRoot)} {
		if start == "" {
			continue
		}
		cfg, path, err := project.LoadNearest(start)
		if err != nil {
			return project.Default(), "", err
		}
		if path != "" {
			return cfg, path, nil
		}
	}
	return project.Default(), "", nil
}

func resolveStartDir(path string) string {
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}
