// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"strings"
)

// executableDir locates the directory of the running binary. Relative asset
// paths fall back to it when they are missing from the working directory.
var executableDir = func() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// validate normalises the merged [StructuredConfig] before it is used at
// startup. Values owned by the collaborators (password pattern, lockout
// ranges, mail credentials) are checked by the collaborators themselves.
func (cfg *StructuredConfig) validate() error {
	cfg.App.MountPath = normalizeMountPath(cfg.App.MountPath)

	baseDir := executableDir()
	cfg.Server.PublicDir = resolveAssetPath(cfg.Server.PublicDir, baseDir)
	cfg.Server.TestPage = resolveAssetPath(cfg.Server.TestPage, baseDir)

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return ErrInvalidServerConfigs
	}

	return nil
}

// normalizeMountPath returns path with exactly one leading slash and no
// trailing slash.
func normalizeMountPath(path string) string {
	path = strings.TrimSpace(path)
	path = "/" + strings.Trim(path, "/")
	return path
}

// resolveAssetPath keeps path when it is absolute or exists relative to the
// working directory. Otherwise it returns the path under baseDir if that one
// exists, and path unchanged if neither does.
func resolveAssetPath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	candidate := filepath.Join(baseDir, path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}
