// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"os"
	"path/filepath"

	"github.com/forcekit/forcekit/internal/errs"
	"github.com/forcekit/forcekit/internal/messages"
)

// MarkerFile is the filename that identifies a project root.
const MarkerFile = "forcekit-project.json"

// Root resolves the project root by walking up from the current working
// directory until a directory containing MarkerFile is found.
func Root() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return RootFrom(cwd)
}

// RootFrom performs the same walk starting at dir. Returns a NoProjectFound
// error when the filesystem root is reached without finding the marker.
func RootFrom(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	start := dir
	for {
		marker := filepath.Join(dir, MarkerFile)
		if fi, err := os.Stat(marker); err == nil && !fi.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errs.New(errs.NoProjectFound,
				messages.Get("project", "noProjectFound", MarkerFile, start))
		}
		dir = parent
	}
}
