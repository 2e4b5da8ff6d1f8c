// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configfile

import (
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/forcekit/forcekit/internal/errs"
	"github.com/forcekit/forcekit/internal/kvstore"
	"github.com/forcekit/forcekit/internal/log"
	"github.com/forcekit/forcekit/internal/messages"
	"github.com/forcekit/forcekit/internal/project"
)

// StateFolder is the hidden directory holding persisted CLI state, either
// under the user's home directory (global) or under the project root (local).
const StateFolder = ".forcekit"

// Options controls where a config file lives on disk.
//
// Fields:
//   - RootFolder: base directory; when empty it is resolved from IsGlobal
//     (home directory vs. project root).
//   - Filename: required leaf filename.
//   - IsGlobal: file belongs to the user, not a project.
//   - IsState: file lives under the hidden state folder even when local.
//   - FilePath: optional extra path segment between root and filename.
type Options struct {
	RootFolder string
	Filename   string
	IsGlobal   bool
	IsState    bool
	FilePath   string
}

// File is a JSON-backed key/value file at a resolved path. The in-memory
// contents are an ordered store so the on-disk key order survives a
// read/modify/write cycle.
type File struct {
	opts     Options
	path     string
	contents *kvstore.Store
}

// ResolveRootFolder returns the base directory for a config file: the user's
// home directory when isGlobal, otherwise the enclosing project root.
func ResolveRootFolder(isGlobal bool) (string, error) {
	if isGlobal {
		return os.UserHomeDir()
	}
	return project.Root()
}

// New resolves the absolute path for the given options. The path is
// root[/StateFolder][/FilePath]/Filename, with the state segment added when
// the file is global or stateful. Path resolution is deterministic for the
// same options and environment.
func New(opts Options) (*File, error) {
	if opts.Filename == "" {
		return nil, errs.New(errs.InvalidParameter, messages.Get("config", "missingFilename"))
	}

	root := opts.RootFolder
	if root == "" {
		var err error
		if root, err = ResolveRootFolder(opts.IsGlobal); err != nil {
			return nil, err
		}
	}

	segments := []string{root}
	if opts.IsGlobal || opts.IsState {
		segments = append(segments, StateFolder)
	}
	if opts.FilePath != "" {
		segments = append(segments, opts.FilePath)
	}
	segments = append(segments, opts.Filename)

	f := &File{
		opts:     opts,
		path:     filepath.Join(segments...),
		contents: kvstore.New(),
	}
	log.Debugf("config file resolved: path=%s", f.path)
	return f, nil
}

// Path returns the resolved absolute path.
func (f *File) Path() string {
	return f.path
}

// IsGlobal reports whether the file was resolved as a global (home) file.
func (f *File) IsGlobal() bool {
	return f.opts.IsGlobal
}

// Contents returns the in-memory store. Callers mutate it directly between
// Read and Write; the File owns it exclusively.
func (f *File) Contents() *kvstore.Store {
	return f.contents
}

// Read loads the JSON object at the path into the contents store, preserving
// the file's key order. An absent file yields empty contents unless
// throwOnNotFound is set, in which case a TargetFileNotFound error is
// returned. Any other read or parse failure is an UnexpectedFormat error.
func (f *File) Read(throwOnNotFound bool) (*kvstore.Store, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if throwOnNotFound {
				return nil, errs.Wrap(errs.TargetFileNotFound,
					messages.Get("config", "targetFileNotFound", f.path), err)
			}
			f.contents.Clear()
			return f.contents, nil
		}
		return nil, errs.Wrap(errs.UnexpectedFormat,
			messages.Get("config", "unexpectedFormat", f.path), err)
	}

	parsed := gjson.ParseBytes(data)
	if !gjson.ValidBytes(data) || !parsed.IsObject() {
		return nil, errs.New(errs.UnexpectedFormat,
			messages.Get("config", "unexpectedFormat", f.path))
	}

	f.contents.Clear()
	parsed.ForEach(func(key, value gjson.Result) bool {
		f.contents.Set(key.String(), value.Value())
		return true
	})

	log.Debugf("config file read: path=%s keys=%d", f.path, f.contents.Len())
	return f.contents, nil
}

// Write persists the contents store as indented JSON, creating parent
// directories as needed. An optional replacement map swaps the contents
// first. Plain overwrite semantics: there is no atomic rename, so a crash
// mid-write can leave a corrupt file.
func (f *File) Write(newContents ...map[string]any) (*kvstore.Store, error) {
	if len(newContents) == 1 && newContents[0] != nil {
		f.contents.SetAll(newContents[0], nil)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil { //nolint:mnd
		return nil, err
	}

	data, err := f.contents.MarshalIndentJSON()
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(f.path, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return nil, err
	}

	log.Debugf("config file written: path=%s keys=%d", f.path, f.contents.Len())
	return f.contents, nil
}

// Exists reports whether a file is present at the resolved path.
func (f *File) Exists() bool {
	return f.Access(os.O_RDONLY)
}

// Unlink deletes the file. Requesting deletion of a file that does not exist
// at call time is a TargetFileNotFound error; the check-then-delete race is
// accepted.
func (f *File) Unlink() error {
	if _, err := os.Stat(f.path); err != nil {
		return errs.Wrap(errs.TargetFileNotFound,
			messages.Get("config", "targetFileNotFound", f.path), err)
	}
	return os.Remove(f.path)
}

// Access probes the path with the given open flag and reports pass/fail,
// swallowing the underlying error.
func (f *File) Access(flag int) bool {
	fh, err := os.OpenFile(f.path, flag, 0)
	if err != nil {
		return false
	}
	_ = fh.Close()
	return true
}
