// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forcekit/forcekit/internal/config"
	"github.com/forcekit/forcekit/internal/configfile"
	"github.com/forcekit/forcekit/internal/crypto"
	"github.com/forcekit/forcekit/internal/project"
)

// setupEnv points HOME at a temp dir, creates a project and chdirs into it,
// and pins the crypto key so no OS keyring is needed.
func setupEnv(t *testing.T) (home, proj string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(crypto.EnvKey, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")

	proj = t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(proj, project.MarkerFile), []byte("{}\n"), 0o600))
	t.Chdir(proj)
	return home, proj
}

// runApp executes the CLI with the given args and returns its output.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ctx := context.Background()
	args = append([]string{"forcekit"}, args...)

	app, err := InitApp(ctx, args)
	assert.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	runErr := app.Run(ctx, args)
	return buf.String(), runErr
}

func TestConfigSetAndGet(t *testing.T) {
	setupEnv(t)

	out, err := runApp(t, "config", "set", "--global", "apiVersion=42.0")
	assert.NoError(t, err)
	assert.Contains(t, out, "set apiVersion")

	out, err = runApp(t, "config", "get", "apiVersion")
	assert.NoError(t, err)
	assert.Contains(t, out, "apiVersion=42.0")
}

func TestConfigSet_RejectsInvalid(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		arg  string
	}{
		{name: "invalid value", arg: "apiVersion=abc"},
		{name: "unknown key", arg: "bogusKey=x"},
		{name: "missing equals", arg: "apiVersion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, "config", "set", "--global", tt.arg)
			assert.Error(t, err)
		})
	}
}

func TestConfigUnset(t *testing.T) {
	setupEnv(t)

	_, err := runApp(t, "config", "set", "--global", "restDeploy=true")
	assert.NoError(t, err)

	out, err := runApp(t, "config", "unset", "--global", "restDeploy")
	assert.NoError(t, err)
	assert.Contains(t, out, "unset restDeploy")

	out, err = runApp(t, "config", "get", "restDeploy")
	assert.NoError(t, err)
	assert.Contains(t, out, "restDeploy=\n")
}

func TestConfigList_LocalOverridesGlobal(t *testing.T) {
	setupEnv(t)

	_, err := runApp(t, "config", "set", "--global", "defaultusername=global@example.com")
	assert.NoError(t, err)
	_, err = runApp(t, "config", "set", "defaultusername=local@example.com")
	assert.NoError(t, err)

	out, err := runApp(t, "config", "list")
	assert.NoError(t, err)
	assert.Contains(t, out, "local@example.com")
	assert.NotContains(t, out, "global@example.com")
	assert.Contains(t, out, "Local")
}

func TestConfigList_MasksEncryptedAndHidesHidden(t *testing.T) {
	setupEnv(t)

	_, err := runApp(t, "config", "set", "--global", "isvDebuggerSid=super-secret")
	assert.NoError(t, err)
	_, err = runApp(t, "config", "set", "--global", "apiVersion=42.0")
	assert.NoError(t, err)

	out, err := runApp(t, "config", "list")
	assert.NoError(t, err)
	assert.Contains(t, out, maskedValue)
	assert.NotContains(t, out, "super-secret")
	// apiVersion is a hidden key and only shows with --all.
	assert.NotContains(t, out, "apiVersion")

	out, err = runApp(t, "config", "list", "--all")
	assert.NoError(t, err)
	assert.Contains(t, out, "apiVersion")
}

func TestConfigGet_WorksWithoutProject(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(crypto.EnvKey, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	// A directory with no project marker anywhere above it.
	t.Chdir(t.TempDir())

	_, err := runApp(t, "config", "set", "--global", "defaultusername=dev@example.com")
	assert.NoError(t, err)

	out, err := runApp(t, "config", "get", "defaultusername")
	assert.NoError(t, err)
	assert.Contains(t, out, "defaultusername=dev@example.com")
}

func TestToString(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "nil", value: nil, expected: ""},
		{name: "string", value: "x", expected: "x"},
		{name: "bool", value: true, expected: "true"},
		{name: "whole float", value: 42.0, expected: "42"},
		{name: "fractional float", value: 41.5, expected: "41.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toString(tt.value))
		})
	}
}

func TestEffectiveRows_Merging(t *testing.T) {
	setupEnv(t)

	_, err := config.Update(true, config.KeyInstanceURL, "https://global.example.com")
	assert.NoError(t, err)
	_, err = config.Update(false, config.KeyInstanceURL, "https://local.example.com")
	assert.NoError(t, err)
	_, err = config.Update(true, config.KeyDefaultDevHubUsername, "hub@example.com")
	assert.NoError(t, err)

	rows, err := effectiveRows()
	assert.NoError(t, err)

	byKey := map[string]row{}
	for _, r := range rows {
		byKey[r.key] = r
	}

	assert.Equal(t, "https://local.example.com", byKey[config.KeyInstanceURL].value)
	assert.Equal(t, "Local", byKey[config.KeyInstanceURL].location)
	assert.Equal(t, "Global", byKey[config.KeyDefaultDevHubUsername].location)
}

// Guard: the config file location used by the commands matches the configfile
// layout, so `config set --global` and a direct NewGlobal see the same file.
func TestCommandAndLibraryAgreeOnPath(t *testing.T) {
	home, _ := setupEnv(t)

	_, err := runApp(t, "config", "set", "--global", "defaultusername=dev@example.com")
	assert.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(home, configfile.StateFolder, config.Filename))
	assert.NoError(t, statErr)
}
