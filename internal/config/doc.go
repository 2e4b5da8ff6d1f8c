// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config is the schema-aware layer over the persisted config file.
// It whitelists property keys, validates values on Set, and transparently
// encrypts flagged properties: ciphertext on disk, plaintext in memory.
//
// The allowed properties are fixed by DefaultSchema; a custom Schema may be
// injected for generic stores. Encryption uses a scoped crypto handle that is
// acquired immediately before an encrypt/decrypt pass and released after,
// success or failure.
package config
