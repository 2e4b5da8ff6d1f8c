// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package crypto encrypts and decrypts sensitive config values with
// AES-256-GCM. The key is derived (PBKDF2-SHA256) from a secret and salt
// held in the OS keyring, generated on first use; FORCEKIT_CRYPTO_KEY
// overrides the keyring for headless environments.
package crypto
