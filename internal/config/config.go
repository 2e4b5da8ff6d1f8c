// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/forcekit/forcekit/internal/configfile"
	"github.com/forcekit/forcekit/internal/crypto"
	"github.com/forcekit/forcekit/internal/errs"
	"github.com/forcekit/forcekit/internal/kvstore"
	"github.com/forcekit/forcekit/internal/log"
	"github.com/forcekit/forcekit/internal/messages"
)

// Filename is the leaf name of the persisted config file, global and local.
const Filename = "forcekit-config.json"

// Cryptor is the encryption provider contract: opaque string in, opaque
// string out, with an explicit release. Satisfied by *crypto.Crypto.
type Cryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
	Close() error
}

// Config wraps a configfile.File with a schema that whitelists property keys,
// validates values and transparently encrypts flagged properties. In-memory
// contents are always plaintext; only the persisted form carries ciphertext.
type Config struct {
	schema    Schema
	file      *configfile.File
	newCrypto func() (Cryptor, error)
}

// Option customizes a Config.
type Option func(*Config)

// WithCryptoFactory overrides how the scoped crypto handle is acquired.
// Tests use this to count provider invocations.
func WithCryptoFactory(fn func() (Cryptor, error)) Option {
	return func(c *Config) {
		c.newCrypto = fn
	}
}

// New builds a Config for the given schema and file options. The filename
// defaults to Filename and the file always lives under the state folder.
// A zero-value schema is an InvalidSchema error.
func New(schema Schema, opts configfile.Options, optFns ...Option) (*Config, error) {
	if !schema.initialized() {
		return nil, errs.New(errs.InvalidSchema, messages.Get("config", "schemaNotInitialized"))
	}

	if opts.Filename == "" {
		opts.Filename = Filename
	}
	opts.IsState = true

	file, err := configfile.New(opts)
	if err != nil {
		return nil, err
	}

	c := &Config{
		schema: schema,
		file:   file,
		newCrypto: func() (Cryptor, error) {
			return crypto.New()
		},
	}
	for _, fn := range optFns {
		fn(c)
	}
	return c, nil
}

// NewGlobal returns a Config over the user's global config file.
func NewGlobal(optFns ...Option) (*Config, error) {
	return New(DefaultSchema(), configfile.Options{IsGlobal: true}, optFns...)
}

// NewLocal returns a Config over the enclosing project's config file.
func NewLocal(optFns ...Option) (*Config, error) {
	return New(DefaultSchema(), configfile.Options{}, optFns...)
}

// Path returns the resolved file path.
func (c *Config) Path() string {
	return c.file.Path()
}

// Contents returns the in-memory contents store (always plaintext).
func (c *Config) Contents() *kvstore.Store {
	return c.file.Contents()
}

// Schema returns the schema this Config validates against.
func (c *Config) Schema() Schema {
	return c.schema
}

// Get returns the value for an allowed key. A key outside the schema is an
// UnknownConfigKey error even if it happens to be present in the file.
func (c *Config) Get(key string) (any, error) {
	if _, ok := c.schema.Get(key); !ok {
		return nil, errs.New(errs.UnknownConfigKey, messages.Get("config", "unknownConfigKey", key))
	}
	v, _ := c.file.Contents().Get(key)
	return v, nil
}

// Set stores value under an allowed key, running the property's validator
// when one is declared. Properties without a validator accept any value.
// Returns the full current contents.
func (c *Config) Set(key string, value any) (*kvstore.Store, error) {
	prop, ok := c.schema.Get(key)
	if !ok {
		return nil, errs.New(errs.UnknownConfigKey, messages.Get("config", "unknownConfigKey", key))
	}

	if prop.Input != nil && !prop.Input.Validate(value) {
		return nil, errs.New(errs.InvalidConfigValue,
			messages.Get("config", "invalidConfigValue", prop.Input.FailedMessage))
	}

	c.file.Contents().Set(key, value)
	return c.file.Contents(), nil
}

// Unset removes an allowed key from the contents.
func (c *Config) Unset(key string) error {
	if _, ok := c.schema.Get(key); !ok {
		return errs.New(errs.UnknownConfigKey, messages.Get("config", "unknownConfigKey", key))
	}
	c.file.Contents().Delete(key)
	return nil
}

// Read loads the file and decrypts flagged properties in place, leaving the
// in-memory contents plaintext. An absent file yields empty contents unless
// throwOnNotFound is set.
func (c *Config) Read(throwOnNotFound bool) (*kvstore.Store, error) {
	if _, err := c.file.Read(throwOnNotFound); err != nil {
		return nil, err
	}

	keys := c.flaggedKeys()
	if len(keys) == 0 {
		return c.file.Contents(), nil
	}

	cr, err := c.newCrypto()
	if err != nil {
		return nil, err
	}
	defer closeCrypto(cr)

	if err := c.transform(cr, keys, false); err != nil {
		return nil, err
	}
	return c.file.Contents(), nil
}

// Write encrypts flagged properties, persists the contents, then decrypts
// them back so the in-memory view stays plaintext. An optional replacement
// map swaps the contents first. A single crypto handle spans the whole
// cycle and is released at the end, error path included. With no flagged
// entries present this is a plain file write and the crypto provider is
// never touched.
func (c *Config) Write(newContents ...map[string]any) (*kvstore.Store, error) {
	if len(newContents) == 1 && newContents[0] != nil {
		c.file.Contents().SetAll(newContents[0], nil)
	}

	keys := c.flaggedKeys()
	if len(keys) == 0 {
		return c.file.Write()
	}

	cr, err := c.newCrypto()
	if err != nil {
		return nil, err
	}
	defer closeCrypto(cr)

	if err := c.transform(cr, keys, true); err != nil {
		return nil, err
	}

	if _, err := c.file.Write(); err != nil {
		// Best effort to restore the plaintext view before surfacing the
		// write failure.
		if derr := c.transform(cr, keys, false); derr != nil {
			log.Debugf("decrypt after failed write also failed: err=%v", derr)
		}
		return nil, err
	}

	if err := c.transform(cr, keys, false); err != nil {
		return nil, err
	}
	return c.file.Contents(), nil
}

// Exists reports whether the file is present on disk.
func (c *Config) Exists() bool {
	return c.file.Exists()
}

// Unlink deletes the file from disk.
func (c *Config) Unlink() error {
	return c.file.Unlink()
}

// flaggedKeys returns the currently present entries whose schema marks them
// encrypted and whose value is a string. An empty result lets Read and Write
// skip crypto entirely, avoiding needless key-material access.
func (c *Config) flaggedKeys() []string {
	var flagged []string
	c.file.Contents().Entries(func(key string, value any) bool {
		if prop, ok := c.schema.Get(key); ok && prop.Encrypted {
			if _, isString := value.(string); isString {
				flagged = append(flagged, key)
			}
		}
		return true
	})
	return flagged
}

// transform rewrites each flagged entry's string value in place, to
// ciphertext when encrypt is true and back to plaintext otherwise.
func (c *Config) transform(cr Cryptor, keys []string, encrypt bool) error {
	for _, key := range keys {
		raw, _ := c.file.Contents().Get(key)
		value := raw.(string)

		var transformed string
		var err error
		if encrypt {
			transformed, err = cr.Encrypt(value)
		} else {
			transformed, err = cr.Decrypt(value)
		}
		if err != nil {
			return fmt.Errorf("failed to transform config value for %s: %w", key, err)
		}
		c.file.Contents().Set(key, transformed)
	}
	return nil
}

func closeCrypto(cr Cryptor) {
	if err := cr.Close(); err != nil {
		log.Debugf("crypto close failed: err=%v", err)
	}
}

// Update loads the global or local config file, sets key to value (a nil
// value deletes the key), persists, and returns the resulting contents.
func Update(isGlobal bool, key string, value any) (*kvstore.Store, error) {
	cfg, err := New(DefaultSchema(), configfile.Options{IsGlobal: isGlobal})
	if err != nil {
		return nil, err
	}

	if _, err := cfg.Read(false); err != nil {
		return nil, err
	}

	if value == nil {
		if err := cfg.Unset(key); err != nil {
			return nil, err
		}
	} else if _, err := cfg.Set(key, value); err != nil {
		return nil, err
	}

	return cfg.Write()
}

// ClearAll clears and persists both the global and the local config files.
func ClearAll() error {
	for _, isGlobal := range []bool{true, false} {
		cfg, err := New(DefaultSchema(), configfile.Options{IsGlobal: isGlobal})
		if err != nil {
			return err
		}
		cfg.Contents().Clear()
		if _, err := cfg.Write(); err != nil {
			return err
		}
	}
	return nil
}
