// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package messages

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/forcekit/forcekit/internal/log"
)

//go:embed bundles/*.yaml
var bundleFS embed.FS

var (
	mu      sync.Mutex
	bundles = map[string]map[string]string{}
)

// Get returns the message text for (bundle, key) with positional args applied.
// Bundles are loaded lazily and cached. A missing bundle or key yields a loud
// placeholder instead of an error so message lookup can never mask the
// condition being reported.
func Get(bundle, key string, args ...any) string {
	b, err := load(bundle)
	if err != nil {
		log.Debugf("message bundle load failed: bundle=%s err=%v", bundle, err)
		return fmt.Sprintf("!missing bundle %s (key %s)!", bundle, key)
	}

	msg, ok := b[key]
	if !ok {
		return fmt.Sprintf("!missing message %s:%s!", bundle, key)
	}

	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func load(bundle string) (map[string]string, error) {
	mu.Lock()
	defer mu.Unlock()

	if b, ok := bundles[bundle]; ok {
		return b, nil
	}

	raw, err := bundleFS.ReadFile("bundles/" + bundle + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle %s: %w", bundle, err)
	}

	var b map[string]string
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("failed to parse bundle %s: %w", bundle, err)
	}

	bundles[bundle] = b
	return b, nil
}
