// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package configfile resolves filesystem paths for persisted CLI state and
// performs JSON read/write for a single file. Global files live under the
// user's home directory, local files under the enclosing project root; both
// sit inside the hidden state folder.
package configfile
