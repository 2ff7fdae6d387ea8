// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads and watches websurface host configuration.
//
// Files are TOML (.toml) or YAML (.yaml, .yml). Durations are strings in
// time.ParseDuration syntax, e.g. "30s".
//
//	engine = "cdp"
//
//	[window]
//	width = 1280
//	height = 800
//	title = "websurface"
//
//	[[surfaces]]
//	name = "main"
//	url = "https://servo.org"
//	track_window = true
package config
