// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared across pubsage.
//
// String display helpers (width-aware truncation and padding for terminal
// layout) and crash-safe file writing.
package util
