// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package stdlib holds the Lamina prelude, the library functions written in
// Lamina itself.
package stdlib

import _ "embed"

// Prelude is loaded into every interpreter unless disabled.
//
//go:embed prelude.lm
var Prelude string

// Names lists the functions Prelude defines.
var Names = []string{"sum", "mean", "clamp", "sign", "lerp", "square"}
