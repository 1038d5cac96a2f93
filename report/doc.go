// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package report renders run results: colored console output with per-pair
// progress, the append-only raw times log, opcode count reports, the
// cross-benchmark frequency matrix as TSV, and an HTML chart page.
//
// The harness never prints; everything user-visible flows through the
// observers and writers in this package.
package report
