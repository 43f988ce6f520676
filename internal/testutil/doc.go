// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers that fail the test on error, reducing
// boilerplate around temp files, agenda sources and the home directory.
package testutil
