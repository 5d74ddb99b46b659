// SPDX-License-Identifier: MPL-2.0

// Package makefile emits the build-scoped Makefile fragment that wires every
// module's source tree into the shared executable target.
//
// The fragment only declares variables and rules; an external make
// executes them. It relies on the including Makefile to define $(objdir),
// $(COMPILE.cc), $(OUTPUT_OPTION) and a rule that creates every directory
// listed in required_dirs.
package makefile
