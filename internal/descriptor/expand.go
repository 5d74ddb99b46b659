// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// Expand performs shell parameter expansion of $VAR, ${VAR} and
// ${VAR:-default} forms in s against env, a list of KEY=value pairs where
// later pairs win. Referencing an unset variable is an error. Command
// substitution is not supported.
func Expand(s string, env []string) (string, error) {
	if !strings.Contains(s, "$") {
		return s, nil
	}
	word, err := syntax.NewParser().Document(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", s, err)
	}
	cfg := &expand.Config{
		Env:     expand.ListEnviron(env...),
		NoUnset: true,
	}
	out, err := expand.Document(cfg, word)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", s, err)
	}
	return out, nil
}
