// Package reorg moves character files to the directories their tags
// call for.
//
// Planning and execution are separate steps. A plan is computed for every
// character first, and a plan with conflicts is never executed, so a
// conflicting campaign is left untouched.
package reorg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/resolver"
	"github.com/aurule/npc/internal/schema"
)

// Move relocates one character file.
type Move struct {
	Source      string
	Destination string
	Character   *character.Character
}

// ConflictError reports a destination claimed by more than one source, or
// already occupied by a file that is not moving.
type ConflictError struct {
	Destination string
	Sources     []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting destination %s for %s", e.Destination, strings.Join(e.Sources, ", "))
}

// Plan is the full set of moves for one reorg run.
type Plan struct {
	Moves []Move

	// Unchanged lists sources that are already where they belong.
	Unchanged []string

	Conflicts []*ConflictError
}

// HasConflicts reports whether the plan must not be executed.
func (p *Plan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// Err returns the first conflict, or nil.
func (p *Plan) Err() error {
	if len(p.Conflicts) == 0 {
		return nil
	}
	return p.Conflicts[0]
}

// Planner computes plans against a fixed base directory and path template.
type Planner struct {
	resolver *resolver.Resolver
	base     string
	template *resolver.Template
}

// NewPlanner parses template and returns a planner rooted at base.
func NewPlanner(s *schema.Schema, base, template string) (*Planner, error) {
	t, err := resolver.ParseTemplate(template)
	if err != nil {
		return nil, err
	}
	return &Planner{resolver: resolver.New(s), base: base, template: t}, nil
}

// Plan resolves every character and reports moves and conflicts. A move onto
// an existing file is a conflict even if that file is itself moving away.
// Characters without a Path are ignored. The filesystem is only read.
func (p *Planner) Plan(chars []*character.Character) *Plan {
	plan := &Plan{}
	claims := make(map[string][]string)

	for _, c := range chars {
		if c.Path == "" {
			continue
		}
		src := filepath.Clean(c.Path)
		dir := p.resolver.ResolveTemplate(c, p.base, p.template)
		dest := filepath.Join(dir, filepath.Base(src))
		claims[dest] = append(claims[dest], src)

		if dest == src {
			plan.Unchanged = append(plan.Unchanged, src)
			continue
		}
		plan.Moves = append(plan.Moves, Move{Source: src, Destination: dest, Character: c})
	}

	dests := make([]string, 0, len(claims))
	for dest := range claims {
		dests = append(dests, dest)
	}
	sort.Strings(dests)

	for _, dest := range dests {
		srcs := claims[dest]
		switch {
		case len(srcs) > 1:
			sort.Strings(srcs)
			plan.Conflicts = append(plan.Conflicts, &ConflictError{Destination: dest, Sources: srcs})
		case srcs[0] != dest && exists(dest):
			plan.Conflicts = append(plan.Conflicts, &ConflictError{Destination: dest, Sources: srcs})
		}
	}

	return plan
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
