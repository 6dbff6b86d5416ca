package character

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/cory-johannsen/duelcore/internal/game/ruleset"
	"github.com/cory-johannsen/duelcore/internal/game/skill"
)

// ErrInvalidName is returned for names that are empty, too long, or contain
// characters other than letters, digits, and underscores.
var ErrInvalidName = errors.New("invalid character name")

// ErrNotFound is returned by stores when no character has the requested name.
var ErrNotFound = errors.New("character not found")

const maxNameLen = 24

// New creates a level 1 character of jobID standing at (x, y) on location.
//
// Postcondition: HP == MaxHP == StartingHP; MP == MaxMP == StartingMP; the
// base skill is learned.
func New(name, jobID, location string, x, y int) *Character {
	c := &Character{
		Name:     name,
		JobID:    jobID,
		Level:    1,
		HP:       StartingHP,
		MaxHP:    StartingHP,
		MP:       StartingMP,
		MaxMP:    StartingMP,
		Location: location,
		X:        x,
		Y:        y,
	}
	c.Learn(skill.BaseSkillID)
	return c
}

// Build validates name and resolves jobChoice through jobs before creating the
// character. A hidden job's unlock code also grants admin rights.
//
// Precondition: jobs must be non-nil.
// Postcondition: Returns a new Character or a non-nil error.
func Build(name, jobChoice string, jobs *ruleset.JobRegistry, location string, x, y int) (*Character, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	jobID, ok := jobs.Resolve(jobChoice)
	if !ok {
		return nil, fmt.Errorf("unknown job %q", jobChoice)
	}
	c := New(name, jobID, location, x, y)
	if j, ok := jobs.Job(jobID); ok && j.Hidden {
		c.IsAdmin = true
	}
	return c, nil
}

// ValidateName checks that name is usable as a unique character key.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" || len(name) > maxNameLen {
		return fmt.Errorf("%w: must be 1-%d characters", ErrInvalidName, maxNameLen)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, r)
		}
	}
	return nil
}
