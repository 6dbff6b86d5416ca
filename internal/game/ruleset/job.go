package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultEvasion is the base evasion probability of a job missing from the table.
const DefaultEvasion = 0.03

// Job defines a playable job and its combat-relevant traits.
// Hidden jobs are never offered at character creation; they are selected by
// presenting UnlockCode instead of the job ID.
//
// Precondition: ID and Name must be non-empty after loading.
type Job struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Evasion     float64 `yaml:"evasion"`
	Hidden      bool    `yaml:"hidden"`
	UnlockCode  string  `yaml:"unlock_code"`
}

// Validate checks that required fields are present and values are in range.
//
// Postcondition: Returns nil if j is valid, or an error naming the first violation.
func (j *Job) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("job: id must not be empty")
	}
	if j.Name == "" {
		return fmt.Errorf("job %q: name must not be empty", j.ID)
	}
	if j.Evasion < 0 || j.Evasion > 1 {
		return fmt.Errorf("job %q: evasion must be in [0,1], got %v", j.ID, j.Evasion)
	}
	if j.Hidden && j.UnlockCode == "" {
		return fmt.Errorf("job %q: hidden jobs require an unlock_code", j.ID)
	}
	return nil
}

// DefaultJobs returns the built-in job table.
//
// Postcondition: Returns a fresh slice; callers may modify it.
func DefaultJobs() []*Job {
	return []*Job{
		{ID: "novice", Name: "Novice", Description: "A wanderer with no training.", Evasion: 0.03},
		{ID: "warrior", Name: "Warrior", Description: "Front-line fighter.", Evasion: 0.05},
		{ID: "mage", Name: "Mage", Description: "Wields arcane force.", Evasion: 0.06},
		{ID: "priest", Name: "Priest", Description: "Mends wounds and wards allies.", Evasion: 0.07},
		{ID: "rogue", Name: "Rogue", Description: "Quick hands, quicker feet.", Evasion: 0.15},
		{ID: "bard", Name: "Bard", Description: "Fights to a rhythm.", Evasion: 0.10},
		{ID: "admin", Name: "Admin", Description: "Keeper of the realm.", Evasion: 0.20, Hidden: true, UnlockCode: "keeper"},
	}
}

// LoadJobs reads all .yaml files in dir and parses each as a Job.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed and validated jobs (may be empty) or a non-nil error.
func LoadJobs(dir string) ([]*Job, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	jobs := make([]*Job, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var j Job
		if err := yaml.Unmarshal(data, &j); err != nil {
			return nil, fmt.Errorf("parsing job file %s: %w", path, err)
		}
		if err := j.Validate(); err != nil {
			return nil, fmt.Errorf("validating job file %s: %w", path, err)
		}
		jobs = append(jobs, &j)
	}
	return jobs, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
