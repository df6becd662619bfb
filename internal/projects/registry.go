package projects

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/danieluxury88/BotsTeam/internal/helpers"
	"github.com/danieluxury88/BotsTeam/internal/models"
)

// RegistryFileName is the per-scope collection file
const RegistryFileName = "projects.json"

// DuplicateNameError is returned by Add when the name is taken in the scope
type DuplicateNameError struct {
	Name  string
	Scope models.Scope
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s project %q already exists (remove it first or pick another name)", e.Scope, e.Name)
}

// NotFoundError is returned when a (name, scope) pair is not registered
type NotFoundError struct {
	Name  string
	Scope models.Scope
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s project %q is not registered (run 'devbot add' first)", e.Scope, e.Name)
}

// Match is the explicit result variant of Find. Callers must handle the
// ambiguous case instead of silently taking the first candidate.
type MatchKind string

const (
	MatchUnique    MatchKind = "unique"
	MatchAmbiguous MatchKind = "ambiguous"
	MatchNotFound  MatchKind = "not_found"
)

type Match struct {
	Kind       MatchKind
	Project    Project   // set when Kind == MatchUnique
	Candidates []Project // set when Kind == MatchAmbiguous
}

// Patch carries partial field updates; nil fields are left unchanged.
// Name and scope cannot be changed in place.
type Patch struct {
	Path        *string
	Description *string
	Language    *string

	// team-only
	GitLabProjectID *string
	GitLabURL       *string
	GitLabToken     *string
	GitHubRepo      *string
	GitHubToken     *string

	// personal-only
	NotesDir  *string
	TaskFile  *string
	HabitFile *string
}

// Registry manages the team and personal project collections
type Registry struct {
	dataRoot string
	logger   *zap.Logger
	team     map[string]Project
	personal map[string]Project
}

// Load reads both collections from disk. A missing file yields an empty
// collection; a malformed file is a fatal configuration error because an
// unreadable registry means no project is resolvable.
func Load(dataRoot string, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{dataRoot: dataRoot, logger: logger}

	var err error
	if r.team, err = loadCollection(r.filePath(models.ScopeTeam), models.ScopeTeam); err != nil {
		return nil, err
	}
	if r.personal, err = loadCollection(r.filePath(models.ScopePersonal), models.ScopePersonal); err != nil {
		return nil, err
	}

	logger.Debug("project registry loaded",
		zap.Int("team", len(r.team)),
		zap.Int("personal", len(r.personal)))
	return r, nil
}

func loadCollection(path string, scope models.Scope) (map[string]Project, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s registry: %w", scope, err)
	}

	var records map[string]projectRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%s registry %s is corrupt: %w", scope, path, err)
	}

	out := make(map[string]Project, len(records))
	for name, rec := range records {
		out[name] = recordToProject(name, rec, scope)
	}
	return out, nil
}

func (r *Registry) filePath(scope models.Scope) string {
	if scope == models.ScopePersonal {
		return filepath.Join(r.dataRoot, "personal", RegistryFileName)
	}
	return filepath.Join(r.dataRoot, RegistryFileName)
}

func (r *Registry) collection(scope models.Scope) map[string]Project {
	if scope == models.ScopePersonal {
		return r.personal
	}
	return r.team
}

// All returns every project across both scopes, team first, sorted by name
func (r *Registry) All() []Project {
	out := make([]Project, 0, len(r.team)+len(r.personal))
	out = append(out, r.ByScope(models.ScopeTeam)...)
	out = append(out, r.ByScope(models.ScopePersonal)...)
	return out
}

// ByScope returns the projects of one scope, sorted by name
func (r *Registry) ByScope(scope models.Scope) []Project {
	coll := r.collection(scope)
	names := make([]string, 0, len(coll))
	for name := range coll {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Project, 0, len(names))
	for _, name := range names {
		out = append(out, coll[name])
	}
	return out
}

// Get returns the project registered under (name, scope)
func (r *Registry) Get(name string, scope models.Scope) (Project, error) {
	p, ok := r.collection(scope)[name]
	if !ok {
		return Project{}, &NotFoundError{Name: name, Scope: scope}
	}
	return p, nil
}

// Add registers a new project in its scope's collection
func (r *Registry) Add(p Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	coll := r.collection(p.Scope)
	if _, exists := coll[p.Name]; exists {
		return &DuplicateNameError{Name: p.Name, Scope: p.Scope}
	}
	coll[p.Name] = p
	if err := r.save(p.Scope); err != nil {
		delete(coll, p.Name)
		return err
	}
	r.logger.Info("project added", zap.String("name", p.Name), zap.String("scope", string(p.Scope)))
	return nil
}

// Update merges a partial patch into an existing project. Fields belonging
// to the other scope are rejected rather than silently dropped.
func (r *Registry) Update(name string, scope models.Scope, patch Patch) (Project, error) {
	coll := r.collection(scope)
	p, ok := coll[name]
	if !ok {
		return Project{}, &NotFoundError{Name: name, Scope: scope}
	}

	if scope == models.ScopeTeam && patch.hasPersonalFields() {
		return Project{}, fmt.Errorf("cannot set personal data sources on team project %q", name)
	}
	if scope == models.ScopePersonal && patch.hasTeamFields() {
		return Project{}, fmt.Errorf("cannot set tracker credentials on personal project %q", name)
	}

	prev := p
	patch.apply(&p)
	coll[name] = p
	if err := r.save(scope); err != nil {
		coll[name] = prev
		return Project{}, err
	}
	r.logger.Info("project updated", zap.String("name", name), zap.String("scope", string(scope)))
	return p, nil
}

// Remove deletes the registry entry only; report history and source files
// are never touched.
func (r *Registry) Remove(name string, scope models.Scope) error {
	coll := r.collection(scope)
	p, ok := coll[name]
	if !ok {
		return &NotFoundError{Name: name, Scope: scope}
	}
	delete(coll, name)
	if err := r.save(scope); err != nil {
		coll[name] = p
		return err
	}
	r.logger.Info("project removed", zap.String("name", name), zap.String("scope", string(scope)))
	return nil
}

// Find resolves a free-text query to a project across both scopes.
// Exact name matches (case-insensitive) win; otherwise substring matches
// against name, description and path are collected. Multiple candidates are
// reported as ambiguous, never guessed at.
func (r *Registry) Find(query string) Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return Match{Kind: MatchNotFound}
	}
	lower := strings.ToLower(query)

	var exact []Project
	for _, p := range r.All() {
		if strings.ToLower(p.Name) == lower {
			exact = append(exact, p)
		}
	}
	if len(exact) == 1 {
		return Match{Kind: MatchUnique, Project: exact[0]}
	}
	if len(exact) > 1 {
		return Match{Kind: MatchAmbiguous, Candidates: exact}
	}

	var partial []Project
	for _, p := range r.All() {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.Description), lower) ||
			strings.Contains(strings.ToLower(p.Path), lower) {
			partial = append(partial, p)
		}
	}
	switch len(partial) {
	case 0:
		return Match{Kind: MatchNotFound}
	case 1:
		return Match{Kind: MatchUnique, Project: partial[0]}
	default:
		return Match{Kind: MatchAmbiguous, Candidates: partial}
	}
}

// FindInScope behaves like Find but only considers one scope's collection
func (r *Registry) FindInScope(query string, scope models.Scope) Match {
	sub := &Registry{dataRoot: r.dataRoot, logger: zap.NewNop()}
	empty := map[string]Project{}
	if scope == models.ScopePersonal {
		sub.team, sub.personal = empty, r.personal
	} else {
		sub.team, sub.personal = r.team, empty
	}
	return sub.Find(query)
}

func (r *Registry) save(scope models.Scope) error {
	coll := r.collection(scope)
	records := make(map[string]projectRecord, len(coll))
	for name, p := range coll {
		records[name] = p.toRecord()
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s registry: %w", scope, err)
	}

	path := r.filePath(scope)
	if err := helpers.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := helpers.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s registry: %w", scope, err)
	}
	return nil
}

func (p *Patch) hasTeamFields() bool {
	return p.GitLabProjectID != nil || p.GitLabURL != nil || p.GitLabToken != nil ||
		p.GitHubRepo != nil || p.GitHubToken != nil
}

func (p *Patch) hasPersonalFields() bool {
	return p.NotesDir != nil || p.TaskFile != nil || p.HabitFile != nil
}

func (p *Patch) apply(target *Project) {
	if p.Path != nil {
		target.Path = *p.Path
	}
	if p.Description != nil {
		target.Description = *p.Description
	}
	if p.Language != nil {
		target.Language = *p.Language
	}

	if p.hasTeamFields() {
		if target.Team == nil {
			target.Team = &TeamDetails{}
		}
		if p.GitLabProjectID != nil {
			target.Team.GitLabProjectID = *p.GitLabProjectID
		}
		if p.GitLabURL != nil {
			target.Team.GitLabURL = *p.GitLabURL
		}
		if p.GitLabToken != nil {
			target.Team.GitLabToken = *p.GitLabToken
		}
		if p.GitHubRepo != nil {
			target.Team.GitHubRepo = *p.GitHubRepo
		}
		if p.GitHubToken != nil {
			target.Team.GitHubToken = *p.GitHubToken
		}
	}

	if p.hasPersonalFields() {
		if target.Personal == nil {
			target.Personal = &PersonalDetails{}
		}
		if p.NotesDir != nil {
			target.Personal.NotesDir = *p.NotesDir
		}
		if p.TaskFile != nil {
			target.Personal.TaskFile = *p.TaskFile
		}
		if p.HabitFile != nil {
			target.Personal.HabitFile = *p.HabitFile
		}
	}
}
