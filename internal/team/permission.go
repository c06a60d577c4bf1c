package team

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"arthub-go/internal/arthub"
)

// PermissionStore reads and updates the space-wide permissions document, a
// single permissions.json with global grants plus per-project overrides.
type PermissionStore struct {
	root string
}

var _ arthub.PermissionStore = (*PermissionStore)(nil)

func NewPermissionStore(root string) *PermissionStore {
	return &PermissionStore{root: root}
}

func (p *PermissionStore) path() string {
	return filepath.Join(p.root, metaDir, permissionsFile)
}

// Load returns the permissions document, or an empty one when none exists
// yet. A document that does not parse is reported as corrupt.
func (p *PermissionStore) Load() (*arthub.PermissionsConfig, error) {
	data, err := os.ReadFile(p.path())
	if err != nil {
		if os.IsNotExist(err) {
			return &arthub.PermissionsConfig{}, nil
		}
		return nil, fmt.Errorf("reading permissions: %w", err)
	}
	var cfg arthub.PermissionsConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: permissions: %v", arthub.ErrCorrupt, err)
	}
	return &cfg, nil
}

// Set upserts a grant for user. An empty projectPath targets the global
// grants, otherwise the project's override list. A corrupt document is not
// overwritten; the error surfaces so an admin can repair it first.
func (p *PermissionStore) Set(user, role, projectPath string) error {
	cfg, err := p.Load()
	if err != nil {
		return err
	}

	if projectPath == "" {
		cfg.Global = upsertGrant(cfg.Global, user, role)
	} else {
		found := false
		for i := range cfg.Projects {
			if cfg.Projects[i].ProjectPath == projectPath {
				cfg.Projects[i].Permissions = upsertGrant(cfg.Projects[i].Permissions, user, role)
				found = true
				break
			}
		}
		if !found {
			cfg.Projects = append(cfg.Projects, arthub.ProjectPermission{
				ProjectPath: projectPath,
				Permissions: []arthub.Permission{{User: user, Role: role}},
			})
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding permissions: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path()), 0o755); err != nil {
		return fmt.Errorf("creating space directory: %w", err)
	}
	return writeFileAtomic(p.path(), data)
}

func upsertGrant(grants []arthub.Permission, user, role string) []arthub.Permission {
	for i := range grants {
		if grants[i].User == user {
			grants[i].Role = role
			return grants
		}
	}
	return append(grants, arthub.Permission{User: user, Role: role})
}
