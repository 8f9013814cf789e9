package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zipdatape/menu-scripts/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "future version",
			mutate:  func(cfg *Config) { cfg.Version = CurrentConfigVersion + 1 },
			wantErr: "from the future",
		},
		{
			name:    "empty timezone",
			mutate:  func(cfg *Config) { cfg.Timezone = "  " },
			wantErr: "No timezone configured",
		},
		{
			name:    "bad color mode",
			mutate:  func(cfg *Config) { cfg.Output.Color = "sometimes" },
			wantErr: "output.color",
		},
		{
			name:    "unknown catalog entry",
			mutate:  func(cfg *Config) { cfg.Catalog.Order = []string{"dockr"} },
			wantErr: "Did you mean 'docker'?",
		},
		{
			name:    "duplicate catalog entry",
			mutate:  func(cfg *Config) { cfg.Catalog.Order = []string{"git", "git"} },
			wantErr: "more than once",
		},
		{
			name:    "unknown hidden entry",
			mutate:  func(cfg *Config) { cfg.Catalog.Hidden = []string{"kubernetes"} },
			wantErr: "catalog.hidden",
		},
		{
			name:    "partition zero",
			mutate:  func(cfg *Config) { cfg.Disk.ExpandPartition = 0 },
			wantErr: "expand_partition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestResolveOrder(t *testing.T) {
	tests := []struct {
		name    string
		catalog CatalogConfig
		want    []string
	}{
		{
			name:    "default order",
			catalog: CatalogConfig{Order: CatalogIDs},
			want:    CatalogIDs,
		},
		{
			name:    "partial order appends the rest",
			catalog: CatalogConfig{Order: []string{"update", "git"}},
			want:    append([]string{"update", "git"}, without(CatalogIDs, "update", "git")...),
		},
		{
			name:    "hidden entries are dropped",
			catalog: CatalogConfig{Hidden: []string{"elasticsearch", "containers"}},
			want:    without(CatalogIDs, "elasticsearch", "containers"),
		},
		{
			name:    "unknown ids ignored",
			catalog: CatalogConfig{Order: []string{"bogus", "git"}},
			want:    append([]string{"git"}, without(CatalogIDs, "git")...),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.catalog.ResolveOrder())
		})
	}
}

func TestIsCatalogID(t *testing.T) {
	assert.True(t, IsCatalogID("new-disk"))
	assert.False(t, IsCatalogID("New-Disk"))
	assert.False(t, IsCatalogID(""))
}

func without(ids []string, drop ...string) []string {
	skip := make(map[string]bool, len(drop))
	for _, d := range drop {
		skip[d] = true
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !skip[id] {
			out = append(out, id)
		}
	}
	return out
}
