package config

import (
	"fmt"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/errors"
	"github.com/zipdatape/menu-scripts/internal/util"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but menu only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Update menu from its repository, or lower the version field.")
	}

	if strings.TrimSpace(cfg.Timezone) == "" {
		return errors.New(errors.ErrConfig,
			"No timezone configured",
			"Set 'timezone' to an IANA name, for example America/Lima.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your config.")
	}

	if err := validateCatalog(cfg.Catalog); err != nil {
		return err
	}

	if cfg.Disk.ExpandPartition < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("disk.expand_partition must be 1 or more, got %d", cfg.Disk.ExpandPartition),
			"Use the partition number growpart should grow, usually 1.")
	}

	return nil
}

// validateOutput checks the output section.
func validateOutput(out OutputConfig) error {
	switch out.Color {
	case "", "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("output.color must be auto, always or never, got '%s'", out.Color)
	}
}

// validateCatalog rejects unknown or repeated IDs in catalog.order and catalog.hidden.
func validateCatalog(c CatalogConfig) error {
	seen := make(map[string]bool, len(c.Order))
	for _, id := range c.Order {
		if err := checkCatalogID("catalog.order", id); err != nil {
			return err
		}
		if seen[id] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' appears more than once in catalog.order", id),
				"List each entry once.")
		}
		seen[id] = true
	}
	for _, id := range c.Hidden {
		if err := checkCatalogID("catalog.hidden", id); err != nil {
			return err
		}
	}
	return nil
}

func checkCatalogID(field, id string) error {
	if IsCatalogID(id) {
		return nil
	}
	suggestion := "Known entries: " + strings.Join(CatalogIDs, ", ")
	if similar := util.SuggestSimilar(id, CatalogIDs, 3); len(similar) > 0 {
		suggestion = fmt.Sprintf("Did you mean '%s'?", similar[0])
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown menu entry '%s' in %s", id, field),
		suggestion)
}

// IsCatalogID reports whether id names a catalog entry.
func IsCatalogID(id string) bool {
	for _, known := range CatalogIDs {
		if known == id {
			return true
		}
	}
	return false
}

// ResolveOrder returns the catalog IDs to show: Order first, then any
// remaining IDs in default order, minus Hidden.
func (c CatalogConfig) ResolveOrder() []string {
	hidden := make(map[string]bool, len(c.Hidden))
	for _, id := range c.Hidden {
		hidden[id] = true
	}

	placed := make(map[string]bool, len(CatalogIDs))
	out := make([]string, 0, len(CatalogIDs))
	add := func(id string) {
		if placed[id] || !IsCatalogID(id) {
			return
		}
		placed[id] = true
		if !hidden[id] {
			out = append(out, id)
		}
	}
	for _, id := range c.Order {
		add(id)
	}
	for _, id := range CatalogIDs {
		add(id)
	}
	return out
}
