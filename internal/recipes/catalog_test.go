package recipes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zipdatape/menu-scripts/internal/config"
	"github.com/zipdatape/menu-scripts/internal/menu"
)

func TestCatalog_MatchesConfigIDs(t *testing.T) {
	td := newTestDeps(t, nil)

	entries := Catalog(td.Deps)

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		assert.NotEmpty(t, e.Label, e.ID)
		assert.NotNil(t, e.Action, e.ID)
	}
	assert.Equal(t, config.CatalogIDs, ids)
}

func TestCatalog_TimezoneLabel(t *testing.T) {
	td := newTestDeps(t, nil)
	td.Config.Timezone = "Europe/Madrid"

	for _, e := range Catalog(td.Deps) {
		if e.ID == "timezone" {
			assert.Equal(t, "Configure timezone (Europe/Madrid)", e.Label)
			return
		}
	}
	t.Fatal("timezone entry missing")
}

func TestRootMenu_DefaultOrder(t *testing.T) {
	td := newTestDeps(t, nil)

	m := RootMenu(td.Deps)

	assert.Equal(t, RootTitle, m.Title)
	assert.Equal(t, "Exit", m.BackLabel)
	require.Len(t, m.Items, len(config.CatalogIDs))
	assert.Equal(t, "Configure multipathd", m.Items[0].Label)
	assert.Equal(t, "Configure new disk", m.Items[len(m.Items)-1].Label)
}

func TestRootMenu_OrderAndHidden(t *testing.T) {
	td := newTestDeps(t, nil)
	td.Config.Catalog.Order = []string{"docker", "nginx"}
	td.Config.Catalog.Hidden = []string{"elasticsearch", "update"}

	m := RootMenu(td.Deps)

	require.Len(t, m.Items, len(config.CatalogIDs)-2)
	assert.Equal(t, "Install Docker and Docker Compose", m.Items[0].Label)
	assert.Equal(t, "Install Nginx", m.Items[1].Label)
	assert.Equal(t, "Configure multipathd", m.Items[2].Label)
	for _, item := range m.Items {
		assert.NotEqual(t, "Manage Elasticsearch indices", item.Label)
		assert.NotEqual(t, "Update menu", item.Label)
	}
}

func TestRootMenu_SubmenusBuild(t *testing.T) {
	td := newTestDeps(t, nil)

	subs := 0
	for _, item := range RootMenu(td.Deps).Items {
		sub, ok := item.Action.(menu.Submenu)
		if !ok {
			continue
		}
		subs++
		m := sub.Build()
		require.NotNil(t, m, item.Label)
		assert.NotEmpty(t, m.Title, item.Label)
		assert.NotEmpty(t, m.Items, item.Label)
	}
	assert.Equal(t, 6, subs)
}
