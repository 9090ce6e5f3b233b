package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/records"
)

func TestShell_StartsOnDashboard(t *testing.T) {
	s := New()
	assert.Equal(t, Dashboard, s.Selected())
	assert.False(t, s.SubmenuOpen())
	assert.Equal(t, "", s.ActiveList())
}

func TestShell_ParentTogglesWithoutChangingContent(t *testing.T) {
	s := New()
	require.NoError(t, s.Click(TaxInvoice))

	require.NoError(t, s.Click(Settlements))
	assert.True(t, s.SubmenuOpen())
	assert.Equal(t, TaxInvoice, s.Selected())

	require.NoError(t, s.Click(Settlements))
	assert.False(t, s.SubmenuOpen())
	assert.Equal(t, records.KeyTaxInvoices, s.ActiveList())
}

func TestShell_LeafKeepsSubmenuOpen(t *testing.T) {
	s := New()
	require.NoError(t, s.Click(Settlements))
	require.NoError(t, s.SelectLeaf(Dispatch))

	assert.True(t, s.SubmenuOpen())
	assert.Equal(t, records.KeySettlements, s.ActiveList())
	assert.True(t, s.Highlighted(Settlements))
	assert.True(t, s.Highlighted(Dispatch))
	assert.False(t, s.Highlighted(Recruitment))

	require.NoError(t, s.Click(Recruitment))
	assert.Equal(t, records.KeyRecruitments, s.ActiveList())
	assert.True(t, s.SubmenuOpen())
}

func TestShell_TopLevelClosesSubmenu(t *testing.T) {
	s := New()
	require.NoError(t, s.SelectLeaf(Recruitment))
	require.NoError(t, s.Click(Dashboard))

	assert.False(t, s.SubmenuOpen())
	assert.False(t, s.Highlighted(Settlements))
}

func TestShell_Errors(t *testing.T) {
	s := New()
	assert.Error(t, s.Click("reports"))
	assert.Error(t, s.SelectLeaf(TaxInvoice))
	assert.Equal(t, Dashboard, s.Selected())

	_, err := ParseKey("nope")
	assert.Error(t, err)
	k, err := ParseKey("dispatch")
	require.NoError(t, err)
	assert.Equal(t, Dispatch, k)
}

func TestShell_Menu(t *testing.T) {
	s := New()
	closed := s.Menu()
	require.Len(t, closed, 3)
	assert.Equal(t, "▼", closed[1].Arrow)

	require.NoError(t, s.SelectLeaf(Dispatch))
	open := s.Menu()
	require.Len(t, open, 5)
	assert.Equal(t, "▲", open[1].Arrow)
	assert.True(t, open[1].Highlighted)
	assert.True(t, open[2].Sub)
	assert.True(t, open[2].Highlighted)
	assert.False(t, open[0].Highlighted)
}

func TestShell_Reset(t *testing.T) {
	s := New()
	require.NoError(t, s.SelectLeaf(Recruitment))
	s.Reset()
	assert.Equal(t, Dashboard, s.Selected())
	assert.False(t, s.SubmenuOpen())
}
