package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	orgmodels "ongfinder/internal/organization/models"
	orgstore "ongfinder/internal/organization/store"
	"ongfinder/internal/position/models"
	volstore "ongfinder/internal/volunteer/store"
	"ongfinder/pkg/domain"
	"ongfinder/pkg/platform/sentinel"
)

func TestInMemoryPositions(t *testing.T) {
	ctx := context.Background()
	orgs := orgstore.NewInMemory(volstore.NewInMemory())
	store := NewInMemory(orgs)

	seedOrg := func(name, email, cnpj string) *orgmodels.Organization {
		org := &orgmodels.Organization{Name: name, Email: email, CNPJ: cnpj, Active: true}
		require.NoError(t, orgs.Create(ctx, org))
		return org
	}
	seedOrg("Abrigo Esperanca", "contato@esperanca.org", "11222333000144")
	seedOrg("Verde Vivo", "contato@verdevivo.org", "55666777000188")

	seed := func(orgID domain.OrganizationID, title string, active bool) *models.Position {
		pos := &models.Position{
			OrganizationID: orgID,
			Title:          title,
			Description:    "ajude a gente",
			Active:         active,
			CreatedAt:      time.Now(),
		}
		require.NoError(t, store.Create(ctx, pos))
		return pos
	}

	first := seed(1, "Passeador de caes", true)
	seed(1, "Recepcao", false)
	seed(2, "Horta comunitaria", true)

	t.Run("create refuses an unknown organization", func(t *testing.T) {
		pos := &models.Position{OrganizationID: 999, Title: "Fantasma", Active: true}
		require.ErrorIs(t, store.Create(ctx, pos), sentinel.ErrNotFound)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := store.FindByID(ctx, first.ID)
		require.NoError(t, err)
		require.Equal(t, "Passeador de caes", found.Title)

		_, err = store.FindByID(ctx, 999)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("list is scoped to the organization", func(t *testing.T) {
		out, err := store.ListByOrganization(ctx, 1)
		require.NoError(t, err)
		require.Len(t, out, 2)
	})

	t.Run("count only active", func(t *testing.T) {
		n, err := store.CountActiveByOrganization(ctx, 1)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})

	t.Run("update round trips", func(t *testing.T) {
		first.Active = false
		first.Title = "Passeador"
		require.NoError(t, store.Update(ctx, first))

		stored, err := store.FindByID(ctx, first.ID)
		require.NoError(t, err)
		require.False(t, stored.Active)
		require.Equal(t, "Passeador", stored.Title)
	})
}
