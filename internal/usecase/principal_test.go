package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"delivery/internal/domain/model"
	"delivery/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_OwnsRestaurant(t *testing.T) {
	assert.True(t, restaurantPrincipal(bellaID).OwnsRestaurant(bellaID))
	assert.False(t, restaurantPrincipal(bellaID).OwnsRestaurant(burgerID))

	// 紐づくレストランが無い RESTAURANTE
	unlinked := usecase.Principal{UserID: 9, Role: model.RoleRestaurant}
	assert.False(t, unlinked.OwnsRestaurant(bellaID))

	// ADMIN でも所有者ではない（権限は Guard 側で判断）
	assert.False(t, adminPrincipal.OwnsRestaurant(bellaID))
}

func TestGuard_IsProductOwner(t *testing.T) {
	s := catalogStore()
	g := usecase.NewGuard(s.Products())
	ctx := context.Background()

	ok, err := g.IsProductOwner(ctx, restaurantPrincipal(bellaID), productA)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.IsProductOwner(ctx, restaurantPrincipal(burgerID), productA)
	require.NoError(t, err)
	assert.False(t, ok)

	// 存在しない商品はエラーではなく false
	ok, err = g.IsProductOwner(ctx, restaurantPrincipal(bellaID), 404)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.IsProductOwner(ctx, customerPrincipal, productA)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGuard_RequireRestaurantManager(t *testing.T) {
	g := usecase.NewGuard(catalogStore().Products())

	assert.NoError(t, g.RequireRestaurantManager(adminPrincipal, bellaID))
	assert.NoError(t, g.RequireRestaurantManager(restaurantPrincipal(bellaID), bellaID))

	err := g.RequireRestaurantManager(restaurantPrincipal(burgerID), bellaID)
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)

	err = g.RequireRestaurantManager(customerPrincipal, bellaID)
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)
}

func TestGuard_RequireProductManager(t *testing.T) {
	g := usecase.NewGuard(catalogStore().Products())
	ctx := context.Background()

	assert.NoError(t, g.RequireProductManager(ctx, adminPrincipal, productA))
	assert.NoError(t, g.RequireProductManager(ctx, restaurantPrincipal(bellaID), productA))

	err := g.RequireProductManager(ctx, restaurantPrincipal(bellaID), burgerItemID)
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)

	err = g.RequireProductManager(ctx, customerPrincipal, productA)
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)
}
