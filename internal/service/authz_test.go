package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ads-online/internal/core/errs"
	"ads-online/internal/domain"
	"ads-online/internal/dto"
)

func TestCanModifyAd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner@mail.ru", domain.RoleUser)
	other := f.register(t, "stranger@mail.ru", domain.RoleUser)
	admin := f.register(t, "admin@mail.ru", domain.RoleAdmin)
	ad := f.postAd(t, owner, "Bicycle")

	cases := []struct {
		name string
		p    domain.Principal
		want bool
	}{
		{"author", owner, true},
		{"stranger", other, false},
		{"admin", admin, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := f.authz.CanModifyAd(ctx, tc.p, ad.PK)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestCanModifyAdMissingIsNotFoundEvenForAdmin(t *testing.T) {
	f := newFixture(t)
	admin := f.register(t, "admin@mail.ru", domain.RoleAdmin)

	_, err := f.authz.CanModifyAd(context.Background(), admin, 404)
	assert.True(t, errs.IsNotFound(err))
}

func TestCanModifyComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner@mail.ru", domain.RoleUser)
	other := f.register(t, "stranger@mail.ru", domain.RoleUser)
	admin := f.register(t, "admin@mail.ru", domain.RoleAdmin)
	ad := f.postAd(t, owner, "Bicycle")
	c, err := f.comments.Create(ctx, other, ad.PK, dto.CreateOrUpdateComment{Text: "is it still available?"})
	require.NoError(t, err)

	ok, err := f.authz.CanModifyComment(ctx, other, ad.PK, c.PK)
	require.NoError(t, err)
	assert.True(t, ok)

	// 广告作者不是评论作者
	ok, err = f.authz.CanModifyComment(ctx, owner, ad.PK, c.PK)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.authz.CanModifyComment(ctx, admin, ad.PK, c.PK)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.authz.CanModifyComment(ctx, admin, ad.PK, 999)
	assert.True(t, errs.IsNotFound(err))
}

func TestCanModifyCommentOnOtherAdIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner@mail.ru", domain.RoleUser)
	other := f.register(t, "stranger@mail.ru", domain.RoleUser)
	first := f.postAd(t, owner, "Bicycle")
	second := f.postAd(t, owner, "Scooter")
	c, err := f.comments.Create(ctx, owner, first.PK, dto.CreateOrUpdateComment{Text: "price is negotiable"})
	require.NoError(t, err)

	// 非作者访问别的广告下的评论也只能拿到 404
	for _, p := range []domain.Principal{owner, other} {
		err := f.authz.RequireComment(ctx, p, second.PK, c.PK)
		require.Error(t, err)
		assert.True(t, errs.IsNotFound(err))
		assert.False(t, errs.IsForbidden(err))
	}
}

func TestRequireAdForbidden(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "owner@mail.ru", domain.RoleUser)
	other := f.register(t, "stranger@mail.ru", domain.RoleUser)
	ad := f.postAd(t, owner, "Bicycle")

	err := f.authz.RequireAd(context.Background(), other, ad.PK)
	assert.True(t, errs.IsForbidden(err))
	assert.NoError(t, f.authz.RequireAd(context.Background(), owner, ad.PK))
}
