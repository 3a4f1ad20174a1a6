package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ads-online/internal/core/errs"
	"ads-online/internal/domain"
	"ads-online/internal/dto"
	"ads-online/internal/repo/memrepo"
)

func TestSetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.register(t, "owner@mail.ru", domain.RoleUser)
	before, err := f.store.Users.FindByID(ctx, p.ID)
	require.NoError(t, err)

	err = f.users.SetPassword(ctx, p, dto.NewPassword{CurrentPassword: "wrongpass", NewPassword: "newpassword"})
	assert.True(t, errs.IsForbidden(err))
	after, err := f.store.Users.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)

	require.NoError(t, f.users.SetPassword(ctx, p, dto.NewPassword{CurrentPassword: "password1", NewPassword: "newpassword"}))
	_, err = f.accounts.Authenticate(ctx, "owner@mail.ru", "newpassword")
	assert.NoError(t, err)
	_, err = f.accounts.Authenticate(ctx, "owner@mail.ru", "password1")
	assert.Equal(t, 401, errs.StatusOf(err))
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.register(t, "owner@mail.ru", domain.RoleUser)

	out, err := f.users.UpdateProfile(ctx, p, dto.UpdateUser{FirstName: "Anna", LastName: "Sidorova", Phone: "+7 (912) 345-67-89"})
	require.NoError(t, err)
	assert.Equal(t, "Anna", out.FirstName)

	me, err := f.users.GetProfile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "owner@mail.ru", me.Username)
	assert.Equal(t, "Sidorova", me.LastName)
	assert.Equal(t, "+7 (912) 345-67-89", me.Phone)
	assert.Equal(t, domain.RoleUser, me.Role)
	assert.Nil(t, me.Image)
}

func TestUpdateAvatarReusesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.register(t, "owner@mail.ru", domain.RoleUser)

	first, err := f.users.UpdateAvatar(ctx, p, png("me"))
	require.NoError(t, err)
	second, err := f.users.UpdateAvatar(ctx, p, png("me, later"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	id, err := domain.ParseImageRef(second)
	require.NoError(t, err)
	img, err := f.images.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, png("me, later"), img.Data)

	_, _, _, images := f.store.Count()
	assert.Equal(t, 1, images)
}

func TestUpdateAvatarSurfacesErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.register(t, "owner@mail.ru", domain.RoleUser)

	_, err := f.users.UpdateAvatar(ctx, p, []byte("not an image at all"))
	assert.Equal(t, 400, errs.StatusOf(err))

	f.store.FailOn["users.update"] = true
	_, err = f.users.UpdateAvatar(ctx, p, png("me"))
	require.ErrorIs(t, err, memrepo.ErrInjected)

	_, _, _, images := f.store.Count()
	assert.Zero(t, images)
	me, err := f.users.GetProfile(ctx, p)
	require.NoError(t, err)
	assert.Nil(t, me.Image)
}

func TestUpdateAvatarRecreatesMissingImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.register(t, "owner@mail.ru", domain.RoleUser)
	ref, err := f.users.UpdateAvatar(ctx, p, png("me"))
	require.NoError(t, err)
	id, _ := domain.ParseImageRef(ref)
	require.NoError(t, f.store.Images.Delete(ctx, id))

	fresh, err := f.users.UpdateAvatar(ctx, p, png("me again"))
	require.NoError(t, err)
	assert.NotEqual(t, ref, fresh)
	me, err := f.users.GetProfile(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, me.Image)
	assert.Equal(t, fresh, *me.Image)
}

func TestAdminUserOps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "alpha@mail.ru", domain.RoleUser)
	f.register(t, "bravo@mail.ru", domain.RoleUser)
	f.register(t, "charlie@mail.ru", domain.RoleUser)

	page, err := f.users.ListUsers(ctx, 1, 1, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "bravo@mail.ru", page.Items[0].Username)

	u, err := f.users.SetRole(ctx, a.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	_, err = f.users.SetRole(ctx, a.ID, domain.Role("ROOT"))
	assert.Equal(t, 400, errs.StatusOf(err))
	_, err = f.users.SetRole(ctx, 999, domain.RoleUser)
	assert.True(t, errs.IsNotFound(err))
}
