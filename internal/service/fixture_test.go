package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ads-online/internal/core/auth"
	"ads-online/internal/domain"
	"ads-online/internal/dto"
	"ads-online/internal/repo/memrepo"
	"ads-online/pkg/utils"
)

func TestMain(m *testing.M) {
	utils.HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func png(tail string) []byte { return append(append([]byte{}, pngBytes...), tail...) }

type fixture struct {
	store    *memrepo.Store
	images   *ImageService
	authz    *Authorizer
	ads      *AdService
	comments *CommentService
	users    *UserService
	accounts *AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	st := memrepo.New()
	images := NewImageService(st.Images, nil, time.Minute, 1024, log)
	jwt := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "ads-online", TTL: time.Hour}
	return &fixture{
		store:    st,
		images:   images,
		authz:    NewAuthorizer(st.Ads, st.Comments, log),
		ads:      NewAdService(st.Repos, st, images, log),
		comments: NewCommentService(st.Ads, st.Comments, log),
		users:    NewUserService(st.Repos, st, images, log),
		accounts: NewAccountService(st.Users, jwt, false, log),
	}
}

func (f *fixture) register(t *testing.T, username string, role domain.Role) domain.Principal {
	t.Helper()
	u := domain.User{
		Username:  username,
		FirstName: "Ivan",
		LastName:  "Petrov",
		Phone:     "+7 (999) 000-00-" + username[:2],
		Role:      role,
	}
	hash, err := utils.HashPassword("password1")
	require.NoError(t, err)
	u.PasswordHash = hash
	require.NoError(t, f.store.Users.Create(context.Background(), &u))
	return domain.PrincipalOf(&u)
}

func (f *fixture) postAd(t *testing.T, p domain.Principal, title string) dto.Ad {
	t.Helper()
	price := 1500
	ad, err := f.ads.Create(context.Background(), p, dto.CreateOrUpdateAd{
		Title: title, Price: &price, Description: "a nice thing to buy",
	}, png(title))
	require.NoError(t, err)
	return ad
}
