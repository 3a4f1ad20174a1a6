package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageRefRoundTrip(t *testing.T) {
	ref := ImageRef(17)
	assert.Equal(t, "/images/17", ref)

	id, err := ParseImageRef(ref)
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
}

func TestParseImageRefRejectsMalformed(t *testing.T) {
	for _, ref := range []string{"", "/images/", "/images/abc", "images/3", "/img/3", "/images/-2", "/images/0", "/images/3/extra"} {
		_, err := ParseImageRef(ref)
		assert.Error(t, err, ref)
	}
}

func TestPrincipal(t *testing.T) {
	p := Principal{ID: 2, Role: RoleUser}
	assert.True(t, p.Owns(2))
	assert.False(t, p.Owns(3))
	assert.False(t, p.IsAdmin())
	assert.True(t, Principal{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Role("ROOT").Valid())
}
