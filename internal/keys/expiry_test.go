package keys_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/keycheck/internal/keys"
)

func TestResolveExpiry(t *testing.T) {
	f, err := keys.ResolveExpiry(nil, nil, now, time.UTC)
	require.NoError(t, err)
	assert.False(t, f.Present)

	f, err = keys.ResolveExpiry(strp("2027-01-01"), nil, now, time.UTC)
	require.NoError(t, err)
	require.True(t, f.Present)
	assert.Equal(t, "2027-01-01", f.Value.String())

	f, err = keys.ResolveExpiry(strp(""), nil, now, time.UTC)
	require.NoError(t, err)
	assert.True(t, f.Present)
	assert.Nil(t, f.Value)

	f, err = keys.ResolveExpiry(strp("null"), strp("7"), now, time.UTC)
	require.NoError(t, err)
	assert.True(t, f.Present)
	assert.Nil(t, f.Value, "expiry wins over days")
}

func TestResolveExpiry_RFC3339UsesReferenceZone(t *testing.T) {
	f, err := keys.ResolveExpiry(strp("2027-01-01T23:30:00Z"), nil, now, time.FixedZone("X", 3600))
	require.NoError(t, err)
	assert.Equal(t, "2027-01-02", f.Value.String())
}

func TestResolveExpiry_Days(t *testing.T) {
	f, err := keys.ResolveExpiry(nil, strp("7"), now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-26", f.Value.String())

	f, err = keys.ResolveExpiry(nil, strp("0"), now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", f.Value.String())

	f, err = keys.ResolveExpiry(nil, strp("36500"), now, time.UTC)
	require.NoError(t, err)
	assert.True(t, f.Value.Valid())
	assert.True(t, f.Value.Year > now.Year()+99)
}

func TestResolveExpiry_Invalid(t *testing.T) {
	for _, tc := range []struct{ expiry, days *string }{
		{strp("tomorrow"), nil},
		{strp("2027-13-01"), nil},
		{nil, strp("-1")},
		{nil, strp("ten")},
		{nil, strp("36501")},
		{nil, strp("3000000")},
		{nil, strp("9223372036854775807")},
		{strp("9999-12-31T23:30:00-05:00"), nil},
	} {
		_, err := keys.ResolveExpiry(tc.expiry, tc.days, now, time.UTC)
		require.Error(t, err)
		assert.True(t, errors.Is(err, keys.ErrInvalidExpiry))
	}
}

func TestStoreError(t *testing.T) {
	assert.Nil(t, keys.NewStoreError("get", nil))

	cause := errors.New("dial tcp: refused")
	err := keys.NewStoreError("get", cause)
	assert.True(t, keys.IsStoreError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "store get")
	assert.False(t, keys.IsStoreError(cause))
}
