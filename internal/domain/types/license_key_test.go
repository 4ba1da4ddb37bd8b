package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2027-01-01")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2027, Month: time.January, Day: 1}, d)
	assert.Equal(t, "2027-01-01", d.String())

	for _, bad := range []string{"", "2027-1-1", "01/01/2027", "2027-02-30"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDate_AddDaysCrossesMonthAndYear(t *testing.T) {
	d := Date{Year: 2026, Month: time.December, Day: 30}
	assert.Equal(t, "2027-01-06", d.AddDays(7).String())
	assert.Equal(t, "2026-12-30", d.AddDays(0).String())
}

func TestDate_ValidAndOutOfRangeEncoding(t *testing.T) {
	assert.True(t, Date{Year: 9999, Month: time.December, Day: 31}.Valid())
	assert.False(t, Date{Year: 10240, Month: time.July, Day: 9}.Valid())
	assert.False(t, Date{Year: 2027, Month: time.February, Day: 30}.Valid())
	assert.False(t, Date{}.Valid())

	_, err := json.Marshal(KeyRecord{Key: "big", Expiry: &Date{Year: 10240, Month: time.July, Day: 9}})
	assert.ErrorContains(t, err, "out of range")

	_, err = yaml.Marshal(Date{Year: 10240, Month: time.July, Day: 9})
	assert.Error(t, err)
}

func TestDate_EndOfDay(t *testing.T) {
	d := Date{Year: 2027, Month: time.January, Day: 1}
	eod := d.EndOfDay(nil)
	assert.Equal(t, time.Date(2027, 1, 1, 23, 59, 59, 0, time.UTC), eod)
}

func TestKeyRecord_JSONShape(t *testing.T) {
	dev := "18db7457294f554f"
	exp := Date{Year: 2027, Month: time.January, Day: 1}
	b, err := json.Marshal(KeyRecord{Key: "venom", Device: &dev, Expiry: &exp})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"venom","device":"18db7457294f554f","expiry":"2027-01-01"}`, string(b))

	b, err = json.Marshal(KeyRecord{Key: "ABC123"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"ABC123","device":null,"expiry":null}`, string(b))

	var back KeyRecord
	require.NoError(t, json.Unmarshal([]byte(`{"key":"venom","device":"d","expiry":"2027-01-01"}`), &back))
	assert.Equal(t, "d", *back.Device)
	assert.Equal(t, exp, *back.Expiry)

	assert.Error(t, json.Unmarshal([]byte(`{"key":"x","expiry":"soon"}`), &back))
}

func TestKeyRecord_YAMLSeed(t *testing.T) {
	var recs []KeyRecord
	src := `
- key: ABC123
- key: venom
  device: 18db7457294f554f
  expiry: "2027-01-01"
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &recs))
	require.Len(t, recs, 2)
	assert.False(t, recs[0].IsBound())
	assert.Equal(t, NotBound, recs[0].DeviceOrNotBound())
	assert.Equal(t, "18db7457294f554f", recs[1].DeviceOrNotBound())
	assert.Equal(t, "2027-01-01", recs[1].Expiry.String())
}

func TestKeyRecord_CloneAndEqual(t *testing.T) {
	dev := "A"
	exp := Date{Year: 2030, Month: time.March, Day: 3}
	r := KeyRecord{Key: "k", Device: &dev, Expiry: &exp}
	c := r.Clone()
	assert.True(t, r.Equal(c))

	*c.Device = "B"
	assert.Equal(t, "A", *r.Device)
	assert.False(t, r.Equal(c))

	assert.False(t, r.Equal(KeyRecord{Key: "k", Device: &dev}))
	assert.True(t, KeyRecord{Key: "k"}.Equal(KeyRecord{Key: "k"}))
}

func TestField(t *testing.T) {
	assert.False(t, Omit[string]().Present)

	c := Clear[string]()
	assert.True(t, c.Present)
	assert.Nil(t, c.Value)

	s := Set("x")
	assert.True(t, s.Present)
	assert.Equal(t, "x", *s.Value)
}
