package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskDevice(t *testing.T) {
	assert.Equal(t, "", MaskDevice(""))
	assert.Equal(t, "***", MaskDevice("abc"))
	assert.Equal(t, "18db…554f", MaskDevice("18db7457294f554f"))
}

func TestRedactURL(t *testing.T) {
	cases := map[string]string{
		"":                                      "",
		"redis://:s3cret@cache:6379/0":          "redis://:xxxxx@cache:6379/0",
		"postgres://app:pw@db:5432/keys":        "postgres://app:xxxxx@db:5432/keys",
		"postgres://db:5432/keys":               "postgres://db:5432/keys",
		"host=db user=app password=pw dbname=k": "host=db user=app password=xxxxx dbname=k",
		"localhost:6379":                        "localhost:6379",
	}
	for in, want := range cases {
		assert.Equal(t, want, RedactURL(in), in)
	}
}
