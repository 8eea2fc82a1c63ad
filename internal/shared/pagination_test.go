package shared

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageParamsDefaults(t *testing.T) {
	limit, offset := PageParams(url.Values{})
	require.Equal(t, DefaultPageSize, limit)
	require.Zero(t, offset)
}

func TestPageParamsClampsOutOfRange(t *testing.T) {
	q := url.Values{"limit": {"9999"}, "offset": {"-3"}}
	limit, offset := PageParams(q)
	require.Equal(t, DefaultPageSize, limit)
	require.Zero(t, offset)
}

func TestPageParamsHonorsValidValues(t *testing.T) {
	q := url.Values{"limit": {"25"}, "offset": {"75"}}
	limit, offset := PageParams(q)
	require.Equal(t, 25, limit)
	require.Equal(t, 75, offset)
}

func TestPageParamsIgnoresGarbage(t *testing.T) {
	q := url.Values{"limit": {"abc"}, "offset": {"1.5"}}
	limit, offset := PageParams(q)
	require.Equal(t, DefaultPageSize, limit)
	require.Zero(t, offset)
}
