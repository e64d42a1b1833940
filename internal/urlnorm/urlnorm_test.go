package urlnorm

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dastarruer/search-engine/internal/crawlerr"
)

func TestResolveAbsolute(t *testing.T) {
	base, err := url.Parse("https://example.com/articles/")
	require.NoError(t, err)

	got, err := Resolve(base, "https://other.com/page")
	require.NoError(t, err)
	require.Equal(t, "https://other.com/page", got)
}

func TestResolveRelative(t *testing.T) {
	base, err := url.Parse("https://example.com/articles/index.html")
	require.NoError(t, err)

	got, err := Resolve(base, "../about")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/about", got)
}

func TestResolveStripsFragment(t *testing.T) {
	base, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	got, err := Resolve(base, "/page#section-2")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/page", got)
}

func TestResolveStripsPassiveQueryParams(t *testing.T) {
	base, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	cases := []struct {
		href string
		want string
	}{
		{"/page?utm_source=newsletter", "https://example.com/page"},
		{"/page?id=42", "https://example.com/page"},
		{"/page?t=1700000000", "https://example.com/page"},
		{"/page?utm_campaign=x&id=1&t=2", "https://example.com/page"},
	}

	for _, tc := range cases {
		got, err := Resolve(base, tc.href)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestResolveKeepsNonPassiveQueryParams(t *testing.T) {
	base, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	got, err := Resolve(base, "/search?q=golang&utm_source=x")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/search?q=golang", got)
}

func TestResolveLowercasesHost(t *testing.T) {
	base, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	got, err := Resolve(base, "https://EXAMPLE.COM/Page")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/Page", got)
}

func TestDomainInvalid(t *testing.T) {
	_, err := Domain("not a url at all::::")
	require.Error(t, err)

	var ce *crawlerr.Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, crawlerr.InvalidDomain, ce.Kind)
}

func TestDomainValid(t *testing.T) {
	d, err := Domain("https://Example.COM/path")
	require.NoError(t, err)
	require.Equal(t, "example.com", d)
}
