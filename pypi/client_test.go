package pypi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const releasesJSON = `{
	"info": {"name": "cicada", "summary": "a bug", "license": "Apache-2.0"},
	"releases": {
		"0.9": [{"yanked": false}],
		"1.0": [{"yanked": false}, {"yanked": false}],
		"1.1": [{"yanked": true}],
		"1.2rc1": [{"yanked": false}],
		"2.0": [{"yanked": false}],
		"bogus": [{"yanked": false}],
		"empty": []
	}
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient()
	c.BaseURL = srv.URL
	c.SPDXBaseURL = srv.URL
	return c
}

func TestVersions(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pypi/cicada/json", r.URL.Path)
		w.Write([]byte(releasesJSON))
	})
	got, err := c.Versions(context.Background(), "Cicada")
	require.NoError(t, err)
	// Yanked (1.1) and unparseable keys are dropped; order is ascending.
	want := []string{"0.9", "1.0", "1.2rc1", "2.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Versions (-want +got):\n%s", diff)
	}
}

func TestData(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(releasesJSON))
	})
	info, err := c.Data(context.Background(), "cicada")
	require.NoError(t, err)
	lic := info.GetKey("license")
	require.NotNil(t, lic)
	require.Equal(t, "Apache-2.0", lic.String)
}

func TestLicense(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Apache-2.0.json", r.URL.Path)
		w.Write([]byte(`{"licenseId": "Apache-2.0", "name": "Apache License 2.0"}`))
	})
	detail, err := c.License(context.Background(), "Apache-2.0")
	require.NoError(t, err)
	require.Equal(t, "Apache License 2.0", detail.GetKey("name").String)
}

func TestHTTPErrors(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := c.Versions(context.Background(), "nope")
	require.Error(t, err)
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Foo.Bar":    "foo-bar",
		"foo__bar":   "foo-bar",
		"  Typing ":  "typing",
		"a-b_c.d":    "a-b-c-d",
	}
	for in, want := range cases {
		if got := normalizeName(in); got != want {
			t.Errorf("normalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRequirement(t *testing.T) {
	r, err := ParseRequirement(`numpy[fft, linalg] >=1.26,<3 ; python_version > "3.10"`)
	require.NoError(t, err)
	require.Equal(t, "numpy", r.Name)
	require.Equal(t, []string{"fft", "linalg"}, r.Extras)
	require.Equal(t, `python_version > "3.10"`, r.Marker)
	require.Equal(t, ">=1.26,<3", r.Spec.String())

	r, err = ParseRequirement("requests")
	require.NoError(t, err)
	require.Equal(t, "requests", r.Name)
	require.Empty(t, r.Spec)

	_, err = ParseRequirement("")
	require.Error(t, err)
	_, err = ParseRequirement(">=1.0")
	require.Error(t, err)
}

func TestCheck(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(releasesJSON))
	})
	reports, err := c.Check(context.Background(), []string{"cicada >=0.9,<1.1"})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, "1.0", reports[0].Matching)
	require.Equal(t, "2.0", reports[0].Latest)
	require.True(t, reports[0].Outdated())
}
