// Package pypi fetches package metadata from the PyPI JSON API and
// license metadata from the SPDX license list.
package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmyersturnbull/tyranno/debug"
	"github.com/dmyersturnbull/tyranno/ir"
	"github.com/dmyersturnbull/tyranno/pep440"
)

const (
	DefaultBaseURL     = "https://pypi.org"
	DefaultSPDXBaseURL = "https://raw.githubusercontent.com/spdx/license-list-data/main/json/details"
)

type Client struct {
	BaseURL     string
	SPDXBaseURL string
	HTTP        *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		SPDXBaseURL: DefaultSPDXBaseURL,
		HTTP:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if debug.Pypi() {
		debug.Logf("GET %s\n", u)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Versions returns the non-yanked release versions of a package,
// ascending per PEP 440. Unparseable version keys are skipped.
func (c *Client) Versions(ctx context.Context, pkg string) ([]string, error) {
	d, err := c.get(ctx, c.BaseURL+"/pypi/"+url.PathEscape(normalizeName(pkg))+"/json")
	if err != nil {
		return nil, err
	}
	var payload struct {
		Releases map[string][]struct {
			Yanked bool `json:"yanked"`
		} `json:"releases"`
	}
	if err := json.Unmarshal(d, &payload); err != nil {
		return nil, err
	}
	var vs []*pep440.Version
	for version, files := range payload.Releases {
		if len(files) == 0 {
			continue
		}
		yanked := true
		for _, f := range files {
			if !f.Yanked {
				yanked = false
				break
			}
		}
		if yanked {
			continue
		}
		v, err := pep440.Parse(version)
		if err != nil {
			continue
		}
		vs = append(vs, v)
	}
	pep440.Sort(vs)
	res := make([]string, len(vs))
	for i, v := range vs {
		res[i] = v.String()
	}
	return res, nil
}

// Data returns the package's "info" object as a node.
func (c *Client) Data(ctx context.Context, pkg string) (*ir.Node, error) {
	d, err := c.get(ctx, c.BaseURL+"/pypi/"+url.PathEscape(normalizeName(pkg))+"/json")
	if err != nil {
		return nil, err
	}
	var payload struct {
		Info map[string]any `json:"info"`
	}
	if err := json.Unmarshal(d, &payload); err != nil {
		return nil, err
	}
	return ir.FromAny(payload.Info)
}

// License returns the SPDX license detail record for an identifier.
func (c *Client) License(ctx context.Context, id string) (*ir.Node, error) {
	d, err := c.get(ctx, c.SPDXBaseURL+"/"+url.PathEscape(id)+".json")
	if err != nil {
		return nil, err
	}
	var detail map[string]any
	if err := json.Unmarshal(d, &detail); err != nil {
		return nil, err
	}
	return ir.FromAny(detail)
}

// normalizeName applies PyPA name normalization: lowercase, with runs
// of '-', '_', and '.' collapsed to a single '-'.
func normalizeName(pkg string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(pkg)) {
		if r == '-' || r == '_' || r == '.' {
			if !prevDash {
				b.WriteByte('-')
			}
			prevDash = true
			continue
		}
		prevDash = false
		b.WriteRune(r)
	}
	return b.String()
}
