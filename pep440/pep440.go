// Package pep440 implements PyPA version parsing, ordering, and
// specifier matching as defined by PEP 440.
//
// It covers the scheme used by project metadata: epochs, release
// segments, pre-releases (a/b/rc), post-releases, and dev releases.
// Local version labels (+local) are parsed and ignored for ordering,
// matching pip behavior for public indexes.
package pep440

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Phase int

const (
	Alpha Phase = iota
	Beta
	RC
)

func (p Phase) String() string {
	switch p {
	case Alpha:
		return "a"
	case Beta:
		return "b"
	case RC:
		return "rc"
	default:
		return "<phase>"
	}
}

type Pre struct {
	Phase  Phase
	Number int
}

type Version struct {
	Epoch   int
	Release []int
	Pre     *Pre
	Post    *int
	Dev     *int
	Local   string

	original string
}

var ErrInvalidVersion = errors.New("invalid PEP 440 version")

// The grammar from the PEP 440 appendix, with named groups trimmed to
// what the ordering rules need.
var versionRe = regexp.MustCompile(`(?i)^v?` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?:[-_.]?(?P<prephase>a|b|c|rc|alpha|beta|pre|preview)[-_.]?(?P<prenum>[0-9]+)?)?` +
	`(?:(?:-(?P<postnum1>[0-9]+))|(?:[-_.]?(?P<postmark>post|rev|r)[-_.]?(?P<postnum2>[0-9]+)?))?` +
	`(?:[-_.]?(?P<devmark>dev)[-_.]?(?P<devnum>[0-9]+)?)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`)

func Parse(v string) (*Version, error) {
	m := versionRe.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	get := func(name string) string {
		return m[versionRe.SubexpIndex(name)]
	}
	res := &Version{original: v}
	if e := get("epoch"); e != "" {
		res.Epoch, _ = strconv.Atoi(e)
	}
	for _, part := range strings.Split(get("release"), ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, v)
		}
		res.Release = append(res.Release, n)
	}
	if phase := get("prephase"); phase != "" {
		pre := &Pre{Phase: normalizePhase(phase)}
		if n := get("prenum"); n != "" {
			pre.Number, _ = strconv.Atoi(n)
		}
		res.Pre = pre
	}
	if n := get("postnum1"); n != "" {
		i, _ := strconv.Atoi(n)
		res.Post = &i
	} else if get("postmark") != "" {
		// A bare "post" marker means post0.
		i, _ := strconv.Atoi(get("postnum2"))
		res.Post = &i
	}
	if get("devmark") != "" {
		i, _ := strconv.Atoi(get("devnum"))
		res.Dev = &i
	}
	res.Local = strings.ToLower(get("local"))
	return res, nil
}

func MustParse(v string) *Version {
	p, err := Parse(v)
	if err != nil {
		panic(err)
	}
	return p
}

func normalizePhase(phase string) Phase {
	switch strings.ToLower(phase) {
	case "a", "alpha":
		return Alpha
	case "b", "beta":
		return Beta
	default: // c, rc, pre, preview
		return RC
	}
}

func (v *Version) Major() int { return v.releaseAt(0) }
func (v *Version) Minor() int { return v.releaseAt(1) }
func (v *Version) Micro() int { return v.releaseAt(2) }

func (v *Version) releaseAt(i int) int {
	if i < len(v.Release) {
		return v.Release[i]
	}
	return 0
}

func (v *Version) IsPrerelease() bool { return v.Pre != nil || v.Dev != nil }

// String renders the normal form: epoch!, dotted release, pre without
// separator, .postN, .devN, +local.
func (v *Version) String() string {
	var b strings.Builder
	if v.Epoch != 0 {
		fmt.Fprintf(&b, "%d!", v.Epoch)
	}
	parts := make([]string, len(v.Release))
	for i, r := range v.Release {
		parts[i] = strconv.Itoa(r)
	}
	b.WriteString(strings.Join(parts, "."))
	if v.Pre != nil {
		fmt.Fprintf(&b, "%s%d", v.Pre.Phase, v.Pre.Number)
	}
	if v.Post != nil {
		fmt.Fprintf(&b, ".post%d", *v.Post)
	}
	if v.Dev != nil {
		fmt.Fprintf(&b, ".dev%d", *v.Dev)
	}
	if v.Local != "" {
		fmt.Fprintf(&b, "+%s", v.Local)
	}
	return b.String()
}

// Sanitized renders epoch!major.minor.micro with -preN/-postN/-devN
// separators, refusing versions that mix pre, post, and dev segments.
func (v *Version) Sanitized() (string, error) {
	set := 0
	for _, ok := range []bool{v.Pre != nil, v.Post != nil, v.Dev != nil} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return "", fmt.Errorf("version %s mixes pre, post, and/or dev numbers", v)
	}
	var b strings.Builder
	if v.Epoch != 0 {
		fmt.Fprintf(&b, "%d!", v.Epoch)
	}
	fmt.Fprintf(&b, "%d.%d.%d", v.Major(), v.Minor(), v.Micro())
	if v.Pre != nil {
		fmt.Fprintf(&b, "-%s%d", v.Pre.Phase, v.Pre.Number)
	}
	if v.Dev != nil {
		fmt.Fprintf(&b, "-dev%d", *v.Dev)
	}
	if v.Post != nil {
		fmt.Fprintf(&b, "-post%d", *v.Post)
	}
	return b.String(), nil
}

// Compare returns -1, 0, or 1. Ordering follows PEP 440: within one
// release number, dev < pre < final < post, with dev sub-ordering
// inside pre and post segments.
func Compare(a, b *Version) int {
	if a.Epoch != b.Epoch {
		return cmpInt(a.Epoch, b.Epoch)
	}
	n := max(len(a.Release), len(b.Release))
	for i := 0; i < n; i++ {
		if c := cmpInt(a.releaseAt(i), b.releaseAt(i)); c != 0 {
			return c
		}
	}
	if c := cmpInt(a.preKey(), b.preKey()); c != 0 {
		return c
	}
	if a.Pre != nil && b.Pre != nil {
		if c := cmpInt(a.Pre.Number, b.Pre.Number); c != 0 {
			return c
		}
	}
	if c := cmpInt(a.postKey(), b.postKey()); c != 0 {
		return c
	}
	return cmpInt(a.devKey(), b.devKey())
}

const infinity = int(^uint(0) >> 1)

// preKey collapses the phase dimension: dev-only releases sort before
// all pre-releases, finals after.
func (v *Version) preKey() int {
	if v.Pre != nil {
		return int(v.Pre.Phase)
	}
	if v.Dev != nil && v.Post == nil {
		return -1
	}
	return infinity
}

func (v *Version) postKey() int {
	if v.Post == nil {
		return -1
	}
	return *v.Post
}

func (v *Version) devKey() int {
	if v.Dev == nil {
		return infinity
	}
	return *v.Dev
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Sort orders versions ascending in place.
func Sort(vs []*Version) {
	for i := 1; i < len(vs); i++ {
		for j := i; j > 0 && Compare(vs[j-1], vs[j]) > 0; j-- {
			vs[j-1], vs[j] = vs[j], vs[j-1]
		}
	}
}

func Max(vs []*Version) *Version {
	var res *Version
	for _, v := range vs {
		if res == nil || Compare(v, res) > 0 {
			res = v
		}
	}
	return res
}

func Min(vs []*Version) *Version {
	var res *Version
	for _, v := range vs {
		if res == nil || Compare(v, res) < 0 {
			res = v
		}
	}
	return res
}
