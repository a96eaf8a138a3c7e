package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/scott-cotton/cli"

	"github.com/dmyersturnbull/tyranno/pypi"
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func report(t *testing.T, raw, matching, latest string) *pypi.Report {
	t.Helper()
	req, err := pypi.ParseRequirement(raw)
	if err != nil {
		t.Fatal(err)
	}
	return &pypi.Report{Req: req, Matching: matching, Latest: latest}
}

func TestUpdatedRequirement(t *testing.T) {
	tests := []struct {
		name string
		rep  *pypi.Report
		want string
	}{
		{
			name: "plain",
			rep:  report(t, "numpy >=1.0", "1.2", "2.0"),
			want: "numpy >=2.0",
		},
		{
			name: "extras kept",
			rep:  report(t, "httpx[http2] >=0.20", "0.27", "0.28"),
			want: "httpx[http2] >=0.28",
		},
		{
			name: "marker kept",
			rep:  report(t, `tomli >=1.0 ; python_version < "3.11"`, "1.2", "2.2"),
			want: `tomli >=2.2 ; python_version < "3.11"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := updatedRequirement(tt.rep); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteMergePatch(t *testing.T) {
	declared := []string{"numpy >=1.0", "scipy >=1.0"}
	reports := []*pypi.Report{
		report(t, declared[0], "1.2", "2.0"),
		report(t, declared[1], "1.5", "1.5"),
	}
	buf := bytes.NewBuffer(nil)
	cc := &cli.Context{Out: nopWriteCloser{buf}}
	if err := writeMergePatch(cc, declared, reports); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, `"numpy >=2.0"`) {
		t.Errorf("patch should bump numpy:\n%s", got)
	}
	if !strings.Contains(got, `"scipy >=1.0"`) {
		t.Errorf("patch replaces the whole dependencies array:\n%s", got)
	}
}

func TestWriteMergePatchNoChanges(t *testing.T) {
	declared := []string{"numpy >=1.0"}
	reports := []*pypi.Report{report(t, declared[0], "1.2", "1.2")}
	buf := bytes.NewBuffer(nil)
	if err := writeMergePatch(&cli.Context{Out: nopWriteCloser{buf}}, declared, reports); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "{}" {
		t.Errorf("got %q, want empty patch", buf.String())
	}
}

func TestVerbosity(t *testing.T) {
	tests := []struct {
		name string
		cfg  MainConfig
		want int
	}{
		{"default", MainConfig{}, 0},
		{"verbose", MainConfig{Verbose: true}, 1},
		{"quiet", MainConfig{Quiet: true}, -1},
		{"both cancel", MainConfig{Verbose: true, Quiet: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.verbosity(); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDirDefault(t *testing.T) {
	if got := (&MainConfig{}).dir(); got != "." {
		t.Errorf("got %q", got)
	}
	if got := (&MainConfig{Dir: "/x"}).dir(); got != "/x" {
		t.Errorf("got %q", got)
	}
}
