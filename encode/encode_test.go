package encode

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dmyersturnbull/tyranno/format"
	"github.com/dmyersturnbull/tyranno/ir"
)

func TestEncodeYAMLPreservesOrder(t *testing.T) {
	node := ir.FromKeyVals([]ir.KeyVal{
		{Key: "zebra", Val: ir.FromString("z")},
		{Key: "alpha", Val: ir.FromString("a")},
		{Key: "list", Val: ir.FromStrings([]string{"x", "y"})},
	})
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if strings.Index(got, "zebra") > strings.Index(got, "alpha") {
		t.Errorf("field order not preserved:\n%s", got)
	}
	if !strings.Contains(got, "- x") {
		t.Errorf("missing list item:\n%s", got)
	}
}

func TestEncodeJSON(t *testing.T) {
	node, err := ir.FromAny(map[string]any{"a": []any{int64(1), "two"}})
	if err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, EncodeFormat(format.JSONFormat), Indent(2)); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.HasSuffix(got, "\n") {
		t.Error("json output should end with a newline")
	}
	if !strings.Contains(got, `"two"`) {
		t.Errorf("output:\n%s", got)
	}
}

func TestEncodeTOML(t *testing.T) {
	node, err := ir.FromAny(map[string]any{
		"project": map[string]any{"name": "cicada"},
	})
	if err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, EncodeFormat(format.TOMLFormat)); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "[project]") || !strings.Contains(got, `name = "cicada"`) {
		t.Errorf("output:\n%s", got)
	}
	if err := Encode(ir.FromString("x"), bytes.NewBuffer(nil), EncodeFormat(format.TOMLFormat)); err == nil {
		t.Error("toml should reject non-object roots")
	}
}

func TestScalarString(t *testing.T) {
	ts := time.Date(2025, 3, 9, 4, 5, 6, 0, time.UTC)
	tests := []struct {
		name string
		node *ir.Node
		want string
	}{
		{"string unquoted", ir.FromString("hello world"), "hello world"},
		{"bool", ir.FromBool(true), "true"},
		{"int", ir.FromInt(42), "42"},
		{"float", ir.FromFloat(2.5), "2.5"},
		{"null", ir.Null(), "null"},
		{"time", ir.FromTime(ts), "2025-03-09T04:05:06Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScalarString(tt.node)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
	if _, err := ScalarString(ir.FromStrings([]string{"a"})); err == nil {
		t.Error("expected error for container")
	}
}

func TestMustString(t *testing.T) {
	node, err := ir.FromAny(map[string]any{"k": "v"})
	if err != nil {
		t.Fatal(err)
	}
	if got := MustString(node); got != "k: v" {
		t.Errorf("got %q", got)
	}
}
