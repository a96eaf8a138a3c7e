package query

import (
	"fmt"
	"time"

	"github.com/dmyersturnbull/tyranno/ir"
)

func init() {
	Register(&fn{name: "now_utc", source: true,
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			return timeFields(ev.now().UTC()), nil
		}})
	Register(&fn{name: "now_local", source: true,
		apply: func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
			return timeFields(ev.now()), nil
		}})
	Register(&fn{name: "timestamp", maxArgs: 1, source: true, apply: timestamp})
}

// timeFields exposes one instant as an object so templates can pick
// the piece they need (e.g. now_utc().year).
func timeFields(t time.Time) *ir.Node {
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: "year", Val: ir.FromString(fmt.Sprintf("%04d", t.Year()))},
		{Key: "month", Val: ir.FromString(fmt.Sprintf("%02d", t.Month()))},
		{Key: "day", Val: ir.FromString(fmt.Sprintf("%02d", t.Day()))},
		{Key: "hour", Val: ir.FromString(fmt.Sprintf("%02d", t.Hour()))},
		{Key: "minute", Val: ir.FromString(fmt.Sprintf("%02d", t.Minute()))},
		{Key: "second", Val: ir.FromString(fmt.Sprintf("%02d", t.Second()))},
		{Key: "date", Val: ir.FromString(t.Format("2006-01-02"))},
		{Key: "time", Val: ir.FromString(t.Format("15:04:05"))},
		{Key: "rfc_3339", Val: ir.FromString(t.Format(time.RFC3339))},
		{Key: "zone", Val: ir.FromString(t.Format("-07:00"))},
	})
}

// timestamp parses its argument (or the piped value) as RFC 3339 and
// exposes the same fields as now_utc.
func timestamp(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	var s string
	switch {
	case len(args) == 1:
		s = args[0]
	case v != nil && v.Type == ir.StringType:
		s = v.String
	case v != nil && v.Type == ir.TimeType:
		return timeFields(v.Time), nil
	default:
		return nil, fmt.Errorf("%w: timestamp wants an RFC 3339 string", ErrBadArgs)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return timeFields(t), nil
}
