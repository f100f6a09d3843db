package cli

import (
	"context"
	"fmt"
	"strings"
)

const metricsPrefix = "collabnotes_"

// Stats prints the client's own metrics. "stats all" includes the Go
// runtime collectors.
func (a *App) Stats(_ context.Context, args []string) error {
	all := len(args) > 0 && args[0] == "all"

	families, err := a.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tw := newTable(a.out)
	for _, mf := range families {
		if !all && !strings.HasPrefix(mf.GetName(), metricsPrefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			var v float64
			switch {
			case m.Counter != nil:
				v = m.GetCounter().GetValue()
			case m.Gauge != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%g\n", mf.GetName(), strings.Join(labels, ","), v)
		}
	}
	return tw.Flush()
}
