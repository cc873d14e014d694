package correlate

import (
	"fmt"
	"strings"

	"HealthPull/internal/domain/models"
	"HealthPull/pkg/util"
)

// Report renders a correlation result as markdown. Insufficient-data
// results render their reason alone.
func (e *Engine) Report(r models.CorrelationResult) string {
	if r.Insufficient {
		return r.Reason
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# 📊 Correlation Analysis (%d days)\n\n", r.Days)
	b.WriteString("**Metrics:**\n")
	fmt.Fprintf(&b, "- %s\n", util.TitleMetric(r.Metric1))
	fmt.Fprintf(&b, "- %s\n\n", util.TitleMetric(r.Metric2))

	b.WriteString("## Results\n")
	fmt.Fprintf(&b, "%s **Correlation:** %+.3f\n", r.Emoji, r.Coefficient)
	fmt.Fprintf(&b, "**Strength:** %s\n", r.Strength)
	fmt.Fprintf(&b, "**Direction:** %s\n", r.Direction)
	fmt.Fprintf(&b, "**Data Points:** %d\n\n", r.DataPoints)

	b.WriteString("## Interpretation\n")
	abs := r.Coefficient
	if abs < 0 {
		abs = -abs
	}
	if abs > 0.5 {
		fmt.Fprintf(&b, "These metrics show a %s %s relationship.\n", strings.ToLower(r.Strength), r.Direction)
		if r.Coefficient > 0 {
			fmt.Fprintf(&b, "When %s increases, %s tends to increase as well.\n", r.Metric1, r.Metric2)
		} else {
			fmt.Fprintf(&b, "When %s increases, %s tends to decrease.\n", r.Metric1, r.Metric2)
		}
	} else {
		b.WriteString("These metrics show little to no clear relationship.\n")
	}

	b.WriteString("\n## Statistics\n")
	writeStats(&b, r.Metric1, r.Stats1)
	b.WriteString("\n")
	writeStats(&b, r.Metric2, r.Stats2)

	return b.String()
}

func writeStats(b *strings.Builder, metric string, s models.MetricStats) {
	fmt.Fprintf(b, "**%s:**\n", util.TitleMetric(metric))
	fmt.Fprintf(b, "- Mean: %.1f\n", s.Mean)
	fmt.Fprintf(b, "- Std Dev: %.1f\n", s.StdDev)
	fmt.Fprintf(b, "- Range: %.1f - %.1f\n", s.Min, s.Max)
}
