package anomaly

import (
	"fmt"
	"sort"
	"strings"

	"HealthPull/internal/domain/models"
	"HealthPull/pkg/util"
)

var severityRank = map[models.Severity]int{
	models.SeverityHigh:   0,
	models.SeverityMedium: 1,
	models.SeverityLow:    2,
}

func severityEmoji(s models.Severity) string {
	switch s {
	case models.SeverityHigh:
		return "🔴"
	case models.SeverityMedium:
		return "🟡"
	case models.SeverityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

// Report renders anomalies as a markdown summary, most severe first.
func (d *Detector) Report(anomalies []models.AnomalySignal) string {
	if len(anomalies) == 0 {
		return "✅ No significant anomalies detected"
	}

	sorted := make([]models.AnomalySignal, len(anomalies))
	copy(sorted, anomalies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return severityRank[sorted[i].Severity] < severityRank[sorted[j].Severity]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "## ⚠️ Anomalies Detected (%d)\n\n", len(anomalies))

	for _, a := range sorted {
		fmt.Fprintf(&b, "### %s %s\n\n", severityEmoji(a.Severity), util.TitleMetric(a.Metric))
		fmt.Fprintf(&b, "%s\n\n", a.Message)

		if a.BaselineMean != nil {
			pct := 0.0
			if a.DeviationPct != nil {
				pct = *a.DeviationPct
			}
			fmt.Fprintf(&b, "- **Current:** %.1f\n", a.Current)
			fmt.Fprintf(&b, "- **Baseline:** %.1f\n", *a.BaselineMean)
			fmt.Fprintf(&b, "- **Change:** %+.1f (%+.1f%%)\n\n", a.Deviation, pct)
		}

		if len(a.PossibleCauses) > 0 {
			b.WriteString("**Possible causes:**\n")
			for _, cause := range a.PossibleCauses {
				fmt.Fprintf(&b, "- %s\n", cause)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
