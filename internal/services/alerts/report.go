package alerts

import (
	"fmt"
	"strings"

	"HealthPull/internal/domain/models"
)

// Report renders active alerts as markdown grouped by severity, with a
// priority action list built from the top recommendations.
func (s *System) Report(alerts []models.HealthAlert) string {
	if len(alerts) == 0 {
		return "✅ No health alerts - all metrics within healthy range!"
	}

	var critical, warning []models.HealthAlert
	for _, a := range alerts {
		switch a.Severity {
		case models.AlertCritical:
			critical = append(critical, a)
		case models.AlertWarning:
			warning = append(warning, a)
		}
	}

	lines := []string{
		"# 🚨 Health Alerts",
		"",
		fmt.Sprintf("**Active Alerts:** %d (%d critical, %d warnings)", len(alerts), len(critical), len(warning)),
		"",
	}

	if len(critical) > 0 {
		lines = append(lines,
			"## 🔴 CRITICAL ALERTS",
			"",
			"*Immediate attention required*",
			"",
		)
		for _, a := range critical {
			lines = append(lines, fmt.Sprintf("### %s", a.Title), "", fmt.Sprintf("**%s**", a.Message), "")
			if a.MetricValue != nil && a.Threshold != nil {
				lines = append(lines,
					fmt.Sprintf("- Current: %.1f", *a.MetricValue),
					fmt.Sprintf("- Threshold: %.1f", *a.Threshold),
					"",
				)
			}
			if a.Recommendation != "" {
				lines = append(lines, "**Action Required:**", a.Recommendation, "")
			}
			lines = append(lines, "---", "")
		}
	}

	if len(warning) > 0 {
		lines = append(lines,
			"## 🟡 WARNINGS",
			"",
			"*Monitor closely and take action*",
			"",
		)
		for _, a := range warning {
			lines = append(lines, fmt.Sprintf("### %s", a.Title), "", a.Message, "")
			if a.MetricValue != nil && a.Threshold != nil {
				lines = append(lines,
					fmt.Sprintf("- Current: %.1f", *a.MetricValue),
					fmt.Sprintf("- Threshold: %.1f", *a.Threshold),
					"",
				)
			}
			if a.Recommendation != "" {
				lines = append(lines, "**Recommendation:**", a.Recommendation, "")
			}
			lines = append(lines, "---", "")
		}
	}

	lines = append(lines, "## 💡 Priority Actions", "")

	if len(critical) > 0 {
		lines = append(lines, "**Immediate (Critical):**")
		for i, a := range top3(critical) {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, a.Recommendation))
		}
		lines = append(lines, "")
	}
	if len(warning) > 0 {
		lines = append(lines, "**This Week (Warnings):**")
		for i, a := range top3(warning) {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, a.Recommendation))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"",
		"*💡 Tip: Address critical alerts immediately. Warnings should be resolved within 3-5 days.*",
		"",
	)

	return strings.Join(lines, "\n")
}

func top3(alerts []models.HealthAlert) []models.HealthAlert {
	if len(alerts) > 3 {
		return alerts[:3]
	}
	return alerts
}
