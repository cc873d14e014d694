package illness

import (
	"fmt"
	"sort"
	"strings"

	"HealthPull/internal/domain/models"
	"HealthPull/pkg/util"
)

var riskEmoji = map[models.IllnessRiskLevel]string{
	models.RiskCritical: "🚨",
	models.RiskHigh:     "⚠️",
	models.RiskElevated: "🟡",
	models.RiskNormal:   "✅",
}

var patternNames = map[string]string{
	"classic_infection":     "Classic Infection Pattern",
	"respiratory_infection": "Respiratory Infection",
	"stress_overtraining":   "Stress/Overtraining",
	"early_infection":       "Early Stage Infection",
	"unknown_pattern":       "Unknown Pattern",
}

// Report renders a markdown early-warning summary with per-signal
// severity bars and the baseline reference block.
func (d *Detector) Report(a models.IllnessAssessment) string {
	var lines []string

	lines = append(lines,
		"# 🌡️ Illness Detection Report",
		"",
		fmt.Sprintf("## %s Risk Level: %s", riskEmoji[a.RiskLevel], strings.ToUpper(string(a.RiskLevel))),
		"",
		fmt.Sprintf("**Risk Score:** %.0f/100", a.RiskScore),
		fmt.Sprintf("**Confidence:** %.0f%%", a.Confidence),
		"",
	)

	if a.Pattern != "" {
		name, ok := patternNames[a.Pattern]
		if !ok {
			name = a.Pattern
		}
		lines = append(lines, fmt.Sprintf("**Pattern:** %s", name), "")
	}

	if len(a.Signals) > 0 {
		lines = append(lines, "## 📊 Warning Signals Detected", "")

		sorted := make([]models.IllnessSignal, len(a.Signals))
		copy(sorted, a.Signals)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Severity > sorted[j].Severity
		})

		for _, s := range sorted {
			bar := strings.Repeat("█", int(s.Severity*10))
			lines = append(lines,
				fmt.Sprintf("### %s", util.TitleMetric(s.SignalType)),
				fmt.Sprintf("**Severity:** %s %.0f%%", bar, s.Severity*100),
				fmt.Sprintf("**%s**", s.Message),
				fmt.Sprintf("- Current: %.1f", s.Value),
				fmt.Sprintf("- Baseline: %.1f", s.Baseline),
				fmt.Sprintf("- Deviation: %+.1f", s.Deviation),
				"",
			)
		}
	}

	lines = append(lines, "## 💡 Recommendation", "", a.Recommendation, "")

	if hasBaselines(a.Baselines) {
		lines = append(lines,
			"## 📏 Your Baselines",
			"",
			"*30-day averages for comparison:*",
			"",
		)
		b := a.Baselines
		if b.Temperature != nil {
			lines = append(lines, fmt.Sprintf("- Body Temperature Score: %.0f/100", *b.Temperature))
		}
		if b.HRV != nil {
			lines = append(lines, fmt.Sprintf("- HRV Balance: %.0f", *b.HRV))
		}
		if b.RestingHR != nil {
			lines = append(lines, fmt.Sprintf("- Resting HR: %.0f bpm", *b.RestingHR))
		}
		if b.RespiratoryRate != nil {
			lines = append(lines, fmt.Sprintf("- Respiratory Rate: %.1f br/min", *b.RespiratoryRate))
		}
		if b.RecoveryScore != nil {
			lines = append(lines, fmt.Sprintf("- Recovery Score: %.0f", *b.RecoveryScore))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"---",
		"",
		"*💡 Tip: Early detection allows you to rest before symptoms worsen, potentially reducing illness duration.*",
		"",
	)

	return strings.Join(lines, "\n")
}

func hasBaselines(b models.IllnessBaselines) bool {
	return b.Temperature != nil || b.HRV != nil || b.RestingHR != nil ||
		b.RespiratoryRate != nil || b.RecoveryScore != nil
}
