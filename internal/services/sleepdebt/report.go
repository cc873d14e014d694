package sleepdebt

import (
	"fmt"
	"strings"

	"HealthPull/internal/domain/models"
)

var methodLabels = map[string]string{
	models.NeedMethodReadiness:  "📈 Readiness Correlation (most accurate)",
	models.NeedMethodSleepScore: "⭐ Sleep Score Correlation",
	models.NeedMethodPercentile: "📊 Duration Percentile (75th)",
	models.NeedMethodNightOwl:   "🦉 Night Owl Default",
	models.NeedMethodUser:       "👤 User-Specified",
}

// Report analyzes the window and renders the full markdown debt report
// with severity, recovery plan and a 14-day timeline.
func (t *Tracker) Report(sleep []models.SleepRecord, readiness []models.ReadinessRecord, lookbackDays int) string {
	analysis := t.AnalyzeDebt(sleep, readiness, lookbackDays)

	if analysis.Status == models.DebtStatusNoData {
		return "⚠️ No sleep data available for debt analysis"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 💤 Sleep Debt Analysis (%d days)\n\n", lookbackDays)

	sev := analysis.Severity
	fmt.Fprintf(&b, "## %s Status: %s\n\n", sev.Emoji, strings.ToUpper(sev.Level))
	fmt.Fprintf(&b, "**%s**\n\n", sev.Description)

	b.WriteString("## 📊 Key Metrics\n\n")
	fmt.Fprintf(&b, "- **Total Sleep Debt:** %.1f hours\n", analysis.TotalDebtHours)
	fmt.Fprintf(&b, "- **Average Daily Deficit:** %.1f hours\n", analysis.AvgDailyDeficitHours)
	fmt.Fprintf(&b, "- **Days in Debt:** %d/%d\n", analysis.DaysInDebt, analysis.DaysAnalyzed)
	fmt.Fprintf(&b, "- **Days with Surplus:** %d/%d\n", analysis.DaysSurplus, analysis.DaysAnalyzed)

	if analysis.PersonalTargetUsed {
		label, ok := methodLabels[analysis.DetectionMethod]
		if !ok {
			label = analysis.DetectionMethod
		}
		fmt.Fprintf(&b, "- **Personal Sleep Need:** %.1f hours/night\n", analysis.OptimalSleepHours)
		fmt.Fprintf(&b, "  *(Calculated using %s)*\n\n", label)
	} else {
		fmt.Fprintf(&b, "- **Sleep Target:** %.1f hours/night (standard)\n\n", analysis.OptimalSleepHours)
	}

	b.WriteString("## 🎯 Impact on Performance\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", sev.Impact)

	if sev.Level == "elevated" || sev.Level == "severe" || sev.Level == "critical" {
		b.WriteString("### Potential Effects:\n")
		b.WriteString("- 🧠 Reduced cognitive performance and reaction time\n")
		b.WriteString("- 😰 Increased stress and emotional reactivity\n")
		b.WriteString("- 💪 Decreased physical performance and recovery\n")
		if sev.Level == "severe" || sev.Level == "critical" {
			b.WriteString("- 🏥 Weakened immune system\n")
			b.WriteString("- ⚖️ Impaired metabolism and weight regulation\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## 🔄 Recovery Plan\n\n")
	if analysis.RecoveryDaysEstimate == 0 {
		b.WriteString("✅ **No recovery needed** - you're well rested!\n\n")
	} else {
		fmt.Fprintf(&b, "**Estimated Recovery Time:** %d days\n\n", analysis.RecoveryDaysEstimate)
		b.WriteString("### Recommended Actions:\n")
		switch sev.Level {
		case "minimal", "mild":
			b.WriteString("1. **Maintain Schedule:** Keep consistent sleep/wake times\n")
			b.WriteString("2. **Add 30 minutes:** Go to bed 30 minutes earlier tonight\n")
			b.WriteString("3. **Weekend Catch-up:** Allow 1 extra hour on weekend nights\n\n")
		case "moderate":
			b.WriteString("1. **Priority Recovery:** Make sleep your #1 priority\n")
			b.WriteString("2. **Add 1 hour:** Go to bed 1 hour earlier consistently\n")
			b.WriteString("3. **Weekend Extension:** Add 1-2 extra hours on weekends\n")
			b.WriteString("4. **Optimize Environment:** Dark, cool bedroom (65-68°F)\n\n")
		case "elevated":
			b.WriteString("1. **Immediate Priority:** Focus on sleep recovery this week\n")
			b.WriteString("2. **Add 1-2 hours:** Go to bed significantly earlier\n")
			b.WriteString("3. **Weekend Recovery:** Sleep in as much as needed\n")
			b.WriteString("4. **Reduce Commitments:** Cut non-essential activities\n")
			b.WriteString("5. **Strategic Naps:** 20-30 minute power naps if needed\n\n")
		default:
			b.WriteString("1. **⚠️ IMMEDIATE ACTION:** Clear your schedule for sleep\n")
			b.WriteString("2. **Add 2-3 hours:** Go to bed much earlier every night\n")
			b.WriteString("3. **Weekend Recovery:** Sleep in as much as possible\n")
			b.WriteString("4. **Professional Help:** Consider consulting a sleep specialist\n")
			b.WriteString("5. **Reduce All Stress:** Cancel non-critical commitments\n")
			b.WriteString("6. **Strategic Naps:** 60-90 minute naps if needed\n\n")
		}
	}

	timeline := analysis.DebtOverTime
	if len(timeline) > 14 {
		timeline = timeline[len(timeline)-14:]
	}
	b.WriteString(formatTimeline(timeline))

	b.WriteString("## 💡 Sleep Optimization Tips\n\n")
	b.WriteString("1. **Consistency:** Same bedtime/wake time every day (±30 min)\n")
	b.WriteString("2. **Environment:** Dark, cool (65-68°F), quiet bedroom\n")
	b.WriteString("3. **Pre-sleep Routine:** 30-60 min wind-down period\n")
	b.WriteString("4. **Avoid:**\n")
	b.WriteString("   - Caffeine after 2 PM\n")
	b.WriteString("   - Screens 1 hour before bed\n")
	b.WriteString("   - Heavy meals within 3 hours of sleep\n")
	b.WriteString("   - Alcohol (disrupts deep sleep)\n")
	b.WriteString("5. **Exercise:** Regular activity, but not within 3 hours of bed\n\n")

	return b.String()
}

// formatTimeline renders the accumulation walk as a fixed-width table
// with a bar per half hour of standing debt.
func formatTimeline(days []models.DebtDay) string {
	var b strings.Builder
	b.WriteString("## 📈 Recent Debt Timeline (Last 14 Days)\n\n")
	b.WriteString("```\n")
	b.WriteString("Day         Sleep   Deficit   Accumulated Debt\n")
	b.WriteString("-----------------------------------------------\n")

	for _, d := range days {
		day := d.Day
		if len(day) > 5 {
			day = day[len(day)-5:]
		}
		barLen := int(d.AccumulatedDebt / 0.5)
		if barLen > 20 {
			barLen = 20
		}
		bar := strings.Repeat("█", barLen)
		deficitStr := fmt.Sprintf("%+.1fh", d.Deficit)
		fmt.Fprintf(&b, "%-10s  %4.1fh  %-8s  %4.1fh %s\n", day, d.SleepHours, deficitStr, d.AccumulatedDebt, bar)
	}

	b.WriteString("```\n\n")
	return b.String()
}
