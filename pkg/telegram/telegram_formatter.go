package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-stock-insight/internal/analyzer/dto"
)

// FormatPipelineSummary formats one analyzer run into a Markdown message.
func FormatPipelineSummary(summary *dto.PipelineSummary) string {
	var sb strings.Builder

	sb.WriteString("📊 *Stock Analysis Run Complete*\n\n")
	sb.WriteString(fmt.Sprintf("✅ Analyzed: %d stocks\n", summary.StocksAnalyzed))
	if summary.Failures > 0 {
		sb.WriteString(fmt.Sprintf("⚠️ Failed: %d stocks\n", summary.Failures))
	}
	sb.WriteString(fmt.Sprintf("🏆 Top pick: `%s`\n", summary.TopInvestment))
	sb.WriteString(fmt.Sprintf("⏱ Duration: %s\n", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second)))

	if len(summary.Shocking.TopIncreases) > 0 {
		sb.WriteString("\n🚀 *Top Predicted Increases:*\n")
		for _, p := range summary.Shocking.TopIncreases {
			sb.WriteString(formatShockingLine(p))
		}
	}
	if len(summary.Shocking.TopDecreases) > 0 {
		sb.WriteString("\n📉 *Top Predicted Decreases:*\n")
		for _, p := range summary.Shocking.TopDecreases {
			sb.WriteString(formatShockingLine(p))
		}
	}

	sb.WriteString(fmt.Sprintf("\n📅 _%s_\n", summary.FinishedAt.Format("2006-01-02 15:04:05")))
	return sb.String()
}

func formatShockingLine(p dto.ShockingPrediction) string {
	arrow := "🟢"
	if p.Direction == "decrease" {
		arrow = "🔴"
	}
	return fmt.Sprintf("%s `%s` %.1f%% over %s ($%.2f → $%.2f)\n",
		arrow, p.Symbol, p.Prediction, p.Timeframe, p.CurrentPrice, p.PredictedPrice)
}
