package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	togglePrefix = "t"
	// Telegram rejects inline keyboards with more than 100 buttons.
	maxKeyboardItems = 100
	maxButtonLabel   = 32
)

// formatShoppingList renders the list grouped by category, in list order.
func formatShoppingList(list *shopping.List) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 <b>Lista zakupów</b> (tydzień od %s)\n", planner.FormatWeek(list.WeekStart)))

	if len(list.Items) == 0 {
		sb.WriteString("\n<i>Lista jest pusta. Zaplanuj posiłki i użyj /odswiez.</i>\n")
		return sb.String()
	}

	category := ""
	for i, it := range list.Items {
		if i == 0 || it.CategoryName != category {
			category = it.CategoryName
			sb.WriteString(fmt.Sprintf("\n<b>%s</b>\n", html.EscapeString(category)))
		}

		mark := "⬜"
		if it.Checked {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %s", mark, html.EscapeString(it.Name)))
		if amount := strings.TrimSpace(it.Quantity + " " + it.Unit); amount != "" {
			sb.WriteString(": " + html.EscapeString(amount))
		}
		if len(it.RecipeSources) > 0 {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(strings.Join(it.RecipeSources, ", "))))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\nZostało do kupienia: %d z %d\n", len(list.Remaining()), len(list.Items)))
	return sb.String()
}

// listKeyboard builds one toggle button per item, two per row. It returns
// nil for an empty list.
func listKeyboard(list *shopping.List) *tgbotapi.InlineKeyboardMarkup {
	if len(list.Items) == 0 {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, it := range list.Items {
		if i == maxKeyboardItems {
			break
		}
		label := "⬜ " + truncate(it.Name, maxButtonLabel)
		if it.Checked {
			label = "✅ " + truncate(it.Name, maxButtonLabel)
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, toggleData(list.WeekStart, it.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func toggleData(week time.Time, itemID string) string {
	return togglePrefix + "|" + planner.FormatWeek(week) + "|" + itemID
}

func parseToggleData(data string) (time.Time, string, bool) {
	parts := strings.SplitN(data, "|", 3)
	if len(parts) != 3 || parts[0] != togglePrefix || parts[2] == "" {
		return time.Time{}, "", false
	}
	week, err := planner.ParseWeek(parts[1])
	if err != nil {
		return time.Time{}, "", false
	}
	return week, parts[2], true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatMetricsReport(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 <b>Usage &amp; Health Report</b>\n\n")

	sb.WriteString("🗓 <b>Recent Activity</b>\n")
	if len(usage) == 0 {
		sb.WriteString("<i>No data yet</i>\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• <b>%s</b>: %d refreshes, %d imports, %d items (avg %dms)\n",
			d.Date, d.Refreshes, d.Imports, d.TotalItems, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 <b>System Health</b>\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• GC cycles: %d\n", health.NumGC))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}
