package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"levelup/internal/engine"
)

// LevelUp theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconHero    = "🦸"
	IconSparkle = "✨"
	IconDone    = "✅"
	IconMedal   = "🏅"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconStar    = "⭐"
	IconBoss    = "👾"
	IconEvent   = "🎉"
	IconShop    = "🛒"
	IconGift    = "🎁"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconScroll  = "📜"
	IconLock    = "🔒"
	IconUnlock  = "🔓"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func DifficultyText(d engine.Difficulty) string {
	switch d {
	case engine.DifficultyHard:
		return Bad.Render("difícil")
	case engine.DifficultyMedium:
		return Warn.Render("medio")
	default:
		return Good.Render("fácil")
	}
}

func StatIcon(s engine.StatKey) string {
	switch s {
	case engine.StatINT:
		return "🧠"
	case engine.StatSAB:
		return "📚"
	case engine.StatCAR:
		return "💬"
	case engine.StatRES:
		return "🛡️"
	case engine.StatCRE:
		return "🎨"
	default:
		return "❔"
	}
}

func EventIcon(kind engine.EventKind) string {
	if kind == engine.EventKindBoss {
		return IconBoss
	}
	return IconEvent
}
