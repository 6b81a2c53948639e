package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"levelup/internal/app"
	"levelup/internal/engine"
	"levelup/internal/ui"
)

type heroView struct {
	id        string
	name      string
	level     int
	xp        int
	xpMax     int
	weekXP    int
	weekXPMax int
	medals    int
	stats     engine.Stats
	pending   int
	needsPick bool
	window    engine.WindowProgress
}

type challengeRow struct {
	id         string
	title      string
	subject    string
	difficulty engine.Difficulty
	points     int
	done       bool
}

type boardModel struct {
	ctx context.Context
	app *app.App

	width  int
	height int

	heroes  []heroView
	heroIdx int
	rows    []challengeRow

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	heroes []heroView
	rows   map[string][]challengeRow
	err    error
}

type toggledMsg struct {
	title string
	res   engine.ToggleResult
	err   error
}

func newBoardModel(ctx context.Context, a *app.App) boardModel {
	return boardModel{
		ctx:     ctx,
		app:     a,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

// loadCmd snapshots the document into plain view rows so the model never
// holds pointers into the locked tree.
func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		var msg loadedMsg
		msg.rows = map[string][]challengeRow{}
		m.app.View(func(doc *engine.Document, eng *engine.Engine) {
			for _, h := range doc.Heroes {
				hv := heroView{
					id:        h.ID,
					name:      h.Name,
					level:     h.Level,
					xp:        h.XP,
					xpMax:     h.XPMax,
					weekXP:    h.WeekXP,
					weekXPMax: h.WeekXPMax,
					medals:    h.Medals,
					stats:     h.Stats,
					pending:   eng.PendingRewardCount(h),
					window:    eng.WindowProgress(h),
				}
				if head := eng.PeekNextReward(h); head != nil {
					hv.needsPick = head.State() == engine.RewardNeedsAutoStat
				}
				msg.heroes = append(msg.heroes, hv)

				var rows []challengeRow
				for _, ch := range doc.Challenges {
					_, done := h.ChallengeCompletions[ch.ID]
					rows = append(rows, challengeRow{
						id:         ch.ID,
						title:      ch.Title,
						subject:    ch.Subject,
						difficulty: ch.Difficulty,
						points:     ch.Points,
						done:       done,
					})
				}
				msg.rows[h.ID] = rows
			}
		})
		return msg
	}
}

func (m boardModel) toggleCmd(heroID string, row challengeRow) tea.Cmd {
	return func() tea.Msg {
		res, err := m.app.ToggleChallenge(m.ctx, heroID, row.id)
		return toggledMsg{title: row.title, res: res, err: err}
	}
}

func (m boardModel) currentHero() *heroView {
	if len(m.heroes) == 0 {
		return nil
	}
	if m.heroIdx >= len(m.heroes) {
		m.heroIdx = 0
	}
	return &m.heroes[m.heroIdx]
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.heroes = msg.heroes
		if m.heroIdx >= len(m.heroes) {
			m.heroIdx = 0
		}
		if h := m.currentHero(); h != nil {
			m.rows = msg.rows[h.id]
		}
		if m.selected >= len(m.rows) {
			m.selected = len(m.rows) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case toggledMsg:
		if msg.err != nil {
			m.lastLog = "Toggle failed: " + msg.err.Error()
			return m, nil
		}
		if msg.res.Completed {
			m.lastLog = fmt.Sprintf("Completed %q: +%d XP (level %d → %d)", msg.title, msg.res.Awarded, msg.res.LevelBefore, msg.res.LevelAfter)
			if msg.res.LevelAfter > msg.res.LevelBefore {
				m.lastLog += " " + ui.BadgeLevelUp
			}
		} else {
			m.lastLog = fmt.Sprintf("Undid %q: %d XP (level %d → %d)", msg.title, msg.res.Awarded, msg.res.LevelBefore, msg.res.LevelAfter)
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "tab":
			if len(m.heroes) > 1 {
				m.heroIdx = (m.heroIdx + 1) % len(m.heroes)
				m.selected = 0
				m.loading = true
				return m, m.loadCmd()
			}
			return m, nil
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.rows)-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			h := m.currentHero()
			if h == nil || m.selected < 0 || m.selected >= len(m.rows) {
				return m, nil
			}
			row := m.rows[m.selected]
			if row.done {
				m.lastLog = fmt.Sprintf("Undoing %q…", row.title)
			} else {
				m.lastLog = fmt.Sprintf("Completing %q…", row.title)
			}
			return m, m.toggleCmd(h.id, row)
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 28
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	h := m.currentHero()
	if h == nil {
		return "LevelUp — loading…"
	}
	bar := progressBar(h.xp, h.xpMax, 30)
	week := progressBar(h.weekXP, h.weekXPMax, 10)
	return fmt.Sprintf("LevelUp | %s %s | Level %d | XP %d/%d %s | Week %s | %s %d",
		ui.IconHero, h.name, h.level, h.xp, h.xpMax, bar, week, ui.IconMedal, h.medals)
}

func (m boardModel) renderSidebar() string {
	h := m.currentHero()
	if h == nil {
		return "Stats\n\nLoading…"
	}
	lines := []string{"Stats"}
	for _, k := range engine.AllStats {
		lines = append(lines, fmt.Sprintf("- %s %s %s", ui.StatIcon(k), k, progressBar(h.stats.Get(k), engine.StatCap, 10)))
	}
	lines = append(lines, "")
	lines = append(lines, "Rewards")
	if h.pending == 0 {
		lines = append(lines, "- none pending")
	} else if h.needsPick {
		lines = append(lines, fmt.Sprintf("- %d pending (stat pick due)", h.pending))
	} else {
		lines = append(lines, fmt.Sprintf("- %d pending (ready)", h.pending))
	}
	lines = append(lines, "")
	lines = append(lines, "Bonus medal")
	w := h.window
	if w.Eligible {
		lines = append(lines, "- earned this level")
	} else {
		lines = append(lines, fmt.Sprintf("- %d/3 done", w.Total))
		if w.NeedMedium {
			lines = append(lines, "- needs a medium")
		}
		if w.NeedHard {
			lines = append(lines, "- needs a hard")
		}
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- c/space: toggle")
	lines = append(lines, "- tab: next hero")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	out = append(out, "Challenges")
	if len(m.rows) == 0 {
		out = append(out, "(empty)")
		return strings.Join(out, "\n")
	}
	for i, row := range m.rows {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		mark := "☐"
		if row.done {
			mark = ui.IconDone
		}
		out = append(out, fmt.Sprintf("%s%s %s %s [%s, %d XP]",
			cursor, mark, row.title, ui.Muted.Render(row.subject), ui.DifficultyText(row.difficulty), row.points))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
