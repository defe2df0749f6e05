package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/randomtoy/oracle-go/internal/orb"
)

// Mystical palette.
var (
	Night    = lipgloss.Color("#1b1433")
	Violet   = lipgloss.Color("#8b5cf6")
	Lavender = lipgloss.Color("#c4b5fd")
	Gold     = lipgloss.Color("#facc15")
	Smoke    = lipgloss.Color("#9ca3af")
	Ember    = lipgloss.Color("#f97316")
	Danger   = lipgloss.Color("#ef4444")
)

type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Input    lipgloss.Style
	Counter  lipgloss.Style
	Help     lipgloss.Style
	Notice   lipgloss.Style
	Card     lipgloss.Style
	CardHead lipgloss.Style
	Question lipgloss.Style
	Answer   lipgloss.Style
	Orb      map[orb.Phase]lipgloss.Style
}

func DefaultStyles() Styles {
	base := lipgloss.NewStyle().Bold(true)
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Gold),
		Subtitle: lipgloss.NewStyle().Foreground(Lavender).Italic(true),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Violet).
			Padding(0, 1),
		Counter: lipgloss.NewStyle().Foreground(Smoke),
		Help:    lipgloss.NewStyle().Foreground(Smoke).Faint(true),
		Notice:  lipgloss.NewStyle().Foreground(Danger).Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Gold).
			Padding(1, 2),
		CardHead: lipgloss.NewStyle().Foreground(Gold).Bold(true),
		Question: lipgloss.NewStyle().Foreground(Lavender),
		Answer:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")),
		Orb: map[orb.Phase]lipgloss.Style{
			orb.Idle:      base.Foreground(Violet),
			orb.Shake:     base.Foreground(Lavender),
			orb.Glow:      base.Foreground(Gold),
			orb.Smoke:     base.Foreground(Smoke),
			orb.Explosion: base.Foreground(Ember),
		},
	}
}

var orbArt = map[orb.Phase]string{
	orb.Idle:      "   .-\"\"-.\n  /      \\\n |   ◯    |\n  \\      /\n   '-..-'",
	orb.Shake:     "  ~.-\"\"-.~\n ~/      \\~\n~|   ◯    |~\n ~\\      /~\n  ~'-..-'~",
	orb.Glow:      " ✦ .-\"\"-. ✦\n  /  ✧✧  \\\n |   ◉    |\n  \\  ✧✧  /\n ✦ '-..-' ✦",
	orb.Smoke:     " ░░.-\"\"-.░░\n ░/ ░░░░ \\░\n░|  ░◉░   |░\n ░\\ ░░░░ /░\n ░░'-..-'░░",
	orb.Explosion: " \\  ✺  ✺  /\n ✺  \\ | /  ✺\n  ── ✺✺ ──\n ✺  / | \\  ✺\n /  ✺  ✺  \\",
}

// RenderOrb draws the orb for a phase.
func (s Styles) RenderOrb(p orb.Phase) string {
	art, ok := orbArt[p]
	if !ok {
		art = orbArt[orb.Idle]
	}
	return s.Orb[p].Render(art)
}

// RenderAnswerCard draws a revealed answer.
func (s Styles) RenderAnswerCard(question, answer string) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		s.CardHead.Render("솜라고동의 답변"),
		"",
		s.Question.Render("Q. "+question),
		"",
		s.Answer.Render(answer),
	)
	return s.Card.Render(body)
}

// RenderFortuneCard draws a daily or instant fortune.
func (s Styles) RenderFortuneCard(title, fortune string) string {
	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.CardHead.Render(title),
		"",
		s.Answer.Render(fortune),
	))
}
