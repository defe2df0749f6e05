// Package tui is the interactive oracle form: type a question, watch the orb,
// read the answer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomtoy/oracle-go/internal/adapters/oracleclient"
	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/orb"
	"github.com/randomtoy/oracle-go/internal/ports"
)

const (
	titleError        = "오류가 발생했습니다"
	msgAskFailed      = "질문 처리 중 문제가 발생했습니다"
	msgFortuneFailed  = "운세를 가져오는 중 문제가 발생했습니다"
	titleDailyFortune = "🌙 오늘의 운세"
	titleInstant      = "✨ 즉석 운세"
)

// Oracle is the part of the API client the form needs.
type Oracle interface {
	Ask(ctx context.Context, question string) (oracleclient.Answer, error)
	DailyFortune(ctx context.Context) (string, error)
}

type Options struct {
	Oracle         Oracle
	Phrases        ports.PhraseSource
	RNG            domain.RNG
	Sequence       orb.Sequence
	RequestTimeout time.Duration
}

type keyMap struct {
	Submit  key.Binding
	OrbTap  key.Binding
	Daily   key.Binding
	Instant key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "질문하기")),
		OrbTap:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "구슬 누르기")),
		Daily:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "오늘의 운세")),
		Instant: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "즉석 운세")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "종료")),
	}
}

// Messages produced by commands.
type (
	answerMsg struct{ answer oracleclient.Answer }
	askErrMsg struct{ err error }
	fortuneMsg struct {
		fortune string
		err     error
	}
	orbTickMsg struct{}
)

type Model struct {
	opts     Options
	keys     keyMap
	styles   Styles
	textarea textarea.Model
	spinner  spinner.Model
	machine  *orb.Machine

	// busy is set from submit until the form is ready again: it covers the
	// request and, on success, the whole orb sequence.
	busy    bool
	pending *oracleclient.Answer

	answer       *oracleclient.Answer
	fortuneTitle string
	fortune      string
	notice       string
	noticeDetail string
	width        int
}

func New(opts Options) Model {
	if opts.Sequence == nil {
		opts.Sequence = orb.DefaultSequence
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	styles := DefaultStyles()

	ta := textarea.New()
	ta.Placeholder = "마음속 깊은 질문을 입력해주세요..."
	ta.CharLimit = domain.MaxQuestionLength
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(4)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Moon

	return Model{
		opts:     opts,
		keys:     defaultKeys(),
		styles:   styles,
		textarea: ta,
		spinner:  sp,
		machine:  orb.NewMachine(opts.Sequence),
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 8 {
			m.textarea.SetWidth(min(msg.Width-4, 80))
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.OrbTap):
			if msg.Paste {
				break
			}
			return m.submit()
		case key.Matches(msg, m.keys.Daily):
			return m.requestDailyFortune()
		case key.Matches(msg, m.keys.Instant):
			return m.instantFortune(), nil
		}

	case answerMsg:
		return m.startReveal(msg.answer)

	case askErrMsg:
		m.busy = false
		m.notice, m.noticeDetail = titleError, errorText(msg.err, msgAskFailed)
		return m, nil

	case fortuneMsg:
		m.busy = false
		if msg.err != nil {
			m.notice, m.noticeDetail = titleError, errorText(msg.err, msgFortuneFailed)
			return m, nil
		}
		m.fortuneTitle, m.fortune = titleDailyFortune, msg.fortune
		return m, nil

	case orbTickMsg:
		return m.advanceOrb()

	case spinner.TickMsg:
		if !m.busy || m.pending != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	question, err := domain.ValidateQuestion(m.textarea.Value())
	if err != nil {
		m.notice, m.noticeDetail = err.Error(), ""
		return m, nil
	}

	m.busy = true
	m.notice, m.noticeDetail = "", ""
	oracle, timeout := m.opts.Oracle, m.opts.RequestTimeout
	ask := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		answer, err := oracle.Ask(ctx, question)
		if err != nil {
			return askErrMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
	return m, tea.Batch(ask, m.spinner.Tick)
}

// startReveal clears the form and plays the orb. The answer stays hidden
// until the machine reports the sequence finished.
func (m Model) startReveal(answer oracleclient.Answer) (tea.Model, tea.Cmd) {
	m.textarea.Reset()
	m.answer = nil
	m.pending = &answer

	step, done, err := m.machine.Start()
	if err != nil {
		return m, nil
	}
	if done {
		return m.reveal(), nil
	}
	return m, orbTick(step.Dwell)
}

func (m Model) advanceOrb() (tea.Model, tea.Cmd) {
	if !m.machine.Busy() {
		return m, nil
	}
	step, done := m.machine.Advance()
	if done {
		return m.reveal(), nil
	}
	return m, orbTick(step.Dwell)
}

func (m Model) reveal() Model {
	m.answer = m.pending
	m.pending = nil
	m.busy = false
	return m
}

func orbTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return orbTickMsg{} })
}

func (m Model) requestDailyFortune() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	m.notice, m.noticeDetail = "", ""
	oracle, timeout := m.opts.Oracle, m.opts.RequestTimeout
	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		fortune, err := oracle.DailyFortune(ctx)
		return fortuneMsg{fortune: fortune, err: err}
	}
	return m, tea.Batch(fetch, m.spinner.Tick)
}

func (m Model) instantFortune() Model {
	if m.opts.Phrases == nil || m.opts.RNG == nil {
		return m
	}
	pb, err := m.opts.Phrases.Phrasebook(context.Background())
	if err != nil {
		m.notice, m.noticeDetail = titleError, err.Error()
		return m
	}
	m.fortuneTitle, m.fortune = titleInstant, domain.ComposeFortune(pb, m.opts.RNG)
	return m
}

// errorText picks what to show the user: the server's own message when it
// sent one, the fallback otherwise.
func errorText(err error, fallback string) string {
	var apiErr *oracleclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("🔮 솜라고동"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("마법의 솜라고동이 해답을 줄 것입니다."))
	b.WriteString("\n\n")

	b.WriteString(m.styles.RenderOrb(m.machine.Phase()))
	b.WriteString("\n\n")

	if m.answer != nil {
		b.WriteString(m.styles.RenderAnswerCard(m.answer.Question, m.answer.Answer))
		b.WriteString("\n\n")
	}
	if m.fortune != "" {
		b.WriteString(m.styles.RenderFortuneCard(m.fortuneTitle, m.fortune))
		b.WriteString("\n\n")
	}

	b.WriteString(m.styles.Input.Render(m.textarea.View()))
	b.WriteString("\n")
	value := m.textarea.Value()
	counter := fmt.Sprintf("%d/%d", domain.MaxQuestionLength-domain.RemainingChars(value), domain.MaxQuestionLength)
	if strings.TrimSpace(value) != "" {
		counter += "  ·  Enter로 질문하기 (Alt+Enter로 줄바꿈)"
	}
	b.WriteString(m.styles.Counter.Render(counter))
	b.WriteString("\n")

	switch {
	case m.busy && m.pending == nil:
		b.WriteString(m.spinner.View() + " 솜라고동이 귀 기울이는 중...")
		b.WriteString("\n")
	case m.notice != "":
		line := m.notice
		if m.noticeDetail != "" {
			line += ": " + m.noticeDetail
		}
		b.WriteString(m.styles.Notice.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) helpView() string {
	bindings := []key.Binding{m.keys.Submit, m.keys.OrbTap, m.keys.Daily, m.keys.Instant, m.keys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}
