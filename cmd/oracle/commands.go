package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/randomtoy/oracle-go/internal/adapters/oracleclient"
	"github.com/randomtoy/oracle-go/internal/adapters/phrasebook"
	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/orb"
	"github.com/randomtoy/oracle-go/internal/tui"
)

const defaultServer = "http://localhost:8080"

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

type cli struct {
	server  string
	timeout time.Duration

	out   io.Writer
	isTTY func() bool
	// seq overrides the orb sequence; nil means orb.DefaultSequence.
	seq orb.Sequence
	rng domain.RNG
}

var phaseLabels = map[orb.Phase]string{
	orb.Shake:     "🔮 솜라고동이 흔들립니다...",
	orb.Glow:      "✨ 빛이 모여듭니다...",
	orb.Smoke:     "🌫  연기가 피어오릅니다...",
	orb.Explosion: "💥 펑!",
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "oracle",
		Short: "솜라고동에게 질문하세요",
		Long: `oracle talks to the oracle server: ask a question, read the daily fortune,
browse earlier answers or open the interactive form.`,
		SilenceUsage: true,
	}

	server := os.Getenv("ORACLE_URL")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&c.server, "server", server, "Oracle server URL (or set ORACLE_URL env)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "Request timeout")

	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question and wait for the oracle's answer",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.runAsk,
	}
	fortuneCmd := &cobra.Command{
		Use:   "fortune",
		Short: "Show today's fortune",
		Args:  cobra.NoArgs,
		RunE:  c.runFortune,
	}
	instantCmd := &cobra.Command{
		Use:   "instant",
		Short: "Draw an instant fortune locally, without the server",
		Args:  cobra.NoArgs,
		RunE:  c.runInstant,
	}
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List stored answers, newest first",
		Args:  cobra.NoArgs,
		RunE:  c.runHistory,
	}
	historyCmd.Flags().String("user", "", "Only answers of this user id")
	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one stored answer",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runShow,
	}
	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive form",
		Args:  cobra.NoArgs,
		RunE:  c.runTUI,
	}

	root.AddCommand(askCmd, fortuneCmd, instantCmd, historyCmd, showCmd, tuiCmd)
	return root
}

func (c *cli) client() *oracleclient.Client {
	return oracleclient.NewClient(nil, c.server)
}

func (c *cli) sequence() orb.Sequence {
	if c.seq != nil {
		return c.seq
	}
	return orb.DefaultSequence
}

func (c *cli) random() domain.RNG {
	if c.rng != nil {
		return c.rng
	}
	return stdRNG{}
}

func (c *cli) styles() tui.Styles {
	return tui.DefaultStyles()
}

func (c *cli) runAsk(cmd *cobra.Command, args []string) error {
	question, err := domain.ValidateQuestion(strings.Join(args, " "))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	defer cancel()
	answer, err := c.client().Ask(ctx, question)
	if err != nil {
		return err
	}

	if !c.isTTY() {
		fmt.Fprintln(c.out, answer.Answer)
		return nil
	}

	machine := orb.NewMachine(c.sequence())
	err = machine.Run(cmd.Context(), func(p orb.Phase) {
		if label, ok := phaseLabels[p]; ok {
			fmt.Fprintln(c.out, label)
		}
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.styles().RenderAnswerCard(answer.Question, answer.Answer))
	return nil
}

func (c *cli) runFortune(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	defer cancel()
	fortune, err := c.client().DailyFortune(ctx)
	if err != nil {
		return err
	}
	c.printFortune("🌙 오늘의 운세", fortune)
	return nil
}

func (c *cli) runInstant(cmd *cobra.Command, _ []string) error {
	pb, err := phrasebook.NewEmbeddedStore().Phrasebook(cmd.Context())
	if err != nil {
		return err
	}
	c.printFortune("✨ 즉석 운세", domain.ComposeFortune(pb, c.random()))
	return nil
}

func (c *cli) printFortune(title, fortune string) {
	if c.isTTY() {
		fmt.Fprintln(c.out, c.styles().RenderFortuneCard(title, fortune))
		return
	}
	fmt.Fprintln(c.out, fortune)
}

func (c *cli) runHistory(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetString("user")

	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	defer cancel()
	answers, err := c.client().ListAnswers(ctx, userID)
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		fmt.Fprintln(c.out, "아직 저장된 답변이 없습니다")
		return nil
	}

	if !c.isTTY() {
		for _, a := range answers {
			fmt.Fprintf(c.out, "%s\t%s\t%s\t%s\n", a.CreatedAt.Format(time.RFC3339), a.ID, oneLine(a.Question), a.Answer)
		}
		return nil
	}

	t := table.New().Headers("시간", "ID", "질문", "답변")
	for _, a := range answers {
		t.Row(a.CreatedAt.Local().Format("2006-01-02 15:04"), a.ID, oneLine(a.Question), a.Answer)
	}
	fmt.Fprintln(c.out, t.Render())
	return nil
}

func (c *cli) runShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	defer cancel()
	a, err := c.client().GetAnswer(ctx, args[0])
	if err != nil {
		return err
	}
	if c.isTTY() {
		fmt.Fprintln(c.out, c.styles().RenderAnswerCard(a.Question, a.Answer))
		return nil
	}
	fmt.Fprintf(c.out, "%s\n%s\n%s\n", a.CreatedAt.Format(time.RFC3339), a.Question, a.Answer)
	return nil
}

func (c *cli) runTUI(cmd *cobra.Command, _ []string) error {
	m := tui.New(tui.Options{
		Oracle:         c.client(),
		Phrases:        phrasebook.NewEmbeddedStore(),
		RNG:            c.random(),
		Sequence:       c.sequence(),
		RequestTimeout: c.timeout,
	})
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 40 {
		return string(r[:39]) + "…"
	}
	return s
}
