package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/n0roo/saju-kit/internal/features"
	"github.com/n0roo/saju-kit/internal/ganji"
	"github.com/n0roo/saju-kit/internal/match"
	"github.com/n0roo/saju-kit/internal/pillars"
)

// Tab represents a viewer tab
type Tab int

const (
	TabChart Tab = iota
	TabFeatures
	TabReport
)

func (t Tab) String() string {
	return []string{"사주", "특성", "리포트"}[t]
}

// Result is the finished pipeline output the viewer renders
type Result struct {
	Chart    *pillars.Chart
	Features *features.Features
	Report   *match.Report
}

// Loader computes the pipeline result (별도 고루틴에서 실행됨)
type Loader func() (*Result, error)

// dataMsg carries the loaded result
type dataMsg struct {
	result *Result
	err    error
}

// Model is the report viewer model
type Model struct {
	loader Loader
	result *Result
	err    error

	currentTab Tab
	section    int // 리포트 탭: 선택된 섹션
	cursor     int // 리포트 탭: 섹션 내 선택된 카드
	width      int
	height     int
	ready      bool
	loading    bool

	spinner spinner.Model
}

// NewModel creates a viewer that computes its data through the loader
func NewModel(loader Loader) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		loader:  loader,
		loading: true,
		spinner: s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

// load runs the pipeline off the UI loop
func (m Model) load() tea.Msg {
	result, err := m.loader()
	return dataMsg{result: result, err: err}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.currentTab = TabChart
		case "2":
			m.currentTab = TabFeatures
		case "3":
			m.currentTab = TabReport
		case "tab":
			m.currentTab = Tab((int(m.currentTab) + 1) % 3)
		case "shift+tab":
			m.currentTab = Tab((int(m.currentTab) + 2) % 3)
		case "left", "h":
			if m.reportReady() && m.section > 0 {
				m.section--
				m.cursor = 0
			}
		case "right", "l":
			if m.reportReady() && m.section < len(m.result.Report.Sections)-1 {
				m.section++
				m.cursor = 0
			}
		case "up", "k":
			if m.reportReady() && m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.reportReady() {
				if n := len(m.result.Report.Sections[m.section].Cards); m.cursor < n-1 {
					m.cursor++
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case dataMsg:
		m.result = msg.result
		m.err = msg.err
		m.loading = false

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) reportReady() bool {
	return m.currentTab == TabReport && m.result != nil && len(m.result.Report.Sections) > 0
}

// View renders the UI
func (m Model) View() string {
	if !m.ready || m.loading {
		return fmt.Sprintf("\n  %s 사주를 계산하는 중...", m.spinner.View())
	}
	if m.err != nil {
		return fmt.Sprintf("\n  계산 실패: %v\n\n  [q] 종료", m.err)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.currentTab {
	case TabChart:
		b.WriteString(m.renderChartTab())
	case TabFeatures:
		b.WriteString(m.renderFeaturesTab())
	case TabReport:
		b.WriteString(m.renderReportTab())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader() string {
	title := "사주 리포트"
	right := fmt.Sprintf("%d년 운세", m.result.Features.TargetYear)

	headerWidth := m.width
	if headerWidth < 60 {
		headerWidth = 60
	}

	left := lipgloss.NewStyle().Bold(true).Render(title)
	gap := headerWidth - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 0 {
		gap = 0
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#2D3748")).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1).
		Width(headerWidth).
		Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderTabs() string {
	var tabs []string
	for i := 0; i < 3; i++ {
		tab := Tab(i)
		style := tabStyle
		if tab == m.currentTab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("[%d]%s", i+1, tab.String())))
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderFooter() string {
	help := "  [1-3] 탭  [←→] 섹션  [↑↓] 카드  [q] 종료"
	return helpStyle.Render(help)
}

func (m Model) renderChartTab() string {
	var b strings.Builder
	chart := m.result.Chart

	b.WriteString(titleStyle.Render("네 기둥"))
	b.WriteString("\n")

	boxes := []string{
		pillarBox("연주", chart.Year.Stem.String(), chart.Year.Branch.String()),
		pillarBox("월주", chart.Month.Stem.String(), chart.Month.Branch.String()),
		pillarBox("일주", chart.Day.Stem.String(), chart.Day.Branch.String()),
	}
	if chart.Hour != nil {
		boxes = append(boxes, pillarBox("시주", chart.Hour.Stem.String(), chart.Hour.Branch.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %s\n", chart.String()))
	b.WriteString(fmt.Sprintf("  출처: %s\n", chart.Provenance))
	if chart.IsBoundary {
		b.WriteString(statusWarnStyle.Render(
			fmt.Sprintf("  ⚠ 경계 근접 (%s) — 정확한 출생 시각 확인 권장", chart.BoundaryReason)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderFeaturesTab() string {
	var b strings.Builder
	f := m.result.Features

	b.WriteString(titleStyle.Render("파생 특성"))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString("  " + detailLabelStyle.Render(label) + value + "\n")
	}

	strength := "신약"
	if f.IsStrongSelf {
		strength = "신강"
	}
	row("일간", fmt.Sprintf("%s (%s)", f.DayMaster, f.DayMasterElement))
	row("강약", strength)
	row("구조", f.StructureName)
	b.WriteString("  " + subtitleStyle.Render(f.StructureDescription) + "\n\n")

	// 오행 분포
	b.WriteString(titleStyle.Render("오행 분포"))
	b.WriteString("\n")
	for _, e := range []ganji.Element{ganji.Wood, ganji.Fire, ganji.Earth, ganji.Metal, ganji.Water} {
		n := f.ElementCounts[e]
		bar := strings.Repeat("█", n)
		b.WriteString(fmt.Sprintf("  %s %s %d\n", e, statusGoodStyle.Render(bar), n))
	}
	b.WriteString("\n")

	row("주도 십성", f.DominantTenGod.String())
	year := "조심할 해"
	if f.IsFavorableYear {
		year = "유리한 해"
	}
	row("대상 연도", fmt.Sprintf("%d (%s의 해, %s)", f.TargetYear, f.YearElement, year))

	return b.String()
}

func (m Model) renderReportTab() string {
	var b strings.Builder
	report := m.result.Report

	// 섹션 선택 줄
	var tabs []string
	for i, sec := range report.Sections {
		style := tabStyle
		if i == m.section {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%s(%d)", sec.SectionID, len(sec.Cards))))
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	sec := report.Sections[m.section]
	if len(sec.Cards) == 0 {
		b.WriteString(statusMutedStyle.Render("  매칭된 카드 없음"))
		return b.String()
	}

	// 카드 목록
	for i, c := range sec.Cards {
		line := fmt.Sprintf("%s  %.1f점", c.CardID, c.Score)
		if c.Card != nil && c.Card.Interpretation != "" {
			line += "  " + truncate(c.Card.Interpretation, 40)
		}
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(normalItemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// 선택 카드 상세
	b.WriteString(m.renderCardDetail(sec.Cards[m.cursor]))

	return b.String()
}

func (m Model) renderCardDetail(c match.MatchedCard) string {
	var b strings.Builder

	b.WriteString(detailLabelStyle.Render("트리거") + strings.Join(c.FiredTriggers, ", ") + "\n")
	b.WriteString(detailLabelStyle.Render("점수") +
		fmt.Sprintf("%.1f (우선 %.1f + 태그 %.1f + 연 %.1f + 목표 %.1f)",
			c.Score, c.Breakdown.Priority, c.Breakdown.TagIDF,
			c.Breakdown.YearBonus, c.Breakdown.GoalBonus) + "\n")

	if c.Card != nil {
		if c.Card.Interpretation != "" {
			b.WriteString(detailLabelStyle.Render("해석") + c.Card.Interpretation + "\n")
		}
		if c.Card.Action != "" {
			b.WriteString(detailLabelStyle.Render("행동") + c.Card.Action + "\n")
		}
		for _, caution := range c.Card.Cautions {
			b.WriteString(detailLabelStyle.Render("주의") + statusWarnStyle.Render(caution) + "\n")
		}
	}

	return detailPanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

// Run starts the report viewer
func Run(loader Loader) error {
	p := tea.NewProgram(
		NewModel(loader),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
