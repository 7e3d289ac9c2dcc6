package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewState represents the current view
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewChartsMenu
	ViewFamilyChart
	ViewStatusChart
	ViewScoreChart
	ViewIssueChart
	ViewExportMenu
)

// ChartOption represents a chart in the charts menu
type ChartOption struct {
	Name        string
	Description string
	View        ViewState
}

// SortMode represents the current sort order
type SortMode int

const (
	SortByControlID SortMode = iota
	SortByScore
	SortByIssues
	SortByFamily
)

func (s SortMode) String() string {
	switch s {
	case SortByControlID:
		return "Control ID"
	case SortByScore:
		return "Compliance Score"
	case SortByIssues:
		return "Issue Count"
	case SortByFamily:
		return "Family"
	}
	return ""
}

// FilterMode represents special filters
type FilterMode int

const (
	FilterNone FilterMode = iota
	FilterNeedsReview
	FilterCritical
	FilterFamily
)

// criticalScore is the threshold below which a control lands in the
// critical filter.
const criticalScore = 50

// AuditLoader produces the audit results shown in the browser. The audit runs
// once at startup while the spinner is up.
type AuditLoader func() ([]model.ControlAuditResult, error)

// Model is the main application model
type Model struct {
	list            list.Model
	allResults      []model.ControlAuditResult
	filteredResults []list.Item
	loader          AuditLoader
	spinner         spinner.Model
	loading         bool
	err             error
	width           int
	height          int
	view            ViewState
	selected        *model.AuditItem
	keys            KeyMap
	help            help.Model
	showHelp        bool
	viewport        viewport.Model
	viewportReady   bool
	sortMode        SortMode
	filterMode      FilterMode
	stats           Stats
	statusMsg       string
	// Family chart state
	familyList          []FamilyScore
	selectedFamilyIndex int
	selectedFamilyName  string
	// Charts menu state
	chartOptions       []ChartOption
	selectedChartIndex int
	// Export menu state
	exportOptions       []ExportOption
	selectedExportIndex int
}

// Stats holds headline numbers about the audited matrix
type Stats struct {
	Total       int
	NeedsReview int
	Critical    int
}

// Messages
type ResultsLoadedMsg struct {
	Results []model.ControlAuditResult
}

type ErrorMsg struct {
	Err error
}

type StatusMsg struct {
	Msg string
}

// OpenAgentMsg asks the outer layout to focus the agent sidebar.
type OpenAgentMsg struct{}

// NewModel creates a new application model
func NewModel(loader AuditLoader) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	h := help.New()
	h.ShowAll = false

	return Model{
		loader:   loader,
		spinner:  s,
		loading:  true,
		keys:     DefaultKeyMap(),
		help:     h,
		sortMode: SortByControlID,
		chartOptions: []ChartOption{
			{Name: "Family Scores", Description: "Average compliance per control family", View: ViewFamilyChart},
			{Name: "Status Breakdown", Description: "Controls by claimed status", View: ViewStatusChart},
			{Name: "Score Distribution", Description: "Compliance score spread", View: ViewScoreChart},
			{Name: "Issues", Description: "Verification issues per family", View: ViewIssueChart},
		},
		exportOptions: []ExportOption{
			{Name: "JSON (Current View)", Format: ExportJSON, Scope: ExportCurrentView},
			{Name: "JSON (Full Matrix)", Format: ExportJSON, Scope: ExportFullMatrix},
			{Name: "CSV (Current View)", Format: ExportCSV, Scope: ExportCurrentView},
			{Name: "CSV (Full Matrix)", Format: ExportCSV, Scope: ExportFullMatrix},
			{Name: "Markdown (Current View)", Format: ExportMarkdown, Scope: ExportCurrentView},
			{Name: "Markdown (Full Matrix)", Format: ExportMarkdown, Scope: ExportFullMatrix},
		},
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runAudit())
}

func (m Model) runAudit() tea.Cmd {
	return func() tea.Msg {
		results, err := m.loader()
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ResultsLoadedMsg{Results: results}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Clear status message on any key press
		m.statusMsg = ""

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch msg.String() {
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "ctrl+k":
			return m, func() tea.Msg { return OpenAgentMsg{} }
		}

		// If in list view and not filtering
		if m.view == ViewList && m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "enter":
				if item, ok := m.list.SelectedItem().(model.AuditItem); ok {
					m.selected = &item
					m.view = ViewDetail
					m.viewport = viewport.New(m.width-4, m.height-6)
					m.viewport.SetContent(m.renderDetailContent())
					m.viewportReady = true
					// Share the opened control with the agent sidebar
					return m, func() tea.Msg { return model.ControlSelectedMsg{Control: &item} }
				}
			case "s":
				m.sortMode = (m.sortMode + 1) % 4
				m.applySortAndFilter()
				m.list.SetItems(m.filteredResults)
				m.statusMsg = fmt.Sprintf("Sorted by: %s", m.sortMode.String())
				return m, nil
			case "r":
				if m.filterMode == FilterNeedsReview {
					m.filterMode = FilterNone
					m.statusMsg = "Filter cleared"
				} else {
					m.filterMode = FilterNeedsReview
					m.statusMsg = "Showing needs-review only"
				}
				m.applySortAndFilter()
				m.list.SetItems(m.filteredResults)
				return m, nil
			case "d":
				if m.filterMode == FilterCritical {
					m.filterMode = FilterNone
					m.statusMsg = "Filter cleared"
				} else {
					m.filterMode = FilterCritical
					m.statusMsg = fmt.Sprintf("Showing scores below %d%%", criticalScore)
				}
				m.applySortAndFilter()
				m.list.SetItems(m.filteredResults)
				return m, nil
			case "c":
				if item, ok := m.list.SelectedItem().(model.AuditItem); ok {
					copyToClipboard(item.ControlID)
					m.statusMsg = fmt.Sprintf("Copied: %s", item.ControlID)
					return m, nil
				}
			case "g":
				m.selectedChartIndex = 0
				m.view = ViewChartsMenu
				return m, nil
			case "home", "t":
				m.list.Select(0)
				return m, nil
			case "end", "b", "G":
				if len(m.list.Items()) > 0 {
					m.list.Select(len(m.list.Items()) - 1)
				}
				return m, nil
			case "x":
				m.selectedExportIndex = 0
				m.view = ViewExportMenu
				return m, nil
			}
		}

		// If in detail view
		if m.view == ViewDetail {
			switch msg.String() {
			case "q", "esc", "backspace":
				m.view = ViewList
				m.selected = nil
				return m, func() tea.Msg { return model.ControlSelectedMsg{Control: nil} }
			case "c":
				if m.selected != nil {
					copyToClipboard(m.selected.ControlID)
					m.statusMsg = fmt.Sprintf("Copied: %s", m.selected.ControlID)
					return m, nil
				}
			default:
				// Pass to viewport for scrolling
				if m.viewportReady {
					var cmd tea.Cmd
					m.viewport, cmd = m.viewport.Update(msg)
					return m, cmd
				}
			}
		}

		// If in charts menu view
		if m.view == ViewChartsMenu {
			switch msg.String() {
			case "q", "esc", "g", "backspace":
				m.view = ViewList
				return m, nil
			case "j", "down":
				m.selectedChartIndex = (m.selectedChartIndex + 1) % len(m.chartOptions)
				return m, nil
			case "k", "up":
				m.selectedChartIndex = (m.selectedChartIndex - 1 + len(m.chartOptions)) % len(m.chartOptions)
				return m, nil
			case "enter":
				selected := m.chartOptions[m.selectedChartIndex]
				if selected.View == ViewFamilyChart {
					m.familyList = GetFamilyScores(m.allResults)
					m.selectedFamilyIndex = 0
				}
				m.view = selected.View
				return m, nil
			}
		}

		// If in export menu view
		if m.view == ViewExportMenu {
			switch msg.String() {
			case "q", "esc", "x", "backspace":
				m.view = ViewList
				return m, nil
			case "j", "down":
				m.selectedExportIndex = (m.selectedExportIndex + 1) % len(m.exportOptions)
				return m, nil
			case "k", "up":
				m.selectedExportIndex = (m.selectedExportIndex - 1 + len(m.exportOptions)) % len(m.exportOptions)
				return m, nil
			case "enter":
				selected := m.exportOptions[m.selectedExportIndex]
				var results []model.ControlAuditResult
				if selected.Scope == ExportCurrentView {
					// Current visible items, respecting the search filter
					for _, item := range m.list.VisibleItems() {
						if ai, ok := item.(model.AuditItem); ok {
							results = append(results, ai.ControlAuditResult)
						}
					}
				} else {
					results = m.allResults
				}

				result := Export(results, selected.Format, ".")
				if result.Err != nil {
					m.statusMsg = fmt.Sprintf("Export failed: %v", result.Err)
				} else {
					m.statusMsg = fmt.Sprintf("Exported %d controls to %s", result.Count, result.FilePath)
				}
				m.view = ViewList
				return m, nil
			}
		}

		// If in family chart view
		if m.view == ViewFamilyChart {
			switch msg.String() {
			case "q", "esc", "backspace":
				m.view = ViewChartsMenu
				return m, nil
			case "g":
				if m.filterMode == FilterFamily {
					m.filterMode = FilterNone
					m.selectedFamilyName = ""
					m.applySortAndFilter()
					m.list.SetItems(m.filteredResults)
				}
				m.view = ViewChartsMenu
				return m, nil
			case "j", "down":
				if len(m.familyList) > 0 {
					m.selectedFamilyIndex = (m.selectedFamilyIndex + 1) % len(m.familyList)
				}
				return m, nil
			case "k", "up":
				if len(m.familyList) > 0 {
					m.selectedFamilyIndex = (m.selectedFamilyIndex - 1 + len(m.familyList)) % len(m.familyList)
				}
				return m, nil
			case "enter":
				if len(m.familyList) > 0 && m.selectedFamilyIndex < len(m.familyList) {
					m.selectedFamilyName = m.familyList[m.selectedFamilyIndex].Family
					m.filterMode = FilterFamily
					m.applySortAndFilter()
					m.list.SetItems(m.filteredResults)
					m.statusMsg = fmt.Sprintf("Filtered: %s (%d controls)",
						m.selectedFamilyName, m.familyList[m.selectedFamilyIndex].Count)
					m.view = ViewList
				}
				return m, nil
			}
		}

		// Remaining chart views only navigate back
		if m.view == ViewStatusChart || m.view == ViewScoreChart || m.view == ViewIssueChart {
			switch msg.String() {
			case "q", "esc", "g", "backspace":
				m.view = ViewChartsMenu
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.loading {
			headerHeight := 4 // Title + stats
			footerHeight := 2 // Help
			m.list.SetSize(msg.Width, msg.Height-headerHeight-footerHeight)
		}
		if m.viewportReady {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - 6
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case ResultsLoadedMsg:
		m.loading = false
		m.allResults = msg.Results
		m.calculateStats()
		m.applySortAndFilter()

		delegate := NewAuditDelegate()
		m.list = list.New(m.filteredResults, delegate, m.width, m.height-6)
		m.list.Title = "SCTM Compliance Audit"
		m.list.SetShowStatusBar(true)
		m.list.SetFilteringEnabled(true)
		m.list.SetShowHelp(false) // Disable built-in help, we render our own
		m.list.Styles.Title = TitleStyle

		// Use exact substring matching
		m.list.Filter = func(term string, targets []string) []list.Rank {
			var ranks []list.Rank
			term = strings.ToLower(term)
			for i, target := range targets {
				if strings.Contains(strings.ToLower(target), term) {
					ranks = append(ranks, list.Rank{Index: i})
				}
			}
			return ranks
		}
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	// Update list if in list view
	if m.view == ViewList && !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) calculateStats() {
	m.stats.Total = len(m.allResults)
	m.stats.NeedsReview = 0
	m.stats.Critical = 0
	for _, r := range m.allResults {
		if r.VerificationStatus == model.VerificationNeedsReview {
			m.stats.NeedsReview++
		}
		if r.ComplianceScore < criticalScore {
			m.stats.Critical++
		}
	}
}

func (m *Model) applySortAndFilter() {
	filtered := make([]model.ControlAuditResult, len(m.allResults))
	copy(filtered, m.allResults)

	// Apply filter
	switch m.filterMode {
	case FilterNeedsReview:
		var review []model.ControlAuditResult
		for _, r := range filtered {
			if r.VerificationStatus == model.VerificationNeedsReview {
				review = append(review, r)
			}
		}
		filtered = review
	case FilterCritical:
		var critical []model.ControlAuditResult
		for _, r := range filtered {
			if r.ComplianceScore < criticalScore {
				critical = append(critical, r)
			}
		}
		filtered = critical
	case FilterFamily:
		if m.selectedFamilyName != "" {
			var family []model.ControlAuditResult
			for _, r := range filtered {
				if r.Family == m.selectedFamilyName {
					family = append(family, r)
				}
			}
			filtered = family
		}
	}

	// Apply sort
	switch m.sortMode {
	case SortByControlID:
		sort.Slice(filtered, func(i, j int) bool {
			return filtered[i].ControlID < filtered[j].ControlID
		})
	case SortByScore:
		sort.Slice(filtered, func(i, j int) bool {
			return filtered[i].ComplianceScore < filtered[j].ComplianceScore
		})
	case SortByIssues:
		sort.Slice(filtered, func(i, j int) bool {
			return len(filtered[i].Issues) > len(filtered[j].Issues)
		})
	case SortByFamily:
		sort.Slice(filtered, func(i, j int) bool {
			if filtered[i].Family != filtered[j].Family {
				return filtered[i].Family < filtered[j].Family
			}
			return filtered[i].ControlID < filtered[j].ControlID
		})
	}

	m.filteredResults = make([]list.Item, len(filtered))
	for i, r := range filtered {
		m.filteredResults[i] = model.AuditItem{ControlAuditResult: r}
	}
}

// View renders the view
func (m Model) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Auditing SCTM...\n", m.spinner.View())
	}

	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press q to quit.\n", m.err)
	}

	if m.view == ViewDetail && m.selected != nil {
		return m.renderDetailView()
	}

	if m.view == ViewChartsMenu {
		return m.renderChartsMenu()
	}

	if m.view == ViewExportMenu {
		return m.renderExportMenu()
	}

	if m.view == ViewFamilyChart {
		return RenderFamilyChart(m.allResults, m.width, m.height, m.selectedFamilyIndex)
	}

	if m.view == ViewStatusChart {
		return RenderStatusChart(m.allResults, m.width, m.height)
	}

	if m.view == ViewScoreChart {
		return RenderScoreChart(m.allResults, m.width, m.height)
	}

	if m.view == ViewIssueChart {
		return RenderIssueChart(m.allResults, m.width, m.height)
	}

	return m.renderListView()
}

func (m Model) renderExportMenu() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(PrimaryColor).
		Padding(0, 1).
		Render("Export Report")
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n\n")

	currentCount := len(m.list.VisibleItems())
	totalCount := len(m.allResults)
	infoStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	b.WriteString(infoStyle.Render(fmt.Sprintf("Current view: %d controls | Full matrix: %d controls", currentCount, totalCount)))
	b.WriteString("\n\n")

	for i, opt := range m.exportOptions {
		if i == m.selectedExportIndex {
			selectedStyle := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(PrimaryColor).
				Padding(0, 1)
			b.WriteString(selectedStyle.Render(fmt.Sprintf("> %s", opt.Name)))
		} else {
			b.WriteString(fmt.Sprintf("  %s", opt.Name))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footerStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	b.WriteString(footerStyle.Render("j/k navigate • enter export • x/esc back"))

	return b.String()
}

func (m Model) renderChartsMenu() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(PrimaryColor).
		Padding(0, 1).
		Render("Charts & Graphs")
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n\n")

	for i, opt := range m.chartOptions {
		if i == m.selectedChartIndex {
			selectedStyle := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(PrimaryColor).
				Padding(0, 1)
			b.WriteString(selectedStyle.Render(fmt.Sprintf("> %s", opt.Name)))
		} else {
			b.WriteString(fmt.Sprintf("  %s", opt.Name))
		}
		b.WriteString("\n")
		descStyle := lipgloss.NewStyle().Foreground(SubtleColor)
		b.WriteString(descStyle.Render(fmt.Sprintf("    %s", opt.Description)))
		b.WriteString("\n\n")
	}

	footerStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	b.WriteString(footerStyle.Render("j/k navigate • enter select • g/esc back"))

	return b.String()
}

func (m Model) renderListView() string {
	var b strings.Builder

	// Stats header
	stats := fmt.Sprintf("%s %d Controls | %s %d Needs Review | %s %d Critical",
		StatHighlight.Render(""),
		m.stats.Total,
		lipgloss.NewStyle().Foreground(ReviewColor).Render(""),
		m.stats.NeedsReview,
		lipgloss.NewStyle().Foreground(ErrorColor).Render(""),
		m.stats.Critical,
	)
	b.WriteString(StatsStyle.Render(stats))
	b.WriteString("\n")

	// Sort/filter indicator
	indicators := []string{fmt.Sprintf("Sort: %s", m.sortMode.String())}
	switch m.filterMode {
	case FilterNeedsReview:
		indicators = append(indicators, lipgloss.NewStyle().Foreground(ReviewColor).Render("Filter: Needs Review"))
	case FilterCritical:
		indicators = append(indicators, lipgloss.NewStyle().Foreground(ErrorColor).Render("Filter: Critical"))
	case FilterFamily:
		indicators = append(indicators, lipgloss.NewStyle().Foreground(PrimaryColor).Render(fmt.Sprintf("Filter: %s", m.selectedFamilyName)))
	}
	b.WriteString(SubtitleStyle.Render(strings.Join(indicators, " | ")))
	b.WriteString("\n")

	// List
	b.WriteString(m.list.View())

	// Status message or help
	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render(m.statusMsg))
	}

	// Help footer
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.View(m.keys))
	} else {
		helpText := "/ filter • s sort • r review • d critical • g graphs • x export • t top • b bottom • q quit"
		b.WriteString(SubtitleStyle.Render(helpText))
	}

	return b.String()
}

func (m Model) renderDetailView() string {
	var b strings.Builder

	// Header
	b.WriteString("\n")
	b.WriteString(ControlBadge.Render(m.selected.ControlID))
	if badge := VerificationBadge(m.selected.VerificationStatus); badge != "" {
		b.WriteString("  ")
		b.WriteString(badge)
	}
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.viewport.View())
	}

	b.WriteString("\n")
	footer := "↑/↓ scroll | c copy | q/esc back"
	if m.statusMsg != "" {
		footer = m.statusMsg + " | " + footer
	}
	b.WriteString(SubtitleStyle.Render(footer))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderDetailContent() string {
	r := m.selected
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Render(r.Requirement))
	b.WriteString("\n\n")

	b.WriteString(LabelStyle.Render("Family:"))
	b.WriteString(ValueStyle.Render(r.Family))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Claimed:"))
	b.WriteString(StatusBadge(r.ClaimedStatus))
	b.WriteString("\n")
	if r.VerifiedStatus != r.ClaimedStatus {
		b.WriteString(LabelStyle.Render("Verified as:"))
		b.WriteString(StatusBadge(r.VerifiedStatus))
		b.WriteString("\n")
	}
	b.WriteString(LabelStyle.Render("Score:"))
	b.WriteString(ScoreBadge(r.ComplianceScore))
	b.WriteString(" ")
	b.WriteString(ScoreBar(r.ComplianceScore, 20))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Audited:"))
	b.WriteString(ValueStyle.Render(r.LastVerified.Format("2006-01-02 15:04")))
	b.WriteString("\n")

	// Issues
	if len(r.Issues) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ErrorColor).Render("Issues"))
		b.WriteString("\n")
		for _, issue := range r.Issues {
			b.WriteString(IssueStyle.Render("  ✗ " + issue))
			b.WriteString("\n")
		}
	}

	writeItems := func(title string, items []model.EvidenceItem) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).Render(title))
		b.WriteString("\n")
		for _, it := range items {
			if it.Exists {
				b.WriteString(lipgloss.NewStyle().Foreground(SecondaryColor).Render("  ✓ "))
				b.WriteString(ValueStyle.Render(it.Reference))
				if it.Path != "" && it.Path != it.Reference {
					b.WriteString(SubtitleStyle.Render(" → " + it.Path))
				}
			} else {
				b.WriteString(IssueStyle.Render("  ✗ " + it.Reference))
			}
			b.WriteString("\n")
		}
	}

	writeItems("Policies", r.Evidence.Policies)
	writeItems("Procedures", r.Evidence.Procedures)
	writeItems("Evidence", r.Evidence.Evidence)

	// Code verification
	if len(r.Evidence.CodeVerification) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).Render("Code Verification"))
		b.WriteString("\n")
		for _, cv := range r.Evidence.CodeVerification {
			switch {
			case cv.Exists && cv.ContainsRelevantCode:
				b.WriteString(lipgloss.NewStyle().Foreground(SecondaryColor).Render("  ✓ "))
				b.WriteString(ValueStyle.Render(cv.File))
			case cv.Exists:
				b.WriteString(lipgloss.NewStyle().Foreground(WarningColor).Render("  ~ "))
				b.WriteString(ValueStyle.Render(cv.File))
				b.WriteString(SubtitleStyle.Render(" (no relevant patterns)"))
			default:
				b.WriteString(IssueStyle.Render("  ✗ " + cv.File))
			}
			b.WriteString("\n")
			for _, snippet := range cv.CodeSnippets {
				b.WriteString(SnippetStyle.Render(snippet))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// Helper functions
func copyToClipboard(text string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		cmd = exec.Command("xclip", "-selection", "clipboard")
	case "windows":
		cmd = exec.Command("clip")
	default:
		return
	}
	cmd.Stdin = strings.NewReader(text)
	_ = cmd.Run()
}
