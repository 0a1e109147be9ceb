package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	fetch "github.com/thavarshan/fetch-go"
	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/pkg/format"
)

const maxLogLines = 20

// watchedEvents lists the Event Dispatcher names fetchmon renders.
var watchedEvents = []domain.EventName{
	domain.EventRequestSending,
	domain.EventResponseReceived,
	domain.EventErrorOccurred,
	domain.EventRequestRetrying,
	domain.EventRequestRedirecting,
	domain.EventRequestTimeout,
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	statStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	retryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(1, 1)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// eventMsg wraps one domain.Event delivered off the Event Dispatcher onto
// the Bubble Tea update loop.
type eventMsg domain.Event

type model struct {
	client  *fetch.Client
	sub     <-chan domain.Event
	spinner spinner.Model
	log     []string
	width   int
	quit    bool
}

// newModel registers a listener on client's Event Dispatcher for every
// watchedEvents name and fans it into a channel the update loop reads
// from. The dispatcher invokes listeners synchronously on the request
// goroutine, so the send is non-blocking — a slow or paused TUI drops
// events rather than stalling in-flight requests.
func newModel(client *fetch.Client) model {
	sub := make(chan domain.Event, 64)
	for _, name := range watchedEvents {
		client.Events().On(name, 0, func(ev domain.Event) {
			select {
			case sub <- ev:
			default:
			}
		})
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle
	return model{client: client, sub: sub, spinner: s, width: 80}
}

func waitForEvent(sub <-chan domain.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.sub))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		}
		return m, nil

	case eventMsg:
		m.log = appendLine(m.log, formatEvent(domain.Event(msg)))
		return m, waitForEvent(m.sub)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

func appendLine(log []string, line string) []string {
	log = append(log, line)
	if len(log) > maxLogLines {
		log = log[len(log)-maxLogLines:]
	}
	return log
}

func formatEvent(ev domain.Event) string {
	switch ev.Name {
	case domain.EventRequestSending:
		return statStyle.Render(fmt.Sprintf("[%s] sending attempt %d/%d %s",
			short(ev.CorrelationID), ev.Attempt, ev.MaxAttempts, methodURI(ev)))
	case domain.EventResponseReceived:
		status := 0
		if ev.Response != nil {
			status = ev.Response.StatusCode
		}
		return okStyle.Render(fmt.Sprintf("[%s] %d in %s", short(ev.CorrelationID), status, format.Latency(int64(ev.DurationSecs*1000))))
	case domain.EventRequestRetrying:
		return retryStyle.Render(fmt.Sprintf("[%s] retrying attempt %d/%d in %dms",
			short(ev.CorrelationID), ev.Attempt, ev.MaxAttempts, ev.DelayMs))
	case domain.EventErrorOccurred:
		msg := ""
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		return errStyle.Render(fmt.Sprintf("[%s] error: %s", short(ev.CorrelationID), msg))
	default:
		return statStyle.Render(fmt.Sprintf("[%s] %s", short(ev.CorrelationID), ev.Name))
	}
}

func methodURI(ev domain.Event) string {
	if ev.Request == nil {
		return ""
	}
	return string(ev.Request.Method) + " " + ev.Request.URI
}

func short(correlationID string) string {
	if len(correlationID) <= 12 {
		return correlationID
	}
	return correlationID[:12]
}

func (m model) View() string {
	if m.quit {
		return ""
	}

	pool := m.client.PoolStats()
	dns := m.client.DNSStats()

	header := titleStyle.Render("fetchmon") + statStyle.Render("  watching client traffic — q to quit")

	stats := statStyle.Render(fmt.Sprintf(
		"pool: created=%d reused=%d active=%d reuse=%s avg_latency=%s   dns: entries=%d hits=%d misses=%d",
		pool.ConnectionsCreated, pool.ConnectionsReused, pool.ActiveConnections,
		format.Percentage(pool.ReuseRate()*100), format.Latency(pool.AverageLatency().Milliseconds()),
		dns.Entries, dns.Hits, dns.Misses,
	))

	body := strings.Join(m.log, "\n")
	if body == "" {
		body = m.spinner.View() + " waiting for traffic..."
	}

	return header + "\n\n" + stats + "\n\n" + panelStyle.Width(m.width-4).Render(body) + "\n" + helpStyle.Render("q/esc/ctrl+c to quit")
}
