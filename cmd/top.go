package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/sony/gobreaker"
	"github.com/urfave/cli/v2"

	"github.com/rankline/live-poll-service/internal/domain/model"
)

func topCmd() *cli.Command {
	return &cli.Command{
		Name:  "top",
		Usage: "Live terminal dashboard over a running server's stats endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Base URL of the server",
				Value: "http://127.0.0.1:3000",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Refresh interval",
				Value: time.Second,
			},
		},
		Action: func(c *cli.Context) error {
			return runTop(c.String("addr"), c.Duration("interval"))
		},
	}
}

// statsClient polls the stats endpoint. The circuit breaker keeps a dead
// or flapping server from being hammered on every refresh tick.
type statsClient struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func newStatsClient(baseURL string) *statsClient {
	return &statsClient{
		url:    baseURL + "/api/stats",
		client: &http.Client{Timeout: 3 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "stats",
			Timeout: 5 * time.Second,
		}),
	}
}

func (c *statsClient) fetch() (model.RegistryStats, error) {
	out, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.client.Get(c.url)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		var stats model.RegistryStats
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			return nil, err
		}
		return stats, nil
	})
	if err != nil {
		return model.RegistryStats{}, err
	}
	return out.(model.RegistryStats), nil
}

func runTop(addr string, interval time.Duration) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal ui: %w", err)
	}
	defer ui.Close()

	header := widgets.NewParagraph()
	header.Title = ServiceName
	header.SetRect(0, 0, 80, 3)

	table := widgets.NewTable()
	table.Title = "Polls"
	table.RowSeparator = false
	table.TextAlignment = ui.AlignLeft
	table.SetRect(0, 3, 80, 24)

	client := newStatsClient(addr)

	redraw := func() {
		stats, err := client.fetch()
		if err != nil {
			header.Text = fmt.Sprintf("%s | unavailable: %v", addr, err)
			ui.Render(header, table)
			return
		}
		header.Text = fmt.Sprintf("%s | active polls: %d | uptime: %s",
			addr, stats.ActivePolls, stats.Uptime.Round(time.Second))

		rows := [][]string{{"ID", "TITLE", "ITEMS", "USERS", "CONNS", "DIRTY"}}
		for _, p := range stats.Polls {
			rows = append(rows, []string{
				p.ID,
				p.Title,
				fmt.Sprintf("%d", p.Items),
				fmt.Sprintf("%d", p.Identities),
				fmt.Sprintf("%d", p.Connections),
				fmt.Sprintf("%t", p.Dirty),
			})
		}
		table.Rows = rows
		ui.Render(header, table)
	}

	redraw()

	events := ui.PollEvents()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			case "<Resize>":
				redraw()
			}
		case <-ticker.C:
			redraw()
		}
	}
}
