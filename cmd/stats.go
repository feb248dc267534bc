package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	resdto "seat-queue/internal/handler/dto/response"
	"seat-queue/internal/pkg/errs"

	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	var server string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print queue statistics from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			stats, err := fetchStats(ctx, server)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderStats(stats))
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "Base URL of the seat queue API")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Request timeout")
	return cmd
}

func fetchStats(ctx context.Context, server string) (*resdto.StatsResponse, error) {
	url := strings.TrimRight(server, "/") + "/stats"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build request")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to reach %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.Newf("GET %s: %s: %s", url, resp.Status, strings.TrimSpace(string(body)))
	}

	var stats resdto.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, errs.Wrap(err, "failed to decode stats")
	}
	return &stats, nil
}

func renderStats(s *resdto.StatsResponse) string {
	var b strings.Builder

	summary := [][]string{
		{"Waiting", strconv.Itoa(s.WaitingCount)},
		{"In progress", strconv.Itoa(s.InProgressCount)},
		{"Completed", strconv.Itoa(s.CompletedCount)},
		{"Cancelled", strconv.Itoa(s.CancelledCount)},
		{"Completed today", strconv.Itoa(s.TodayCompletedCount)},
		{"Available seats", fmt.Sprintf("%d / %d", s.AvailableSeats, s.MaxConcurrent)},
		{"Wait for a new arrival", fmt.Sprintf("%d min", s.EstimatedWaitMinutes)},
	}
	b.WriteString(renderTable([]string{"Metric", "Value"}, summary, []columnAlignment{alignLeft, alignRight}))
	b.WriteString("\n")

	if len(s.Seats) == 0 {
		b.WriteString("No seats occupied\n")
		return b.String()
	}

	overtime := make(map[int64]int, len(s.OvertimeSeats))
	for _, o := range s.OvertimeSeats {
		overtime[o.QueueNumber] = o.OvertimeMinutes
	}

	rows := make([][]string, 0, len(s.Seats))
	for _, seat := range s.Seats {
		state := fmt.Sprintf("%d min left", seat.RemainingMinutes)
		if over, ok := overtime[seat.QueueNumber]; ok {
			state = fmt.Sprintf("%d min over", over)
		}
		rows = append(rows, []string{
			seat.SeatName,
			strconv.FormatInt(seat.QueueNumber, 10),
			seat.Name,
			state,
		})
	}
	b.WriteString(renderTable([]string{"Seat", "No.", "Name", "Time"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft, alignRight}))
	b.WriteString("\n")
	return b.String()
}
