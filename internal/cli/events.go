package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/blockdrop/internal/api/response"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput, board bool

	cmd := &cobra.Command{
		Use:   "events <id>",
		Short: "Stream a game's events",
		Long: `Connect to the game's SSE endpoint and stream events in real-time.

Events include:
  - state: The game changed; carries the full snapshot
  - game_started: A new round began
  - lines_cleared: A lock cleared lines
  - game_over: A spawn was blocked
  - game_abandoned: The game was abandoned; the stream ends

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, cmd.OutOrStdout(), args[0], jsonOutput, board)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().BoolVar(&board, "board", false, "Draw the board on every state event")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, w io.Writer, gameID string, jsonOutput, board bool) error {
	resp, err := client.Stream(ctx, gamePath(gameID, "/events"))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !jsonOutput {
		fmt.Fprintf(w, "Connected to game %s\n", gameID)
	}

	err = readEvents(resp.Body, func(event, data string) bool {
		printEvent(w, event, data, jsonOutput, board)
		return event != "game_abandoned"
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

// readEvents parses an SSE stream, calling fn per event until fn returns
// false or the stream ends
func readEvents(r io.Reader, fn func(event, data string) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" && !fn(currentEvent, strings.Join(dataLines, "\n")) {
				return nil
			}
			currentEvent = ""
			dataLines = nil
		}
	}
	return scanner.Err()
}

func printEvent(w io.Writer, event, data string, jsonOutput, board bool) {
	now := time.Now()

	if jsonOutput {
		jsonData, _ := json.Marshal(SSEEvent{Time: now, Event: event, Data: data})
		fmt.Fprintln(w, string(jsonData))
		return
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, event, summarizeEvent(event, data))

	if board && event == "state" {
		if state, ok := decodeState(data); ok {
			for _, line := range RenderBoard(state.Snapshot) {
				fmt.Fprintln(w, line)
			}
		}
	}
}

func decodeState(data string) (response.StateEvent, bool) {
	var envelope struct {
		Data response.StateEvent `json:"data"`
	}
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return response.StateEvent{}, false
	}
	return envelope.Data, true
}

// summarizeEvent renders a one-line description of a known event
func summarizeEvent(event, data string) string {
	switch event {
	case "state":
		if state, ok := decodeState(data); ok {
			s := state.Snapshot
			return fmt.Sprintf("%s score=%d level=%d lines=%d pieces=%d", state.Status, s.Score, s.Level, s.Lines, s.PiecesPlaced)
		}
	case "lines_cleared":
		var envelope struct {
			Data response.ClearResult `json:"data"`
		}
		if err := json.Unmarshal([]byte(data), &envelope); err == nil {
			return describeClear(&envelope.Data)
		}
	case "game_over":
		var envelope struct {
			Data response.GameOverEvent `json:"data"`
		}
		if err := json.Unmarshal([]byte(data), &envelope); err == nil {
			return fmt.Sprintf("score=%d level=%d lines=%d", envelope.Data.Score, envelope.Data.Level, envelope.Data.Lines)
		}
	}

	display := strings.ReplaceAll(data, "\n", " ")
	if len(display) > 100 {
		display = display[:100] + "..."
	}
	return display
}
