package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seu-repo/appliance-store/internal/domain"
)

func chatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive assistant session over websocket",
		Long: `Opens an assistant session. Type a request and press enter.
  /say <file>   send a recording
  /rec on|off   toggle the listening indicator
  /quit         leave`,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := sessionURL(opts.server)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), wsURL, cmd.InOrStdin(), cmd.OutOrStdout(), opts.player(), opts.logger())
		},
	}
}

// sessionURL maps the server base URL to the assistant websocket endpoint.
func sessionURL(server string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/assistant"
	return u.String(), nil
}

// serverFrame is any frame the session sends.
type serverFrame struct {
	Type string `json:"type"`
	domain.AssistantResult
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
	Error      string   `json:"error"`
	State      string   `json:"state"`
	Reaction   string   `json:"reaction"`
	Token      uint64   `json:"token"`
}

type chatConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *chatConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *chatConn) writeBinary(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

var errQuit = errors.New("quit")

func runChat(ctx context.Context, wsURL string, in io.Reader, out io.Writer, player *audioPlayer, log *zap.Logger) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", wsURL, err)
	}
	c := &chatConn{conn: conn}
	tokens := newTokenPlayer(player)
	defer tokens.stopAll()

	g, ctx := errgroup.WithContext(ctx)

	// Unblocks both loops on exit.
	g.Go(func() error {
		<-ctx.Done()
		conn.Close()
		return nil
	})

	g.Go(func() error {
		report := func(token uint64, err error) {
			frame := map[string]any{"type": "playback_ended", "token": token}
			if err != nil {
				frame = map[string]any{"type": "playback_error", "token": token, "error": err.Error()}
			}
			if werr := c.writeJSON(frame); werr != nil {
				log.Debug("Failed to report playback", zap.Error(werr))
			}
		}
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("session closed: %w", err)
			}
			var f serverFrame
			if err := json.Unmarshal(data, &f); err != nil {
				log.Debug("Ignoring malformed frame", zap.Error(err))
				continue
			}
			switch f.Type {
			case "result":
				fmt.Fprintln(out, renderResult(f.AssistantResult))
			case "transcription":
				fmt.Fprintln(out, renderTranscription(f.Text, f.Confidence, f.Error))
			case "state":
				fmt.Fprintln(out, renderState(parseState(f.State, f.Reaction)))
			case "play":
				go tokens.play(f.Token, f.Audio, report)
			case "stop":
				tokens.stop(f.Token)
			case "error":
				fmt.Fprintln(out, errorStyle.Render(f.Error))
			}
		}
	})

	g.Go(func() error {
		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				select {
				case lines <- scanner.Text():
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return errQuit
				}
				if err := handleLine(c, strings.TrimSpace(line)); err != nil {
					if errors.Is(err, errQuit) {
						return err
					}
					fmt.Fprintln(out, errorStyle.Render(err.Error()))
				}
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func handleLine(c *chatConn, line string) error {
	switch {
	case line == "":
		return nil
	case line == "/quit":
		c.mu.Lock()
		c.conn.WriteMessage(websocket.CloseMessage, //nolint:errcheck
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.mu.Unlock()
		return errQuit
	case strings.HasPrefix(line, "/say "):
		audio, err := os.ReadFile(strings.TrimSpace(strings.TrimPrefix(line, "/say ")))
		if err != nil {
			return err
		}
		return c.writeBinary(audio)
	case strings.HasPrefix(line, "/rec "):
		active := strings.TrimSpace(strings.TrimPrefix(line, "/rec ")) == "on"
		return c.writeJSON(map[string]any{"type": "recording", "active": active})
	case strings.HasPrefix(line, "/"):
		return fmt.Errorf("unknown command %s", strings.Fields(line)[0])
	default:
		return c.writeJSON(map[string]any{"type": "query", "query": line})
	}
}
