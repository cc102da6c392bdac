package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/reaction"
)

func queryCmd(opts *options) *cobra.Command {
	var animate bool

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Send a typed request to the assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newAPIClient(opts.server).Query(strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderResult(res))
			if animate {
				react(opts, res, func(s reaction.State) { fmt.Fprintln(out, renderState(s)) })
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&animate, "animate", true, "Show the character reaction and play the reply")
	return cmd
}

func transcribeCmd(opts *options) *cobra.Command {
	var answer bool

	cmd := &cobra.Command{
		Use:   "transcribe <file>",
		Short: "Transcribe a recording, optionally answering it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			audio, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			client := newAPIClient(opts.server)
			out := cmd.OutOrStdout()

			if !answer {
				t, err := client.Transcribe(args[0], audio)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderTranscription(t.Text, t.Confidence, ""))
				return nil
			}

			res, err := client.Voice(args[0], audio)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderTranscription(res.Text, res.Confidence, res.Error))
			if res.Response != nil {
				fmt.Fprintln(out, renderResult(*res.Response))
				react(opts, *res.Response, func(s reaction.State) { fmt.Fprintln(out, renderState(s)) })
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&answer, "answer", false, "Also run the transcript through the assistant")
	return cmd
}

// react runs the character sequence for res locally and returns once the
// character is back to waiting.
func react(opts *options, res domain.AssistantResult, show func(reaction.State)) {
	if res.Kind != domain.ActionUnknown && !res.HasAudio() {
		return
	}

	states := make(chan reaction.State, 16)
	seq := reaction.New(opts.player(),
		reaction.WithLogger(opts.logger().With(zap.String("component", "reaction"))),
		reaction.WithObserver(func(s reaction.State) {
			select {
			case states <- s:
			default:
			}
		}),
	)
	defer seq.Close()

	<-states // initial waiting
	seq.Submit(res)
	for s := range states {
		show(s)
		if s == reaction.Waiting {
			return
		}
	}
}
