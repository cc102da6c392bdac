package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/reaction"
)

var (
	accent  = lipgloss.Color("#8BC34A")
	info    = lipgloss.Color("#2196F3")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#e53935")
	muted   = lipgloss.Color("#9E9E9E")

	badgeStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(muted)
	textStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(danger)
)

var faces = map[reaction.State]string{
	reaction.Waiting:   "(-_-)",
	reaction.Listening: "(o_o)",
	reaction.Talking:   "(^o^)",
	reaction.Approval:  "(^_^)b",
	reaction.Shoulders: `¯\_(o_o)_/¯`,
	reaction.Confused:  "(?_?)",
}

func stateColor(s reaction.State) lipgloss.Color {
	switch s.Mode {
	case reaction.ModeListening:
		return info
	case reaction.ModeTalking, reaction.ModeReacting:
		if s.Reaction == reaction.ReactionShoulders {
			return warning
		}
		return accent
	case reaction.ModeConfused:
		return danger
	}
	return muted
}

func renderState(s reaction.State) string {
	face, ok := faces[s]
	if !ok {
		face = "(._.)"
	}
	return badgeStyle.Background(stateColor(s)).Render(face) + " " + labelStyle.Render(s.String())
}

// parseState reads the mode and reaction names of a state frame.
func parseState(mode, react string) reaction.State {
	for _, s := range []reaction.State{
		reaction.Waiting, reaction.Listening, reaction.Talking,
		reaction.Approval, reaction.Shoulders, reaction.Confused,
	} {
		if s.Mode.String() == mode && string(s.Reaction) == react {
			return s
		}
	}
	return reaction.Waiting
}

func renderResult(r domain.AssistantResult) string {
	var b strings.Builder
	b.WriteString(badgeStyle.Background(info).Render(string(r.Kind)))
	if params := describeParams(r.Action); params != "" {
		b.WriteString(" " + labelStyle.Render(params))
	}
	b.WriteString("\n" + textStyle.Render(r.ResponseText))
	if !r.HasAudio() {
		b.WriteString(" " + labelStyle.Render("(no audio)"))
	}
	return b.String()
}

func describeParams(a domain.Action) string {
	if a.Params == nil {
		return ""
	}
	var parts []string
	if a.Params.SortBy != "" {
		parts = append(parts, fmt.Sprintf("sortBy=%s", a.Params.SortBy))
	}
	if a.Params.Order != "" {
		parts = append(parts, fmt.Sprintf("order=%s", a.Params.Order))
	}
	if f := a.Params.Filter; f != nil {
		if f.Category != "" {
			parts = append(parts, fmt.Sprintf("category=%q", f.Category))
		}
		if f.PriceLessThan != nil {
			parts = append(parts, fmt.Sprintf("priceLessThan=%g", *f.PriceLessThan))
		}
		if f.SearchTerm != "" {
			parts = append(parts, fmt.Sprintf("search=%q", f.SearchTerm))
		}
	}
	return strings.Join(parts, " ")
}

func renderTranscription(text string, confidence *float64, errMsg string) string {
	if errMsg != "" {
		return errorStyle.Render(errMsg)
	}
	out := labelStyle.Render("heard: ") + textStyle.Render(text)
	if confidence != nil {
		out += labelStyle.Render(fmt.Sprintf(" (%.0f%%)", *confidence*100))
	}
	return out
}
