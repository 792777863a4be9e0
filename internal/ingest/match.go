package ingest

import (
	"strings"

	"github.com/pable/cricmetrics/internal/model"
)

// buildMatch maps a validated raw record onto a Match row. The caller has
// already checked that exactly two teams are listed and resolved the season.
func buildMatch(raw *model.RawRecord, season int) model.Match {
	info := raw.Info
	m := model.Match{
		Season:       season,
		MatchNumber:  info.Event.MatchNumber,
		Date:         info.Dates[0],
		Venue:        orUnknown(info.Venue),
		City:         orUnknown(info.City),
		Team1:        info.Teams[0],
		Team2:        info.Teams[1],
		TossWinner:   info.Toss.Winner,
		TossDecision: info.Toss.Decision,
		Winner:       info.Outcome.Winner,
		MatchType:    matchType(info.Event),
	}

	switch by := info.Outcome.By; {
	case by.Runs != nil:
		m.ResultType, m.ResultMargin = model.ResultRuns, *by.Runs
	case by.Wickets != nil:
		m.ResultType, m.ResultMargin = model.ResultWickets, *by.Wickets
	default:
		m.ResultType, m.ResultMargin = model.ResultTie, 0
	}
	if m.ResultMargin < 0 {
		m.ResultMargin = 0
	}

	if len(info.PlayerOfMatch) > 0 {
		m.PlayerOfMatch = info.PlayerOfMatch[0]
	}
	return m
}

// matchType derives the competition stage. Stage labels seen upstream include
// "Final", "Qualifier 1", "Eliminator" and "Semi Final".
func matchType(ev model.RawEvent) model.MatchType {
	stage := strings.ToLower(ev.Stage)
	switch {
	case strings.Contains(stage, "qualifier"), strings.Contains(stage, "semi"):
		return model.MatchQualifier
	case strings.Contains(stage, "eliminator"):
		return model.MatchEliminator
	case strings.Contains(stage, "final"), strings.Contains(strings.ToLower(ev.Name), "final"):
		return model.MatchFinal
	}
	return model.MatchLeague
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// competitionMatches reports whether the record's event label names the
// target competition, exactly or as a substring.
func competitionMatches(event, target string) bool {
	if target == "" {
		return true
	}
	return event == target || strings.Contains(event, target)
}
