package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// ---- Raw records decoded from the upstream source ----

// RawRecord is one upstream match document: an info block and ordered innings.
type RawRecord struct {
	Info    RawInfo      `json:"info"`
	Innings []RawInnings `json:"innings"`
}

type RawInfo struct {
	Event         RawEvent   `json:"event"`
	Season        RawSeason  `json:"season"`
	Dates         []string   `json:"dates"`
	Teams         []string   `json:"teams"`
	Venue         string     `json:"venue"`
	City          string     `json:"city"`
	Toss          RawToss    `json:"toss"`
	Outcome       RawOutcome `json:"outcome"`
	PlayerOfMatch []string   `json:"player_of_match"`
}

type RawEvent struct {
	Name        string `json:"name"`
	MatchNumber int    `json:"match_number"`
	Stage       string `json:"stage"`
}

type RawToss struct {
	Winner   string `json:"winner"`
	Decision string `json:"decision"`
}

type RawOutcome struct {
	Winner string `json:"winner"`
	By     struct {
		Runs    *int `json:"runs"`
		Wickets *int `json:"wickets"`
	} `json:"by"`
	Result string `json:"result"` // "tie", "no result", "draw"
	Method string `json:"method"` // e.g. "D/L"
}

type RawInnings struct {
	Team      string    `json:"team"`
	Overs     []RawOver `json:"overs"`
	SuperOver bool      `json:"super_over"`
}

type RawOver struct {
	Over       int           `json:"over"`
	Deliveries []RawDelivery `json:"deliveries"`
}

type RawDelivery struct {
	Batter  string      `json:"batter"`
	Bowler  string      `json:"bowler"`
	Runs    RawRuns     `json:"runs"`
	Wickets []RawWicket `json:"wickets"`
}

type RawRuns struct {
	Batter int `json:"batter"`
	Extras int `json:"extras"`
	Total  int `json:"total"`
}

type RawWicket struct {
	PlayerOut string `json:"player_out"`
	Kind      string `json:"kind"`
}

// RawSeason keeps the season exactly as the source wrote it: a bare integer
// (2016), a string ("2016"), or a split season ("2007/08").
type RawSeason string

var yearRE = regexp.MustCompile(`\d{4}`)

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (s *RawSeason) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = RawSeason(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("season: %w", err)
	}
	*s = RawSeason(n.String())
	return nil
}

// Year returns the first four-digit component of the season.
func (s RawSeason) Year() (int, error) {
	m := yearRE.FindString(string(s))
	if m == "" {
		return 0, fmt.Errorf("season %q has no year", string(s))
	}
	return strconv.Atoi(m)
}
