package cricsheet

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalRecord = `{
  "info": {
    "event": {"name": "Indian Premier League", "match_number": 3, "stage": "Qualifier 1"},
    "season": %s,
    "dates": ["2021-04-10"],
    "teams": ["Alpha", "Beta"],
    "venue": "Wankhede Stadium",
    "outcome": {"winner": "Beta", "by": {"wickets": 7}},
    "player_of_match": ["B1"]
  },
  "innings": [
    {"team": "Alpha", "overs": [{"over": 0, "deliveries": [
      {"batter": "A1", "bowler": "B9", "runs": {"batter": 1, "extras": 0, "total": 1}},
      {"batter": "A2", "bowler": "B9", "runs": {"batter": 0, "extras": 0, "total": 0},
       "wickets": [{"player_out": "A2", "kind": "lbw"}]}
    ]}]},
    {"team": "Beta", "super_over": true, "overs": []}
  ]
}`

func recordWithSeason(season string) string {
	return strings.Replace(minimalRecord, "%s", season, 1)
}

func TestDecodeSeasonForms(t *testing.T) {
	cases := map[string]int{
		`2021`:      2021,
		`"2021"`:    2021,
		`"2007/08"`: 2007,
	}
	for raw, want := range cases {
		rec, err := Decode(strings.NewReader(recordWithSeason(raw)))
		require.NoError(t, err, raw)
		year, err := rec.Info.Season.Year()
		require.NoError(t, err, raw)
		assert.Equal(t, want, year, raw)
	}
}

func TestDecodeFields(t *testing.T) {
	rec, err := Decode(strings.NewReader(recordWithSeason(`"2021"`)))
	require.NoError(t, err)

	assert.Equal(t, "Qualifier 1", rec.Info.Event.Stage)
	assert.Equal(t, 3, rec.Info.Event.MatchNumber)
	require.NotNil(t, rec.Info.Outcome.By.Wickets)
	assert.Equal(t, 7, *rec.Info.Outcome.By.Wickets)
	assert.Nil(t, rec.Info.Outcome.By.Runs)
	require.Len(t, rec.Innings, 2)
	assert.True(t, rec.Innings[1].SuperOver)
	d := rec.Innings[0].Overs[0].Deliveries[1]
	require.Len(t, d.Wickets, 1)
	assert.Equal(t, "lbw", d.Wickets[0].Kind)
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"syntax":         `{"info": `,
		"type mismatch":  `{"info": {"dates": "2021-04-10"}}`,
		"no dates":       `{"info": {"teams": ["A", "B"]}}`,
		"missing bowler": `{"info": {"dates": ["2021-04-10"]}, "innings": [{"team": "A", "overs": [{"over": 0, "deliveries": [{"batter": "x", "runs": {"batter": 0, "total": 0}}]}]}]}`,
		"innings team":   `{"info": {"dates": ["2021-04-10"]}, "innings": [{"overs": []}]}`,
	}
	for name, doc := range cases {
		_, err := Decode(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrMalformed, name)
	}
}

func TestSeasonWithoutYear(t *testing.T) {
	rec, err := Decode(strings.NewReader(recordWithSeason(`"unknown"`)))
	require.NoError(t, err)
	_, err = rec.Info.Season.Year()
	assert.Error(t, err)
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestOpenArchiveNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipl_json.zip")
	writeZip(t, path, map[string]string{
		"335982.json":  "{}",
		"1426312.json": "{}",
		"980901.json":  "{}",
		"README.txt":   "readme",
	})

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	var names []string
	for _, e := range src.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"1426312.json", "980901.json", "335982.json"}, names)

	rc, err := src.Entries[0].Open()
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "{}", string(body))

	src.Limit(2)
	assert.Len(t, src.Entries, 2)
}

func TestOpenDirAndFile(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"1.json", "2.json", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("{}"), 0o644))
	}

	src, err := Open(dir)
	require.NoError(t, err)
	require.Len(t, src.Entries, 2)
	assert.Equal(t, "2.json", src.Entries[0].Name)
	assert.NoError(t, src.Close())

	single, err := Open(filepath.Join(dir, "1.json"))
	require.NoError(t, err)
	require.Len(t, single.Entries, 1)
	assert.Equal(t, "1.json", single.Entries[0].Name)

	_, err = Open(filepath.Join(dir, "missing.zip"))
	assert.Error(t, err)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "cricmetrics/1.0", r.Header.Get("User-Agent"))
		io.WriteString(w, "archive-bytes")
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	var buf bytes.Buffer
	n, err := c.Download(context.Background(), srv.URL+"/ipl_json.zip", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)
	assert.Equal(t, "archive-bytes", buf.String())

	_, err = c.Download(context.Background(), srv.URL+"/missing", io.Discard)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestDownloadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(50 * time.Millisecond)
	_, err := c.Download(context.Background(), srv.URL, io.Discard)
	assert.ErrorIs(t, err, ErrTransport)
}
