package cricsheet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pable/cricmetrics/internal/model"
)

// ErrMalformed marks a record whose structure defeats field extraction.
var ErrMalformed = errors.New("malformed record")

// Decode parses one match document. Syntax errors, type mismatches and
// deliveries without a batter or bowler are reported as ErrMalformed.
func Decode(r io.Reader) (*model.RawRecord, error) {
	var rec model.RawRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := validate(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &rec, nil
}

func validate(rec *model.RawRecord) error {
	if len(rec.Info.Dates) == 0 || rec.Info.Dates[0] == "" {
		return errors.New("info.dates is empty")
	}
	for i, inn := range rec.Innings {
		if inn.Team == "" {
			return fmt.Errorf("innings %d has no team", i+1)
		}
		for _, ov := range inn.Overs {
			for j, d := range ov.Deliveries {
				if d.Batter == "" || d.Bowler == "" {
					return fmt.Errorf("innings %d over %d ball %d: missing batter or bowler", i+1, ov.Over, j+1)
				}
			}
		}
	}
	return nil
}
