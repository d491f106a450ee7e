package ticket

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

var api = sonic.ConfigStd

// Encode serializes the collection as a JSON array in the order given.
func Encode(tickets []Ticket) ([]byte, error) {
	if tickets == nil {
		tickets = []Ticket{}
	}
	return api.Marshal(tickets)
}

// Decode parses a stored collection. Records without an id, or with an id seen
// earlier in the array, make the whole collection invalid.
func Decode(raw []byte) ([]Ticket, error) {
	var tickets []Ticket
	if err := api.Unmarshal(raw, &tickets); err != nil {
		return nil, &DecodeError{Err: err}
	}

	seen := make(map[string]struct{}, len(tickets))
	for i, t := range tickets {
		if t.ID == "" {
			return nil, &DecodeError{Err: fmt.Errorf("record %d has no id", i)}
		}
		if _, ok := seen[t.ID]; ok {
			return nil, &DecodeError{Err: fmt.Errorf("record %d repeats id %q", i, t.ID)}
		}
		seen[t.ID] = struct{}{}
	}
	if tickets == nil {
		tickets = []Ticket{}
	}
	return tickets, nil
}

func isDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}
