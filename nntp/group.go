package nntp

import (
	"strconv"
	"strings"
)

// Group is the server's summary of a selected newsgroup.
type Group struct {
	// Number is the estimated article count; servers may over-report.
	Number uint64
	// Low is the lowest article number in the group.
	Low uint64
	// High is the highest article number in the group.
	High uint64
	// Name is the group's name as echoed by the server.
	Name string
}

// ParseGroup converts a GROUP response into a Group. The response must
// carry the group-selected code; every field of the status line is
// required.
func ParseGroup(resp *RawResponse) (*Group, error) {
	if _, err := resp.FailUnless(KindGroupSelected); err != nil {
		return nil, err
	}

	fields := strings.Fields(resp.FirstLineString())
	// fields[0] is the status code.
	next := func(name string) (string, error) {
		if len(fields) < 2 {
			return "", &MissingFieldError{Field: name}
		}
		fields = fields[1:]
		return fields[0], nil
	}
	numeric := func(name string) (uint64, error) {
		raw, err := next(name)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0, &ParseError{Field: name, Value: raw, Err: err}
		}
		return n, nil
	}

	var (
		g   Group
		err error
	)
	if g.Number, err = numeric("number"); err != nil {
		return nil, err
	}
	if g.Low, err = numeric("low"); err != nil {
		return nil, err
	}
	if g.High, err = numeric("high"); err != nil {
		return nil, err
	}
	if g.Name, err = next("name"); err != nil {
		return nil, err
	}
	return &g, nil
}
