package logparse

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"smite-parser/internal/constants"

	"github.com/rs/zerolog"
)

// Stats counts what happened to the input lines during a decode.
type Stats struct {
	Lines     int
	Records   int
	Skipped   int // blank or structural lines
	Malformed int
}

type Decoder struct {
	SkipMalformed bool
	Logger        zerolog.Logger
}

func NewDecoder(skipMalformed bool, logger zerolog.Logger) *Decoder {
	return &Decoder{SkipMalformed: skipMalformed, Logger: logger}
}

// Decode reads r line by line and returns the decoded records in input order.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) ([]Record, Stats, error) {
	var (
		records []Record
		stats   Stats
	)

	br := bufio.NewReaderSize(r, 64*1024)
	var buf []byte

	for {
		raw, tooLong, err := readLine(br, buf, constants.MaxLineBytes)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("failed to read log: %w", err)
		}
		buf = raw

		stats.Lines++
		if stats.Lines%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		if tooLong {
			if !d.SkipMalformed {
				return nil, stats, &DecodeError{Line: stats.Lines, Err: bufio.ErrTooLong}
			}
			stats.Malformed++
			d.Logger.Warn().
				Int("line", stats.Lines).
				Int("limit", constants.MaxLineBytes).
				Msg("skipping oversized line")
			continue
		}

		line, ok := Repair(string(raw))
		if !ok {
			stats.Skipped++
			continue
		}

		rec, err := decodeLine(line)
		if err != nil {
			derr := &DecodeError{Line: stats.Lines, Text: line, Err: err}
			if !d.SkipMalformed {
				return nil, stats, derr
			}
			stats.Malformed++
			d.Logger.Warn().
				Int("line", stats.Lines).
				Err(err).
				Msg("skipping malformed line")
			continue
		}

		records = append(records, rec)
		stats.Records++
	}

	d.Logger.Debug().
		Int("lines", stats.Lines).
		Int("records", stats.Records).
		Int("malformed", stats.Malformed).
		Msg("log decoded")

	return records, stats, nil
}

// readLine returns the next line without its terminator, reusing buf. A line
// longer than limit is read to its end and reported as tooLong with no
// content. io.EOF is returned only when no input is left.
func readLine(br *bufio.Reader, buf []byte, limit int) (line []byte, tooLong bool, err error) {
	line = buf[:0]
	for read := false; ; read = true {
		chunk, isPrefix, rerr := br.ReadLine()
		if rerr != nil {
			if errors.Is(rerr, io.EOF) && read {
				return line, tooLong, nil
			}
			return nil, false, rerr
		}

		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

func decodeLine(line string) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.UseNumber()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("line is not a JSON object")
	}
	if dec.More() {
		return nil, errors.New("trailing data after record")
	}
	return rec, nil
}
