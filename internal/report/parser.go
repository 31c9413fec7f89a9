// Package report turns a line stream from internal/stream into a populated
// internal/model.Db, grounded on the producer/consumer pipeline in
// parser/rpt_parser.h and the leda dialect's state machine in
// parser/leda_rpt.cpp. The original uses a process-wide mutex, condition
// variable and queue; here the queue is a per-Parser buffered channel and
// "done" is communicated by closing it, so there is no process-global state.
package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"sync"

	"github.com/kinling9/stacompare/internal/model"
)

// ParseError reports that a path record is malformed: a mandatory header
// line failed its pattern, or a net row arrived before any pin row. The
// surrounding path is dropped and the error is kept in ParseStats.Errors;
// parsing of the report continues (a recoverable condition, not fatal).
type ParseError struct {
	Dialect string
	Reason  string
	Lines   []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("report: %s: %s", e.Dialect, e.Reason)
}

// Dialect externalizes the regex set and per-line decoding rules for one
// report format (leda, invs, ...); the pipeline shell in Parser is shared
// across dialects.
type Dialect interface {
	// Name identifies the dialect, stored as Db.Tool.
	Name() string
	// StartPattern matches the first line of a new path record.
	StartPattern() *regexp.Regexp
	// DecodePath decodes one path's raw lines into db, returning a
	// ParseError (non-fatal, dropped path) if a mandatory header line
	// never matched.
	DecodePath(db *model.Db, lines []string) error
}

// Parser runs a single-producer / N-consumer pipeline over a line stream.
type Parser struct {
	Dialect   Dialect
	Consumers int
	QueueSize int
}

const defaultConsumers = 4
const defaultQueueSize = 64

// Parse consumes lines from r, segmenting on Dialect.StartPattern and
// handing segments to consumer goroutines, which call DecodePath one at a
// time under a shared mutex; it then returns the populated, finalized Db.
// A path whose decode fails is dropped and its error recorded in
// ParseStats (not fatal); only a stream read error or a cancelled ctx
// aborts the whole parse.
func (p *Parser) Parse(ctx context.Context, design string, r io.Reader) (*model.Db, *ParseStats, error) {
	consumers := p.Consumers
	if consumers <= 0 {
		consumers = defaultConsumers
	}

	queueSize := p.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	db := model.NewDb(p.Dialect.Name(), design)

	segments := make(chan []string, queueSize)

	stats := &ParseStats{}

	var (
		dbMu    sync.Mutex // serializes writes into db's shared arenas
		statsMu sync.Mutex
		wg      sync.WaitGroup
		scanErr error
	)

	wg.Add(1)

	go func() {
		defer wg.Done()
		defer close(segments)

		scanErr = produceSegments(ctx, r, p.Dialect.StartPattern(), segments)
	}()

	var consumerWG sync.WaitGroup

	consumerWG.Add(consumers)

	for i := 0; i < consumers; i++ {
		go func() {
			defer consumerWG.Done()

			for segment := range segments {
				if len(segment) == 0 {
					continue
				}

				dbMu.Lock()
				err := p.Dialect.DecodePath(db, segment)
				dbMu.Unlock()

				statsMu.Lock()
				if err != nil {
					stats.Dropped++
					stats.Errors = append(stats.Errors, err)
				} else {
					stats.Decoded++
				}
				statsMu.Unlock()
			}
		}()
	}

	consumerWG.Wait()
	wg.Wait()

	if scanErr != nil {
		return nil, stats, scanErr
	}

	db.Finalize()

	return db, stats, nil
}

// ParseStats reports per-parse outcome counts for observability.
type ParseStats struct {
	Decoded int
	Dropped int
	Errors  []error
}

func produceSegments(ctx context.Context, r io.Reader, start *regexp.Regexp, out chan<- []string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var current []string

	started := false

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Text()

		if start.MatchString(line) {
			if started {
				out <- current
				current = nil
			}

			started = true
		}

		current = append(current, line)
	}

	if len(current) > 0 {
		out <- current
	}

	return scanner.Err()
}
