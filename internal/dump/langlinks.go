package dump

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

// Langlink is one (io_title, eo_title) interwiki pair extracted from the
// langlinks SQL dump.
type Langlink struct {
	IoTitle string
	EoTitle string
}

// LanglinkStats counts parse outcomes for the statistics report.
type LanglinkStats struct {
	RowsScanned int
	RowsBadLang int
	RowsNoPage  int
	Pairs       int
}

// maxSQLLine bounds one INSERT statement line (MediaWiki dumps keep them
// under 1 MB; 16 MB leaves headroom).
const maxSQLLine = 16 << 20

// ReadLanglinks streams a gzipped SQL dump containing INSERT INTO langlinks
// statements and emits deduplicated (io_title, eo_title) pairs in input
// order. resolve maps a ll_from page id to its Ido Wikipedia title; pages
// that resolve to nothing (deleted, non-main namespace) are skipped, as are
// rows whose language code is not "eo". The first pair per io title wins.
func ReadLanglinks(path string, resolve func(int64) (string, bool), emit func(Langlink) error) (LanglinkStats, error) {
	var stats LanglinkStats

	f, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("open langlinks %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return stats, fmt.Errorf("%w: gzip %s: %v", domain.ErrMalformedDump, path, err)
		}
		defer gz.Close()
		r = gz
	}

	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxSQLLine)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "INSERT INTO") || !strings.Contains(line, "langlinks") {
			continue
		}

		for _, row := range parseTuples(line) {
			stats.RowsScanned++
			if len(row) < 3 {
				continue
			}

			if row[1] != "eo" {
				stats.RowsBadLang++
				continue
			}

			fromID, err := strconv.ParseInt(row[0], 10, 64)
			if err != nil {
				continue
			}

			ioTitle, ok := resolve(fromID)
			if !ok || !KeepTitle(ioTitle) {
				stats.RowsNoPage++
				continue
			}

			eoTitle := strings.ReplaceAll(row[2], "_", " ")
			if eoTitle == "" || seen[ioTitle] {
				continue
			}
			seen[ioTitle] = true

			stats.Pairs++
			if err := emit(Langlink{IoTitle: ioTitle, EoTitle: eoTitle}); err != nil {
				return stats, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("%w: scan %s: %v", domain.ErrMalformedDump, path, err)
	}

	return stats, nil
}

// parseTuples extracts the value tuples of one INSERT statement. It walks
// the statement with a small state machine so quoted commas, escaped quotes
// and parentheses inside strings do not break fields.
func parseTuples(line string) [][]string {
	idx := strings.Index(line, "VALUES")
	if idx < 0 {
		return nil
	}
	s := line[idx+len("VALUES"):]

	var (
		tuples   [][]string
		fields   []string
		field    strings.Builder
		inTuple  bool
		inString bool
		escaped  bool
	)

	flushField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}

	for _, c := range s {
		if inString {
			switch {
			case escaped:
				field.WriteRune(c)
				escaped = false
			case c == '\\':
				escaped = true
			case c == '\'':
				inString = false
			default:
				field.WriteRune(c)
			}
			continue
		}

		switch c {
		case '(':
			if !inTuple {
				inTuple = true
				fields = nil
			}
		case ')':
			if inTuple {
				flushField()
				tuples = append(tuples, fields)
				fields = nil
				inTuple = false
			}
		case ',':
			if inTuple {
				flushField()
			}
		case '\'':
			if inTuple {
				inString = true
			}
		default:
			if inTuple && c != ' ' {
				field.WriteRune(c)
			}
		}
	}

	return tuples
}
