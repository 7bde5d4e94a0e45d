// Package dump streams MediaWiki dump files: bz2-compressed XML page dumps
// and gzipped SQL dumps of the langlinks table. Readers decompress and parse
// incrementally; the whole document is never materialized.
package dump

import (
	"compress/bzip2"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

// Page is one main-namespace article from a MediaWiki XML dump.
type Page struct {
	ID        int64
	Title     string
	Namespace int
	Text      string
}

// skippedTitlePrefixes are namespace-like title prefixes that never carry
// lexical evidence. Matching is exact-prefix over the first colon segment.
var skippedTitlePrefixes = []string{
	"Kategorio:", "Category:",
	"File:", "Arkivo:", "Dosiero:", "Imajo:", "Image:",
	"Shablono:", "Template:", "Ŝablono:",
	"Wikipedio:", "Wikipedia:", "Wikivortaro:", "Wiktionary:",
	"MediaWiki:", "Mediawiki:",
	"Uzanto:", "Uzero:", "User:",
	"Helpo:", "Help:",
	"Modulo:", "Module:",
	"Portal:", "Portalo:",
	"Apendico:", "Appendix:",
}

// KeepTitle reports whether a main-namespace title should be processed.
func KeepTitle(title string) bool {
	if title == "" {
		return false
	}
	for _, p := range skippedTitlePrefixes {
		if strings.HasPrefix(title, p) {
			return false
		}
	}
	return true
}

// Stats counts reader outcomes for the statistics report.
type Stats struct {
	PagesRead    int
	PagesSkipped int
	PageFaults   int
}

// Reader iterates main-namespace pages of a bz2-compressed MediaWiki XML
// dump. It is lazy, finite and non-restartable; Close releases the file.
type Reader struct {
	f     *os.File
	dec   *xml.Decoder
	stats Stats
}

// xmlPage mirrors the subset of the <page> element the pipeline consumes.
type xmlPage struct {
	Title    string `xml:"title"`
	Ns       int    `xml:"ns"`
	ID       int64  `xml:"id"`
	Revision struct {
		Text string `xml:"text"`
	} `xml:"revision"`
}

// Open opens a page dump, wrapping it in a bzip2 decompressor when the path
// ends in ".bz2".
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump %s: %w", path, err)
	}

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".bz2") {
		r = bzip2.NewReader(f)
	}

	return &Reader{f: f, dec: xml.NewDecoder(r)}, nil
}

// Next returns the next kept page, io.EOF at the end of the dump, or a
// domain.ErrMalformedDump-wrapped error when the outer XML is unrecoverable.
// Per-page decoding faults are counted and the page skipped.
func (r *Reader) Next() (*Page, error) {
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDump, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "page" {
			continue
		}

		var p xmlPage
		if err := r.dec.DecodeElement(&p, &se); err != nil {
			r.stats.PageFaults++
			continue
		}

		if p.Ns != 0 || !KeepTitle(p.Title) {
			r.stats.PagesSkipped++
			continue
		}

		r.stats.PagesRead++
		return &Page{ID: p.ID, Title: p.Title, Namespace: p.Ns, Text: p.Revision.Text}, nil
	}
}

// Stats returns counters accumulated so far.
func (r *Reader) Stats() Stats {
	return r.stats
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
