package dump

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

const sampleDump = `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
  <siteinfo><sitename>Wikivortaro</sitename></siteinfo>
  <page>
    <title>hundo</title>
    <ns>0</ns>
    <id>1</id>
    <revision><text>== Ido ==
* {{eo}}: {{t|eo|hundo}}</text></revision>
  </page>
  <page>
    <title>Kategorio:Animali</title>
    <ns>0</ns>
    <id>2</id>
    <revision><text>kategorio-pagino</text></revision>
  </page>
  <page>
    <title>Diskuto:hundo</title>
    <ns>1</ns>
    <id>3</id>
    <revision><text>diskuto</text></revision>
  </page>
  <page>
    <title>kato</title>
    <ns>0</ns>
    <id>4</id>
    <revision><text>== Ido ==
* {{eo}}: {{t|eo|kato}}</text></revision>
  </page>
</mediawiki>`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReaderStreamsMainNamespacePages(t *testing.T) {
	r, err := Open(writeDump(t, sampleDump))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var titles []string
	for {
		p, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		titles = append(titles, p.Title)
	}

	if len(titles) != 2 || titles[0] != "hundo" || titles[1] != "kato" {
		t.Errorf("titles = %v, want [hundo kato]", titles)
	}

	stats := r.Stats()
	if stats.PagesRead != 2 {
		t.Errorf("PagesRead = %d, want 2", stats.PagesRead)
	}
	if stats.PagesSkipped != 2 {
		t.Errorf("PagesSkipped = %d, want 2", stats.PagesSkipped)
	}
}

func TestReaderMalformedRoot(t *testing.T) {
	r, err := Open(writeDump(t, "<mediawiki><page><title>x</title>"))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	for {
		_, err = r.Next()
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		t.Fatal("truncated dump should not end with clean EOF")
	}
	if !errors.Is(err, domain.ErrMalformedDump) {
		t.Errorf("err = %v, want ErrMalformedDump", err)
	}
}

func TestKeepTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"hundo", true},
		{"Acensilo", true},
		{"Kategorio:Animali", false},
		{"Template:Infobox", false},
		{"Shablono:Citajo", false},
		{"File:Foto.jpg", false},
		{"Uzanto:Petro", false},
		{"", false},
		{"A:B", true}, // unknown prefix, kept
	}
	for _, tt := range tests {
		if got := KeepTitle(tt.title); got != tt.want {
			t.Errorf("KeepTitle(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestParseTuples(t *testing.T) {
	line := `INSERT INTO ` + "`langlinks`" + ` VALUES (12,'eo','Parizo'),(13,'en','Paris'),(14,'eo','Monto Blanka'),(15,'eo','l\'arto');`
	tuples := parseTuples(line)

	if len(tuples) != 4 {
		t.Fatalf("got %d tuples, want 4", len(tuples))
	}
	if tuples[0][0] != "12" || tuples[0][1] != "eo" || tuples[0][2] != "Parizo" {
		t.Errorf("tuple[0] = %v", tuples[0])
	}
	if tuples[2][2] != "Monto Blanka" {
		t.Errorf("quoted space broken: %v", tuples[2])
	}
	if tuples[3][2] != "l'arto" {
		t.Errorf("escaped quote broken: %v", tuples[3])
	}
}

func TestReadLanglinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "langlinks.sql")
	content := "-- MySQL dump\n" +
		`INSERT INTO ` + "`langlinks`" + ` VALUES (1,'eo','Parizo'),(1,'eo','Parizo-dua'),(2,'en','Paris'),(3,'eo','Hundo'),(4,'eo','Nekonata');` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	titles := map[int64]string{1: "Parizo", 3: "hundo"}
	resolve := func(id int64) (string, bool) {
		title, ok := titles[id]
		return title, ok
	}

	var pairs []Langlink
	stats, err := ReadLanglinks(path, resolve, func(l Langlink) error {
		pairs = append(pairs, l)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(pairs) != 2 {
		t.Fatalf("pairs = %v, want 2", pairs)
	}
	// First observation per io title wins.
	if pairs[0] != (Langlink{IoTitle: "Parizo", EoTitle: "Parizo"}) {
		t.Errorf("pairs[0] = %v", pairs[0])
	}
	if pairs[1] != (Langlink{IoTitle: "hundo", EoTitle: "Hundo"}) {
		t.Errorf("pairs[1] = %v", pairs[1])
	}
	if stats.RowsBadLang != 1 {
		t.Errorf("RowsBadLang = %d, want 1", stats.RowsBadLang)
	}
	if stats.RowsNoPage != 1 {
		t.Errorf("RowsNoPage = %d, want 1", stats.RowsNoPage)
	}
}
