package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/idolinguo/idoeo-extractor/internal/align"
	"github.com/idolinguo/idoeo-extractor/internal/bidix"
	"github.com/idolinguo/idoeo-extractor/internal/config"
	"github.com/idolinguo/idoeo-extractor/internal/domain"
	"github.com/idolinguo/idoeo-extractor/internal/dump"
	"github.com/idolinguo/idoeo-extractor/internal/filter"
	"github.com/idolinguo/idoeo-extractor/internal/merge"
	"github.com/idolinguo/idoeo-extractor/internal/morph"
	"github.com/idolinguo/idoeo-extractor/internal/parser/via"
	"github.com/idolinguo/idoeo-extractor/internal/parser/wikivocab"
	"github.com/idolinguo/idoeo-extractor/internal/parser/wiktionary"
	"github.com/idolinguo/idoeo-extractor/internal/report"
	"github.com/idolinguo/idoeo-extractor/pkg/stream"
)

// Paths locates every artifact of the pipeline.
type Paths struct {
	IoWikt    string
	EoWikt    string
	EnVia     string
	FrVia     string
	FrMeaning string
	WikiVocab string
	Frequency string
	Aligned   string
	Merged    string
	Conflicts string
	Morph     string
	Filtered  string
	StatsDir  string

	Bidix       string
	Monodix     string
	StatsReport string
	Coverage    string
	ConflictRpt string

	StateFile string
}

// NewPaths resolves artifact locations under the work and output dirs.
func NewPaths(workDir, outDir string) Paths {
	return Paths{
		IoWikt:    filepath.Join(workDir, "io_wiktionary.jsonl"),
		EoWikt:    filepath.Join(workDir, "eo_wiktionary.jsonl"),
		EnVia:     filepath.Join(workDir, "en_via.jsonl"),
		FrVia:     filepath.Join(workDir, "fr_via.jsonl"),
		FrMeaning: filepath.Join(workDir, "fr_meaning.jsonl"),
		WikiVocab: filepath.Join(workDir, "wiki_vocab.jsonl"),
		Frequency: filepath.Join(workDir, "frequency.tsv"),
		Aligned:   filepath.Join(workDir, "aligned.jsonl"),
		Merged:    filepath.Join(workDir, "merged.jsonl"),
		Conflicts: filepath.Join(workDir, "conflicts.jsonl"),
		Morph:     filepath.Join(workDir, "morph.jsonl"),
		Filtered:  filepath.Join(workDir, "filtered.jsonl"),
		StatsDir:  filepath.Join(workDir, "stats"),

		Bidix:       filepath.Join(outDir, "bidix.jsonl"),
		Monodix:     filepath.Join(outDir, "monodix.jsonl"),
		StatsReport: filepath.Join(outDir, "stats.txt"),
		Coverage:    filepath.Join(outDir, "coverage.txt"),
		ConflictRpt: filepath.Join(outDir, "conflicts.txt"),

		StateFile: filepath.Join(workDir, "state.yaml"),
	}
}

// BuildStages assembles the stage DAG for the configured inputs. Parse
// stages for unconfigured or disabled sources are omitted entirely.
func BuildStages(log *slog.Logger, cfg *config.Config) []Stage {
	p := NewPaths(cfg.Pipeline.WorkDir, cfg.Pipeline.OutDir)
	table := cfg.SourceTable()

	b := &stageBuilder{
		log:      log,
		cfg:      cfg,
		paths:    p,
		table:    table,
		workers:  cfg.Pipeline.Workers,
		progress: cfg.Pipeline.ProgressEvery,
	}

	var stages []Stage
	var sourceArtifacts []string

	addSource := func(st Stage) {
		stages = append(stages, st)
		sourceArtifacts = append(sourceArtifacts, st.Outputs[0])
	}

	if cfg.Dumps.IoWiktionary != "" && table.Enabled(domain.SourceIoWiktionary) {
		addSource(b.inlineStage("parse_io_wiktionary", cfg.Dumps.IoWiktionary, p.IoWikt, wiktionary.Config{
			SourceLang: "io",
			HeadLang:   domain.LanguageIdo,
			TargetLang: domain.LanguageEsperanto,
			Tag:        domain.SourceIoWiktionary,
			Confidence: table.Confidence(domain.SourceIoWiktionary),
			KeepEmpty:  true,
		}))
	}
	if cfg.Dumps.EoWiktionary != "" && table.Enabled(domain.SourceEoWiktionary) {
		addSource(b.inlineStage("parse_eo_wiktionary", cfg.Dumps.EoWiktionary, p.EoWikt, wiktionary.Config{
			SourceLang: "eo",
			HeadLang:   domain.LanguageEsperanto,
			TargetLang: domain.LanguageIdo,
			Tag:        domain.SourceEoWiktionary,
			Confidence: table.Confidence(domain.SourceEoWiktionary),
		}))
	}
	if cfg.Dumps.EnWiktionary != "" && table.Enabled(domain.SourceEnWiktionaryVia) {
		addSource(b.viaStage("parse_en_wiktionary", cfg.Dumps.EnWiktionary, "en", []viaOutput{{
			path: p.EnVia,
			mode: via.CoOccurrence,
			tag:  domain.SourceEnWiktionaryVia,
		}}))
	}
	if cfg.Dumps.FrWiktionary != "" {
		var outs []viaOutput
		if table.Enabled(domain.SourceFrWiktionaryMean) {
			outs = append(outs, viaOutput{path: p.FrMeaning, mode: via.SameMeaning, tag: domain.SourceFrWiktionaryMean})
		}
		if table.Enabled(domain.SourceFrWiktionaryVia) {
			outs = append(outs, viaOutput{path: p.FrVia, mode: via.CoOccurrence, tag: domain.SourceFrWiktionaryVia})
		}
		if len(outs) > 0 {
			st := b.viaStage("parse_fr_wiktionary", cfg.Dumps.FrWiktionary, "fr", outs)
			stages = append(stages, st)
			for _, o := range outs {
				sourceArtifacts = append(sourceArtifacts, o.path)
			}
		}
	}
	if cfg.Dumps.IoWikipedia != "" && table.Enabled(domain.SourceIoWikipedia) {
		st := b.wikipediaStage()
		stages = append(stages, st)
		sourceArtifacts = append(sourceArtifacts, p.WikiVocab)
	}

	stages = append(stages,
		b.alignStage(sourceArtifacts),
		b.mergeStage(),
		b.morphologyStage(),
		b.filterStage(),
		b.bidixStage(),
		b.reportStage(),
	)
	return stages
}

type stageBuilder struct {
	log      *slog.Logger
	cfg      *config.Config
	paths    Paths
	table    domain.SourceTable
	workers  int
	progress int
}

func (b *stageBuilder) statsPath(stage string) string {
	return filepath.Join(b.paths.StatsDir, stage+".json")
}

// streamPages feeds dump pages into fn via the ordered parallel mapper and
// hands results to emit in input order. Reader errors abort the stage.
func streamPages[T any](ctx context.Context, b *stageBuilder, path string, fn func(*dump.Page) (T, error), emit func(T) error) error {
	r, err := dump.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	pages := make(chan *dump.Page)
	var readErr error
	go func() {
		defer close(pages)
		for {
			page, err := r.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				readErr = err
				return
			}
			select {
			case pages <- page:
			case <-ctx.Done():
				return
			}
		}
	}()

	seen := 0
	err = stream.OrderedMap(ctx, b.workers, pages, fn, func(v T) error {
		seen++
		if b.progress > 0 && seen%b.progress == 0 {
			b.log.Info("pages processed", slog.Int("pages", seen))
		}
		return emit(v)
	})
	if err != nil {
		return err
	}
	return readErr
}

// inlineStage parses one inline-style Wiktionary dump into an entry
// artifact.
func (b *stageBuilder) inlineStage(name, dumpPath, outPath string, pcfg wiktionary.Config) Stage {
	statsPath := b.statsPath(name)
	return Stage{
		Name:    name,
		Inputs:  []string{dumpPath},
		Outputs: []string{outPath, statsPath},
		Run: func(ctx context.Context) error {
			parser := wiktionary.New(pcfg)

			w, err := NewJSONLWriter(outPath)
			if err != nil {
				return err
			}

			err = streamPages(ctx, b, dumpPath,
				func(p *dump.Page) ([]domain.Entry, error) {
					return parser.ParsePage(p.Title, p.Text), nil
				},
				func(entries []domain.Entry) error {
					for i := range entries {
						if err := w.Write(entries[i]); err != nil {
							return err
						}
					}
					return nil
				})
			if err != nil {
				w.Abort()
				return err
			}
			if err := w.Commit(); err != nil {
				return err
			}

			stats := parser.Stats()
			b.log.Info("dump parsed",
				slog.String("stage", name),
				slog.Int("pages", stats.PagesParsed),
				slog.Int("entries", stats.EntriesEmitted),
				slog.Int("rejected", stats.LemmasRejected),
			)
			return writeCounters(statsPath, map[string]int{
				"pages":           stats.PagesParsed,
				"entries":         stats.EntriesEmitted,
				"lemmas_rejected": stats.LemmasRejected,
			})
		},
	}
}

type viaOutput struct {
	path string
	mode via.Mode
	tag  domain.ProvenanceTag
}

// viaStage parses a pivot-language dump and derives IO↔EO pairs in one or
// two via modes over the same page stream.
func (b *stageBuilder) viaStage(name, dumpPath, pivotLang string, outs []viaOutput) Stage {
	statsPath := b.statsPath(name)
	outputs := make([]string, 0, len(outs)+1)
	for _, o := range outs {
		outputs = append(outputs, o.path)
	}
	outputs = append(outputs, statsPath)

	return Stage{
		Name:    name,
		Inputs:  []string{dumpPath},
		Outputs: outputs,
		Run: func(ctx context.Context) error {
			parser := wiktionary.New(wiktionary.Config{SourceLang: pivotLang})

			builders := make([]*via.Builder, len(outs))
			writers := make([]*JSONLWriter, len(outs))
			for i, o := range outs {
				builders[i] = via.New(via.Config{
					Mode:       o.mode,
					PivotLang:  pivotLang,
					Tag:        o.tag,
					Confidence: b.table.Confidence(o.tag),
				})
				w, err := NewJSONLWriter(o.path)
				if err != nil {
					for _, prev := range writers[:i] {
						prev.Abort()
					}
					return err
				}
				writers[i] = w
			}
			abortAll := func() {
				for _, w := range writers {
					w.Abort()
				}
			}

			type pageEntries struct {
				perMode [][]domain.Entry
			}

			err := streamPages(ctx, b, dumpPath,
				func(p *dump.Page) (pageEntries, error) {
					blocks := parser.PageBlocks(p.Title, p.Text)
					pe := pageEntries{perMode: make([][]domain.Entry, len(builders))}
					if len(blocks) == 0 {
						return pe, nil
					}
					for i, vb := range builders {
						pe.perMode[i] = vb.BuildPage(p.Title, blocks)
					}
					return pe, nil
				},
				func(pe pageEntries) error {
					for i, entries := range pe.perMode {
						for j := range entries {
							if err := writers[i].Write(entries[j]); err != nil {
								return err
							}
						}
					}
					return nil
				})
			if err != nil {
				abortAll()
				return err
			}

			for _, w := range writers {
				if err := w.Commit(); err != nil {
					return err
				}
			}

			counters := map[string]int{"pages": parser.Stats().PagesParsed}
			for i, o := range outs {
				counters["entries_"+string(o.tag)] = builders[i].Stats().EntriesEmitted
			}
			return writeCounters(statsPath, counters)
		},
	}
}

// wikipediaStage classifies Ido Wikipedia titles, counts token frequencies
// and attaches Esperanto titles from the langlinks dump.
func (b *stageBuilder) wikipediaStage() Stage {
	name := "parse_io_wikipedia"
	statsPath := b.statsPath(name)
	inputs := []string{b.cfg.Dumps.IoWikipedia}
	if b.cfg.Dumps.Langlinks != "" {
		inputs = append(inputs, b.cfg.Dumps.Langlinks)
	}

	return Stage{
		Name:    name,
		Inputs:  inputs,
		Outputs: []string{b.paths.WikiVocab, b.paths.Frequency, statsPath},
		Run: func(ctx context.Context) error {
			r, err := dump.Open(b.cfg.Dumps.IoWikipedia)
			if err != nil {
				return err
			}
			defer r.Close()

			builder := wikivocab.New()
			var entries []domain.Entry
			byTitle := make(map[string]int)

			seen := 0
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				page, err := r.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}

				seen++
				if b.progress > 0 && seen%b.progress == 0 {
					b.log.Info("pages processed", slog.Int("pages", seen))
				}

				if e := builder.ProcessPage(page); e != nil {
					byTitle[page.Title] = len(entries)
					entries = append(entries, *e)
				}
			}

			attached := 0
			if b.cfg.Dumps.Langlinks != "" {
				conf := b.table.Confidence(domain.SourceIoWikipedia)
				_, err := dump.ReadLanglinks(b.cfg.Dumps.Langlinks, builder.ResolveTitle, func(l dump.Langlink) error {
					idx, ok := byTitle[l.IoTitle]
					if !ok {
						return nil
					}
					if wikivocab.AttachTranslation(&entries[idx], l.EoTitle, conf) {
						attached++
					}
					return nil
				})
				if err != nil {
					return err
				}
			}

			if err := WriteJSONL(b.paths.WikiVocab, entries); err != nil {
				return err
			}
			if err := writeFrequency(b.paths.Frequency, builder.Frequency().Ranking()); err != nil {
				return err
			}

			stats := builder.Stats()
			b.log.Info("wikipedia parsed",
				slog.Int("pages", stats.PagesSeen),
				slog.Int("entries", stats.EntriesEmitted),
				slog.Int("langlinks_attached", attached),
			)
			return writeCounters(statsPath, map[string]int{
				"pages":              stats.PagesSeen,
				"entries":            stats.EntriesEmitted,
				"lemmas_rejected":    stats.Rejected,
				"langlinks_attached": attached,
			})
		},
	}
}

// alignStage concatenates all source artifacts, flipping EO-headed
// evidence into IO-headed entries.
func (b *stageBuilder) alignStage(sourceArtifacts []string) Stage {
	return Stage{
		Name:    "align",
		Inputs:  sourceArtifacts,
		Outputs: []string{b.paths.Aligned},
		Run: func(ctx context.Context) error {
			aligner := align.New()

			w, err := NewJSONLWriter(b.paths.Aligned)
			if err != nil {
				return err
			}

			for _, src := range sourceArtifacts {
				entries, err := ReadJSONL[domain.Entry](src)
				if err != nil {
					w.Abort()
					return err
				}
				for i := range entries {
					for _, aligned := range aligner.Align(entries[i]) {
						if err := w.Write(aligned); err != nil {
							w.Abort()
							return err
						}
					}
				}
			}

			stats := aligner.Stats()
			b.log.Info("aligned",
				slog.Int("passed", stats.PassedThrough),
				slog.Int("flipped", stats.Flipped),
				slog.Int("dropped", stats.Dropped),
			)
			return w.Commit()
		},
	}
}

func (b *stageBuilder) mergeStage() Stage {
	return Stage{
		Name:    "merge",
		Inputs:  []string{b.paths.Aligned},
		Outputs: []string{b.paths.Merged, b.paths.Conflicts},
		Run: func(ctx context.Context) error {
			entries, err := ReadJSONL[domain.Entry](b.paths.Aligned)
			if err != nil {
				return err
			}

			merger := merge.New(b.table)
			merged := merger.Merge(entries)

			if err := WriteJSONL(b.paths.Merged, merged); err != nil {
				return err
			}
			if err := WriteJSONL(b.paths.Conflicts, merger.Conflicts()); err != nil {
				return err
			}

			b.log.Info("merged",
				slog.Int("in", len(entries)),
				slog.Int("out", len(merged)),
				slog.Int("conflicts", len(merger.Conflicts())),
			)
			return nil
		},
	}
}

func (b *stageBuilder) morphologyStage() Stage {
	return Stage{
		Name:    "morphology",
		Inputs:  []string{b.paths.Merged},
		Outputs: []string{b.paths.Morph},
		Run: func(ctx context.Context) error {
			entries, err := ReadJSONL[domain.Entry](b.paths.Merged)
			if err != nil {
				return err
			}

			inf := morph.New()
			for i := range entries {
				inf.Infer(&entries[i])
			}

			if err := WriteJSONL(b.paths.Morph, entries); err != nil {
				return err
			}

			stats := inf.Stats()
			b.log.Info("morphology inferred",
				slog.Int("inferred", stats.Inferred),
				slog.Int("preassigned", stats.Preassigned),
				slog.Int("unknown", stats.Unknown),
			)
			return nil
		},
	}
}

func (b *stageBuilder) filterStage() Stage {
	name := "filter"
	statsPath := b.statsPath(name)
	inputs := []string{b.paths.Morph}
	if b.cfg.Dumps.IoWikipedia != "" {
		inputs = append(inputs, b.paths.Frequency)
	}

	return Stage{
		Name:    name,
		Inputs:  inputs,
		Outputs: []string{b.paths.Filtered, statsPath},
		Run: func(ctx context.Context) error {
			entries, err := ReadJSONL[domain.Entry](b.paths.Morph)
			if err != nil {
				return err
			}

			topN := map[string]bool{}
			if b.cfg.Dumps.IoWikipedia != "" {
				topN, err = readFrequencyTopN(b.paths.Frequency, b.cfg.Pipeline.WikiTopN)
				if err != nil {
					return err
				}
			}

			f := filter.New(topN)
			kept := f.Apply(entries)

			if err := WriteJSONL(b.paths.Filtered, kept); err != nil {
				return err
			}

			stats := f.Stats()
			b.log.Info("filtered",
				slog.Int("kept", stats.Kept),
				slog.Int("schema_rejected", stats.SchemaRejected),
				slog.Int("freq_rejected", stats.FreqGateRejected),
				slog.Int("duplicates", stats.DuplicatesRemoved),
			)
			return writeCounters(statsPath, map[string]int{
				"kept":               stats.Kept,
				"schema_rejected":    stats.SchemaRejected,
				"freq_rejected":      stats.FreqGateRejected,
				"duplicates_removed": stats.DuplicatesRemoved,
			})
		},
	}
}

func (b *stageBuilder) bidixStage() Stage {
	return Stage{
		Name:    "bidix",
		Inputs:  []string{b.paths.Filtered},
		Outputs: []string{b.paths.Bidix, b.paths.Monodix},
		Run: func(ctx context.Context) error {
			entries, err := ReadJSONL[domain.Entry](b.paths.Filtered)
			if err != nil {
				return err
			}

			surface := bidix.Build(entries)
			monodix := bidix.BuildMonodix(entries)

			if err := WriteJSONL(b.paths.Bidix, surface); err != nil {
				return err
			}
			if err := WriteJSONL(b.paths.Monodix, monodix); err != nil {
				return err
			}

			b.log.Info("dictionaries built",
				slog.Int("bidix", len(surface)),
				slog.Int("monodix", len(monodix)),
			)
			return nil
		},
	}
}

func (b *stageBuilder) reportStage() Stage {
	inputs := []string{b.paths.Filtered, b.paths.Bidix, b.paths.Conflicts}

	return Stage{
		Name:    "report",
		Inputs:  inputs,
		Outputs: []string{b.paths.StatsReport, b.paths.Coverage, b.paths.ConflictRpt},
		Run: func(ctx context.Context) error {
			entries, err := ReadJSONL[domain.Entry](b.paths.Filtered)
			if err != nil {
				return err
			}
			surface, err := ReadJSONL[bidix.SurfaceEntry](b.paths.Bidix)
			if err != nil {
				return err
			}
			conflicts, err := ReadJSONL[merge.Conflict](b.paths.Conflicts)
			if err != nil {
				return err
			}

			rej := b.collectRejections()

			if err := WriteTextFile(b.paths.StatsReport, report.Statistics(entries, surface, rej)); err != nil {
				return err
			}

			ranking, err := readFrequencyRanking(b.paths.Frequency)
			if err != nil && !os.IsNotExist(err) {
				return err
			}
			if err := WriteTextFile(b.paths.Coverage, report.Coverage(entries, ranking, b.cfg.Pipeline.WikiTopN)); err != nil {
				return err
			}

			return WriteTextFile(b.paths.ConflictRpt, report.Conflicts(conflicts))
		},
	}
}

// collectRejections folds every stage's counters into the report's
// rejection categories.
func (b *stageBuilder) collectRejections() report.Rejections {
	var rej report.Rejections

	matches, _ := filepath.Glob(filepath.Join(b.paths.StatsDir, "*.json"))
	for _, path := range matches {
		c, err := readCounters(path)
		if err != nil {
			continue
		}
		rej.InvalidLemmas += c["lemmas_rejected"]
		rej.SchemaViolations += c["schema_rejected"]
		rej.FrequencyGated += c["freq_rejected"]
		rej.DuplicatesRemoved += c["duplicates_removed"]
	}
	return rej
}

func writeCounters(path string, counters map[string]int) error {
	data, err := json.MarshalIndent(counters, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal counters: %w", err)
	}
	return WriteTextFile(path, string(data)+"\n")
}

func readCounters(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c map[string]int
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse counters %s: %w", path, err)
	}
	return c, nil
}

func writeFrequency(path string, ranking []wikivocab.RankedToken) error {
	var b strings.Builder
	for _, rt := range ranking {
		b.WriteString(rt.Token)
		b.WriteByte('\t')
		b.WriteString(strconv.Itoa(rt.Count))
		b.WriteByte('\n')
	}
	return WriteTextFile(path, b.String())
}

func readFrequencyRanking(path string) ([]wikivocab.RankedToken, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []wikivocab.RankedToken
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		token, countStr, ok := strings.Cut(scanner.Text(), "\t")
		if !ok {
			continue
		}
		count, err := strconv.Atoi(countStr)
		if err != nil {
			continue
		}
		out = append(out, wikivocab.RankedToken{Token: token, Count: count})
	}
	return out, scanner.Err()
}

func readFrequencyTopN(path string, n int) (map[string]bool, error) {
	ranking, err := readFrequencyRanking(path)
	if err != nil {
		return nil, err
	}
	if n > len(ranking) {
		n = len(ranking)
	}
	top := make(map[string]bool, n)
	for _, rt := range ranking[:n] {
		top[rt.Token] = true
	}
	return top, nil
}
