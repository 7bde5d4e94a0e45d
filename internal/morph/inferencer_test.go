package morph

import (
	"testing"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

func TestInferSuffixRules(t *testing.T) {
	tests := []struct {
		lemma       string
		pos         domain.PartOfSpeech
		wantPOS     domain.PartOfSpeech
		wantParadig domain.ParadigmID
	}{
		{"hundo", domain.PartOfSpeechNoun, domain.PartOfSpeechNoun, domain.ParadigmNounO},
		{"acensilo", domain.PartOfSpeechUnknown, domain.PartOfSpeechNoun, domain.ParadigmNounO},
		{"manjajo", domain.PartOfSpeechNoun, domain.PartOfSpeechNoun, domain.ParadigmNounAjo},
		{"granda", domain.PartOfSpeechAdjective, domain.PartOfSpeechAdjective, domain.ParadigmAdjA},
		{"nacionala", domain.PartOfSpeechAdjective, domain.PartOfSpeechAdjective, domain.ParadigmAdjAla},
		{"kurajoza", domain.PartOfSpeechAdjective, domain.PartOfSpeechAdjective, domain.ParadigmAdjOza},
		{"atraktiva", domain.PartOfSpeechAdjective, domain.PartOfSpeechAdjective, domain.ParadigmAdjIva},
		{"rapide", domain.PartOfSpeechAdverb, domain.PartOfSpeechAdverb, domain.ParadigmAdvE},
		{"abasar", domain.PartOfSpeechVerb, domain.PartOfSpeechVerb, domain.ParadigmVerbAr},
		{"venir", domain.PartOfSpeechUnknown, domain.PartOfSpeechVerb, domain.ParadigmVerbAr},
		{"123", domain.PartOfSpeechUnknown, domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
		{"3,14", domain.PartOfSpeechUnknown, domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
		{"50%", domain.PartOfSpeechUnknown, domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
		{"Parizo", domain.PartOfSpeechProperNoun, domain.PartOfSpeechProperNoun, domain.ParadigmProperNoun},
		{"kun", domain.PartOfSpeechUnknown, domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
		{"me", domain.PartOfSpeechPronoun, domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
		{"omna", domain.PartOfSpeechUnknown, domain.PartOfSpeechDeterminer, domain.ParadigmDeterminer},
		{"dek", domain.PartOfSpeechUnknown, domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
		{"xyz", domain.PartOfSpeechUnknown, domain.PartOfSpeechUnknown, domain.ParadigmUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.lemma, func(t *testing.T) {
			inf := New()
			e := domain.Entry{Lemma: tt.lemma, Language: domain.LanguageIdo, POS: tt.pos}
			inf.Infer(&e)

			if e.POS != tt.wantPOS {
				t.Errorf("POS = %v, want %v", e.POS, tt.wantPOS)
			}
			if e.Morphology.Paradigm != tt.wantParadig {
				t.Errorf("paradigm = %v, want %v", e.Morphology.Paradigm, tt.wantParadig)
			}
		})
	}
}

func TestInferKeepsPreassignedParadigm(t *testing.T) {
	inf := New()
	e := domain.Entry{
		Lemma:      "Parizo",
		POS:        domain.PartOfSpeechProperNoun,
		Morphology: domain.Morphology{Paradigm: domain.ParadigmProperNoun},
	}
	inf.Infer(&e)

	if e.Morphology.Paradigm != domain.ParadigmProperNoun {
		t.Errorf("paradigm changed: %v", e.Morphology.Paradigm)
	}
	if inf.Stats().Preassigned != 1 {
		t.Errorf("Preassigned = %d, want 1", inf.Stats().Preassigned)
	}
}

func TestInferUnknownCounted(t *testing.T) {
	inf := New()
	e := domain.Entry{Lemma: "xyz", POS: domain.PartOfSpeechUnknown}
	inf.Infer(&e)

	if inf.Stats().Unknown != 1 {
		t.Errorf("Unknown = %d, want 1", inf.Stats().Unknown)
	}
	if !e.Morphology.Paradigm.IsValid() {
		t.Errorf("paradigm %q not in closed enum", e.Morphology.Paradigm)
	}
}

func TestClosedClassDoesNotOverrideConflictingPOS(t *testing.T) {
	// "ma" as a noun from some source must not become a conjunction.
	inf := New()
	e := domain.Entry{Lemma: "ma", POS: domain.PartOfSpeechNoun}
	inf.Infer(&e)

	if e.POS != domain.PartOfSpeechNoun {
		t.Errorf("POS = %v, want noun", e.POS)
	}
}
