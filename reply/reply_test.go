package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestions(t *testing.T) {
	in := `Voici les questions :

1. Quel est votre chiffre d'affaires annuel?
2) Combien de clients actifs avez-vous ?
   3. Quels sont vos principaux concurrents?
Axe : stratégie commerciale
10. Décrivez votre stratégie de prix.
2024 a-t-il été une bonne année?
`
	got := ParseQuestions(in, 0)
	assert.Equal(t, []string{
		"Quel est votre chiffre d'affaires annuel?",
		") Combien de clients actifs avez-vous ?",
		"Quels sont vos principaux concurrents?",
		"a-t-il été une bonne année?",
	}, got)
}

func TestParseQuestionsCap(t *testing.T) {
	in := ""
	for i := 0; i < 120; i++ {
		in += "Question?\n"
	}
	assert.Len(t, ParseQuestions(in, 0), DefaultMaxQuestions)
	assert.Len(t, ParseQuestions(in, 5), 5)
	assert.Empty(t, ParseQuestions("", 0))
}

const sampleSWOT = `Voici l'analyse demandée.

### FORCES (Atouts)
1. Équipe expérimentée avec une forte expertise.
2. Clientèle fidèle
   et contrats récurrents.

### FAIBLESSES (Points d'amélioration)
- Dépendance au dirigeant

**OPPORTUNITÉS :**
* Marché public en croissance

## MENACES (Risques externes)
1) Concurrence des grands groupes
**Impact** : pression sur les prix
`

func TestParseAnalysisSections(t *testing.T) {
	a, err := ParseAnalysis(sampleSWOT)
	require.NoError(t, err)

	assert.Equal(t, []string{"Voici l'analyse demandée."}, a.Preamble)
	require.Len(t, a.Sections, 4)
	assert.True(t, a.Complete())

	s := a.Quadrant(QuadrantStrengths)
	require.NotNil(t, s)
	assert.Equal(t, "FORCES (Atouts)", s.Heading)
	assert.Equal(t, []string{
		"Équipe expérimentée avec une forte expertise.",
		"Clientèle fidèle et contrats récurrents.",
	}, s.Items)

	assert.Equal(t, []string{"Dépendance au dirigeant"}, a.Quadrant(QuadrantWeaknesses).Items)

	o := a.Quadrant(QuadrantOpportunities)
	require.NotNil(t, o)
	assert.Equal(t, "OPPORTUNITÉS", o.Heading)
	assert.Equal(t, []string{"Marché public en croissance"}, o.Items)

	m := a.Quadrant(QuadrantThreats)
	require.NotNil(t, m)
	assert.Equal(t, []string{"Concurrence des grands groupes", "**Impact** : pression sur les prix"}, m.Items)
}

func TestParseAnalysisWithoutHeadings(t *testing.T) {
	a, err := ParseAnalysis("juste du texte\r\nsur deux lignes")
	require.NoError(t, err)
	assert.Empty(t, a.Sections)
	assert.Equal(t, []string{"juste du texte", "sur deux lignes"}, a.Preamble)
	assert.False(t, a.Complete())

	a, err = ParseAnalysis("")
	require.NoError(t, err)
	assert.Empty(t, a.Sections)
}

func TestClassify(t *testing.T) {
	cases := map[string]Quadrant{
		"FORCES (Atouts)":                  QuadrantStrengths,
		"Atouts":                           QuadrantStrengths,
		"Strengths":                        QuadrantStrengths,
		"faiblesses (faiblesses internes)": QuadrantWeaknesses,
		"Opportunités":                     QuadrantOpportunities,
		"MENACES (Risques externes)":       QuadrantThreats,
		"Threats and forces":               QuadrantThreats,
		"CRITÈRES DE QUALITÉ":              QuadrantNone,
	}
	for heading, want := range cases {
		assert.Equal(t, want, Classify(heading), heading)
	}
}
