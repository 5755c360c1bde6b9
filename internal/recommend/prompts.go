package recommend

import "fmt"

const titlesOnlySystem = "You only output movie titles, one per line."

// relatedPrompt asks for movies in the same orbit as the watched one.
func relatedPrompt(title string, count int) string {
	return fmt.Sprintf(`Suggest up to %d movies related to '%s', including sequels, prequels, or movies in the same genre or style.
Rules:
- Only real movie titles (no made-up titles).
- Do NOT output partial subtitles or fragments.
- One title per line.
- No descriptions.
`, count, title)
}

// contrastPrompt asks for palate-cleanser movies with the opposite vibe.
func contrastPrompt(title string, count int) string {
	return fmt.Sprintf(`You are a movie expert.

Task:
1) Infer the likely GENRES and VIBE of "%s" (tone, pacing, intensity, humor level, realism vs fantasy).
2) Define an 'opposite' viewing profile (a deliberate change of taste).
3) Recommend up to %d REAL movies that strongly match that opposite profile.

Rules:
- Only real movie titles (no made-up titles).
- Avoid sequels/prequels/remakes of "%s".
- Avoid movies that are too similar in tone/genre.
- Prefer well-known, widely available films (mix of eras is ok).
- One title per line, no numbering, no extra text.`, title, count, title)
}
