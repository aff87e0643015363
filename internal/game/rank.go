package game

import "github.com/samber/lo"

// Rank is a career tier derived from a cumulative word count.
type Rank struct {
	Level    int     `json:"level"`
	Name     string  `json:"name"`
	Next     string  `json:"next"`
	Progress int     `json:"progress"` // words into the current tier
	Goal     int     `json:"goal"`     // cumulative words that reach the next tier
	Percent  float64 `json:"percent"`  // 0..100
}

var rankTiers = []struct {
	min  int
	name string
}{
	{0, "ROOKIE"},
	{500, "WORD SMITH"},
	{1000, "PUZZLE MASTER"},
	{1500, "LEXICON LEGEND"},
}

// RankFor maps totalWords to a career rank. The last tier has no next rank
// and reports 100%.
func RankFor(totalWords int) Rank {
	totalWords = max(totalWords, 0)
	i := len(rankTiers) - 1
	for i > 0 && totalWords < rankTiers[i].min {
		i--
	}
	tier := rankTiers[i]
	r := Rank{Level: i + 1, Name: tier.name, Progress: totalWords - tier.min}

	if i == len(rankTiers)-1 {
		r.Next = "MAX RANK"
		r.Goal = tier.min
		r.Percent = 100
		return r
	}
	next := rankTiers[i+1]
	r.Next = next.name
	r.Goal = next.min
	r.Percent = lo.Clamp(float64(r.Progress)/float64(next.min-tier.min)*100, 0, 100)
	return r
}
