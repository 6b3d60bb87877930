package stats

import (
	"sort"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
)

// ComputeWinCounts groups finals by winner and counts them.
// Rows are sorted by wins descending, ties by country name ascending.
// A winner missing from iso keeps an empty ISOCode.
func ComputeWinCounts(records []models.FinalRecord, iso map[string]string) []models.CountryWinCount {
	wins := make(map[string]int)
	for _, r := range records {
		wins[r.Winner]++
	}

	counts := make([]models.CountryWinCount, 0, len(wins))
	for country, n := range wins {
		counts = append(counts, models.CountryWinCount{
			Country: country,
			Wins:    n,
			ISOCode: iso[country],
		})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Wins != counts[j].Wins {
			return counts[i].Wins > counts[j].Wins
		}
		return counts[i].Country < counts[j].Country
	})

	return counts
}

// MaxWins returns the largest win count, or 0 for an empty table
func MaxWins(counts []models.CountryWinCount) int {
	max := 0
	for _, c := range counts {
		if c.Wins > max {
			max = c.Wins
		}
	}
	return max
}

// TotalWins sums the win column
func TotalWins(counts []models.CountryWinCount) int {
	total := 0
	for _, c := range counts {
		total += c.Wins
	}
	return total
}

// Winners lists the countries of counts in table order
func Winners(counts []models.CountryWinCount) []string {
	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.Country)
	}
	return out
}

// Years lists the distinct years of records in dataset order
func Years(records []models.FinalRecord) []int {
	seen := make(map[int]bool, len(records))
	out := make([]int, 0, len(records))
	for _, r := range records {
		if seen[r.Year] {
			continue
		}
		seen[r.Year] = true
		out = append(out, r.Year)
	}
	return out
}
