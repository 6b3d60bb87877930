package dal

import "github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"

var seedFinals = []models.FinalRecord{
	{Year: 1930, Winner: "Uruguay", RunnerUp: "Argentina"},
	{Year: 1934, Winner: "Italy", RunnerUp: "Czechoslovakia"},
	{Year: 1938, Winner: "Italy", RunnerUp: "Hungary"},
	{Year: 1950, Winner: "Uruguay", RunnerUp: "Brazil"},
	{Year: 1954, Winner: "Germany", RunnerUp: "Hungary"},
	{Year: 1958, Winner: "Brazil", RunnerUp: "Sweden"},
	{Year: 1962, Winner: "Brazil", RunnerUp: "Czechoslovakia"},
	{Year: 1966, Winner: "England", RunnerUp: "Germany"},
	{Year: 1970, Winner: "Brazil", RunnerUp: "Italy"},
	{Year: 1974, Winner: "Germany", RunnerUp: "Netherlands"},
	{Year: 1978, Winner: "Argentina", RunnerUp: "Netherlands"},
	{Year: 1982, Winner: "Italy", RunnerUp: "Germany"},
	{Year: 1986, Winner: "Argentina", RunnerUp: "Germany"},
	{Year: 1990, Winner: "Germany", RunnerUp: "Argentina"},
	{Year: 1994, Winner: "Brazil", RunnerUp: "Italy"},
	{Year: 1998, Winner: "France", RunnerUp: "Brazil"},
	{Year: 2002, Winner: "Brazil", RunnerUp: "Germany"},
	{Year: 2006, Winner: "Italy", RunnerUp: "France"},
	{Year: 2010, Winner: "Spain", RunnerUp: "Netherlands"},
	{Year: 2014, Winner: "Germany", RunnerUp: "Argentina"},
	{Year: 2018, Winner: "France", RunnerUp: "Croatia"},
	{Year: 2022, Winner: "Argentina", RunnerUp: "France"},
}

// Alpha-3 codes for the countries that have won a final.
// GER and ENG are the codes FIFA uses and do not resolve on an ISO-3 map.
var seedISOCodes = map[string]string{
	"Brazil":    "BRA",
	"Germany":   "GER",
	"Italy":     "ITA",
	"Argentina": "ARG",
	"Uruguay":   "URY",
	"England":   "ENG",
	"France":    "FRA",
	"Spain":     "ESP",
}

// SeedFinals returns a copy of the embedded finals table
func SeedFinals() []models.FinalRecord {
	out := make([]models.FinalRecord, len(seedFinals))
	copy(out, seedFinals)
	return out
}

// SeedISOCodes returns a copy of the embedded country to ISO code mapping
func SeedISOCodes() map[string]string {
	out := make(map[string]string, len(seedISOCodes))
	for k, v := range seedISOCodes {
		out[k] = v
	}
	return out
}
