package model

import "strings"

var gameNames = strings.NewReplacer(
	"_", " ",
	"classic", "GraalOnline Classic",
	"era", "GraalOnline Era",
	"zone", "GraalOnline Zone",
	"olwest", "GraalOnline Olwest",
)

// GameDisplayName expands an intake game code into its storefront name.
func GameDisplayName(game string) string {
	return gameNames.Replace(game)
}

// Intake holds the answers of the new-ticket questionnaire. Installed and
// Started carry the raw radio values ("1" = yes) the UI submits.
type Intake struct {
	Game        string
	Installed   string
	Started     string
	ProblemType string
	SubProblem  string
	Description string
}

// ComposeDescription renders the intake answers into the ticket description
// stored alongside the raw fields.
func ComposeDescription(in Intake) string {
	lines := []string{
		"Game: " + GameDisplayName(in.Game),
		"Installed: " + yesNo(in.Installed == "1"),
	}
	if in.Installed == "1" {
		lines = append(lines, "Started: "+yesNo(in.Started == "1"))
	}
	if in.Started == "1" {
		lines = append(lines, "Problem Type: "+in.ProblemType)
	}
	if in.SubProblem != "" {
		lines = append(lines, "Sub-Problem: "+in.SubProblem)
	}
	detail := in.Description
	if detail == "" {
		detail = "No additional details provided."
	}
	lines = append(lines, "\nUser Description:\n"+detail)
	return strings.Join(lines, "\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
