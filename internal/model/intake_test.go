package model

import (
	"strings"
	"testing"
)

func TestGameDisplayName(t *testing.T) {
	cases := map[string]string{
		"classic": "GraalOnline Classic",
		"era":     "GraalOnline Era",
		"zone":    "GraalOnline Zone",
		"olwest":  "GraalOnline Olwest",
	}
	for in, want := range cases {
		if got := GameDisplayName(in); got != want {
			t.Fatalf("GameDisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestComposeDescriptionFullIntake(t *testing.T) {
	got := ComposeDescription(Intake{
		Game:        "classic",
		Installed:   "1",
		Started:     "1",
		ProblemType: "login",
		SubProblem:  "password",
		Description: "cannot log in since yesterday",
	})
	for _, line := range []string{
		"Game: GraalOnline Classic",
		"Installed: Yes",
		"Started: Yes",
		"Problem Type: login",
		"Sub-Problem: password",
		"User Description:\ncannot log in since yesterday",
	} {
		if !strings.Contains(got, line) {
			t.Fatalf("description missing %q:\n%s", line, got)
		}
	}
}

func TestComposeDescriptionNotInstalled(t *testing.T) {
	got := ComposeDescription(Intake{Game: "era", Installed: "0"})
	if strings.Contains(got, "Started:") || strings.Contains(got, "Problem Type:") {
		t.Fatalf("not-installed intake must skip the later questions:\n%s", got)
	}
	if !strings.Contains(got, "Installed: No") {
		t.Fatalf("expected Installed: No, got:\n%s", got)
	}
	if !strings.Contains(got, "No additional details provided.") {
		t.Fatalf("expected the empty-detail placeholder, got:\n%s", got)
	}
}
