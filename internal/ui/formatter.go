package ui

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"rtc/internal/domain"
	"rtc/internal/runenv"
)

// Formatter formats and displays output
type Formatter struct{}

// NewFormatter creates a new Formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// PrintRunSummary displays the statistics of a collected run
func (f *Formatter) PrintRunSummary(output *domain.RunOutput) {
	meta := output.Meta

	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                    Test Collection Statistics                 ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")

	fmt.Printf("│ %-31s │ ", "Total Tests")
	color.White("%-27d │\n", meta.TotalTests)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Passed Tests")
	color.Green("%-27d │\n", meta.PassedTests)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Failed Tests")
	color.Red("%-27d │\n", meta.FailedTests)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Incomplete Tests")
	color.Yellow("%-27d │\n", meta.IncompleteTests)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Duration")
	durationStr := fmt.Sprintf("%.2fs", meta.DurationSeconds)
	color.White("%-27s │\n", durationStr)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Upload Batches")
	color.White("%-27d │\n", meta.Batches)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Timestamp")
	color.White("%-27s │\n", meta.Timestamp)

	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Println()
	if meta.FailedTests == 0 {
		color.Green("✓ All collected tests passed!")
	} else {
		color.Red("✗ %d test(s) failed", meta.FailedTests)
		fmt.Println()
		f.printFailedTests(output.Details)
	}
}

// printFailedTests lists the failed tests with the first line of each reason
func (f *Formatter) printFailedTests(failures []domain.FailedTest) {
	for i, failure := range failures {
		name := failure.Name
		if failure.Scope != "" {
			name = failure.Scope + "::" + failure.Name
		}
		color.Red("  %d. %s", i+1, name)
		if reason := firstLine(failure.Reason); reason != "" {
			fmt.Printf("     %s\n", reason)
		}
	}
}

// PrintEnvironment displays the detected CI environment
func (f *Formatter) PrintEnvironment(env runenv.Environment) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "ci:\t%s\n", env.CI)
	fmt.Fprintf(w, "key:\t%s\n", env.Key)
	fmt.Fprintf(w, "number:\t%s\n", orUnset(env.Number))
	fmt.Fprintf(w, "job_id:\t%s\n", orUnset(env.JobID))
	fmt.Fprintf(w, "branch:\t%s\n", orUnset(env.Branch))
	fmt.Fprintf(w, "commit_sha:\t%s\n", orUnset(env.CommitSHA))
	fmt.Fprintf(w, "message:\t%s\n", orUnset(env.Message))
	fmt.Fprintf(w, "url:\t%s\n", orUnset(env.URL))
	fmt.Fprintf(w, "collector:\t%s\n", env.Collector)
	fmt.Fprintf(w, "version:\t%s\n", env.Version)

	return w.Flush()
}

func orUnset(value *string) string {
	if value == nil {
		return "(unset)"
	}
	return *value
}

func firstLine(text string) string {
	for i, r := range text {
		if r == '\n' {
			return text[:i]
		}
	}
	return text
}
