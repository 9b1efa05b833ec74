package problems

import (
	"fmt"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
)

// DifficultyRank orders difficulties for sorting. Unknown values sort last.
func DifficultyRank(d api.Difficulty) int {
	switch d {
	case api.DifficultyEasy:
		return 0
	case api.DifficultyMedium:
		return 1
	case api.DifficultyHard:
		return 2
	default:
		return 3
	}
}

// DifficultyLabel maps a difficulty to its display name.
func DifficultyLabel(d api.Difficulty) string {
	switch d {
	case api.DifficultyEasy:
		return "Easy"
	case api.DifficultyMedium:
		return "Medium"
	case api.DifficultyHard:
		return "Hard"
	default:
		return string(d)
	}
}

// VerdictLabel renders a judge verdict for the status bar.
func VerdictLabel(sub *api.Submission) string {
	switch sub.Status {
	case "pending":
		return "Judging..."
	case "accepted":
		return fmt.Sprintf("Accepted (%d/%d, %dms)", sub.Passed, sub.Total, sub.RuntimeMS)
	case "wrong_answer":
		return fmt.Sprintf("Wrong Answer (%d/%d)", sub.Passed, sub.Total)
	case "runtime_error":
		return "Runtime Error"
	case "time_limit":
		return "Time Limit Exceeded"
	default:
		return sub.Status
	}
}
