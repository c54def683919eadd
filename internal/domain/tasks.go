package domain

import "strings"

// CompletionLabel is shown in place of a task once every task has been lapped.
const CompletionLabel = "All tasks completed!"

// ParseTaskList splits free-form input into one task per non-blank line,
// trimming surrounding whitespace and keeping input order.
func ParseTaskList(input string) []string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	tasks := []string{}
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tasks = append(tasks, line)
	}
	return tasks
}
