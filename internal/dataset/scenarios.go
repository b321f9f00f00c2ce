package dataset

import (
	"fmt"
	"strings"

	"github.com/voicejournal/promptlab/internal/models"
)

// Scenario CSV columns. List cells hold items separated by '|'; task items
// are written as "text:category".
const (
	colRole        = "role"
	colWins        = "wins"
	colDrains      = "drains"
	colFutureFocus = "future_focus"
	colTasks       = "tasks"
)

// LoadScenariosCSV reads extra scenarios from a CSV file with the columns
// role, wins, drains, future_focus and tasks.
func LoadScenariosCSV(path string) ([]models.Scenario, error) {
	rows, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}

	scenarios := make([]models.Scenario, 0, len(rows))
	for i, row := range rows {
		s, err := rowToScenario(row)
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: %w", i+2, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func rowToScenario(row Row) (models.Scenario, error) {
	role, ok := row[colRole]
	if !ok || strings.TrimSpace(role) == "" {
		return models.Scenario{}, fmt.Errorf("missing %q", colRole)
	}

	tasks, err := parseTasks(row[colTasks])
	if err != nil {
		return models.Scenario{}, err
	}

	return models.Scenario{
		Role:        strings.TrimSpace(role),
		Wins:        splitList(row[colWins]),
		Drains:      splitList(row[colDrains]),
		FutureFocus: splitList(row[colFutureFocus]),
		Tasks:       tasks,
	}, nil
}

func splitList(cell string) []string {
	out := []string{}
	for _, item := range strings.Split(cell, "|") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseTasks(cell string) ([]models.Task, error) {
	tasks := []models.Task{}
	for _, item := range splitList(cell) {
		idx := strings.LastIndex(item, ":")
		if idx < 0 {
			return nil, fmt.Errorf("task %q has no category (want text:category)", item)
		}
		cat, err := models.ParseCategory(item[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", item, err)
		}
		tasks = append(tasks, models.Task{TaskText: strings.TrimSpace(item[:idx]), Category: cat})
	}
	return tasks, nil
}
