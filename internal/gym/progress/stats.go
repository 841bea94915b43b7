package progress

// Stats aggregates the session history over a trailing window:
// distinct completed workouts, total sets, and total reps (reps × sets).
type Stats struct {
	Workouts  int `json:"workouts"`
	TotalSets int `json:"totalSets"`
	TotalReps int `json:"totalReps"`
}

// WeeklyStats aggregates the trailing 7 days of history, inclusive.
func (s *Store) WeeklyStats() Stats {
	return s.windowStats(7)
}

// MonthlyStats aggregates the trailing 30 days of history, inclusive.
func (s *Store) MonthlyStats() Stats {
	return s.windowStats(30)
}

func (s *Store) windowStats(days int) Stats {
	cutoff, _ := parseDay(dayString(s.now().AddDate(0, 0, -days)))

	s.mu.Lock()
	defer s.mu.Unlock()

	var stats Stats
	workoutIDs := make(map[string]struct{})
	for _, session := range s.history {
		day, ok := parseDay(session.Date)
		if !ok || day.Before(cutoff) {
			continue
		}
		workoutIDs[session.WorkoutID] = struct{}{}
		stats.TotalSets += session.Sets
		stats.TotalReps += session.Reps * session.Sets
	}
	stats.Workouts = len(workoutIDs)
	return stats
}
