package users

import (
	"fmt"
	"time"

	"github.com/JaimeStill/job-broker/internal/jobs"
	"github.com/JaimeStill/job-broker/pkg/repository"
)

var summarySelect = fmt.Sprintf(`
SELECT
	user_name,
	COUNT(*),
	COUNT(*) FILTER (WHERE status IN (%d, %d, %d)),
	COUNT(*) FILTER (WHERE status = %d),
	COUNT(*) FILTER (WHERE status = %d),
	MAX(received_at)
FROM public.jobs`,
	jobs.StatusSleeping, jobs.StatusWaiting, jobs.StatusRunning,
	jobs.StatusDone,
	jobs.StatusTerminated,
)

var (
	listQuery = summarySelect + `
GROUP BY user_name
ORDER BY user_name`

	findQuery = summarySelect + `
WHERE user_name = $1
GROUP BY user_name`
)

func scanSummary(s repository.Scanner) (Summary, error) {
	var (
		sum  Summary
		last time.Time
	)
	err := s.Scan(
		&sum.User,
		&sum.Total,
		&sum.Active,
		&sum.Done,
		&sum.Terminated,
		&last,
	)
	sum.LastReceivedAt = jobs.Timestamp(last)
	return sum, err
}
