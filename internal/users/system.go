package users

import "context"

// System defines read access to user summaries.
type System interface {
	List(ctx context.Context) ([]Summary, error)
	Find(ctx context.Context, user string) (*Summary, error)
}
