package looter

import "context"

// Page is the minimal browser capability the scanner and claim executor
// depend on. The real implementation is browser.Session; tests use a fake.
type Page interface {
	Navigate(ctx context.Context, url string) error
	HTML(ctx context.Context) (string, error)
	Click(ctx context.Context, selector string) error
	Exists(ctx context.Context, selector string) (bool, error)
	WaitVisible(ctx context.Context, selector string) error
	Text(ctx context.Context, selector string) (string, error)
	Value(ctx context.Context, selector string) (string, error)
}
