package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/formflow/pkg/routing"
)

// ResolveRoute looks up segment in the routes table at location and prints where the
// flow lives.
func ResolveRoute(ctx context.Context, w io.Writer, location, segment string) error {
	target, err := routing.NewResolver(location).Resolve(ctx, segment)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "route:  %s\n", target.Segment)
	fmt.Fprintf(w, "config: %s\n", target.ConfigPath)
	fmt.Fprintf(w, "flow:   %s\n", target.FlowPath)
	return nil
}
