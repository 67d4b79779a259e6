package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/formflow/pkg/ports"
)

// Navigator performs the full page redirect of a terminal host: it prints the
// destination on its own line so scripts can pipe it to the next command.
func Navigator(w io.Writer) ports.Navigator {
	return ports.NavigatorFunc(func(_ context.Context, dest string) error {
		_, err := fmt.Fprintln(w, dest)
		return err
	})
}
