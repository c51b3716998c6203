package completion_helper

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

var out io.Writer = os.Stdout

// DefaultFlagComplete prints every flag of the current command so shells can
// offer them where the built-in completion misses them.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				_, _ = fmt.Fprintln(out, "-"+name)
			} else {
				_, _ = fmt.Fprintln(out, "--"+name)
			}
		}
	}
}

// ValuesComplete completes positional arguments with the candidates returned
// by list, followed by the command flags. Empty candidates are skipped.
func ValuesComplete(list func(ctx context.Context, cmd *cli.Command) []string) func(context.Context, *cli.Command) {
	return func(ctx context.Context, cmd *cli.Command) {
		for _, v := range list(ctx, cmd) {
			if strings.TrimSpace(v) == "" {
				continue
			}
			_, _ = fmt.Fprintln(out, v)
		}
		DefaultFlagComplete(ctx, cmd)
	}
}
