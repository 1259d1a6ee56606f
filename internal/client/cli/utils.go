package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
)

// getSimpleText, getMultiline and getSecret are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getSecret     = GetSecret
)

func sortedCommands(commands map[string]command) []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, ErrUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad record id %q", ErrUsage, args[0])
	}
	return id, nil
}

func oneArg(args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", ErrUsage
	}
	return args[0], nil
}

// describeHandle prints development handles in the clear and anything else
// by size only.
func describeHandle(h []byte) string {
	if len(h) == 0 {
		return "(empty)"
	}
	if s, err := fhe.ClearText(h); err == nil {
		return fmt.Sprintf("%q (clear)", s)
	}
	return fmt.Sprintf("<%d bytes encrypted>", len(h))
}
