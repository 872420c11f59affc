package looter

import (
	"fmt"
	"os"
	"strings"
)

const codeSeparator = "========================"

// CodeWriter appends redeemed claim codes to the codes file so they survive
// the browser session.
type CodeWriter struct {
	Path string
}

// Append records one game's code and redemption instructions.
func (c *CodeWriter) Append(game, code, instructions string) error {
	if c.Path == "" {
		return nil
	}

	f, err := os.OpenFile(c.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open codes file %q: %w", c.Path, err)
	}
	defer f.Close()

	instructions = strings.ReplaceAll(instructions, "\r", " ")
	block := fmt.Sprintf("%s: %s\n\n%s\n%s\n%s\n", game, code, instructions, codeSeparator, codeSeparator)
	if _, err := f.WriteString(block); err != nil {
		return fmt.Errorf("write codes file %q: %w", c.Path, err)
	}
	return nil
}
