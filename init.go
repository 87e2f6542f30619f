package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/doxytags/internal/config"
	"github.com/phobologic/doxytags/internal/errors"
)

const (
	sentinelStart = "# doxytags:start"
	sentinelEnd   = "# doxytags:end"

	defaultTagFile = "dotnet.tag"
)

// newInitCmd implements `doxytags init`, which writes (or updates) a TAGFILES
// section in a Doxyfile so Doxygen links .NET types to the online docs.
func newInitCmd(c *cli) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [path-to-Doxyfile]",
		Short: "Add the doxytags TAGFILES entry to a Doxyfile",
		Long: `Write a TAGFILES entry for the doxytags output to a Doxyfile. The entry is
wrapped in sentinel comments so it can be updated in place on subsequent runs
without touching surrounding settings. Creates the file if it does not exist.

path-to-Doxyfile defaults to ./Doxyfile. The tag file path is taken from
--output (default dotnet.tag).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Inputs are irrelevant here; load only for output and url_base.
			cfg, _, err := c.load(nil)
			if err != nil {
				return err
			}
			if cfg.Output == "" {
				cfg.Output = defaultTagFile
			}

			section := generateSection(cfg)

			// --dry-run with no path: just print the section itself.
			if dryRun && len(args) == 0 {
				_, _ = fmt.Fprintln(c.stdout, section)
				return nil
			}

			path := "Doxyfile"
			if len(args) > 0 {
				path = args[0]
			}

			existing, _ := os.ReadFile(path)
			updated := applySection(string(existing), section)

			if dryRun {
				_, _ = fmt.Fprint(c.stdout, updated)
				return nil
			}

			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				return errors.OutputSink(err, "writing "+path)
			}

			_, _ = fmt.Fprintf(c.stderr, "wrote doxytags section to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

// generateSection returns the sentinel-wrapped Doxyfile block.
func generateSection(cfg *config.Config) string {
	body := `# .NET framework API links, generated by doxytags.
# Regenerate the tag file with: doxytags --output ` + cfg.Output + `
TAGFILES += "` + cfg.TagFilesEntry() + `"`

	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
