package gen

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var markdownDir string

var MarkdownCmd = &cobra.Command{
	Use:   "markdown",
	Short: "Generate markdown reference docs for credis",
	Long: `Generate a markdown reference page for every credis command, one
	file per command, in the directory given by --dir.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(markdownDir, 0750); err != nil {
			return err
		}

		cmd.Root().DisableAutoGenTag = true

		fmt.Println("Generating credis reference docs in", markdownDir, "...")

		if err := doc.GenMarkdownTree(cmd.Root(), markdownDir); err != nil {
			return err
		}

		fmt.Println("Done.")
		return nil
	},
}

func init() {
	flags := MarkdownCmd.PersistentFlags()

	flags.StringVar(&markdownDir, "dir", "docs/", "the directory to write the reference docs.")

	// For bash-completion
	if err := flags.SetAnnotation("dir", cobra.BashCompSubdirsInDir, []string{}); err != nil {
		panic(err)
	}
}
