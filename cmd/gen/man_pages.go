package gen

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/charlesgretton/credis/internal/meta"
)

var manDir string

var ManPagesCmd = &cobra.Command{
	Use:   "man",
	Short: "Generate man pages for credis",
	Long: `Generate an up-to-date man page for every credis command, one
	file per command, in the directory given by --dir.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(manDir, 0750); err != nil {
			return err
		}

		header := &doc.GenManHeader{
			Section: "1",
			Manual:  "credis Manual",
			Source:  fmt.Sprintf("credis %s", meta.GetInfo().Version),
		}

		cmd.Root().DisableAutoGenTag = true

		fmt.Println("Generating credis man pages in", manDir, "...")

		if err := doc.GenManTree(cmd.Root(), header, manDir); err != nil {
			return err
		}

		fmt.Println("Done.")
		return nil
	},
}

func init() {
	flags := ManPagesCmd.PersistentFlags()

	flags.StringVar(&manDir, "dir", "man/", "the directory to write the man pages.")

	// For bash-completion
	if err := flags.SetAnnotation("dir", cobra.BashCompSubdirsInDir, []string{}); err != nil {
		panic(err)
	}
}
