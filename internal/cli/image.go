package cli

import (
	"github.com/spf13/cobra"
)

func newImageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "image",
		Short: "Build the image and, for release builds with push enabled, publish it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			refs, err := a.newPipeline().Run(cmd.Context())
			if err != nil {
				return err
			}
			a.log.WithField("refs", refs).Info("image stage complete")
			return nil
		},
	}
}
