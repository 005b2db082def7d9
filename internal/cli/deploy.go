package cli

import (
	"github.com/spf13/cobra"

	"jbc/internal/deploy"
)

func newDeployCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Create a local test deployment of the built image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := a.imageRef()
			if err != nil {
				return err
			}
			spec := a.deploySpec(ref)

			if a.cfg.DryRun {
				a.log.WithFields(map[string]interface{}{
					"image":     spec.Image,
					"container": spec.ContainerName,
					"network":   spec.Network,
					"volume":    spec.Volume.String(),
				}).Info("dry-run: would create test deployment")
				return nil
			}

			m, err := deploy.NewFromEnv(a.log)
			if err != nil {
				return err
			}
			return m.Deploy(cmd.Context(), spec)
		},
	}
}
