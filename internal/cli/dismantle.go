package cli

import (
	"github.com/spf13/cobra"

	"jbc/internal/deploy"
)

func newDismantleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dismantle",
		Short: "Tear down the test deployment (container, network, volume)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec := a.deploySpec("")

			if a.cfg.DryRun {
				a.log.WithFields(map[string]interface{}{
					"container": spec.ContainerName,
					"network":   spec.Network,
					"volume":    spec.Volume.Name,
				}).Info("dry-run: would remove test deployment resources")
				return nil
			}

			m, err := deploy.NewFromEnv(a.log)
			if err != nil {
				return err
			}
			// Dismantle reports per-resource failures together; a
			// non-nil error still means some resource may be left
			// behind and the exit code reflects that.
			return m.Dismantle(cmd.Context(), spec)
		},
	}
}
