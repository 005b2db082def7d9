package cli

import (
	"fmt"
	"os"

	"github.com/docker/docker/client"
	"github.com/spf13/cobra"

	"jbc/internal/assets"
	"jbc/internal/version"
)

func newSetupCmd(a *app) *cobra.Command {
	var (
		forecast bool
		bump     string
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Validate the working environment and write a starter .env",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok := true

			if _, err := os.Stat(a.cfg.PluginsFile); err != nil {
				a.log.WithField("path", a.cfg.PluginsFile).Warn("plugin manifest not found")
				ok = false
			}
			if _, err := os.Stat(a.cfg.CascFile); err != nil {
				a.log.WithField("path", a.cfg.CascFile).Warn("configuration-as-code file not found")
				ok = false
			}

			if cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation()); err != nil {
				a.log.WithError(err).Warn("docker client unavailable")
				ok = false
			} else if _, err := cli.Ping(cmd.Context()); err != nil {
				a.log.WithError(err).Warn("docker daemon unreachable")
				ok = false
			}

			r := a.resolver()
			if r.History == nil && r.Override == "" {
				ok = false
			}

			if forecast {
				bt, err := version.ParseBumpType(bump)
				if err != nil {
					return err
				}
				ts, err := r.Resolve(true)
				if err != nil {
					return err
				}
				next, err := version.ForecastNext(ts.Version, bt)
				if err != nil {
					return err
				}
				fmt.Printf("Latest version tag : %s\n", ts.Version)
				fmt.Printf("Next %s release : %s\n", bt, next)
			}

			if _, err := os.Stat(".env"); os.IsNotExist(err) {
				if a.cfg.DryRun {
					a.log.Info("dry-run: would write starter .env")
				} else if err := os.WriteFile(".env", []byte(assets.EnvTemplate()), 0o600); err != nil {
					return fmt.Errorf("write starter .env: %w", err)
				} else {
					a.log.Info("wrote starter .env")
				}
			}

			if !ok {
				return fmt.Errorf("environment validation failed; see warnings above")
			}
			a.log.Info("environment looks good")
			return nil
		},
	}

	cmd.Flags().BoolVar(&forecast, "forecast", false, "print the next release version forecast")
	cmd.Flags().StringVar(&bump, "bump", "patch", "bump level for the forecast (major, minor, patch)")

	return cmd
}
