package cli

import (
	"github.com/spf13/cobra"

	"jbc/internal/deploy"
	"jbc/internal/docker"
	"jbc/internal/tags"
)

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove locally built image refs and any leftover test deployment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Both context tags plus the resolved version tag, when one
			// exists. Absent refs are tolerated; clean is idempotent.
			refs := docker.RefsFor(a.cfg.Repo, tags.TagSet{Context: tags.ContextTest})
			if ts, err := a.resolver().Resolve(true); err == nil {
				refs = append(refs, docker.RefsFor(a.cfg.Repo, ts)...)
			} else {
				refs = append(refs, docker.RefsFor(a.cfg.Repo, tags.TagSet{Context: tags.ContextLatest})...)
			}

			builder := docker.NewExecBuilder(a.cfg.DryRun)
			builder.RemoveImages(cmd.Context(), refs)

			if a.cfg.DryRun {
				a.log.Info("dry-run: would dismantle any leftover test deployment")
				return nil
			}

			m, err := deploy.NewFromEnv(a.log)
			if err != nil {
				return err
			}
			return m.Dismantle(cmd.Context(), a.deploySpec(""))
		},
	}
}
