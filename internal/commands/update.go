package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sonvt1710/coc-java/internal/autoupdate"
	"github.com/sonvt1710/coc-java/internal/buildinfo"
	"github.com/sonvt1710/coc-java/internal/logger"
	"github.com/sonvt1710/coc-java/internal/ui"
	"github.com/sonvt1710/coc-java/internal/ui/components"
)

const updateTimeout = 2 * time.Minute

// NewUpdateCommand creates the update command
func NewUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update coc-java to the latest release",
		Args:  cobra.NoArgs,
		RunE:  runUpdate,
	}
	cmd.Flags().Bool("check", false, "Only report whether a newer release exists")
	addFormatFlags(cmd)
	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	checkOnly, _ := cmd.Flags().GetBool("check")
	log := logger.Get()

	ctx, cancel := context.WithTimeout(cmd.Context(), updateTimeout)
	defer cancel()

	op, message := autoupdate.Update, "Updating coc-java..."
	if checkOnly {
		op, message = autoupdate.Check, "Checking for updates..."
	}
	rel, err := components.RunWithSpinner(message, cmd.ErrOrStderr(), func() (*autoupdate.Release, error) {
		return op(ctx, buildinfo.Version)
	})
	if err != nil {
		log.Error("update failed", "error", err, "current", buildinfo.Version)
		return err
	}

	if f := outputFormat(cmd); f != formatText {
		return newOutputHelper(cmd).encode(f, rel)
	}

	out := ui.NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	switch {
	case !rel.Newer:
		out.Success(fmt.Sprintf("coc-java %s is up to date", buildinfo.Version))
	case checkOnly:
		out.Info(fmt.Sprintf("coc-java %s is available (running %s): %s", rel.Version, buildinfo.Version, rel.URL))
	default:
		log.Info("update completed", "old_version", buildinfo.Version, "new_version", rel.Version)
		out.Success(fmt.Sprintf("Updated coc-java %s → %s", buildinfo.Version, rel.Version))
	}
	return nil
}
