package cli

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomgate/internal/app"
	"github.com/vovakirdan/roomgate/internal/token/livekit"
)

func newTokenCommand(o *options) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a token for the configured room and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := o.load(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}

			res, err := app.NewIssuer(&cfg, logger).Issue(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")

	cmd.AddCommand(newTokenInspectCommand(o))
	return cmd
}

func newTokenInspectCommand(o *options) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Decode a LiveKit access token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var secret string
			if verify {
				cfg, _, err := o.load(cmd.ErrOrStderr(), false)
				if err != nil {
					return err
				}
				if cfg.LiveKit.APISecret == "" {
					return errors.New("cannot verify: livekit.api_secret is not configured")
				}
				secret = cfg.LiveKit.APISecret
			}

			decoded, err := livekit.Inspect(args[0], secret)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), decoded, true)
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "check the signature with the configured API secret")
	return cmd
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
