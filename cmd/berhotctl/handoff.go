package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/berhot/session-handoff/handoff"
	apperrors "github.com/berhot/session-handoff/internal/errors"
	"github.com/berhot/session-handoff/sessions"
)

func encodeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a session JSON file into an #auth= fragment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := readSession(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			fragment, err := handoff.Fragment(*session)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "#"+fragment)
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "session JSON file, - for stdin")
	return cmd
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <fragment|url>",
		Short: "Decode the session carried by a fragment or URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, ok := handoff.DecodeURL(args[0])
			if !ok {
				session, ok = handoff.Decode(args[0])
			}
			if !ok {
				return apperrors.Wrapf(apperrors.ErrInvalidRequest, "no valid handoff in %q", args[0])
			}
			return printJSON(cmd.OutOrStdout(), session)
		},
	}
}

// readSession reads a session from path, or from stdin when path is "-".
// The session must be usable: a user and an access token.
func readSession(stdin io.Reader, path string) (*sessions.AuthSession, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" || path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var session sessions.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "parse session: %v", err)
	}
	if !session.Usable() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "session needs a user and an access token")
	}
	return &session, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
