// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf-utilizer/internal/engine"
	"github.com/pdiddy/pdf-utilizer/internal/operation"
	"github.com/pdiddy/pdf-utilizer/internal/session"
	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

// catalog is the set of operations exposed as subcommands.
var catalog = operation.Default()

// opCommand describes one operation subcommand.
type opCommand struct {
	op    string
	use   string
	short string
	long  string
	args  cobra.PositionalArgs
	// flags registers operation-specific flags.
	flags func(cmd *cobra.Command)
	// request turns flags and arguments into an operation request.
	request func(cmd *cobra.Command, args []string) (operation.Request, error)
	// done runs after a successful submission.
	done func(cmd *cobra.Command, out engine.Outcome)
}

func newOperationCommand(oc opCommand) *cobra.Command {
	spec := catalog.MustLookup(oc.op)
	cmd := &cobra.Command{
		Use:   oc.use,
		Short: oc.short,
		Long:  oc.long,
		Args:  oc.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := services()
			if err != nil {
				return err
			}
			sess, err := requireSession(a, spec.Name)
			if err != nil {
				return err
			}
			req, err := oc.request(cmd, args)
			if err != nil {
				return a.printer.Fail(err)
			}
			out, err := runOperation(cmd, a, sess, spec, req)
			if err != nil {
				return err
			}
			if oc.done != nil {
				oc.done(cmd, out)
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", spec.DefaultOutput, "where to save the result")
	if oc.flags != nil {
		oc.flags(cmd)
	}
	return cmd
}

// requireSession returns the signed-in session or tells the user to log in.
func requireSession(a *appContext, what string) (*types.Session, error) {
	sess, err := a.gate.RequireSession()
	if err != nil {
		var redirect *session.RedirectError
		if errors.As(err, &redirect) {
			return nil, fmt.Errorf("%s requires a session: run \"pdfutil login\" first", what)
		}
		return nil, err
	}
	return sess, nil
}

// runOperation submits req and saves the artifact.
func runOperation(cmd *cobra.Command, a *appContext, sess *types.Session, spec operation.Spec, req operation.Request) (engine.Outcome, error) {
	runner := engine.New(spec, a.channel, a.registry, engine.WithLogger(a.logger.With(zap.String("user", sess.DisplayName))))
	defer runner.Close()
	unsubscribe := runner.Subscribe(a.printer.Render)
	defer unsubscribe()

	out, err := runner.Submit(cmd.Context(), req)
	if err != nil {
		// The runner already reported the failure through its status.
		return engine.Outcome{}, &reportedError{err: err}
	}

	path, _ := cmd.Flags().GetString("output")
	if err := runner.Save(path); err != nil {
		return engine.Outcome{}, err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, %d bytes)\n", path, out.Artifact.ContentType, out.Artifact.Size)
	return out, nil
}

// inputFiles reads paths into files bound to field.
func inputFiles(field string, paths ...string) ([]operation.File, error) {
	files := make([]operation.File, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		f, err := operation.FileFromPath(field, p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// fileRequest builds a request from the positional files bound to field
// plus flag values. params maps flag names to parameter names.
func fileRequest(field string, params map[string]string) func(cmd *cobra.Command, args []string) (operation.Request, error) {
	return func(cmd *cobra.Command, args []string) (operation.Request, error) {
		req := operation.Request{}
		files, err := inputFiles(field, args...)
		if err != nil {
			return req, err
		}
		req.Files = files
		for flagName, param := range params {
			if f := cmd.Flags().Lookup(flagName); f != nil {
				req.Set(param, f.Value.String())
			}
		}
		return req, nil
	}
}
