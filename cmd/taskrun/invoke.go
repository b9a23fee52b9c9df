package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/jecoz/taskrunner"
	"github.com/jecoz/taskrunner/config"
	"github.com/jecoz/taskrunner/ecs"
	"github.com/jecoz/taskrunner/logging"
	"github.com/spf13/cobra"
)

func newInvokeCmd() *cobra.Command {
	var file, format string

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Dispatch one event to ECS, exactly as the Lambda function does",
		Long: `Read an event document (JSON or YAML) from a file or stdin, run it
through the handler and print the RunTask output as JSON, with the
member names the ECS API uses (tasks, failures).

Credentials and region come from the usual AWS environment; set
AWS_ENDPOINT_URL to target a local stack.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var e taskrunner.Event
			if err := readEvent(&e, cmd.InOrStdin(), file, format); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			lg, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			sess, err := session.NewSession(cfg.AWSConfig())
			if err != nil {
				return fmt.Errorf("aws session: %w", err)
			}

			h := taskrunner.NewHandler(ecs.NewRunner(sess), lg)
			out, err := h.Invoke(cmd.Context(), e)
			if err != nil {
				return err
			}
			var b bytes.Buffer
			if err := json.Indent(&b, out, "", "\t"); err != nil {
				return err
			}
			b.WriteByte('\n')
			_, err = b.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Event file, - reads stdin")
	cmd.Flags().StringVar(&format, "format", "", "Event encoding: json or yaml (default from file extension, json for stdin)")
	return cmd
}

func readEvent(e *taskrunner.Event, stdin io.Reader, file, format string) error {
	r := stdin
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	if format == "" {
		format = "json"
		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml":
			format = "yaml"
		}
	}

	switch format {
	case "json":
		if err := taskrunner.DecodeEvent(e, r); err != nil {
			return fmt.Errorf("decoding event: %w", err)
		}
		return nil
	case "yaml":
		return taskrunner.DecodeEventYAML(e, r)
	default:
		return fmt.Errorf("unknown event format %q", format)
	}
}
