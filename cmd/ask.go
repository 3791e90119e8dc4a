package cmd

import (
	"errors"
	"strings"

	"github.com/bz888/medirag/internal/logger"
	"github.com/bz888/medirag/internal/model"
	"github.com/bz888/medirag/internal/printer"
	"github.com/spf13/cobra"
)

var errEmptyQuestion = errors.New("question cannot be empty")

func newAskCmd(o *options) *cobra.Command {
	var (
		modelName string
		plain     bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.InitLogger(o.cfg.Dev, o.cfg.LogPath, nil); err != nil {
				return err
			}
			defer closeLogger()

			sess, err := o.newSession()
			if err != nil {
				return err
			}
			if modelName != "" {
				m, err := model.Parse(modelName)
				if err != nil {
					return err
				}
				if err := sess.SelectModel(m); err != nil {
					return err
				}
			}

			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return errEmptyQuestion
			}
			p := printer.New(cmd.OutOrStdout(), plain)
			if !plain {
				if err := p.Question(question); err != nil {
					return err
				}
			}

			if !sess.Submit(cmd.Context(), question) {
				return errEmptyQuestion
			}
			v := sess.Snapshot()
			if err := p.View(v); err != nil {
				return err
			}
			if v.Failed() {
				return errQueryFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelName, "model", "m", "", "Model to use: ollama or gemini (default depends on --production)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print without colors or styling")
	return cmd
}
