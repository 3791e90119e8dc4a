package cmd

import (
	"github.com/bz888/medirag/internal/logger"
	"github.com/bz888/medirag/internal/stub"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newStubCmd(o *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve a stand-in MediRAG API with canned answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.InitLogger(true, o.cfg.LogPath, nil); err != nil {
				return err
			}
			defer closeLogger()

			if !o.cfg.Dev {
				gin.SetMode(gin.ReleaseMode)
			}

			return stub.Run(cmd.Context(), addr, stub.NewHandler(stub.DefaultAnswerers()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "Address to listen on")
	return cmd
}
