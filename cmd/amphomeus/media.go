package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"amphomeus/internal/client"
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Upload or delete stored media directly",
}

var uploadMediaCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a photo or video and print the stored asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}

		f, err := client.FileFromPath(args[0])
		if err != nil {
			return err
		}
		if f.Size > client.MaxUploadBytes {
			return fmt.Errorf("%s exceeds the %dMB limit", f.Name, client.MaxUploadBytes>>20)
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		res, err := api.UploadMedia(cmd.Context(), f.Name, rc)
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", f.Name, err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

var deleteMediaCmd = &cobra.Command{
	Use:   "delete [public-id]",
	Short: "Delete a stored asset by its public id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}

		res, err := api.DeleteMedia(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete media: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], res.Result)
		return nil
	},
}

func initMediaCmd() {
	mediaCmd.AddCommand(
		uploadMediaCmd,
		deleteMediaCmd,
	)
}
