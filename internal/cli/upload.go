package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a project image (admin)",
	Long: `Upload an image and print the URL to use as a project image.

Accepted types: JPEG, PNG, GIF, WebP, up to 5MB.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.requireAdmin(ctx); err != nil {
		return err
	}

	url, err := a.client.UploadFile(ctx, args[0])
	if err != nil {
		if url == "" {
			return fmt.Errorf("%s", describe(err))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Upload failed: %s\n", describe(err))
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", url)
		return fmt.Errorf("upload failed, placeholder is %s", url)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", url)
	return nil
}
