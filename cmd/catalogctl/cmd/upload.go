package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/catalog-sdk/internal/app"
	"github.com/samvad-hq/catalog-sdk/pkg/catalog"
)

func uploadImageCmd() *cobra.Command {
	var (
		imageURL string
		file     string
		page     string
	)

	cmd := &cobra.Command{
		Use:   "upload-image",
		Short: "Upload a product image",
		Long: "Upload an image to the catalog server from a remote URL, a local file\n" +
			"or the preview image of a product page.",
		Example: `  # Upload from a remote URL
  catalogctl upload-image --url https://cdn.example.com/p/123.jpg

  # Upload a local file as an inline data URL
  catalogctl upload-image --file ./shoe.png

  # Resolve the og:image of a product page and upload it
  catalogctl upload-image --page https://shop.example.com/p/123`,
		RunE: func(c *cobra.Command, _ []string) error {
			set := 0
			for _, s := range []string{imageURL, file, page} {
				if s != "" {
					set++
				}
			}
			if set > 1 {
				return errors.New("use only one of --url, --file or --page")
			}

			return withRuntime(func(ctx context.Context, rt *app.Runtime) error {
				in, err := uploadInput(ctx, rt, imageURL, file, page)
				if err != nil {
					return err
				}
				client, err := rt.Client()
				if err != nil {
					return err
				}
				res, err := client.UploadImage(ctx, in)
				if err != nil {
					return err
				}
				return printResult(c.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVar(&imageURL, "url", "", "remote image URL")
	cmd.Flags().StringVar(&file, "file", "", "local image file")
	cmd.Flags().StringVar(&page, "page", "", "product page whose preview image is uploaded")

	return cmd
}

func uploadInput(ctx context.Context, rt *app.Runtime, imageURL, file, page string) (catalog.UploadImageInput, error) {
	switch {
	case file != "":
		data, err := catalog.ImageDataURLFromFile(file)
		if err != nil {
			return catalog.UploadImageInput{}, err
		}
		return catalog.UploadImageInput{ImageBase64: data}, nil
	case page != "":
		resolved, err := rt.ImageResolver().Resolve(ctx, page)
		if err != nil {
			return catalog.UploadImageInput{}, fmt.Errorf("resolve page image: %w", err)
		}
		return catalog.UploadImageInput{ImageURL: resolved}, nil
	default:
		return catalog.UploadImageInput{ImageURL: imageURL}, nil
	}
}
