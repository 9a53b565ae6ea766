package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/catalog-sdk/internal/app"
	"github.com/samvad-hq/catalog-sdk/pkg/catalog"
)

func addProductCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add-product",
		Short: "Add or update a product",
		Long: "Send a product with its subproducts to the catalog. The server\n" +
			"deduplicates on sourceProductId, so re-sending updates the product.",
		Example: `  catalogctl add-product --file ./product.json`,
		RunE: func(c *cobra.Command, _ []string) error {
			in, err := readProduct(file)
			if err != nil {
				return err
			}
			return withRuntime(func(ctx context.Context, rt *app.Runtime) error {
				client, err := rt.Client()
				if err != nil {
					return err
				}
				res, err := client.AddProduct(ctx, in)
				if err != nil {
					return err
				}
				return printResult(c.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding the product (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readProduct(path string) (catalog.ProductInput, error) {
	var in catalog.ProductInput
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read product file: %w", err)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse product file: %w", err)
	}
	return in, nil
}

func listProductsCmd() *cobra.Command {
	var (
		productType string
		active      bool
		limit       int
		offset      int
	)

	cmd := &cobra.Command{
		Use:   "list-products",
		Short: "List catalog products",
		Example: `  # First page of active products
  catalogctl list-products

  # Inactive simple products, as a table
  catalogctl list-products --type simple --active=false -o table`,
		RunE: func(c *cobra.Command, _ []string) error {
			q := catalog.ListProductsQuery{
				ProductType: productType,
				Limit:       limit,
				Offset:      offset,
			}
			if c.Flags().Changed("active") {
				q.IsActive = catalog.Bool(active)
			}

			return withRuntime(func(ctx context.Context, rt *app.Runtime) error {
				client, err := rt.Client()
				if err != nil {
					return err
				}
				res, err := client.GetProducts(ctx, q)
				if err != nil {
					return err
				}
				if !tableOutput() || !res.Success {
					return printResult(c.OutOrStdout(), res)
				}

				var page catalog.ProductsPage
				if err := res.Decode(&page); err != nil {
					return err
				}
				if len(page.Products) == 0 {
					fmt.Fprintln(c.OutOrStdout(), "No products found.")
					return nil
				}
				return printProductsTable(c.OutOrStdout(), &page)
			})
		},
	}

	cmd.Flags().StringVar(&productType, "type", "", "product type filter (default auto)")
	cmd.Flags().BoolVar(&active, "active", true, "list active products")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default 50)")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")

	return cmd
}

func deleteProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete-product <friendlyId>",
		Short:   "Delete a product by its friendly ID",
		Example: `  catalogctl delete-product 1042`,
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid friendly ID %q: %w", args[0], err)
			}
			return withRuntime(func(ctx context.Context, rt *app.Runtime) error {
				client, err := rt.Client()
				if err != nil {
					return err
				}
				res, err := client.DeleteProduct(ctx, id)
				if err != nil {
					return err
				}
				return printResult(c.OutOrStdout(), res)
			})
		},
	}
}
