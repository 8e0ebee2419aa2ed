package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/metadown/enrich"
	"github.com/lehigh-university-libraries/metadown/geonetwork"
	"github.com/lehigh-university-libraries/metadown/profile"
)

var catalogsCmd = &cobra.Command{
	Use:   "catalogs",
	Short: "Manage saved catalog profiles",
	Long: `Manage named GeoNetwork catalogs. Profiles are stored in
~/.metadown/catalogs/ and can be harvested with --catalog.

Examples:
  metadown catalogs add noaa https://data.example.org/geonetwork --namer uuid --mode keywords
  metadown catalogs list
  metadown catalogs show noaa
  metadown catalogs remove noaa`,
}

var catalogsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved catalogs",
	RunE:  runCatalogsList,
}

var catalogsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a catalog profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogsShow,
}

var catalogsAddCmd = &cobra.Command{
	Use:   "add <name> <base-url>",
	Short: "Save a catalog profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runCatalogsAdd,
}

var catalogsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a catalog profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogsRemove,
}

var (
	catalogDescription string
	catalogOutput      string
	catalogForce       bool
)

func init() {
	catalogsCmd.AddCommand(catalogsListCmd)
	catalogsCmd.AddCommand(catalogsShowCmd)
	catalogsCmd.AddCommand(catalogsAddCmd)
	catalogsCmd.AddCommand(catalogsRemoveCmd)

	catalogsAddCmd.Flags().StringVarP(&catalogDescription, "description", "d", "", "Human-readable description")
	catalogsAddCmd.Flags().StringVarP(&catalogOutput, "output", "o", "", "Output directory for this catalog")
	catalogsAddCmd.Flags().BoolVarP(&catalogForce, "force", "f", false, "Replace an existing profile")
}

func runCatalogsList(cmd *cobra.Command, args []string) error {
	names, err := profile.List()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("No catalogs found.")
		fmt.Println("\nAdd one with:")
		fmt.Println("  metadown catalogs add <name> <base-url>")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBASE URL\tDESCRIPTION")
	fmt.Fprintln(w, "----\t--------\t-----------")

	for _, name := range names {
		p, err := profile.Load(name)
		if err != nil {
			fmt.Fprintf(w, "%s\t?\terror loading\n", name)
			continue
		}
		desc := p.Description
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.BaseURL, desc)
	}
	w.Flush()

	return nil
}

func runCatalogsShow(cmd *cobra.Command, args []string) error {
	p, err := profile.Load(args[0])
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(p)
	if err != nil {
		return err
	}

	fmt.Print(string(out))
	return nil
}

func runCatalogsAdd(cmd *cobra.Command, args []string) error {
	name, baseURL := args[0], args[1]

	if profile.Exists(name) && !catalogForce {
		return fmt.Errorf("catalog %q already exists (use --force to replace it)", name)
	}

	p := &profile.Profile{
		Name:        name,
		BaseURL:     baseURL,
		Description: catalogDescription,
		Output:      catalogOutput,
	}

	// --mode and --namer are stored only when given explicitly.
	if cmd.Flags().Changed("mode") {
		p.Mode, _ = cmd.Flags().GetString("mode")
		if _, err := enrich.Get(p.Mode); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("namer") {
		p.Namer, _ = cmd.Flags().GetString("namer")
		if _, err := geonetwork.NewNamer(p.Namer, nil); err != nil {
			return err
		}
	}
	if err := p.Save(); err != nil {
		return err
	}

	path, _ := profile.Path(name)
	fmt.Printf("Saved catalog %s to %s\n", name, path)
	return nil
}

func runCatalogsRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := profile.Delete(name); err != nil {
		return err
	}

	fmt.Printf("Deleted catalog: %s\n", name)
	return nil
}
