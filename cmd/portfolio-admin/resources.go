package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"portfolio-admin/internal/dashboard"
	"portfolio-admin/internal/imaging"
	"portfolio-admin/internal/models"
	"portfolio-admin/internal/resource"
)

func runList(a *app, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	retries := fs.Int("retries", 1, "Attempts on network or 5xx failures")
	asJSON := fs.Bool("json", false, "Print JSON instead of a table")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage: portfolio-admin list [options] <products|reviews|movies|fitness>

List entries. When the API cannot be reached, products and reviews fall
back to the built-in sample data.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("resource is required")
	}

	tab, err := dashboard.ParseTab(fs.Arg(0))
	if err != nil || tab == dashboard.TabCleanup {
		return fmt.Errorf("unknown resource %q", fs.Arg(0))
	}

	policy := resource.PolicyFromConfig(a.cfg.SeedPolicy)
	switch tab {
	case dashboard.TabProducts:
		return list(a, resource.NewProducts(a.client, policy), *retries, *asJSON, printProducts)
	case dashboard.TabReviews:
		return list(a, resource.NewReviews(a.client), *retries, *asJSON, printReviews)
	case dashboard.TabMovies:
		return list(a, resource.NewMovies(a.client, policy), *retries, *asJSON, printMovies)
	default:
		return list(a, resource.NewFitness(a.client, policy), *retries, *asJSON, printFitness)
	}
}

// list prints whatever the controller holds after loading. A failed load
// that fell back to sample data is reported but not fatal.
func list[T, In any](a *app, c *resource.Controller[T, In], retries int, asJSON bool, render func(io.Writer, []T)) error {
	err := a.retry(retries, func() error { return c.Load(a.ctx) })

	state := c.State()
	if err != nil && len(state.Items) == 0 {
		return err
	}
	if err != nil {
		a.toaster.Failure(c.Name(), "load "+c.Name()+", showing sample data", err)
	}

	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(state.Items)
	}

	return printTable(a, state.Items, render)
}

func printTable[T any](a *app, items []T, render func(io.Writer, []T)) error {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	render(w, items)
	return w.Flush()
}

func printProducts(w io.Writer, items []models.Product) {
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY\tIMAGE")
	for _, p := range items {
		fmt.Fprintf(w, "%d\t%s\t$%.2f\t%s\t%s\n", p.ID, p.Name, p.Price, p.Category, p.Image)
	}
}

func printReviews(w io.Writer, items []models.Review) {
	fmt.Fprintln(w, "ID\tNAME\tRATING\tDATE\tPRODUCT")
	for _, r := range items {
		fmt.Fprintf(w, "%d\t%s\t%d/5\t%s\t%s\n", r.ID, r.Name, r.Rating, r.Date, r.Product)
	}
}

func printMovies(w io.Writer, items []models.MovieReview) {
	fmt.Fprintln(w, "ID\tTITLE\tYEAR\tRATING\tPOSTER")
	for _, m := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d/5\t%s\n", m.ID, m.Title, m.Year, m.Rating, m.Poster)
	}
}

func printFitness(w io.Writer, items []models.FitnessMilestone) {
	fmt.Fprintln(w, "ID\tYEAR\tMILESTONE\tIMAGE")
	for _, f := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", f.ID, f.Year, f.Milestone, f.Image)
	}
}

func runAdd(a *app, args []string) error {
	if len(args) < 1 {
		return addUsage(a.out)
	}
	switch args[0] {
	case "product":
		return runAddProduct(a, args[1:])
	case "movie":
		return runAddMovie(a, args[1:])
	case "fitness":
		return runAddFitness(a, args[1:])
	default:
		return addUsage(a.out)
	}
}

func addUsage(w io.Writer) error {
	fmt.Fprintf(w, `Usage: portfolio-admin add <kind> [options]

Kinds:
  product   Add a product
  movie     Add a movie review
  fitness   Add a fitness milestone
`)
	return fmt.Errorf("add kind is required")
}

// openImage loads path when it is set. An empty path means no file picked.
func (a *app) openImage(path string) (*imaging.File, error) {
	if path == "" {
		return nil, nil
	}
	return imaging.Open(path, a.cfg.MaxUploadBytes)
}

func runAddProduct(a *app, args []string) error {
	fs := flag.NewFlagSet("add product", flag.ContinueOnError)
	name := fs.String("name", "", "Product name")
	price := fs.Float64("price", 0, "Price")
	description := fs.String("description", "", "Description")
	category := fs.String("category", string(models.CategoryBusiness), "Category: fitness, movies or business")
	image := fs.String("image", "", "Image file to upload (JPEG, PNG, GIF or WebP)")
	imageURL := fs.String("image-url", "", "Existing image URL, used when -image is not set")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: portfolio-admin add product [options]\n\nAdd a product. An image is required.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	file, err := a.openImage(*image)
	if err != nil {
		return err
	}
	d, err := a.openDashboard(false)
	if err != nil {
		return err
	}

	created, err := d.AddProduct(a.ctx, resource.Draft[models.ProductInput]{
		Fields: models.ProductInput{
			Name:        *name,
			Price:       *price,
			Description: *description,
			Category:    models.Category(*category),
			Image:       *imageURL,
		},
		Image: file,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created product %d (%s)\n", created.ID, created.Image)
	return nil
}

func runAddMovie(a *app, args []string) error {
	fs := flag.NewFlagSet("add movie", flag.ContinueOnError)
	title := fs.String("title", "", "Movie title")
	year := fs.String("year", "", "Release year")
	rating := fs.Int("rating", 5, "Rating from 1 to 5")
	vision := fs.String("vision", "", "Review text")
	poster := fs.String("poster", "", "Poster file to upload")
	posterURL := fs.String("poster-url", "", "Existing poster URL, used when -poster is not set")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: portfolio-admin add movie [options]\n\nAdd a movie review. A poster is required.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	file, err := a.openImage(*poster)
	if err != nil {
		return err
	}
	d, err := a.openDashboard(false)
	if err != nil {
		return err
	}

	created, err := d.AddMovie(a.ctx, resource.Draft[models.MovieInput]{
		Fields: models.MovieInput{
			Title:  *title,
			Year:   *year,
			Rating: *rating,
			Vision: *vision,
			Poster: *posterURL,
		},
		Image: file,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created movie review %d (%s)\n", created.ID, created.Poster)
	return nil
}

func runAddFitness(a *app, args []string) error {
	fs := flag.NewFlagSet("add fitness", flag.ContinueOnError)
	year := fs.String("year", "", "Year of the milestone")
	milestone := fs.String("milestone", "", "Milestone title")
	description := fs.String("description", "", "Description")
	image := fs.String("image", "", "Image file to upload")
	imageURL := fs.String("image-url", "", "Existing image URL, used when -image is not set")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: portfolio-admin add fitness [options]\n\nAdd a fitness milestone. An image is required.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	file, err := a.openImage(*image)
	if err != nil {
		return err
	}
	d, err := a.openDashboard(false)
	if err != nil {
		return err
	}

	created, err := d.AddFitness(a.ctx, resource.Draft[models.FitnessInput]{
		Fields: models.FitnessInput{
			Year:        *year,
			Milestone:   *milestone,
			Description: *description,
			Image:       *imageURL,
		},
		Image: file,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created fitness milestone %d (%s)\n", created.ID, created.Image)
	return nil
}

func runReview(a *app, args []string) error {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	name := fs.String("name", "", "Your name")
	product := fs.String("product", "", "Product reviewed")
	rating := fs.Int("rating", 5, "Rating from 1 to 5")
	text := fs.String("review", "", "Review text")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: portfolio-admin review [options]\n\nSubmit a customer review. No login needed.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	created, err := a.dashboard(false).SubmitReview(a.ctx, models.ReviewInput{
		Name:    *name,
		Product: *product,
		Rating:  *rating,
		Review:  *text,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Review %d submitted\n", created.ID)
	return nil
}

func runDelete(a *app, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: portfolio-admin delete [options] <products|reviews|movies|fitness> <id>\n\nDelete an entry by id.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("resource and id are required")
	}

	tab, err := dashboard.ParseTab(fs.Arg(0))
	if err != nil || tab == dashboard.TabCleanup {
		return fmt.Errorf("unknown resource %q", fs.Arg(0))
	}
	id, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("invalid id %q", fs.Arg(1))
	}

	d, err := a.openDashboard(*yes)
	if err != nil {
		return err
	}

	deleted, err := deleteFrom(a, d, tab, id)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(a.out, "Cancelled.")
	}
	return nil
}

func deleteFrom(a *app, d *dashboard.Dashboard, tab dashboard.Tab, id int) (bool, error) {
	switch tab {
	case dashboard.TabProducts:
		return d.DeleteProduct(a.ctx, id)
	case dashboard.TabReviews:
		return d.DeleteReview(a.ctx, id)
	case dashboard.TabMovies:
		return d.DeleteMovie(a.ctx, id)
	case dashboard.TabFitness:
		return d.DeleteFitness(a.ctx, id)
	}
	return false, fmt.Errorf("cannot delete from %s", tab)
}
